package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/user/movieapi/internal/utils"
	"golang.org/x/time/rate"
)

// clientTTL 客户端超过该时长无请求则释放其限流器
const clientTTL = 3 * time.Minute

// RateLimiter 按客户端 IP 的令牌桶限流
type RateLimiter struct {
	clients *cache.Cache
	limit   rate.Limit
	burst   int
}

// NewRateLimiter 创建限流器，rps 为每秒令牌数，burst 为桶容量
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: cache.New(clientTTL, time.Minute),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Allow 消耗 key 对应客户端的一个令牌
func (l *RateLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

// limiter 取出或创建客户端的限流器，每次访问都会续期
func (l *RateLimiter) limiter(key string) *rate.Limiter {
	if v, found := l.clients.Get(key); found {
		lim := v.(*rate.Limiter)
		l.clients.Set(key, lim, cache.DefaultExpiration)
		return lim
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	if err := l.clients.Add(key, lim, cache.DefaultExpiration); err != nil {
		// 并发请求已抢先创建
		if v, found := l.clients.Get(key); found {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// Middleware 超出限额时返回 429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			utils.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
