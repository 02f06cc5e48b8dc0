package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/user/movieapi/internal/config"
	"github.com/user/movieapi/internal/handler"
	"github.com/user/movieapi/internal/repository"
	"github.com/user/movieapi/internal/router"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	log := newLogger(cfg)
	if envErr != nil {
		log.Info("未找到 .env 文件，使用系统环境变量")
	}

	if err := run(cfg, log); err != nil {
		log.Error("服务异常退出", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("服务器已退出")
}

func run(cfg *config.Config, log *slog.Logger) error {
	// 初始化数据库
	db, err := repository.InitDB(cfg, log)
	if err != nil {
		return err
	}
	repos := repository.NewRepositories(db)
	defer func() {
		if err := repos.Close(); err != nil {
			log.Error("关闭数据库连接失败", slog.Any("error", err))
		}
	}()
	log.Info("数据库连接成功", slog.String("driver", cfg.DBDriver))

	// 初始化 Handler
	h, err := handler.NewHandler(repos.Movie, cfg, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router.NewEngine(h, log),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    time.Minute,
		MaxHeaderBytes: 1 << 20,
		ErrorLog:       slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	// kill (no parameter) 默认发送 syscall.SIGTERM，kill -2 是 syscall.SIGINT
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("服务器启动", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("正在关闭服务器...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
