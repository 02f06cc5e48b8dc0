package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/user/movieapi/internal/config"
	"github.com/user/movieapi/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接并建表
func InitDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormLogger(cfg, log),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "postgres":
		db, err = openPostgres(cfg.DatabaseURL, gormCfg)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	if cfg.DBDriver == "sqlite" {
		// SQLite 同一时间只允许一个写入者
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// openPostgres 使用 lib/pq 建立连接，再交给 gorm 管理
func openPostgres(databaseURL string, gormCfg *gorm.Config) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("初始化 gorm 失败: %w", err)
	}
	return db, nil
}

// Migrate 自动建表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Movie{}); err != nil {
		return fmt.Errorf("自动建表失败: %w", err)
	}
	return nil
}

// gormLogger 开发环境输出慢查询和错误，其余环境静默
func gormLogger(cfg *config.Config, log *slog.Logger) logger.Interface {
	if cfg.Env != "development" {
		return logger.Discard
	}
	return logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Repositories 仓库集合
type Repositories struct {
	DB    *gorm.DB
	Movie *MovieRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:    db,
		Movie: NewMovieRepository(db),
	}
}

// Close 关闭底层连接池
func (r *Repositories) Close() error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
