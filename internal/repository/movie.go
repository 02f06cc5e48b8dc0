package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/movieapi/internal/model"
	"gorm.io/gorm"
)

// ErrMovieNotFound 指定 ID 的电影不存在
var ErrMovieNotFound = errors.New("movie not found")

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Insert 创建电影，created_at 与 updated_at 取同一时刻
func (r *MovieRepository) Insert(ctx context.Context, title, genre, year string) (*model.Movie, error) {
	db := r.db.WithContext(ctx)
	now := db.NowFunc()
	movie := &model.Movie{
		Title:     title,
		Genre:     genre,
		Year:      year,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := db.Create(movie).Error; err != nil {
		return nil, fmt.Errorf("创建电影失败: %w", err)
	}
	return movie, nil
}

// Get 根据 ID 查找电影
func (r *MovieRepository) Get(ctx context.Context, id int64) (*model.Movie, error) {
	return findByID(r.db.WithContext(ctx), id)
}

// ListAll 按创建顺序返回全部电影
func (r *MovieRepository) ListAll(ctx context.Context) ([]model.Movie, error) {
	movies := []model.Movie{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("查询电影列表失败: %w", err)
	}
	return movies, nil
}

// Update 整体替换 title/genre/year 并刷新 updated_at
func (r *MovieRepository) Update(ctx context.Context, id int64, title, genre, year string) (*model.Movie, error) {
	var updated *model.Movie
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findByID(tx, id)
		if err != nil {
			return err
		}

		// updated_at 不允许倒退
		now := tx.NowFunc()
		if now.Before(current.UpdatedAt) {
			now = current.UpdatedAt
		}

		result := tx.Model(&model.Movie{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title":      title,
			"genre":      genre,
			"year":       year,
			"updated_at": now,
		})
		if result.Error != nil {
			return fmt.Errorf("更新电影失败: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrMovieNotFound
		}

		updated, err = findByID(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete 物理删除电影
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Movie{}, id)
	if result.Error != nil {
		return fmt.Errorf("删除电影失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// Count 获取电影总数
func (r *MovieRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Movie{}).Count(&count).Error
	return count, err
}

func findByID(db *gorm.DB, id int64) (*model.Movie, error) {
	var movie model.Movie
	err := db.First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMovieNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}
	return &movie, nil
}
