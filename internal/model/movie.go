package model

import (
	"time"
)

// Movie 电影记录
type Movie struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Genre     string    `json:"genre" gorm:"size:255;not null"`
	Year      string    `json:"year" gorm:"size:255;not null"` // 自由文本，不校验年份格式
	CreatedAt time.Time `json:"created_date" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_date" gorm:"not null;index"`
}

// TableName 表名
func (Movie) TableName() string {
	return "movies"
}

// String 返回电影标题
func (m Movie) String() string {
	return m.Title
}
