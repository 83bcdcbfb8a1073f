package models

import (
	"time"
)

type Title struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Year        int       `gorm:"not null" json:"year"`
	Description string    `gorm:"size:200" json:"description"`
	CategoryID  *uint     `gorm:"index" json:"-"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category"`
	Genres      []Genre   `gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;" json:"genre"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// 非数据库字段，评分均值在查询时填充；无评论时为 null，不是 0
	Rating *float64 `gorm:"-" json:"rating"`
}
