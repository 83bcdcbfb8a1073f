package models

import (
	"time"
)

type Review struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Score    int    `gorm:"not null" json:"score"` // 1-10
	AuthorID uint   `gorm:"not null;index;uniqueIndex:idx_review_title_author" json:"-"`
	Author   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TitleID  uint   `gorm:"not null;index;uniqueIndex:idx_review_title_author" json:"-"`
	Title    Title  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	// 组合唯一索引保证一个用户对一个作品只能有一条评论，
	// 并发重复创建由数据库层兜底
	PubDate time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
}
