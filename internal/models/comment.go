package models

import (
	"time"
)

type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"size:200;not null" json:"text"`
	AuthorID uint      `gorm:"not null;index" json:"-"`
	Author   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ReviewID uint      `gorm:"not null;index" json:"-"`
	Review   Review    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PubDate  time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
}
