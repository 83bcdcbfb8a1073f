package models

import (
	"time"
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
