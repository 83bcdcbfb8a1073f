package models

import (
	"time"
)

// 用户角色
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	Username    string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email       string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName   string `gorm:"size:150" json:"first_name"`
	LastName    string `gorm:"size:150" json:"last_name"`
	Bio         string `gorm:"type:text" json:"bio"`
	Role        string `gorm:"size:20;default:'user';not null" json:"role"` // user, moderator, admin
	IsSuperuser bool   `gorm:"default:false" json:"-"`

	// 确认码只保存 bcrypt 哈希，原文通过邮件送达
	ConfirmationCodeHash string     `gorm:"size:100" json:"-"`
	CodeIssuedAt         *time.Time `json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	// No DeletedAt for hard delete
}

// ValidRole 检查角色取值是否合法
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
