// Package policy 统一的角色/所有权判定。
// 所有端点共用同一组谓词，避免权限规则在各处散落后产生偏差。
package policy

import (
	"github.com/v-tox/api-yamdb/internal/models"
)

// IsAdmin 管理员判定，超级用户视同管理员
func IsAdmin(u *models.User) bool {
	return u != nil && (u.Role == models.RoleAdmin || u.IsSuperuser)
}

// IsModerator 版主判定
func IsModerator(u *models.User) bool {
	return u != nil && u.Role == models.RoleModerator
}

// CanManageCatalog 目录资源（分类/流派/作品）的写权限：仅管理员。
// 读操作不经过此判定，任何人可读。
func CanManageCatalog(u *models.User) bool {
	return IsAdmin(u)
}

// CanModify 评论/评价的写权限：作者本人、版主或管理员
func CanModify(u *models.User, authorID uint) bool {
	if u == nil {
		return false
	}
	return u.ID == authorID || IsModerator(u) || IsAdmin(u)
}

// CanSetRole 角色字段的写权限：仅管理员可改角色，
// 普通用户改自身资料时角色保持原值（静默忽略，不报错）
func CanSetRole(u *models.User) bool {
	return IsAdmin(u)
}
