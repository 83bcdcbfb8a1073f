package handlers

import (
	"net/http"

	"github.com/v-tox/api-yamdb/internal/db"
	"github.com/v-tox/api-yamdb/internal/models"
	"github.com/v-tox/api-yamdb/internal/policy"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

type createUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// updateUserRequest 部分更新，缺省字段保持原值
type updateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// List 用户列表，支持 ?search= 按用户名模糊匹配
func (h *UserHandler) List(c *gin.Context) {
	limit, offset := ParsePagination(c)

	query := db.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		query = query.Where("username ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		DBError(c, err)
		return
	}

	Paginated(c, total, users)
}

// Create 管理员创建用户
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	if err := models.ValidateUsername(req.Username); err != nil {
		FieldError(c, http.StatusBadRequest, "username", err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		FieldError(c, http.StatusBadRequest, "role", "role must be one of: user, moderator, admin")
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		DBError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// getByUsername 按用户名查找，找不到时响应 404 并返回 nil
func (h *UserHandler) getByUsername(c *gin.Context) *models.User {
	username := c.Param("username")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "User not found.")
		} else {
			DBError(c, err)
		}
		return nil
	}
	return &user
}

// Retrieve 用户详情
func (h *UserHandler) Retrieve(c *gin.Context) {
	user := h.getByUsername(c)
	if user == nil {
		return
	}
	c.JSON(http.StatusOK, user)
}

// applyUpdate 应用部分更新；allowRole 控制角色字段是否生效
func applyUpdate(c *gin.Context, user *models.User, req *updateUserRequest, allowRole bool) bool {
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil && allowRole {
		if !models.ValidRole(*req.Role) {
			FieldError(c, http.StatusBadRequest, "role", "role must be one of: user, moderator, admin")
			return false
		}
		user.Role = *req.Role
	}
	// allowRole 为假时角色保持原值，请求整体仍然成功

	if err := db.DB.Save(user).Error; err != nil {
		DBError(c, err)
		return false
	}
	return true
}

// Update 管理员更新用户
func (h *UserHandler) Update(c *gin.Context) {
	user := h.getByUsername(c)
	if user == nil {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	if !applyUpdate(c, user, &req, true) {
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete 管理员删除用户，关联的评价和评论级联删除
func (h *UserHandler) Delete(c *gin.Context) {
	// me 不是可删除的资源名
	if c.Param("username") == "me" {
		DetailError(c, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	user := h.getByUsername(c)
	if user == nil {
		return
	}

	if err := db.DB.Delete(user).Error; err != nil {
		DBError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me 当前用户资料
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentUser(c))
}

// UpdateMe 更新本人资料；非管理员提交的 role 字段被静默忽略
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := CurrentUser(c)

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	if !applyUpdate(c, user, &req, policy.CanSetRole(user)) {
		return
	}
	c.JSON(http.StatusOK, user)
}
