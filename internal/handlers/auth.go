package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/v-tox/api-yamdb/internal/db"
	"github.com/v-tox/api-yamdb/internal/models"
	"github.com/v-tox/api-yamdb/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService: services.NewMailService(),
	}
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type tokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// issueCode 为用户生成新确认码、落库并发信
func (h *AuthHandler) issueCode(user *models.User) error {
	code, hash, err := services.GenerateConfirmationCode()
	if err != nil {
		return err
	}

	now := time.Now()
	user.ConfirmationCodeHash = hash
	user.CodeIssuedAt = &now
	if err := db.DB.Save(user).Error; err != nil {
		return err
	}

	h.mailService.SendConfirmationEmail(user.Email, user.Username, code)
	return nil
}

// Signup 注册：相同 (username, email) 重复请求视为换码，不建新用户
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	if err := models.ValidateUsername(req.Username); err != nil {
		FieldError(c, http.StatusBadRequest, "username", err.Error())
		return
	}

	// 幂等路径：同一对 username+email 已存在，重发确认码即可
	var existing models.User
	err := db.DB.Where("username = ? AND email = ?", req.Username, req.Email).First(&existing).Error
	if err == nil {
		if err := h.issueCode(&existing); err != nil {
			DBError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": existing.Username, "email": existing.Email})
		return
	}
	if err != gorm.ErrRecordNotFound {
		DBError(c, err)
		return
	}

	// username 或 email 被另一个账号占用则拒绝
	var count int64
	if err := db.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		DBError(c, err)
		return
	}
	if count > 0 {
		FieldError(c, http.StatusBadRequest, "username", "A user with that username already exists.")
		return
	}
	if err := db.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		DBError(c, err)
		return
	}
	if count > 0 {
		FieldError(c, http.StatusBadRequest, "email", "A user with that email already exists.")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     models.RoleUser,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		// 并发注册同名用户时由唯一索引兜底
		DBError(c, err)
		return
	}

	if err := h.issueCode(&user); err != nil {
		DBError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Username, "email": user.Email})
}

// Token 用确认码换取访问令牌
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	var user models.User
	if err := db.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "User not found.")
			return
		}
		DBError(c, err)
		return
	}

	if err := services.CheckConfirmationCode(user.ConfirmationCodeHash, req.ConfirmationCode, user.CodeIssuedAt); err != nil {
		// 错误码原样回显，便于排查；码本身不因失败尝试而失效
		FieldError(c, http.StatusBadRequest, "confirmation_code",
			fmt.Sprintf("Invalid confirmation code %s", req.ConfirmationCode))
		return
	}

	// 确认码一次性：成功兑换后清除
	user.ConfirmationCodeHash = ""
	user.CodeIssuedAt = nil
	if err := db.DB.Save(&user).Error; err != nil {
		DBError(c, err)
		return
	}

	token, err := services.GetTokenService().Issue(user.ID)
	if err != nil {
		DetailError(c, http.StatusInternalServerError, "Failed to issue token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
