package middleware

import (
	"net/http"
	"strings"

	"github.com/v-tox/api-yamdb/internal/db"
	"github.com/v-tox/api-yamdb/internal/models"
	"github.com/v-tox/api-yamdb/internal/policy"
	"github.com/v-tox/api-yamdb/internal/services"

	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser 解析 Bearer 令牌并把当前用户挂到请求上下文。
// 无令牌或令牌无效时不中断请求，只读接口对匿名开放。
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		userID, err := services.GetTokenService().Parse(parts[1])
		if err != nil {
			c.Next()
			return
		}

		// 令牌有效但用户可能已被删除，以数据库为准
		var user models.User
		if result := db.DB.First(&user, userID); result.Error == nil {
			c.Set(CheckUserKey, &user)
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}
		c.Next()
	}
}

// AdminRequired 管理员守卫，用户目录集合接口专用
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, exists := c.Get(CheckUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}
		if !policy.IsAdmin(u.(*models.User)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"detail": "You do not have permission to perform this action.",
			})
			return
		}
		c.Next()
	}
}
