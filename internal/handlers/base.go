package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/v-tox/api-yamdb/internal/middleware"
	"github.com/v-tox/api-yamdb/internal/models"
	"github.com/v-tox/api-yamdb/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// 分页默认值
const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// CurrentUser 取出 LoadUser 挂载的当前用户，匿名时返回 nil
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(middleware.CheckUserKey); exists {
		return u.(*models.User)
	}
	return nil
}

// FieldError 字段级错误: {"field": ["message"]}
func FieldError(c *gin.Context, code int, field, message string) {
	c.JSON(code, gin.H{field: []string{message}})
}

// jsonFieldName 把结构体字段名转成 snake_case 的 JSON 键
func jsonFieldName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func bindMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}

// BindError 把绑定失败翻译成字段级错误；非校验类错误（如 JSON 语法错误）给整体提示
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := gin.H{}
		for _, fe := range verrs {
			out[jsonFieldName(fe.Field())] = []string{bindMessage(fe)}
		}
		c.JSON(http.StatusBadRequest, out)
		return
	}
	DetailError(c, http.StatusBadRequest, "Malformed request body.")
}

// DetailError 整体错误: {"detail": "message"}
func DetailError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"detail": message})
}

// Forbidden 权限拒绝
func Forbidden(c *gin.Context) {
	DetailError(c, http.StatusForbidden, "You do not have permission to perform this action.")
}

// NotFound 资源不存在
func NotFound(c *gin.Context, message string) {
	DetailError(c, http.StatusNotFound, message)
}

// DBError 把存储层错误翻译成对外的错误类别，不泄露原始错误
func DBError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "Not found.")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		DetailError(c, http.StatusConflict, "Resource with this identity already exists.")
	default:
		DetailError(c, http.StatusInternalServerError, "Internal server error.")
	}
}

// ParsePagination 解析 limit/offset 查询参数
func ParsePagination(c *gin.Context) (limit, offset int) {
	limit = utils.StringToInt(c.Query("limit"), defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset = utils.StringToInt(c.Query("offset"), 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Paginated 列表响应包装: {"count": N, "results": [...]}
func Paginated(c *gin.Context, count int64, results interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"count":   count,
		"results": results,
	})
}
