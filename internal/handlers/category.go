package handlers

import (
	"net/http"
	"time"

	"github.com/v-tox/api-yamdb/internal/db"
	"github.com/v-tox/api-yamdb/internal/models"
	"github.com/v-tox/api-yamdb/internal/policy"
	"github.com/v-tox/api-yamdb/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const categoryListCacheKey = "category:list:first"

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

type slugResourceRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// List 分类列表，支持 ?search= 按名称模糊匹配
func (h *CategoryHandler) List(c *gin.Context) {
	limit, offset := ParsePagination(c)
	search := c.Query("search")

	// 首页无过滤的列表走缓存
	cacheable := search == "" && offset == 0 && c.Query("limit") == ""
	if cacheable {
		if cached := utils.GetCache().Get(categoryListCacheKey); cached != nil {
			if data, ok := cached.(gin.H); ok {
				c.JSON(http.StatusOK, data)
				return
			}
		}
	}

	query := db.DB.Model(&models.Category{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var categories []models.Category
	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&categories).Error; err != nil {
		DBError(c, err)
		return
	}

	if cacheable {
		utils.GetCache().Set(categoryListCacheKey, gin.H{"count": total, "results": categories}, time.Minute)
	}
	Paginated(c, total, categories)
}

// Create 新建分类，仅管理员
func (h *CategoryHandler) Create(c *gin.Context) {
	if !policy.CanManageCatalog(CurrentUser(c)) {
		Forbidden(c)
		return
	}

	var req slugResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	if err := models.ValidateSlug(req.Slug); err != nil {
		FieldError(c, http.StatusBadRequest, "slug", err.Error())
		return
	}

	category := models.Category{Name: req.Name, Slug: req.Slug}
	if err := db.DB.Create(&category).Error; err != nil {
		DBError(c, err)
		return
	}

	utils.GetCache().Delete(categoryListCacheKey)
	c.JSON(http.StatusCreated, category)
}

// Delete 删除分类，引用它的作品保留，外键置空
func (h *CategoryHandler) Delete(c *gin.Context) {
	if !policy.CanManageCatalog(CurrentUser(c)) {
		Forbidden(c)
		return
	}

	slug := c.Param("slug")

	var category models.Category
	if err := db.DB.Where("slug = ?", slug).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Category not found.")
		} else {
			DBError(c, err)
		}
		return
	}

	if err := db.DB.Delete(&category).Error; err != nil {
		DBError(c, err)
		return
	}

	utils.GetCache().Delete(categoryListCacheKey)
	c.Status(http.StatusNoContent)
}
