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

const genreListCacheKey = "genre:list:first"

type GenreHandler struct{}

func NewGenreHandler() *GenreHandler {
	return &GenreHandler{}
}

// List 流派列表，支持 ?search= 按名称模糊匹配
func (h *GenreHandler) List(c *gin.Context) {
	limit, offset := ParsePagination(c)
	search := c.Query("search")

	cacheable := search == "" && offset == 0 && c.Query("limit") == ""
	if cacheable {
		if cached := utils.GetCache().Get(genreListCacheKey); cached != nil {
			if data, ok := cached.(gin.H); ok {
				c.JSON(http.StatusOK, data)
				return
			}
		}
	}

	query := db.DB.Model(&models.Genre{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var genres []models.Genre
	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&genres).Error; err != nil {
		DBError(c, err)
		return
	}

	if cacheable {
		utils.GetCache().Set(genreListCacheKey, gin.H{"count": total, "results": genres}, time.Minute)
	}
	Paginated(c, total, genres)
}

// Create 新建流派，仅管理员
func (h *GenreHandler) Create(c *gin.Context) {
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

	genre := models.Genre{Name: req.Name, Slug: req.Slug}
	if err := db.DB.Create(&genre).Error; err != nil {
		DBError(c, err)
		return
	}

	utils.GetCache().Delete(genreListCacheKey)
	c.JSON(http.StatusCreated, genre)
}

// Delete 删除流派，作品上的关联记录级联清除
func (h *GenreHandler) Delete(c *gin.Context) {
	if !policy.CanManageCatalog(CurrentUser(c)) {
		Forbidden(c)
		return
	}

	slug := c.Param("slug")

	var genre models.Genre
	if err := db.DB.Where("slug = ?", slug).First(&genre).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Genre not found.")
		} else {
			DBError(c, err)
		}
		return
	}

	// 先摘掉作品关联，再删除流派本身（外键 CASCADE 兜底）
	if err := db.DB.Exec("DELETE FROM title_genres WHERE genre_id = ?", genre.ID).Error; err != nil {
		DBError(c, err)
		return
	}
	if err := db.DB.Delete(&genre).Error; err != nil {
		DBError(c, err)
		return
	}

	utils.GetCache().Delete(genreListCacheKey)
	c.Status(http.StatusNoContent)
}
