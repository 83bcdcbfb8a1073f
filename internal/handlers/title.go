package handlers

import (
	"net/http"

	"github.com/v-tox/api-yamdb/internal/db"
	"github.com/v-tox/api-yamdb/internal/models"
	"github.com/v-tox/api-yamdb/internal/policy"
	"github.com/v-tox/api-yamdb/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TitleHandler struct{}

func NewTitleHandler() *TitleHandler {
	return &TitleHandler{}
}

type createTitleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Genre       []string `json:"genre"`
}

type updateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// fillRatings 批量填充作品评分均值；无评论的作品保持 nil
func fillRatings(titles []models.Title) error {
	if len(titles) == 0 {
		return nil
	}

	titleIDs := make([]uint, len(titles))
	for i, t := range titles {
		titleIDs[i] = t.ID
	}

	type avgResult struct {
		TitleID uint
		Avg     float64
	}
	var results []avgResult
	if err := db.DB.Model(&models.Review{}).
		Select("title_id, AVG(score) as avg").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&results).Error; err != nil {
		return err
	}

	avgMap := make(map[uint]float64)
	for _, r := range results {
		avgMap[r.TitleID] = r.Avg
	}

	for i := range titles {
		if avg, ok := avgMap[titles[i].ID]; ok {
			titles[i].Rating = &avg
		}
	}
	return nil
}

// resolveCategory 按 slug 解析分类，未知 slug 响应 404
func resolveCategory(c *gin.Context, slug string) *models.Category {
	var category models.Category
	if err := db.DB.Where("slug = ?", slug).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Category not found.")
		} else {
			DBError(c, err)
		}
		return nil
	}
	return &category
}

// resolveGenres 按 slug 集合解析流派，任何一个未知都响应 404
func resolveGenres(c *gin.Context, slugs []string) []models.Genre {
	genres := make([]models.Genre, 0, len(slugs))
	for _, slug := range slugs {
		var genre models.Genre
		if err := db.DB.Where("slug = ?", slug).First(&genre).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				NotFound(c, "Genre not found.")
			} else {
				DBError(c, err)
			}
			return nil
		}
		genres = append(genres, genre)
	}
	return genres
}

// List 作品列表，支持分类 slug、流派 slug、名称子串、年份过滤
func (h *TitleHandler) List(c *gin.Context) {
	limit, offset := ParsePagination(c)

	// 过滤条件对计数和取数各构建一次，避免链式复用的副作用
	filtered := func() *gorm.DB {
		query := db.DB.Model(&models.Title{})
		if categorySlug := c.Query("category"); categorySlug != "" {
			query = query.Joins("JOIN categories ON categories.id = titles.category_id").
				Where("categories.slug = ?", categorySlug)
		}
		if genreSlug := c.Query("genre"); genreSlug != "" {
			query = query.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
				Joins("JOIN genres ON genres.id = title_genres.genre_id").
				Where("genres.slug = ?", genreSlug)
		}
		if name := c.Query("name"); name != "" {
			query = query.Where("titles.name ILIKE ?", "%"+name+"%")
		}
		if yearStr := c.Query("year"); yearStr != "" {
			query = query.Where("titles.year = ?", utils.StringToInt(yearStr, 0))
		}
		return query
	}

	var total int64
	filtered().Distinct("titles.id").Count(&total)

	var titles []models.Title
	if err := filtered().Preload("Category").Preload("Genres").
		Distinct("titles.*").
		Order("titles.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&titles).Error; err != nil {
		DBError(c, err)
		return
	}

	if err := fillRatings(titles); err != nil {
		DBError(c, err)
		return
	}
	Paginated(c, total, titles)
}

// Create 新建作品，仅管理员；分类和流派按 slug 解析
func (h *TitleHandler) Create(c *gin.Context) {
	if !policy.CanManageCatalog(CurrentUser(c)) {
		Forbidden(c)
		return
	}

	var req createTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	if err := models.ValidateYear(req.Year); err != nil {
		FieldError(c, http.StatusBadRequest, "year", err.Error())
		return
	}

	category := resolveCategory(c, req.Category)
	if category == nil {
		return
	}
	genres := resolveGenres(c, req.Genre)
	if genres == nil && len(req.Genre) > 0 {
		return
	}

	title := models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
		Genres:      genres,
	}
	if err := db.DB.Create(&title).Error; err != nil {
		DBError(c, err)
		return
	}

	title.Category = category
	c.JSON(http.StatusCreated, title)
}

// getTitle 按路径 id 查找作品并预加载关联，找不到时响应 404
func getTitle(c *gin.Context) *models.Title {
	id := utils.StringToInt(c.Param("title_id"), 0)

	var title models.Title
	if err := db.DB.Preload("Category").Preload("Genres").First(&title, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Title not found.")
		} else {
			DBError(c, err)
		}
		return nil
	}
	return &title
}

// titleRating 单个作品的评分均值，无评论时为 nil
func titleRating(titleID uint) (*float64, error) {
	var row struct {
		Avg *float64
	}
	err := db.DB.Model(&models.Review{}).
		Select("AVG(score) as avg").
		Where("title_id = ?", titleID).
		Scan(&row).Error
	return row.Avg, err
}

// Retrieve 作品详情
func (h *TitleHandler) Retrieve(c *gin.Context) {
	title := getTitle(c)
	if title == nil {
		return
	}

	rating, err := titleRating(title.ID)
	if err != nil {
		DBError(c, err)
		return
	}
	title.Rating = rating
	c.JSON(http.StatusOK, title)
}

// Update 部分更新，年份在每次写入时重新校验
func (h *TitleHandler) Update(c *gin.Context) {
	if !policy.CanManageCatalog(CurrentUser(c)) {
		Forbidden(c)
		return
	}

	title := getTitle(c)
	if title == nil {
		return
	}

	var req updateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if err := models.ValidateYear(*req.Year); err != nil {
			FieldError(c, http.StatusBadRequest, "year", err.Error())
			return
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		category := resolveCategory(c, *req.Category)
		if category == nil {
			return
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	var genres []models.Genre
	if req.Genre != nil {
		genres = resolveGenres(c, *req.Genre)
		if genres == nil && len(*req.Genre) > 0 {
			return
		}
	}

	// 流派替换和标量字段保存放在同一事务里，避免半更新
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if req.Genre != nil {
			if err := tx.Model(title).Association("Genres").Replace(genres); err != nil {
				return err
			}
			title.Genres = genres
		}
		return tx.Omit("Genres").Save(title).Error
	})
	if err != nil {
		DBError(c, err)
		return
	}

	rating, err := titleRating(title.ID)
	if err != nil {
		DBError(c, err)
		return
	}
	title.Rating = rating
	c.JSON(http.StatusOK, title)
}

// Delete 删除作品，评价与评论级联删除
func (h *TitleHandler) Delete(c *gin.Context) {
	if !policy.CanManageCatalog(CurrentUser(c)) {
		Forbidden(c)
		return
	}

	title := getTitle(c)
	if title == nil {
		return
	}

	if err := db.DB.Select("Genres").Delete(title).Error; err != nil {
		DBError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
