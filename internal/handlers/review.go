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

type ReviewHandler struct{}

func NewReviewHandler() *ReviewHandler {
	return &ReviewHandler{}
}

type createReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score *int   `json:"score" binding:"required"`
}

type updateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// reviewJSON 评价响应体：作者以用户名呈现，正文附带净化后的 HTML
func reviewJSON(r *models.Review) gin.H {
	return gin.H{
		"id":        r.ID,
		"text":      r.Text,
		"text_html": utils.RenderMarkdown(r.Text),
		"author":    r.Author.Username,
		"score":     r.Score,
		"pub_date":  r.PubDate,
	}
}

// getReview 按 (title_id, review_id) 复合路径查找；评价不属于该作品时 404
func getReview(c *gin.Context) *models.Review {
	title := getTitle(c)
	if title == nil {
		return nil
	}

	reviewID := utils.StringToInt(c.Param("review_id"), 0)

	var review models.Review
	err := db.DB.Preload("Author").
		Where("id = ? AND title_id = ?", reviewID, title.ID).
		First(&review).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Review not found.")
		} else {
			DBError(c, err)
		}
		return nil
	}
	return &review
}

// List 作品下的评价列表，按发布时间倒序
func (h *ReviewHandler) List(c *gin.Context) {
	title := getTitle(c)
	if title == nil {
		return
	}

	limit, offset := ParsePagination(c)

	var total int64
	db.DB.Model(&models.Review{}).Where("title_id = ?", title.ID).Count(&total)

	var reviews []models.Review
	if err := db.DB.Preload("Author").
		Where("title_id = ?", title.ID).
		Order("pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error; err != nil {
		DBError(c, err)
		return
	}

	results := make([]gin.H, len(reviews))
	for i := range reviews {
		results[i] = reviewJSON(&reviews[i])
	}
	Paginated(c, total, results)
}

// Create 发表评价：作者和作品由服务端指定，一个用户对一个作品只能评一次
func (h *ReviewHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	title := getTitle(c)
	if title == nil {
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}
	if err := models.ValidateScore(*req.Score); err != nil {
		FieldError(c, http.StatusBadRequest, "score", err.Error())
		return
	}

	var count int64
	if err := db.DB.Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", title.ID, user.ID).
		Count(&count).Error; err != nil {
		DBError(c, err)
		return
	}
	if count > 0 {
		FieldError(c, http.StatusBadRequest, "title", "You have already reviewed this title.")
		return
	}

	review := models.Review{
		Text:     req.Text,
		Score:    *req.Score,
		AuthorID: user.ID,
		TitleID:  title.ID,
	}
	if err := db.DB.Create(&review).Error; err != nil {
		// 并发重复评价由组合唯一索引兜底，翻译成冲突错误
		DBError(c, err)
		return
	}

	review.Author = *user
	c.JSON(http.StatusCreated, reviewJSON(&review))
}

// Retrieve 评价详情
func (h *ReviewHandler) Retrieve(c *gin.Context) {
	review := getReview(c)
	if review == nil {
		return
	}
	c.JSON(http.StatusOK, reviewJSON(review))
}

// Update 修改评价：作者本人、版主或管理员
func (h *ReviewHandler) Update(c *gin.Context) {
	review := getReview(c)
	if review == nil {
		return
	}

	if !policy.CanModify(CurrentUser(c), review.AuthorID) {
		Forbidden(c)
		return
	}

	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if err := models.ValidateScore(*req.Score); err != nil {
			FieldError(c, http.StatusBadRequest, "score", err.Error())
			return
		}
		review.Score = *req.Score
	}

	if err := db.DB.Save(review).Error; err != nil {
		DBError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewJSON(review))
}

// Delete 删除评价，评论级联删除
func (h *ReviewHandler) Delete(c *gin.Context) {
	review := getReview(c)
	if review == nil {
		return
	}

	if !policy.CanModify(CurrentUser(c), review.AuthorID) {
		Forbidden(c)
		return
	}

	if err := db.DB.Delete(review).Error; err != nil {
		DBError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
