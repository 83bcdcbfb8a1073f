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

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type createCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type updateCommentRequest struct {
	Text *string `json:"text"`
}

// commentJSON 评论响应体
func commentJSON(cm *models.Comment) gin.H {
	return gin.H{
		"id":        cm.ID,
		"text":      cm.Text,
		"text_html": utils.RenderMarkdown(cm.Text),
		"author":    cm.Author.Username,
		"pub_date":  cm.PubDate,
	}
}

// getComment 按 (title_id, review_id, comment_id) 复合路径查找
func getComment(c *gin.Context) *models.Comment {
	review := getReview(c)
	if review == nil {
		return nil
	}

	commentID := utils.StringToInt(c.Param("comment_id"), 0)

	var comment models.Comment
	err := db.DB.Preload("Author").
		Where("id = ? AND review_id = ?", commentID, review.ID).
		First(&comment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Comment not found.")
		} else {
			DBError(c, err)
		}
		return nil
	}
	return &comment
}

// List 评价下的评论列表，按发布时间正序
func (h *CommentHandler) List(c *gin.Context) {
	review := getReview(c)
	if review == nil {
		return
	}

	limit, offset := ParsePagination(c)

	var total int64
	db.DB.Model(&models.Comment{}).Where("review_id = ?", review.ID).Count(&total)

	var comments []models.Comment
	if err := db.DB.Preload("Author").
		Where("review_id = ?", review.ID).
		Order("pub_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		DBError(c, err)
		return
	}

	results := make([]gin.H, len(comments))
	for i := range comments {
		results[i] = commentJSON(&comments[i])
	}
	Paginated(c, total, results)
}

// Create 发表评论，作者由服务端指定
func (h *CommentHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	review := getReview(c)
	if review == nil {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	comment := models.Comment{
		Text:     req.Text,
		AuthorID: user.ID,
		ReviewID: review.ID,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		DBError(c, err)
		return
	}

	comment.Author = *user
	c.JSON(http.StatusCreated, commentJSON(&comment))
}

// Retrieve 评论详情
func (h *CommentHandler) Retrieve(c *gin.Context) {
	comment := getComment(c)
	if comment == nil {
		return
	}
	c.JSON(http.StatusOK, commentJSON(comment))
}

// Update 修改评论：作者本人、版主或管理员
func (h *CommentHandler) Update(c *gin.Context) {
	comment := getComment(c)
	if comment == nil {
		return
	}

	if !policy.CanModify(CurrentUser(c), comment.AuthorID) {
		Forbidden(c)
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindError(c, err)
		return
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := db.DB.Save(comment).Error; err != nil {
		DBError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentJSON(comment))
}

// Delete 删除评论
func (h *CommentHandler) Delete(c *gin.Context) {
	comment := getComment(c)
	if comment == nil {
		return
	}

	if !policy.CanModify(CurrentUser(c), comment.AuthorID) {
		Forbidden(c)
		return
	}

	if err := db.DB.Delete(comment).Error; err != nil {
		DBError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
