package router

import (
	"github.com/v-tox/api-yamdb/internal/handlers"
	"github.com/v-tox/api-yamdb/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	userHandler := handlers.NewUserHandler()
	categoryHandler := handlers.NewCategoryHandler()
	genreHandler := handlers.NewGenreHandler()
	titleHandler := handlers.NewTitleHandler()
	reviewHandler := handlers.NewReviewHandler()
	commentHandler := handlers.NewCommentHandler()

	r.Use(middleware.LoadUser())

	api := r.Group("/api/v1")

	// 注册与令牌兑换（公开）
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/token", authHandler.Token)

	// 用户目录：集合接口仅管理员，me 对本人开放
	users := api.Group("/users", middleware.AuthRequired())
	{
		users.GET("/me", userHandler.Me)
		users.PATCH("/me", userHandler.UpdateMe)

		admin := users.Group("", middleware.AdminRequired())
		{
			admin.GET("", userHandler.List)
			admin.POST("", userHandler.Create)
			admin.GET("/:username", userHandler.Retrieve)
			admin.PATCH("/:username", userHandler.Update)
			admin.DELETE("/:username", userHandler.Delete)
		}
	}

	// 目录资源：读公开，写仅管理员（handler 内判定）
	api.GET("/categories", categoryHandler.List)
	api.POST("/categories", middleware.AuthRequired(), categoryHandler.Create)
	api.DELETE("/categories/:slug", middleware.AuthRequired(), categoryHandler.Delete)

	api.GET("/genres", genreHandler.List)
	api.POST("/genres", middleware.AuthRequired(), genreHandler.Create)
	api.DELETE("/genres/:slug", middleware.AuthRequired(), genreHandler.Delete)

	api.GET("/titles", titleHandler.List)
	api.POST("/titles", middleware.AuthRequired(), titleHandler.Create)
	api.GET("/titles/:title_id", titleHandler.Retrieve)
	api.PATCH("/titles/:title_id", middleware.AuthRequired(), titleHandler.Update)
	api.DELETE("/titles/:title_id", middleware.AuthRequired(), titleHandler.Delete)

	// 评价与评论：读公开，写需登录，所有权在 handler 内判定
	reviews := api.Group("/titles/:title_id/reviews")
	{
		reviews.GET("", reviewHandler.List)
		reviews.POST("", middleware.AuthRequired(), reviewHandler.Create)
		reviews.GET("/:review_id", reviewHandler.Retrieve)
		reviews.PATCH("/:review_id", middleware.AuthRequired(), reviewHandler.Update)
		reviews.DELETE("/:review_id", middleware.AuthRequired(), reviewHandler.Delete)

		comments := reviews.Group("/:review_id/comments")
		{
			comments.GET("", commentHandler.List)
			comments.POST("", middleware.AuthRequired(), commentHandler.Create)
			comments.GET("/:comment_id", commentHandler.Retrieve)
			comments.PATCH("/:comment_id", middleware.AuthRequired(), commentHandler.Update)
			comments.DELETE("/:comment_id", middleware.AuthRequired(), commentHandler.Delete)
		}
	}
}
