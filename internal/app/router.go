package app

import (
	"aksara_backend/docs"
	"aksara_backend/internal/config"
	"aksara_backend/internal/middleware"
	"aksara_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerProfileRoutes(authGroup, c)
		a.registerLearningRoutes(authGroup, c)
		a.registerRewardRoutes(authGroup, c)
	}
}

func (a *App) registerProfileRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.profile.GetProfile)
	rg.PUT("/profile", c.profile.UpdateProfile)
	rg.PUT("/profile/password", c.profile.ChangePassword)
	rg.POST("/profile/avatar", c.profile.UploadAvatar)
}

func (a *App) registerLearningRoutes(rg *gin.RouterGroup, c *controllers) {
	// 模块
	rg.GET("/modules", c.module.ListModules)
	rg.GET("/modules/slug/:slug", c.module.GetModuleBySlug)
	rg.GET("/modules/:id", c.module.GetModule)
	rg.GET("/modules/:id/contents", c.module.GetModuleContents)
	rg.GET("/modules/:id/quiz/:difficulty", c.module.GetQuizQuestions)

	// 进度
	rg.GET("/progress", c.progress.GetAllProgress)
	rg.GET("/progress/recent", c.progress.GetRecentProgress)
	rg.GET("/progress/dashboard", c.progress.GetDashboardStats)
	rg.GET("/progress/:moduleId", c.progress.GetModuleProgress)
	rg.POST("/progress/:moduleId/read", c.progress.MarkModuleRead)
	rg.POST("/progress/:moduleId/video", c.progress.FinishVideo)

	// 测验
	rg.POST("/quiz/:moduleId/:difficulty", c.quiz.SubmitQuiz)
	rg.GET("/quiz/results", c.quiz.GetAllQuizResults)
	rg.GET("/quiz/results/:moduleId", c.quiz.GetQuizResults)
}

func (a *App) registerRewardRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/games/:gameId/complete", c.game.CompleteGame)
	rg.GET("/leaderboard", c.leaderboard.GetLeaderboard)
	rg.GET("/artworks", c.artwork.ListArtworks)
	rg.POST("/artworks/:id/select", c.artwork.SelectArtwork)
}
