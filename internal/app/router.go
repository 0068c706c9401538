package app

import (
	"english_exam_backend/docs"
	"english_exam_backend/internal/config"
	"english_exam_backend/internal/middleware"
	"english_exam_backend/pkg/monitoring"

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
		authGroup.GET("/me", c.auth.Me)
		authGroup.GET("/dashboard", c.dashboard.GetDashboard)

		// 考试会话
		authGroup.POST("/exams", c.exam.Start)
		authGroup.GET("/exams/:token/question", c.exam.CurrentQuestion)
		authGroup.POST("/exams/:token/answers", c.exam.RecordAnswer)
		authGroup.POST("/exams/:token/next", c.exam.Advance)
		authGroup.POST("/exams/:token/finish", c.exam.Finish)
	}

	// 3. 管理员相关接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", c.dashboard.GetAdminDashboard)
		admin.GET("/users/:username", c.dashboard.GetUserDetail)

		// 题库管理
		admin.GET("/questions", c.question.List)
		admin.POST("/questions", c.question.Create)
		admin.POST("/questions/image", c.question.UploadImage)
		admin.GET("/questions/:id", c.question.Get)
		admin.PUT("/questions/:id", c.question.Update)
		admin.DELETE("/questions/:id", c.question.Delete)
	}
}
