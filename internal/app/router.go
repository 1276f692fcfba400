package app

import (
	"onboarding_backend/docs"
	"onboarding_backend/internal/config"
	"onboarding_backend/internal/middleware"
	"onboarding_backend/internal/model"
	"onboarding_backend/pkg/monitoring"

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
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))

	// 2. 员工培训
	a.registerTrainingRoutes(authGroup, c)

	// 3. HR / 管理员
	a.registerAdminRoutes(authGroup, c)
}

func (a *App) registerTrainingRoutes(rg *gin.RouterGroup, c *controllers) {
	training := rg.Group("/training")
	{
		training.GET("/assignments", c.training.ListAssignments)
		training.POST("/courses/:courseId/enroll", c.training.Enroll)
		training.GET("/assignments/:assignmentId/progress", c.training.GetProgress)

		module := training.Group("/assignments/:assignmentId/modules/:moduleId")
		module.POST("/open", c.training.OpenModule)
		module.POST("/video-progress", c.training.ReportVideoProgress)
		module.POST("/reading-progress", c.training.ReportReadingProgress)
		module.POST("/quiz", c.training.SubmitQuiz)
		module.DELETE("/session", c.training.CloseSession)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.RoleHR, model.RoleAdmin))
	{
		admin.POST("/courses", c.course.CreateCourse)
		admin.GET("/courses", c.course.ListCourses)
		admin.GET("/courses/:id", c.course.GetCourse)

		admin.POST("/assignments", c.assignment.Assign)

		admin.POST("/document-templates", c.template.CreateTemplate)
	}
}
