package app

import (
	"pod360_backend/docs"
	"pod360_backend/internal/config"
	"pod360_backend/internal/middleware"
	"pod360_backend/internal/model"
	"pod360_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes: health, staff auth, and the respondent session flow.
	// Respondents authenticate with the invite token only.
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		assessment := public.Group("/assessment/session")
		{
			assessment.POST("/bootstrap", c.session.Bootstrap)
			assessment.GET("", c.session.Current)
			assessment.POST("/answer", c.session.Answer)
			assessment.POST("/previous", c.session.Previous)
			assessment.POST("/finalize", c.session.Finalize)
		}
	}

	// Staff routes behind the session JWT.
	staff := router.Group("/api")
	staff.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		staff.GET("/users/me", c.user.Profile)
		staff.PUT("/users/me", c.user.UpdateProfile)
		staff.PUT("/users/me/password", c.user.ChangePassword)

		staff.GET("/notifications", c.notification.List)
		staff.GET("/notifications/unread-count", c.notification.UnreadCount)
		staff.POST("/notifications/:id/read", c.notification.MarkRead)
		staff.POST("/notifications/read-all", c.notification.MarkAllRead)
	}

	// Invitation management: admin and HR.
	invitations := staff.Group("/admin/invitations")
	invitations.Use(middleware.RoleMiddleware(model.Admin, model.HR))
	{
		invitations.POST("", c.invitation.Create)
		invitations.GET("", c.invitation.List)
		invitations.GET("/stats", c.invitation.Stats)
		invitations.GET("/:id", c.invitation.Get)
		invitations.DELETE("/:id", c.invitation.Delete)
		invitations.POST("/:id/revoke", c.invitation.Revoke)
		invitations.POST("/:id/resend", c.invitation.Resend)
	}

	// Reporting: any staff role can read, exports included.
	reports := staff.Group("/admin/reports")
	reports.Use(middleware.RoleMiddleware(model.Admin, model.HR, model.Viewer))
	{
		reports.GET("/departments", c.report.DepartmentStats)
		reports.GET("/departments/list", c.report.Departments)
		reports.GET("/questions", c.report.QuestionStats)
		reports.GET("/triangle", c.report.TrianglePlot)
		reports.POST("/export", c.report.Export)
	}
}
