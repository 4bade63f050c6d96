package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarpath/internal/app/controllers"
	"github.com/yigit/scholarpath/internal/app/models"
	"github.com/yigit/scholarpath/internal/middleware"
	"github.com/yigit/scholarpath/internal/pkg/websocket"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth             *controllers.AuthController
	Student          *controllers.StudentController
	Scholarship      *controllers.ScholarshipController
	SavedScholarship *controllers.SavedScholarshipController
	Notification     *controllers.NotificationController
	Document         *controllers.DocumentController
	Stream           *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/verify-email", c.Auth.VerifyEmail)
		auth.POST("/forgot-password", c.Auth.ForgotPassword)
		auth.POST("/reset-password", c.Auth.ResetPassword)
		auth.GET("/me", authMiddleware.JWTAuth(), c.Auth.Me)
	}

	// --- Public catalogue ---
	scholarships := v1.Group("/scholarships")
	{
		scholarships.GET("", c.Scholarship.List)
		scholarships.GET("/:id", c.Scholarship.Get)
	}

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Student-only routes
	student := authenticated.Group("")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		profile := student.Group("/student")
		{
			profile.GET("/profile", c.Student.GetProfile)
			profile.PUT("/profile", c.Student.UpdateProfile)
			profile.POST("/ocr/extract", c.Student.ExtractOCR)
			profile.GET("/matches", c.Student.Matches)

			profile.POST("/documents", c.Document.Upload)
			profile.GET("/documents", c.Document.List)
			profile.GET("/documents/:id/file", c.Document.Download)
			profile.DELETE("/documents/:id", c.Document.Delete)
		}

		// "saved" is a static segment next to :id; gin resolves it first
		saved := student.Group("/scholarships")
		{
			saved.POST("/:id/save", c.SavedScholarship.Save)
			saved.DELETE("/:id/save", c.SavedScholarship.Unsave)
			saved.GET("/saved", c.SavedScholarship.List)
			saved.PUT("/saved/:savedId", c.SavedScholarship.Update)
			saved.POST("/saved/:savedId/milestones", c.SavedScholarship.AddMilestone)
			saved.PUT("/saved/:savedId/milestones/:idx", c.SavedScholarship.UpdateMilestone)
		}
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", c.Notification.List)
		notifications.PUT("/read-all", c.Notification.MarkAllRead)
		notifications.PUT("/:id/read", c.Notification.MarkRead)
		notifications.GET("/ws", c.Stream.HandleConnection)
	}

	// Admin routes
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		adminScholarships := admin.Group("/scholarships")
		{
			adminScholarships.GET("", c.Scholarship.AdminList)
			adminScholarships.POST("", c.Scholarship.Create)
			adminScholarships.GET("/:id", c.Scholarship.AdminGet)
			adminScholarships.PUT("/:id", c.Scholarship.Update)
			adminScholarships.DELETE("/:id", c.Scholarship.Delete)
		}
	}
}
