package routes

import (
	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes initialises every route of the application.
func SetupRoutes(r *gin.Engine) {
	// Uploaded attachments and profile photos are served straight from
	// the configured uploads directory under a fixed public prefix.
	r.Static(config.AttachmentsURLPrefix, config.UploadsDir())

	// Public routes: login and logout need no session.
	RegisterAuthRoutes(r)

	// Everything else requires a valid session token.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
