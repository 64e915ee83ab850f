package main

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/quill/internal/handlers"
	"github.com/huangang/quill/internal/middleware"
	"github.com/huangang/quill/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS(svc.cfg.Server.AllowOrigins))
	r.Use(middleware.RequestTimeout(svc.cfg.Server.RequestTimeout))

	r.GET("/health", svc.healthHandler.CheckHealth)
	r.GET("/metrics", handlers.Metrics(svc.metrics))

	// Session routes (public)
	r.POST("/register", svc.authHandler.Register)
	r.POST("/login", svc.authHandler.Login)
	r.GET("/refresh", svc.authHandler.Refresh)

	// Protected routes
	protected := r.Group("")
	protected.Use(middleware.AuthRequired(svc.tokenService))
	{
		protected.POST("/logout", svc.authHandler.Logout)
		protected.GET("/me", svc.authHandler.GetCurrentUser)

		content := protected.Group("", middleware.AuditLog())
		{
			content.POST("/blog", svc.blogHandler.Create)
			content.GET("/blog/all", svc.blogHandler.List)
			content.GET("/blog/:id", svc.blogHandler.Get)
			content.PUT("/blog", svc.blogHandler.Update)
			content.DELETE("/blog/:id", svc.blogHandler.Delete)

			content.POST("/comment", svc.commentHandler.Create)
			content.GET("/comment/:id", svc.commentHandler.ListByBlog)
		}
	}
}
