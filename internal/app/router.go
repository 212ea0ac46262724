package app

import (
	"arogya_backend/docs"
	"arogya_backend/internal/config"
	"arogya_backend/internal/middleware"
	"arogya_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.auth.UpdateProfile)

		authGroup.POST("/chat", c.chat.Chat)
		authGroup.POST("/chat/voice", c.voice.VoiceChat)
		authGroup.POST("/sessions", c.session.CreateSession)
		authGroup.GET("/sessions", c.session.ListSessions)
		authGroup.GET("/sessions/:id/messages", c.session.GetMessages)

		authGroup.POST("/documents/upload", c.document.Upload)
		authGroup.GET("/documents", c.document.List)
		authGroup.DELETE("/documents/:id", c.document.Delete)

		authGroup.POST("/voice/transcribe", c.voice.Transcribe)
		authGroup.POST("/voice/tts", c.voice.Synthesize)
	}
}
