package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas bajo /api.
func NewRouter(
	logger *zap.Logger,
	allowedOrigins []string,
	generateH *GenerateHandler,
	sessionH *SessionHandler,
	chatH *ChatHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(allowedOrigins))

	api := r.Group("/api")
	api.GET("/health", Health)
	api.GET("/stream-test", StreamTest)
	api.POST("/generate", generateH.Generate)
	api.POST("/chat", chatH.Chat)

	session := api.Group("/session")
	session.POST("/start", sessionH.Start)
	session.GET("/list", sessionH.List)
	session.GET("/:id/history", sessionH.GetHistory)
	session.POST("/:id/clear", sessionH.Clear)
	session.POST("/:id/document", sessionH.SetDocument)
	session.POST("/:id/title", sessionH.SetTitle)

	return r
}
