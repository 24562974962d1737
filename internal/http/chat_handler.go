package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contractgen/internal/llm"
	"contractgen/internal/repository"
	"contractgen/internal/service"
)

// ChatHandler maneja los turnos conversacionales streameados.
type ChatHandler struct {
	logger   *zap.Logger
	sessions repository.SessionRepository
	chat     *service.ChatService
	titles   *service.TitleService
}

func NewChatHandler(
	logger *zap.Logger,
	sessions repository.SessionRepository,
	chat *service.ChatService,
	titles *service.TitleService,
) *ChatHandler {
	return &ChatHandler{logger: logger, sessions: sessions, chat: chat, titles: titles}
}

// Chat maneja POST /api/chat: valida la sesión, sintetiza el título en el
// primer turno si falta, y drena el relay hacia el cliente como un objeto
// {"data":"..."} emitido incrementalmente.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
		Message   struct {
			Role    string `json:"role"`
			Content string `json:"content" binding:"required"`
		} `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	session, err := h.sessions.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("chat session lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
		return
	}

	// Título perezoso: solo en el primer turno de una sesión sin título.
	if session.DocumentTitle == "" {
		title := h.titles.Synthesize(ctx, req.Message.Content, session.DocumentHTML)
		if title != "" {
			if err := h.sessions.SetTitle(ctx, req.SessionID, title); err != nil {
				h.logger.Warn("persist synthesized title failed", zap.Error(err))
			}
		}
	}

	fragments, err := h.chat.StreamTurn(ctx, req.SessionID, req.Message.Content)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, llm.ErrNoAPIKey):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "OPENAI_API_KEY not configured"})
		default:
			h.logger.Error("chat turn failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "chat turn failed"})
		}
		return
	}

	streamingHeaders(c, "application/json; charset=utf-8")
	c.Status(http.StatusOK)

	if err := service.WriteDataEnvelope(c.Writer, fragments); err != nil {
		// Escritura fallida = cliente desconectado; el productor se cancela
		// vía contexto del request.
		h.logger.Info("chat stream aborted by client", zap.Error(err))
	}
}
