package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contractgen/internal/repository"
)

// SessionHandler maneja los endpoints de ciclo de vida de sesiones.
type SessionHandler struct {
	logger   *zap.Logger
	sessions repository.SessionRepository
}

func NewSessionHandler(logger *zap.Logger, sessions repository.SessionRepository) *SessionHandler {
	return &SessionHandler{logger: logger, sessions: sessions}
}

// Start maneja POST /api/session/start.
func (h *SessionHandler) Start(c *gin.Context) {
	var req struct {
		SystemPrompt string         `json:"system_prompt"`
		Metadata     map[string]any `json:"metadata"`
	}
	// Body vacío es válido: todos los campos son opcionales.
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.logger.Warn("invalid start session request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session := h.sessions.Start(c.Request.Context(), req.SystemPrompt, req.Metadata)
	c.JSON(http.StatusOK, gin.H{"session_id": session.ID})
}

// GetHistory maneja GET /api/session/:id/history.
func (h *SessionHandler) GetHistory(c *gin.Context) {
	id := c.Param("id")

	session, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		h.notFoundOrError(c, err)
		return
	}
	history, err := h.sessions.History(c.Request.Context(), id)
	if err != nil {
		h.notFoundOrError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": id,
		"messages":   history,
		"meta":       session,
	})
}

// Clear maneja POST /api/session/:id/clear.
func (h *SessionHandler) Clear(c *gin.Context) {
	if err := h.sessions.Clear(c.Request.Context(), c.Param("id")); err != nil {
		h.notFoundOrError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// List maneja GET /api/session/list.
func (h *SessionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.sessions.List(c.Request.Context())})
}

// SetDocument maneja POST /api/session/:id/document.
func (h *SessionHandler) SetDocument(c *gin.Context) {
	var req struct {
		HTML  string `json:"html" binding:"required"`
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid set document request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.sessions.SetDocument(c.Request.Context(), c.Param("id"), req.HTML, req.Title); err != nil {
		h.notFoundOrError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetTitle maneja POST /api/session/:id/title.
func (h *SessionHandler) SetTitle(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid set title request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	title := strings.TrimSpace(req.Title)
	err := h.sessions.SetTitle(c.Request.Context(), c.Param("id"), title)
	switch {
	case errors.Is(err, repository.ErrEmptyTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
	case errors.Is(err, repository.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case err != nil:
		h.logger.Error("set title failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not set title"})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true, "title": title})
	}
}

func (h *SessionHandler) notFoundOrError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.logger.Error("session operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "session operation failed"})
}
