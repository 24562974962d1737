package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contractgen/internal/llm"
	"contractgen/internal/service"
)

// streamErrorMarker es el marcador de diagnóstico que se agrega al final de un
// stream ya iniciado cuando el upstream falla a mitad de respuesta. A esa
// altura el status 200 ya se comprometió; el marcador permite al cliente
// distinguir el diagnóstico del texto del modelo.
const streamErrorMarker = "\n\n[stream-error] "

// GenerateHandler maneja la generación de contratos por streaming.
type GenerateHandler struct {
	logger    *zap.Logger
	generator *service.GenerationService
	limiter   service.RateLimiter
}

// NewGenerateHandler crea el handler; limiter nil deshabilita el rate limiting.
func NewGenerateHandler(logger *zap.Logger, generator *service.GenerationService, limiter service.RateLimiter) *GenerateHandler {
	return &GenerateHandler{logger: logger, generator: generator, limiter: limiter}
}

// Generate maneja POST /api/generate.
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req struct {
		Prompt       string `json:"prompt" binding:"required"`
		CompanyName  string `json:"company_name"`
		Jurisdiction string `json:"jurisdiction"`
		Tone         string `json:"tone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid generate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	stream, err := h.generator.StreamContract(c.Request.Context(), service.GenerateInput{
		Prompt:       req.Prompt,
		CompanyName:  req.CompanyName,
		Jurisdiction: req.Jurisdiction,
		Tone:         req.Tone,
	})
	if err != nil {
		status, message := upstreamStatus(err)
		h.logger.Error("generate failed", zap.Int("status", status), zap.Error(err))
		c.JSON(status, gin.H{"error": message})
		return
	}
	defer stream.Close()

	streamingHeaders(c, "text/markdown; charset=utf-8")
	c.Status(http.StatusOK)

	for {
		fragment, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			return
		}
		if recvErr != nil {
			// El status ya salió; el diagnóstico viaja dentro del stream.
			h.logger.Warn("generate stream truncated", zap.Error(recvErr))
			c.Writer.WriteString(streamErrorMarker + "upstream interrupted the response\n")
			c.Writer.Flush()
			return
		}
		if fragment == "" {
			continue
		}
		c.Writer.WriteString(fragment)
		c.Writer.Flush()
	}
}

// upstreamStatus traduce errores del gateway a un status HTTP previo al primer byte.
func upstreamStatus(err error) (int, string) {
	if errors.Is(err, llm.ErrNoAPIKey) {
		return http.StatusInternalServerError, "OPENAI_API_KEY not configured"
	}
	var ue *llm.UpstreamError
	if errors.As(err, &ue) && ue.ContextTooLarge {
		return http.StatusRequestEntityTooLarge, "request exceeds model context limits"
	}
	return http.StatusBadGateway, "upstream completion failed"
}
