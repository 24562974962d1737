package llm

import (
	"context"
	"errors"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"contractgen/internal/retry"
)

// Roles aceptados en los mensajes hacia el proveedor.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message es un mensaje etiquetado con rol para el proveedor de completions.
type Message struct {
	Role    string
	Content string
}

// CompletionRequest agrupa los parámetros de una generación.
type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Stream es una secuencia perezosa de fragmentos de texto de una respuesta.
// Recv devuelve io.EOF cuando el proveedor señala el final.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Client define la interfaz hacia el proveedor de completions.
type Client interface {
	StreamCompletion(ctx context.Context, req CompletionRequest) (Stream, error)
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenAIClient implementa Client contra la API de chat completions de OpenAI.
// Abrir el stream pasa por reintentos con backoff; una vez iniciado, las
// lecturas de fragmentos no se reintentan (el cliente ya recibió bytes).
type OpenAIClient struct {
	client    *openai.Client
	model     string
	logger    *zap.Logger
	attempts  int
	baseDelay time.Duration
}

// NewOpenAIClient construye el gateway. La decisión de si el proveedor está
// disponible se toma acá, al arranque: sin credencial devuelve ErrNoAPIKey.
func NewOpenAIClient(apiKey, baseURL, model string, logger *zap.Logger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		logger:    logger,
		attempts:  3,
		baseDelay: 500 * time.Millisecond,
	}, nil
}

// StreamCompletion abre un stream de fragmentos para req.
func (c *OpenAIClient) StreamCompletion(ctx context.Context, req CompletionRequest) (Stream, error) {
	oreq := c.buildRequest(req)
	oreq.Stream = true

	var inner *openai.ChatCompletionStream
	err := retry.Do(ctx, c.attempts, c.baseDelay, func() error {
		var openErr error
		inner, openErr = c.client.CreateChatCompletionStream(ctx, oreq)
		if openErr == nil {
			return nil
		}
		if classified := classify(openErr); classified.ContextTooLarge {
			return retry.Permanent(classified)
		}
		c.logger.Warn("open completion stream failed", zap.Error(openErr))
		return openErr
	})
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return nil, ue
		}
		return nil, classify(err)
	}
	return &openaiStream{inner: inner}, nil
}

// Complete ejecuta una generación corta no streameada y devuelve el texto.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	oreq := c.buildRequest(req)

	var resp openai.ChatCompletionResponse
	err := retry.Do(ctx, c.attempts, c.baseDelay, func() error {
		var callErr error
		resp, callErr = c.client.CreateChatCompletion(ctx, oreq)
		if callErr == nil {
			return nil
		}
		if classified := classify(callErr); classified.ContextTooLarge {
			return retry.Permanent(classified)
		}
		c.logger.Warn("completion call failed", zap.Error(callErr))
		return callErr
	})
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return "", ue
		}
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Err: errors.New("empty response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) buildRequest(req CompletionRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
}

// openaiStream adapta el stream del SDK: filtra deltas vacíos y entrega solo
// fragmentos no vacíos en orden de emisión.
type openaiStream struct {
	inner *openai.ChatCompletionStream
}

func (s *openaiStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			// io.EOF pasa sin envolver: es la señal normal de fin de stream.
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

func (s *openaiStream) Close() error { return s.inner.Close() }
