package service

import (
	"context"

	"go.uber.org/zap"

	"contractgen/internal/config"
	"contractgen/internal/llm"
)

// GenerateInput es el request efímero de generación de un contrato.
type GenerateInput struct {
	Prompt       string
	CompanyName  string
	Jurisdiction string
	Tone         string
}

// GenerationService produce el stream de un contrato en Markdown a partir del
// prompt del usuario.
type GenerationService struct {
	llmClient llm.Client
	prompts   config.Prompts
	maxTokens int
	logger    *zap.Logger
}

// NewGenerationService construye el servicio; llmClient nil significa que el
// proveedor no fue configurado y toda generación falla con ErrNoAPIKey.
func NewGenerationService(llmClient llm.Client, prompts config.Prompts, maxTokens int, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		llmClient: llmClient,
		prompts:   prompts,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// StreamContract abre el stream de fragmentos del documento generado.
func (s *GenerationService) StreamContract(ctx context.Context, in GenerateInput) (llm.Stream, error) {
	if s == nil || s.llmClient == nil {
		return nil, llm.ErrNoAPIKey
	}

	userContext := BuildUserPrompt(in.Prompt, in.CompanyName, in.Jurisdiction, in.Tone)
	userContent := ApplyGenerationTemplate(s.prompts.GenerationRequirements(), userContext)

	stream, err := s.llmClient.StreamCompletion(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: s.prompts.SystemPrompt()},
			{Role: llm.RoleUser, Content: userContent},
		},
		Temperature: 0.2,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		s.logger.Error("open contract stream failed", zap.Error(err))
		return nil, err
	}
	return stream, nil
}
