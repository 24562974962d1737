package service

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"contractgen/internal/config"
	"contractgen/internal/llm"
)

// Presupuesto corto para el llamado de título: no necesita más que unas palabras.
const titleMaxTokens = 32

// Máximo de runas del extracto de documento que acompaña al pedido de título.
const titleDocExcerptRunes = 4000

// TitleService sintetiza títulos cortos de sesión usando el proveedor, con un
// fallback heurístico cuando no hay credencial o el llamado falla.
type TitleService struct {
	llmClient llm.Client
	prompts   config.Prompts
	logger    *zap.Logger
}

// NewTitleService construye el servicio; llmClient nil habilita solo el fallback.
func NewTitleService(llmClient llm.Client, prompts config.Prompts, logger *zap.Logger) *TitleService {
	return &TitleService{llmClient: llmClient, prompts: prompts, logger: logger}
}

// Synthesize deriva un título a partir del primer input del usuario y, si
// existe, el documento base. Nunca falla: toda ruta degrade a la heurística.
func (s *TitleService) Synthesize(ctx context.Context, userInput, baseDoc string) string {
	if s == nil || s.llmClient == nil {
		return fallbackTitle(userInput)
	}

	content := "User request:\n" + strings.TrimSpace(userInput) + "\n"
	if baseDoc != "" {
		excerpt := []rune(baseDoc)
		if len(excerpt) > titleDocExcerptRunes {
			excerpt = excerpt[:titleDocExcerptRunes]
		}
		content += "\nDocument excerpt (may be truncated):\n" + string(excerpt)
	}

	resp, err := s.llmClient.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: s.prompts.TitleInstruction()},
			{Role: llm.RoleUser, Content: content},
		},
		Temperature: 0.2,
		MaxTokens:   titleMaxTokens,
	})
	if err != nil {
		s.logger.Warn("title synthesis failed, using fallback", zap.Error(err))
		return fallbackTitle(userInput)
	}

	title := strings.TrimSpace(resp)
	title = strings.Trim(title, `"'`)
	title = strings.TrimSpace(title)
	if title == "" {
		return fallbackTitle(userInput)
	}
	return title
}

// fallbackTitle recorta el input a 60 runas (57 + elipsis si excede) y pone la
// primera en mayúscula.
func fallbackTitle(userInput string) string {
	s := strings.TrimSpace(userInput)
	runes := []rune(s)
	if len(runes) > 60 {
		runes = append(runes[:57], '…')
	}
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}
