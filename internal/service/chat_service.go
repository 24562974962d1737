package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"contractgen/internal/config"
	"contractgen/internal/domain"
	"contractgen/internal/llm"
	"contractgen/internal/repository"
)

// ChatService orquesta un turno conversacional: arma el prompt con sistema,
// documento base e historial, abre el stream del proveedor y retransmite los
// fragmentos por un canal mientras el handler los drena hacia el cliente.
//
// Turnos concurrentes sobre la misma sesión no se serializan; el orden de los
// appends al historial en ese caso queda sin especificar.
type ChatService struct {
	llmClient llm.Client
	sessions  repository.SessionRepository
	prompts   config.Prompts
	maxTokens int
	logger    *zap.Logger
}

func NewChatService(
	llmClient llm.Client,
	sessions repository.SessionRepository,
	prompts config.Prompts,
	maxTokens int,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		llmClient: llmClient,
		sessions:  sessions,
		prompts:   prompts,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// StreamTurn valida la sesión y lanza el turno. El canal devuelto entrega los
// fragmentos en orden de producción y se cierra exactamente una vez, tanto en
// éxito como en falla: el cierre es la única señal de terminación para el
// consumidor. Una falla a mitad de stream se loguea y termina el stream limpio
// (sin registrar el turno truncado en el historial).
func (s *ChatService) StreamTurn(ctx context.Context, sessionID, input string) (<-chan string, error) {
	if s == nil || s.llmClient == nil {
		return nil, llm.ErrNoAPIKey
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	messages := s.buildMessages(session, history, input)

	fragments := make(chan string)
	go s.runTurn(ctx, sessionID, input, messages, fragments)
	return fragments, nil
}

func (s *ChatService) runTurn(ctx context.Context, sessionID, input string, messages []llm.Message, fragments chan<- string) {
	defer close(fragments)

	stream, err := s.llmClient.StreamCompletion(ctx, llm.CompletionRequest{
		Messages:    messages,
		Temperature: 0.2,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		s.logger.Error("chat stream open failed",
			zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	defer stream.Close()

	var full strings.Builder
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Warn("chat stream truncated",
				zap.String("session_id", sessionID), zap.Error(err))
			return
		}
		select {
		case fragments <- fragment:
			full.WriteString(fragment)
		case <-ctx.Done():
			// Cliente desconectado: se abandona el turno sin registrarlo.
			s.logger.Info("chat consumer gone, abandoning turn",
				zap.String("session_id", sessionID))
			return
		}
	}

	appendErr := s.sessions.AppendTurn(context.Background(), sessionID,
		domain.Message{Role: domain.RoleHuman, Content: input},
		domain.Message{Role: domain.RoleAssistant, Content: full.String()},
	)
	if appendErr != nil {
		s.logger.Warn("append turn failed",
			zap.String("session_id", sessionID), zap.Error(appendErr))
	}
}

// buildMessages arma sistema + bloque de edición + historial + input humano.
func (s *ChatService) buildMessages(session domain.Session, history []domain.Message, input string) []llm.Message {
	systemText := session.SystemPrompt
	if systemText == "" {
		systemText = s.prompts.SystemPrompt()
	}
	if session.DocumentHTML != "" {
		systemText = systemText + "\n\n" + s.prompts.EditingContext() +
			"\n\n<BASE_DOCUMENT>\n" + session.DocumentHTML + "\n</BASE_DOCUMENT>\n"
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemText})
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == domain.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input})
	return messages
}
