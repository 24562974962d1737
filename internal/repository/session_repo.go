package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"contractgen/internal/domain"
)

var (
	// ErrSessionNotFound se devuelve cuando la clave de sesión no existe.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmptyTitle se devuelve al intentar fijar un título vacío.
	ErrEmptyTitle = errors.New("title required")
)

// SessionRepository define el acceso al estado de sesiones y su historial.
// Operaciones sobre sesiones distintas son independientes; turnos concurrentes
// sobre la misma sesión no se serializan (responsabilidad del caller).
type SessionRepository interface {
	Start(ctx context.Context, systemPrompt string, metadata map[string]any) domain.Session
	Get(ctx context.Context, id string) (domain.Session, error)
	History(ctx context.Context, id string) ([]domain.Message, error)
	AppendTurn(ctx context.Context, id string, user, assistant domain.Message) error
	Clear(ctx context.Context, id string) error
	List(ctx context.Context) []domain.Session
	SetDocument(ctx context.Context, id, html, title string) error
	SetTitle(ctx context.Context, id, title string) error
}

type sessionState struct {
	meta    domain.Session
	history []domain.Message
}

// MemorySessionRepository guarda sesiones en memoria de proceso. El estado
// vive lo que vive el proceso; no hay persistencia.
type MemorySessionRepository struct {
	mu                  sync.RWMutex
	sessions            map[string]*sessionState
	defaultSystemPrompt string
}

func NewMemorySessionRepository(defaultSystemPrompt string) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions:            make(map[string]*sessionState),
		defaultSystemPrompt: defaultSystemPrompt,
	}
}

// Start crea una sesión con historial vacío y devuelve una copia de su estado.
func (r *MemorySessionRepository) Start(_ context.Context, systemPrompt string, metadata map[string]any) domain.Session {
	if systemPrompt == "" {
		systemPrompt = r.defaultSystemPrompt
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	session := domain.Session{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		SystemPrompt: systemPrompt,
		Metadata:     copyMetadata(metadata),
	}

	r.mu.Lock()
	r.sessions[session.ID] = &sessionState{meta: session, history: []domain.Message{}}
	r.mu.Unlock()

	return copySession(session)
}

func (r *MemorySessionRepository) Get(_ context.Context, id string) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	return copySession(state.meta), nil
}

// History devuelve los turnos registrados en orden de llegada.
func (r *MemorySessionRepository) History(_ context.Context, id string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	history := make([]domain.Message, len(state.history))
	copy(history, state.history)
	return history, nil
}

// AppendTurn registra el input del usuario y la respuesta completa del modelo.
func (r *MemorySessionRepository) AppendTurn(_ context.Context, id string, user, assistant domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	state.history = append(state.history, user, assistant)
	return nil
}

// Clear reinicia el historial; la metadata de la sesión se conserva.
func (r *MemorySessionRepository) Clear(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	state.history = []domain.Message{}
	return nil
}

// List devuelve un snapshot copiado de todas las sesiones; mutarlo no afecta
// el estado vivo del repositorio.
func (r *MemorySessionRepository) List(_ context.Context) []domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]domain.Session, 0, len(r.sessions))
	for _, state := range r.sessions {
		sessions = append(sessions, copySession(state.meta))
	}
	return sessions
}

func (r *MemorySessionRepository) SetDocument(_ context.Context, id, html, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	state.meta.DocumentHTML = html
	if title != "" {
		state.meta.DocumentTitle = title
	}
	return nil
}

func (r *MemorySessionRepository) SetTitle(_ context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	state.meta.DocumentTitle = title
	return nil
}

func copySession(s domain.Session) domain.Session {
	s.Metadata = copyMetadata(s.Metadata)
	return s
}

// copyMetadata copia recursivamente mapas y slices de la metadata para que el
// caller no pueda mutar el estado vivo.
func copyMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMetadata(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
