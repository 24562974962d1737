package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey indica que el proveedor no fue configurado al arranque.
var ErrNoAPIKey = errors.New("openai api key not configured")

// UpstreamError clasifica una falla del proveedor tras agotar los reintentos.
// ContextTooLarge separa los requests que exceden la ventana del modelo (no
// tiene sentido reintentarlos ni tratarlos como falla transitoria).
type UpstreamError struct {
	ContextTooLarge bool
	Err             error
}

func (e *UpstreamError) Error() string {
	if e.ContextTooLarge {
		return fmt.Sprintf("upstream request too large: %v", e.Err)
	}
	return fmt.Sprintf("upstream failure: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// classify envuelve un error del SDK en UpstreamError, detectando exceso de
// contexto por status o por el código que devuelve la API.
func classify(err error) *UpstreamError {
	tooLarge := false
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusRequestEntityTooLarge {
			tooLarge = true
		}
		if code, ok := apiErr.Code.(string); ok && code == "context_length_exceeded" {
			tooLarge = true
		}
		if strings.Contains(apiErr.Message, "maximum context length") {
			tooLarge = true
		}
	}
	return &UpstreamError{ContextTooLarge: tooLarge, Err: err}
}
