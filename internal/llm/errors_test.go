package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestClassifyContextTooLargeByStatus(t *testing.T) {
	err := &openai.APIError{HTTPStatusCode: http.StatusRequestEntityTooLarge, Message: "too big"}
	ue := classify(err)
	if !ue.ContextTooLarge {
		t.Fatal("expected ContextTooLarge for 413 status")
	}
}

func TestClassifyContextTooLargeByCode(t *testing.T) {
	err := &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Code: "context_length_exceeded"}
	ue := classify(err)
	if !ue.ContextTooLarge {
		t.Fatal("expected ContextTooLarge for context_length_exceeded code")
	}
}

func TestClassifyContextTooLargeByMessage(t *testing.T) {
	err := &openai.APIError{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        "This model's maximum context length is 128000 tokens",
	}
	if !classify(err).ContextTooLarge {
		t.Fatal("expected ContextTooLarge for context length message")
	}
}

func TestClassifyGenericFailure(t *testing.T) {
	base := fmt.Errorf("connection refused")
	ue := classify(base)
	if ue.ContextTooLarge {
		t.Fatal("generic errors must not be classified as context too large")
	}
	if !errors.Is(ue, base) {
		t.Fatal("expected wrapped error to unwrap to the original")
	}
}

func TestClassifyWrappedAPIError(t *testing.T) {
	apiErr := &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Code: "context_length_exceeded"}
	wrapped := fmt.Errorf("create stream: %w", apiErr)
	if !classify(wrapped).ContextTooLarge {
		t.Fatal("expected classification through wrapped errors")
	}
}
