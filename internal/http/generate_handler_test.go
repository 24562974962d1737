package http

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"contractgen/internal/llm"
)

func TestGenerateStreamsFullBody(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Fragments: []string{"Hello", " World"}}, nil)

	w := f.do(t, http.MethodPost, "/api/generate", `{"prompt":"Draft"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Hello World") {
		t.Fatalf("expected streamed body, got %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if w.Header().Get("X-Accel-Buffering") != "no" {
		t.Fatal("expected buffering disabled for streaming response")
	}
}

func TestGenerateRequiresPrompt(t *testing.T) {
	f := newFixture(t, &llm.MockClient{}, nil)

	w := f.do(t, http.MethodPost, "/api/generate", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGenerateWithoutProviderIs500(t *testing.T) {
	f := newFixture(t, nil, nil)

	w := f.do(t, http.MethodPost, "/api/generate", `{"prompt":"Draft"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGenerateContextTooLargeIs413(t *testing.T) {
	client := &llm.MockClient{
		StreamErr: &llm.UpstreamError{ContextTooLarge: true, Err: errors.New("too big")},
	}
	f := newFixture(t, client, nil)

	w := f.do(t, http.MethodPost, "/api/generate", `{"prompt":"Draft"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestGenerateUpstreamFailureIs502(t *testing.T) {
	client := &llm.MockClient{
		StreamErr: &llm.UpstreamError{Err: errors.New("connection refused")},
	}
	f := newFixture(t, client, nil)

	w := f.do(t, http.MethodPost, "/api/generate", `{"prompt":"Draft"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestGenerateMidStreamFailureAppendsDiagnostic(t *testing.T) {
	client := &llm.MockClient{
		Fragments: []string{"## Section 1\n"},
		RecvErr:   errors.New("connection reset"),
	}
	f := newFixture(t, client, nil)

	w := f.do(t, http.MethodPost, "/api/generate", `{"prompt":"Draft"}`)

	// El status ya se comprometió antes de la falla.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "## Section 1") {
		t.Fatalf("expected partial output preserved, got %q", body)
	}
	if !strings.Contains(body, "[stream-error]") {
		t.Fatalf("expected trailing diagnostic marker, got %q", body)
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func TestGenerateRateLimited(t *testing.T) {
	f := newFixture(t, &llm.MockClient{Fragments: []string{"x"}}, denyAllLimiter{})

	w := f.do(t, http.MethodPost, "/api/generate", `{"prompt":"Draft"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}
