package http

import (
	"net/http"
	"testing"

	"contractgen/internal/llm"
)

func startSession(t *testing.T, f *fixture, body string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/session/start", body)
	if w.Code != http.StatusOK {
		t.Fatalf("start session: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	decodeJSON(t, w, &resp)
	if resp.SessionID == "" {
		t.Fatal("expected a session id")
	}
	return resp.SessionID
}

func TestSessionStartAndEmptyHistory(t *testing.T) {
	f := newFixture(t, &llm.MockClient{}, nil)
	id := startSession(t, f, `{"metadata":{"source":"test"}}`)

	w := f.do(t, http.MethodGet, "/api/session/"+id+"/history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		SessionID string `json:"session_id"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Meta struct {
			CreatedAt string         `json:"created_at"`
			Metadata  map[string]any `json:"metadata"`
		} `json:"meta"`
	}
	decodeJSON(t, w, &resp)
	if resp.SessionID != id {
		t.Fatalf("unexpected session id: %q", resp.SessionID)
	}
	if len(resp.Messages) != 0 {
		t.Fatalf("expected empty history, got %d", len(resp.Messages))
	}
	if resp.Meta.CreatedAt == "" {
		t.Fatal("expected creation timestamp in meta")
	}
	if resp.Meta.Metadata["source"] != "test" {
		t.Fatalf("expected metadata retained, got %+v", resp.Meta.Metadata)
	}
}

func TestSessionStartAcceptsEmptyBody(t *testing.T) {
	f := newFixture(t, &llm.MockClient{}, nil)
	startSession(t, f, "")
}

func TestUnknownSessionEndpointsReturn404(t *testing.T) {
	f := newFixture(t, &llm.MockClient{}, nil)

	cases := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/session/nope/history", ""},
		{http.MethodPost, "/api/session/nope/clear", ""},
		{http.MethodPost, "/api/session/nope/document", `{"html":"<p>x</p>"}`},
		{http.MethodPost, "/api/session/nope/title", `{"title":"X"}`},
	}
	for _, tc := range cases {
		w := f.do(t, tc.method, tc.path, tc.body)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestSetTitleEmptyIs400(t *testing.T) {
	f := newFixture(t, &llm.MockClient{}, nil)
	id := startSession(t, f, "")

	w := f.do(t, http.MethodPost, "/api/session/"+id+"/title", `{"title":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSetTitleRoundTrip(t *testing.T) {
	f := newFixture(t, &llm.MockClient{}, nil)
	id := startSession(t, f, "")

	w := f.do(t, http.MethodPost, "/api/session/"+id+"/title", `{"title":"  My Title  "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		OK    bool   `json:"ok"`
		Title string `json:"title"`
	}
	decodeJSON(t, w, &resp)
	if !resp.OK || resp.Title != "My Title" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestListSessionsKeepsTitlesApart(t *testing.T) {
	f := newFixture(t, &llm.MockClient{}, nil)

	idA := startSession(t, f, "")
	idB := startSession(t, f, "")

	if w := f.do(t, http.MethodPost, "/api/session/"+idA+"/document", `{"html":"<h1>A</h1>","title":"A"}`); w.Code != http.StatusOK {
		t.Fatalf("set document A: %d", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/session/"+idB+"/document", `{"html":"<h1>B</h1>","title":"B"}`); w.Code != http.StatusOK {
		t.Fatalf("set document B: %d", w.Code)
	}

	w := f.do(t, http.MethodGet, "/api/session/list", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Sessions []struct {
			SessionID     string `json:"session_id"`
			DocumentTitle string `json:"document_title"`
		} `json:"sessions"`
	}
	decodeJSON(t, w, &resp)
	if len(resp.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(resp.Sessions))
	}
	titles := map[string]string{}
	for _, s := range resp.Sessions {
		titles[s.SessionID] = s.DocumentTitle
	}
	if titles[idA] != "A" || titles[idB] != "B" {
		t.Fatalf("titles interchanged: %v", titles)
	}
}

func TestClearKeepsSession(t *testing.T) {
	f := newFixture(t, &llm.MockClient{}, nil)
	id := startSession(t, f, "")

	w := f.do(t, http.MethodPost, "/api/session/"+id+"/clear", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if w := f.do(t, http.MethodGet, "/api/session/"+id+"/history", ""); w.Code != http.StatusOK {
		t.Fatalf("session should survive clear, got %d", w.Code)
	}
}
