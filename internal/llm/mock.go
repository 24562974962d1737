package llm

import (
	"context"
	"io"
)

// MockClient permite tests sin llamar a un proveedor real. Los campos simples
// cubren el caso común; StreamFn y CompleteFn permiten comportamiento custom.
type MockClient struct {
	Fragments   []string
	Response    string
	StreamErr   error
	RecvErr     error
	CompleteErr error

	StreamFn   func(ctx context.Context, req CompletionRequest) (Stream, error)
	CompleteFn func(ctx context.Context, req CompletionRequest) (string, error)

	StreamRequests   []CompletionRequest
	CompleteRequests []CompletionRequest
}

func (m *MockClient) StreamCompletion(ctx context.Context, req CompletionRequest) (Stream, error) {
	m.StreamRequests = append(m.StreamRequests, req)
	if m.StreamFn != nil {
		return m.StreamFn(ctx, req)
	}
	if m.StreamErr != nil {
		return nil, m.StreamErr
	}
	return &SliceStream{Fragments: m.Fragments, FinalErr: m.RecvErr}, nil
}

func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.CompleteRequests = append(m.CompleteRequests, req)
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, req)
	}
	return m.Response, m.CompleteErr
}

// SliceStream entrega fragmentos fijos en orden. FinalErr, si se define,
// reemplaza el io.EOF final para simular un stream truncado.
type SliceStream struct {
	Fragments []string
	FinalErr  error
	pos       int
	Closed    bool
}

func (s *SliceStream) Recv() (string, error) {
	if s.pos >= len(s.Fragments) {
		if s.FinalErr != nil {
			return "", s.FinalErr
		}
		return "", io.EOF
	}
	fragment := s.Fragments[s.pos]
	s.pos++
	return fragment, nil
}

func (s *SliceStream) Close() error {
	s.Closed = true
	return nil
}
