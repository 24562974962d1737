package retry

import (
	"context"
	"errors"
	"time"
)

// Do ejecuta op hasta attempts veces con backoff exponencial: la espera antes
// del intento k (k>=2) es baseDelay * 2^(k-2). Devuelve nil en el primer
// intento exitoso o el último error tras agotar los intentos. La cancelación
// del contexto interrumpe las esperas entre intentos.
func Do(ctx context.Context, attempts int, baseDelay time.Duration, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return lastErr
}

// Permanent marca un error como no reintentable: Do lo devuelve de inmediato
// sin consumir los intentos restantes.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }
