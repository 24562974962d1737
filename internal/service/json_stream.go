package service

import (
	"io"
	"net/http"
	"strings"
)

// fragmentEscaper escapa backslash antes que comilla, preservando el orden.
var fragmentEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// WriteDataEnvelope drena fragments hacia w como un objeto {"data":"..."},
// escapando comillas y backslashes fragmento a fragmento. Con cero fragmentos
// el campo se emite vacío igual, de modo que la salida siempre es un objeto
// balanceado. Si w implementa http.Flusher se hace flush tras cada fragmento.
func WriteDataEnvelope(w io.Writer, fragments <-chan string) error {
	flusher, _ := w.(http.Flusher)

	if _, err := io.WriteString(w, `{`); err != nil {
		return err
	}

	first := true
	for fragment := range fragments {
		if fragment == "" {
			continue
		}
		if first {
			if _, err := io.WriteString(w, `"data":"`); err != nil {
				return err
			}
			first = false
		}
		if _, err := io.WriteString(w, fragmentEscaper.Replace(fragment)); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	if first {
		if _, err := io.WriteString(w, `"data":"`); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `"}`); err != nil {
		return err
	}
	if flusher != nil {
		flusher.Flush()
	}
	return nil
}
