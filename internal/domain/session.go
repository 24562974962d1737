package domain

import "time"

// Session guarda el estado conversacional de una sesión de edición de documentos.
// La identidad (ID) es inmutable; el resto de campos se muta con requests posteriores.
type Session struct {
	ID            string         `json:"session_id"`
	CreatedAt     time.Time      `json:"created_at"`
	SystemPrompt  string         `json:"system_prompt"`
	DocumentHTML  string         `json:"document_html,omitempty"`
	DocumentTitle string         `json:"document_title,omitempty"`
	Metadata      map[string]any `json:"metadata"`
}
