package domain

// Roles de los turnos registrados en el historial.
const (
	RoleHuman     = "human"
	RoleAssistant = "assistant"
)

// Message es un turno del historial conversacional.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
