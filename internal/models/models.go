package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Mode selects the tone and complexity of generated explanations.
type Mode string

const (
	ModeBeginner Mode = "beginner"
	ModeELI10    Mode = "eli10"
	ModeAnalogy  Mode = "analogy"
)

var ModeLabels = map[Mode]string{
	ModeBeginner: "Beginner",
	ModeELI10:    "Explain Like I'm 10",
	ModeAnalogy:  "Analogy Mode",
}

// NormalizeMode maps unknown or empty mode strings to the beginner default.
func NormalizeMode(mode string) Mode {
	switch Mode(mode) {
	case ModeBeginner, ModeELI10, ModeAnalogy:
		return Mode(mode)
	default:
		return ModeBeginner
	}
}

// Message is one turn in a conversation transcript.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Mode           Mode      `json:"mode"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation groups the messages of one user session.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
