package model

import (
	"time"

	"github.com/google/uuid"
)

// Chat senders. SenderSystem entries double as an audit trail for
// mutations the backend performs on its own ("Deleted task: X").
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
	SenderSystem    = "system"
)

type ChatHistory struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProjectID uuid.UUID `json:"project_id"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
