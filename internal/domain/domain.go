// Package domain contains core domain types for the assistant.
package domain

import (
	"time"
)

// Intent is the task label the classifier assigns to an inbound message.
type Intent string

const (
	IntentFAQ      Intent = "faq"
	IntentLead     Intent = "lead"
	IntentSupport  Intent = "support"
	IntentSchedule Intent = "schedule"
	IntentHandoff  Intent = "handoff"
	IntentOther    Intent = "other"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single turn in a session's rolling history.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Classification is the classifier's verdict for one message.
// Action is a hint ("ask", "answer", "confirm", "handoff"); Entities carries
// field values the classifier already extracted from the message.
type Classification struct {
	Intent     Intent            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Action     string            `json:"action,omitempty"`
	Entities   map[string]string `json:"entities,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}
