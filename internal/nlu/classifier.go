// Package nlu classifies inbound messages into task intents. Two
// implementations exist: a remote model-backed classifier and a deterministic
// keyword classifier. The keyword classifier doubles as the unconditional
// fallback whenever the remote call fails, so classification itself never
// fails a turn.
package nlu

import (
	"context"

	"github.com/techsolutions/assistente/internal/domain"
)

// Context carries everything the classifier may use for one message.
type Context struct {
	SessionID string
	Message   string
	History   []domain.ChatMessage
	Summary   string
}

// Classifier maps a message to an intent plus extracted entities. It must
// always produce a usable classification; backend failures are recovered
// internally.
type Classifier interface {
	Classify(ctx context.Context, in Context) domain.Classification
}

// validIntents guards labels coming back from the remote model.
var validIntents = map[domain.Intent]bool{
	domain.IntentFAQ:      true,
	domain.IntentLead:     true,
	domain.IntentSupport:  true,
	domain.IntentSchedule: true,
	domain.IntentHandoff:  true,
	domain.IntentOther:    true,
}
