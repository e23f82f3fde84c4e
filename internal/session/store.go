// Package session holds per-conversation state: the rolling message history,
// its compacted summary, and the in-flight record of each active flow.
// Sessions are created lazily and live for the process lifetime; there is
// deliberately no eviction or TTL.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/techsolutions/assistente/internal/domain"
)

// maxMessages is the history bound; older turns are folded into the summary.
const maxMessages = 10

// Session is the conversational state for one session key. All access must
// happen while the key's lock is held (see Store.Acquire).
type Session struct {
	Messages         []domain.ChatMessage
	Summary          string
	Records          map[domain.Intent]*domain.Record
	FallbackAttempts int
}

// AppendMessage appends one turn and applies the trimming policy: beyond
// maxMessages the oldest turns are dropped and the summary is rebuilt from
// the previous summary plus the latest user and assistant messages.
func (s *Session) AppendMessage(msg domain.ChatMessage) {
	s.Messages = append(s.Messages, msg)
	if len(s.Messages) <= maxMessages {
		return
	}

	var latestUser, latestAssistant string
	for _, m := range s.Messages {
		switch m.Role {
		case domain.RoleUser:
			latestUser = m.Content
		case domain.RoleAssistant:
			latestAssistant = m.Content
		}
	}

	var parts []string
	if s.Summary != "" {
		parts = append(parts, s.Summary)
	}
	if latestUser != "" {
		parts = append(parts, fmt.Sprintf("Última mensagem do usuário: %s", latestUser))
	}
	if latestAssistant != "" {
		parts = append(parts, fmt.Sprintf("Última resposta do assistente: %s", latestAssistant))
	}
	s.Summary = strings.Join(parts, " | ")
	s.Messages = s.Messages[len(s.Messages)-maxMessages:]
}

// Record returns the in-flight record for a domain, or nil.
func (s *Session) Record(intent domain.Intent) *domain.Record {
	return s.Records[intent]
}

// SetRecord replaces the in-flight record for a domain.
func (s *Session) SetRecord(intent domain.Intent, rec *domain.Record) {
	s.Records[intent] = rec
}

// ClearRecord detaches a finished record so a new flow can start cleanly,
// and resets the fallback counter.
func (s *Session) ClearRecord(intent domain.Intent) {
	delete(s.Records, intent)
	s.FallbackAttempts = 0
}

type entry struct {
	mu   sync.Mutex
	sess *Session
}

// Store maps session keys to guarded sessions. Different keys are fully
// independent; operations on the same key are serialized through the per-key
// lock so a turn's read-modify-write across external calls cannot interleave
// with another turn for the same session.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Acquire returns the session for a key, creating it on first use, with the
// key's lock held. The caller must invoke the release function when the turn
// is finished.
func (s *Store) Acquire(key string) (*Session, func()) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{sess: &Session{Records: make(map[domain.Intent]*domain.Record)}}
		s.entries[key] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	return e.sess, e.mu.Unlock
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
