package session

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/techsolutions/assistente/internal/domain"
)

func TestAppendMessageTrimsAndSummarizes(t *testing.T) {
	sess := &Session{Records: make(map[domain.Intent]*domain.Record)}

	for i := 0; i < 11; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		sess.AppendMessage(domain.ChatMessage{Role: role, Content: fmt.Sprintf("mensagem %d", i)})
	}

	if len(sess.Messages) != 10 {
		t.Fatalf("history length = %d, want 10", len(sess.Messages))
	}
	if sess.Messages[0].Content != "mensagem 1" {
		t.Errorf("oldest kept message = %q, want mensagem 1", sess.Messages[0].Content)
	}
	if !strings.Contains(sess.Summary, "Última mensagem do usuário: mensagem 10") {
		t.Errorf("summary = %q", sess.Summary)
	}
	if !strings.Contains(sess.Summary, "Última resposta do assistente: mensagem 9") {
		t.Errorf("summary = %q", sess.Summary)
	}
}

func TestAppendMessageFoldsPreviousSummary(t *testing.T) {
	sess := &Session{Records: make(map[domain.Intent]*domain.Record)}
	sess.Summary = "resumo antigo"
	for i := 0; i < 11; i++ {
		sess.AppendMessage(domain.ChatMessage{Role: domain.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}
	if !strings.HasPrefix(sess.Summary, "resumo antigo | ") {
		t.Errorf("summary should fold the previous one, got %q", sess.Summary)
	}
}

func TestStoreAcquireIsolatesKeys(t *testing.T) {
	store := NewStore()

	a, releaseA := store.Acquire("sessao-a")
	a.FallbackAttempts = 3
	releaseA()

	b, releaseB := store.Acquire("sessao-b")
	if b.FallbackAttempts != 0 {
		t.Error("sessions must not share state across keys")
	}
	releaseB()

	again, release := store.Acquire("sessao-a")
	if again.FallbackAttempts != 3 {
		t.Error("reacquiring a key must return the same session")
	}
	release()

	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
}

func TestStoreAcquireSerializesSameKey(t *testing.T) {
	store := NewStore()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			sess, release := store.Acquire("mesma-sessao")
			sess.FallbackAttempts++
			release()
		}()
	}
	wg.Wait()

	sess, release := store.Acquire("mesma-sessao")
	defer release()
	if sess.FallbackAttempts != goroutines {
		t.Errorf("FallbackAttempts = %d, want %d", sess.FallbackAttempts, goroutines)
	}
}

func TestClearRecordResetsFallbacks(t *testing.T) {
	store := NewStore()
	sess, release := store.Acquire("s")
	defer release()

	sess.SetRecord(domain.IntentLead, domain.NewRecord())
	sess.FallbackAttempts = 1
	sess.ClearRecord(domain.IntentLead)

	if sess.Record(domain.IntentLead) != nil {
		t.Error("record should be cleared")
	}
	if sess.FallbackAttempts != 0 {
		t.Error("fallback counter should reset with the record")
	}
}
