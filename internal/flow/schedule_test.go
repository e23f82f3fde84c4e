package flow

import (
	"strings"
	"testing"

	"github.com/techsolutions/assistente/internal/domain"
)

func TestScheduleFlowFullConversation(t *testing.T) {
	bookings := &fakeBookings{}
	f := NewSchedule(bookings)
	rec := domain.NewRecord()

	res := advance(t, f, rec, "Quero agendar uma demo",
		map[string]string{"interesse": "Quero agendar uma demo"})
	if !strings.Contains(res.Reply, "Tenho essas opções nos próximos dias") {
		t.Fatalf("expected slot options prompt, got %q", res.Reply)
	}
	if len(rec.Options) == 0 {
		t.Fatal("record should carry the offered slots")
	}
	if !strings.Contains(res.Reply, "1. "+rec.Options[0]) {
		t.Errorf("prompt should enumerate options, got %q", res.Reply)
	}

	res = advance(t, f, rec, "1", nil)
	if rec.Value(FieldSlot) != rec.Options[0] {
		t.Fatalf("slot = %q, want %q", rec.Value(FieldSlot), rec.Options[0])
	}
	if !strings.Contains(res.Reply, "agendamento") {
		t.Fatalf("expected contact prompt, got %q", res.Reply)
	}
	if !res.PrivacyEmbedded {
		t.Error("schedule contact prompt should embed the privacy language")
	}

	res = advance(t, f, rec, "maria@empresa.com", nil)
	if !strings.Contains(res.Reply, "Posso finalizar o agendamento?") {
		t.Fatalf("expected summary, got %q", res.Reply)
	}
	if res.PrivacyEmbedded {
		t.Error("schedule summary does not embed the privacy language")
	}

	res = advance(t, f, rec, "Pode marcar", nil)
	if !res.Done {
		t.Fatal("affirmation should finish the flow")
	}

	if len(bookings.bookings) != 1 {
		t.Fatalf("expected 1 persisted booking, got %d", len(bookings.bookings))
	}
	booking := bookings.bookings[0]
	if booking.Slot != rec.Options[0] || booking.Contato != "maria@empresa.com" {
		t.Errorf("persisted booking = %+v", booking)
	}
}

func TestScheduleFlowOptionsSurviveUnreadableStore(t *testing.T) {
	bookings := &fakeBookings{loadErr: errStoreDown}
	f := NewSchedule(bookings)
	rec := domain.NewRecord()

	res := advance(t, f, rec, "Quero marcar uma reunião",
		map[string]string{"interesse": "reunião"})
	if len(rec.Options) == 0 {
		t.Fatal("an unreadable bookings store must not block slot generation")
	}
	if !strings.Contains(res.Reply, "Tenho essas opções") {
		t.Errorf("expected slot options prompt, got %q", res.Reply)
	}
}

func TestScheduleFlowCommitDefaults(t *testing.T) {
	bookings := &fakeBookings{}
	f := NewSchedule(bookings)
	rec := domain.NewRecord()
	rec.Options = []string{"02/09/2026 09:00 BRT"}
	rec.Set(FieldInteresse, "")
	rec.Set(FieldSlot, rec.Options[0])
	rec.Set(FieldContato, "")
	rec.ConfirmationRequested = true

	res := advance(t, f, rec, "Confirmo", nil)
	if !res.Done {
		t.Fatal("expected commit")
	}
	booking := bookings.bookings[0]
	if booking.Interesse != "Demonstração" {
		t.Errorf("empty interesse should default, got %q", booking.Interesse)
	}
	if booking.Contato != "não informado" {
		t.Errorf("empty contato should default, got %q", booking.Contato)
	}
}
