package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/techsolutions/assistente/internal/domain"
	"github.com/techsolutions/assistente/internal/faq"
	"github.com/techsolutions/assistente/internal/flow"
	"github.com/techsolutions/assistente/internal/nlu"
	"github.com/techsolutions/assistente/internal/session"
)

type memLeads struct{ leads []domain.Lead }

func (m *memLeads) LoadAll(context.Context) ([]domain.Lead, error) { return m.leads, nil }
func (m *memLeads) Append(_ context.Context, lead domain.Lead) error {
	m.leads = append(m.leads, lead)
	return nil
}

type memTickets struct{ tickets []domain.Ticket }

func (m *memTickets) LoadAll(context.Context) ([]domain.Ticket, error) { return m.tickets, nil }
func (m *memTickets) Append(_ context.Context, ticket domain.Ticket) error {
	m.tickets = append(m.tickets, ticket)
	return nil
}

type memBookings struct{ bookings []domain.Booking }

func (m *memBookings) LoadAll(context.Context) ([]domain.Booking, error) { return m.bookings, nil }
func (m *memBookings) Append(_ context.Context, booking domain.Booking) error {
	m.bookings = append(m.bookings, booking)
	return nil
}

type fixture struct {
	router   *Router
	leads    *memLeads
	tickets  *memTickets
	bookings *memBookings
	sessions *session.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base, err := faq.Load()
	if err != nil {
		t.Fatalf("faq.Load: %v", err)
	}
	leads := &memLeads{}
	tickets := &memTickets{}
	bookings := &memBookings{}
	sessions := session.NewStore()
	router := NewRouter(sessions, nlu.NewKeyword(), base,
		flow.NewLead(leads),
		flow.NewSupport(tickets),
		flow.NewSchedule(bookings),
	)
	return &fixture{router: router, leads: leads, tickets: tickets, bookings: bookings, sessions: sessions}
}

func (f *fixture) say(t *testing.T, sessionKey, message string) Result {
	t.Helper()
	res, err := f.router.Submit(context.Background(), sessionKey, message)
	if err != nil {
		t.Fatalf("Submit(%q) failed: %v", message, err)
	}
	return res
}

func TestSubmitRejectsEmptyInput(t *testing.T) {
	f := newFixture(t)

	if _, err := f.router.Submit(context.Background(), "", "oi"); !errors.Is(err, ErrBadInput) {
		t.Errorf("empty session key: err = %v", err)
	}
	if _, err := f.router.Submit(context.Background(), "s1", "   "); !errors.Is(err, ErrBadInput) {
		t.Errorf("blank message: err = %v", err)
	}
}

func TestSubmitFAQ(t *testing.T) {
	f := newFixture(t)

	res := f.say(t, "faq-1", "Quais serviços vocês oferecem?")
	if res.Intent != domain.IntentFAQ {
		t.Errorf("intent = %q", res.Intent)
	}
	if !strings.Contains(res.Reply, "Oferecemos") {
		t.Errorf("reply = %q", res.Reply)
	}
	if !strings.HasSuffix(res.Reply, "Posso ajudar com algo mais?") {
		t.Errorf("reply should end with the follow-up question: %q", res.Reply)
	}
	if res.Privacy != PrivacyNotice {
		t.Errorf("privacy = %q", res.Privacy)
	}
}

func TestSubmitFAQMiss(t *testing.T) {
	f := newFixture(t)

	res := f.say(t, "faq-2", "tem alguma pergunta frequente que eu possa consultar?")
	if res.Intent != domain.IntentFAQ {
		t.Errorf("intent = %q", res.Intent)
	}
	if !strings.Contains(res.Reply, "Ainda não tenho essa informação aqui") {
		t.Errorf("reply = %q", res.Reply)
	}
}

func TestSubmitLeadConversation(t *testing.T) {
	f := newFixture(t)
	const key = "lead-1"

	res := f.say(t, key, "Preciso de um orçamento para um projeto")
	if res.Intent != domain.IntentLead {
		t.Fatalf("intent = %q", res.Intent)
	}
	if !strings.Contains(res.Reply, "nome completo") {
		t.Fatalf("reply = %q", res.Reply)
	}
	if !strings.Contains(res.Reply, PrivacyNotice) {
		t.Error("flow prompt should carry the privacy notice")
	}

	// Follow-ups have no lead keywords; the open lead flow reclaims them.
	res = f.say(t, key, "João Silva")
	if res.Intent != domain.IntentLead || !strings.Contains(res.Reply, "e-mail corporativo") {
		t.Fatalf("intent = %q, reply = %q", res.Intent, res.Reply)
	}

	f.say(t, key, "joao@empresa.com")
	f.say(t, key, "Trabalho na empresa Acme")

	res = f.say(t, key, "Equipe de 12 pessoas")
	if !strings.Contains(res.Reply, "Resumo do que anotei") {
		t.Fatalf("expected summary, got %q", res.Reply)
	}
	if strings.Contains(res.Reply, PrivacyNotice) {
		t.Error("summary embeds its own privacy language, notice must not be appended")
	}

	res = f.say(t, key, "Orçamento estimado 50000")
	if !strings.Contains(res.Reply, "Orçamento estimado: 50000") {
		t.Fatalf("expected re-summary with budget, got %q", res.Reply)
	}
	if len(f.leads.leads) != 0 {
		t.Fatal("nothing may be persisted before the affirmation")
	}

	res = f.say(t, key, "Sim, pode enviar")
	if !strings.Contains(res.Reply, "time comercial") {
		t.Fatalf("reply = %q", res.Reply)
	}

	if len(f.leads.leads) != 1 {
		t.Fatalf("persisted leads = %d, want 1", len(f.leads.leads))
	}
	lead := f.leads.leads[0]
	if lead.Nome != "João Silva" || lead.Email != "joao@empresa.com" ||
		lead.Empresa != "Acme" || lead.TamanhoEquipe != "12" || lead.Orcamento != "50000" {
		t.Errorf("lead = %+v", lead)
	}

	// A repeated affirmation must not create a second lead.
	f.say(t, key, "Sim, pode enviar")
	if len(f.leads.leads) != 1 {
		t.Errorf("duplicate commit: %d leads", len(f.leads.leads))
	}
}

func TestSubmitSupportConversation(t *testing.T) {
	f := newFixture(t)
	const key = "sup-1"

	res := f.say(t, key, "O sistema parou com erro 500")
	if res.Intent != domain.IntentSupport {
		t.Fatalf("intent = %q", res.Intent)
	}
	if !strings.Contains(res.Reply, "severidade") {
		t.Fatalf("reply = %q", res.Reply)
	}

	f.say(t, key, "É alta, por favor")
	res = f.say(t, key, "suporte@cliente.com")
	if !strings.Contains(res.Reply, "Resumo do ticket") {
		t.Fatalf("expected summary, got %q", res.Reply)
	}

	f.say(t, key, "Sim, pode enviar")
	if len(f.tickets.tickets) != 1 {
		t.Fatalf("persisted tickets = %d, want 1", len(f.tickets.tickets))
	}
	ticket := f.tickets.tickets[0]
	if ticket.Severidade != "alta" || ticket.Contato != "suporte@cliente.com" {
		t.Errorf("ticket = %+v", ticket)
	}
	if ticket.Descricao != "O sistema parou com erro 500" {
		t.Errorf("descricao = %q", ticket.Descricao)
	}
}

func TestSubmitScheduleConversation(t *testing.T) {
	f := newFixture(t)
	const key = "sch-1"

	res := f.say(t, key, "Quero agendar uma demo")
	if res.Intent != domain.IntentSchedule {
		t.Fatalf("intent = %q", res.Intent)
	}
	if !strings.Contains(res.Reply, "Tenho essas opções") {
		t.Fatalf("reply = %q", res.Reply)
	}

	res = f.say(t, key, "1")
	if !strings.Contains(res.Reply, "agendamento") {
		t.Fatalf("expected contact prompt, got %q", res.Reply)
	}
	if strings.Contains(res.Reply, PrivacyNotice) {
		t.Error("contact prompt embeds its own privacy language")
	}

	f.say(t, key, "maria@empresa.com")
	f.say(t, key, "Pode marcar")

	if len(f.bookings.bookings) != 1 {
		t.Fatalf("persisted bookings = %d, want 1", len(f.bookings.bookings))
	}
	if f.bookings.bookings[0].Contato != "maria@empresa.com" {
		t.Errorf("booking = %+v", f.bookings.bookings[0])
	}
}

func TestSubmitHandoff(t *testing.T) {
	f := newFixture(t)

	res := f.say(t, "h1", "Quero falar com um humano")
	if res.Intent != domain.IntentHandoff {
		t.Errorf("intent = %q", res.Intent)
	}
	if !strings.Contains(res.Reply, HandoffMessage) {
		t.Errorf("reply = %q", res.Reply)
	}
}

func TestSubmitFallbackEscalatesToHandoff(t *testing.T) {
	f := newFixture(t)
	const key = "fb-1"

	res := f.say(t, key, "blz então")
	if res.Intent != domain.IntentOther {
		t.Fatalf("intent = %q", res.Intent)
	}
	if !strings.Contains(res.Reply, "Não tenho certeza se entendi") {
		t.Fatalf("first fallback reply = %q", res.Reply)
	}

	res = f.say(t, key, "hmmmm")
	if !strings.Contains(res.Reply, HandoffMessage) {
		t.Fatalf("second fallback should hand off, got %q", res.Reply)
	}
	if !strings.Contains(res.Reply, "Se preferir posso registrar seu contato.") {
		t.Errorf("reply = %q", res.Reply)
	}

	// Counter resets after the handoff.
	res = f.say(t, key, "blz então")
	if !strings.Contains(res.Reply, "Não tenho certeza se entendi") {
		t.Errorf("reply after reset = %q", res.Reply)
	}
}

func TestSubmitSanitizesBeforeStoring(t *testing.T) {
	f := newFixture(t)
	const key = "san-1"

	f.say(t, key, "Preciso de um orçamento <script>alert(1)</script>")

	sess, release := f.sessions.Acquire(key)
	defer release()
	if got := sess.Messages[0].Content; strings.ContainsAny(got, "<>") {
		t.Errorf("stored message was not sanitized: %q", got)
	}
	if rec := sess.Record(domain.IntentLead); rec == nil {
		t.Error("lead flow should have started")
	}
}
