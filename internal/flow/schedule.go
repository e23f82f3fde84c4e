package flow

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/techsolutions/assistente/internal/domain"
	"github.com/techsolutions/assistente/internal/extract"
	"github.com/techsolutions/assistente/internal/store"
)

var scheduleConfirmRe = regexp.MustCompile(`(?i)sim|confirmo|pode marcar|fechar|ok`)

// NewSchedule builds the meeting-scheduling flow. Required fields, in prompt
// order: interesse, slot, contato. Before any slot logic the flow attaches up
// to six future business-hour options to the record, excluding slots already
// booked.
func NewSchedule(bookings store.BookingStore) *Flow {
	return New(Config{
		Domain: domain.IntentSchedule,
		Prepare: func(ctx context.Context, rec *domain.Record) {
			if len(rec.Options) > 0 {
				return
			}
			options, err := GenerateSlots(ctx, bookings, time.Now())
			if err != nil {
				// A missing or unreadable bookings store never blocks the
				// conversation; the worst case is offering a taken slot.
				slog.Warn("failed to load bookings for slot generation", "error", err)
			}
			rec.Options = options
		},
		Fields: []Field{
			{
				Name:      FieldInteresse,
				EntityKey: FieldInteresse,
				Extract:   wholeMessage,
				Prompt:    staticPrompt("Sobre qual produto ou serviço seria a conversa?"),
			},
			{
				Name: FieldSlot,
				Extract: func(rec *domain.Record, msg string) (string, bool) {
					return extract.SlotSelection(msg, rec.Options)
				},
				Correct: func(rec *domain.Record, msg string) (string, bool) {
					return extract.SlotSelection(msg, rec.Options)
				},
				Prompt: func(rec *domain.Record) string {
					var b strings.Builder
					b.WriteString("Tenho essas opções nos próximos dias:\n")
					for i, slot := range rec.Options {
						fmt.Fprintf(&b, "%d. %s\n", i+1, slot)
					}
					b.WriteString("Qual deles prefere? Basta indicar o número.")
					return b.String()
				},
			},
			{
				Name:    FieldContato,
				Extract: func(_ *domain.Record, msg string) (string, bool) { return extract.Contact(msg) },
				Correct: func(_ *domain.Record, msg string) (string, bool) { return extract.Contact(msg) },
				Prompt: staticPrompt("Qual e-mail ou telefone podemos usar para confirmar o convite? " +
					"Os dados serão usados apenas para esse agendamento."),
				PromptEmbedsPrivacy: true,
			},
		},
		Confirm: scheduleConfirmRe.MatchString,
		Summary: func(rec *domain.Record) string {
			return fmt.Sprintf("Ótimo! Anotei o interesse em %s e o horário %s. Podemos confirmar usando o contato %s?\nPosso finalizar o agendamento?",
				rec.Value(FieldInteresse), rec.Value(FieldSlot), rec.Value(FieldContato))
		},
		Commit: func(ctx context.Context, rec *domain.Record) error {
			booking := domain.Booking{
				Slot:      rec.Value(FieldSlot),
				Interesse: rec.Value(FieldInteresse),
				Contato:   rec.Value(FieldContato),
				CriadoEm:  time.Now(),
			}
			if booking.Interesse == "" {
				booking.Interesse = "Demonstração"
			}
			if booking.Contato == "" {
				booking.Contato = "não informado"
			}
			return bookings.Append(ctx, booking)
		},
		AlreadyDone: "Agendamento confirmado anteriormente. Se precisar alterar, posso verificar disponibilidade. Posso ajudar com algo mais?",
		Reconfirm:   "Tudo certo para eu confirmar esse horário? Se preferir outro, é só mencionar.",
		Success:     "Agenda confirmada! Você receberá o convite por e-mail em breve. Posso ajudar com mais alguma coisa?",
	})
}
