package flow

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/techsolutions/assistente/internal/domain"
	"github.com/techsolutions/assistente/internal/extract"
	"github.com/techsolutions/assistente/internal/store"
)

var supportConfirmRe = regexp.MustCompile(`(?i)sim|pode enviar|ok|confirmo|isso mesmo`)

// NewSupport builds the support-ticket flow. Required fields, in prompt
// order: severidade, descricao, contato.
func NewSupport(tickets store.TicketStore) *Flow {
	return New(Config{
		Domain: domain.IntentSupport,
		Fields: []Field{
			{
				Name:    FieldSeveridade,
				Extract: func(_ *domain.Record, msg string) (string, bool) { return extract.Severity(msg) },
				Correct: func(_ *domain.Record, msg string) (string, bool) { return extract.Severity(msg) },
				Prompt:  staticPrompt("Pode me informar a severidade? (baixa, média ou alta)"),
			},
			{
				Name:      FieldDescricao,
				EntityKey: FieldDescricao,
				Extract:   wholeMessage,
				Prompt:    staticPrompt("Poderia descrever rapidamente o que está ocorrendo?"),
			},
			{
				Name:    FieldContato,
				Extract: func(_ *domain.Record, msg string) (string, bool) { return extract.Contact(msg) },
				Correct: func(_ *domain.Record, msg string) (string, bool) { return extract.Contact(msg) },
				Prompt:  staticPrompt("Qual e-mail ou telefone podemos usar para retorno?"),
			},
		},
		Confirm: supportConfirmRe.MatchString,
		Summary: func(rec *domain.Record) string {
			return fmt.Sprintf("Resumo do ticket:\n- Severidade: %s\n- Descrição: %s\n- Contato: %s\nPosso registrar isso com o suporte agora? Usaremos os dados apenas para esse atendimento.",
				rec.Value(FieldSeveridade), rec.Value(FieldDescricao), rec.Value(FieldContato))
		},
		SummaryEmbedsPrivacy: true,
		Commit: func(ctx context.Context, rec *domain.Record) error {
			return tickets.Append(ctx, domain.Ticket{
				Severidade: rec.Value(FieldSeveridade),
				Descricao:  rec.Value(FieldDescricao),
				Contato:    rec.Value(FieldContato),
				CriadoEm:   time.Now(),
			})
		},
		AlreadyDone: "O ticket já foi encaminhado ao suporte. Assim que possível retornaremos. Posso ajudar em mais algo?",
		Reconfirm:   "Se precisar ajustar alguma informação do ticket é só avisar. Posso prosseguir com o envio para o suporte?",
		Success:     "Perfeito, abri o ticket com nossa equipe de suporte. Retornaremos no contato informado. Posso ajudar com mais algo?",
	})
}
