package flow

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/techsolutions/assistente/internal/domain"
	"github.com/techsolutions/assistente/internal/extract"
	"github.com/techsolutions/assistente/internal/store"
)

// Slot names shared by the flows, the classifier entity contract and the
// persistence layer.
const (
	FieldNome          = "nome"
	FieldEmail         = "email"
	FieldEmpresa       = "empresa"
	FieldTamanhoEquipe = "tamanhoEquipe"
	FieldInteresse     = "interesse"
	FieldOrcamento     = "orcamento"
	FieldSeveridade    = "severidade"
	FieldDescricao     = "descricao"
	FieldContato       = "contato"
	FieldSlot          = "slot"
)

var leadConfirmRe = regexp.MustCompile(`(?i)sim|correto|isso mesmo|perfeito|ok`)

// NewLead builds the lead-capture flow. Required fields, in prompt order:
// nome, email, empresa, tamanhoEquipe, interesse; orcamento is optional and
// filled opportunistically, never prompted for.
func NewLead(leads store.LeadStore) *Flow {
	return New(Config{
		Domain: domain.IntentLead,
		Fields: []Field{
			{
				Name:    FieldNome,
				Extract: func(_ *domain.Record, msg string) (string, bool) { return extract.Name(msg) },
				Correct: func(_ *domain.Record, msg string) (string, bool) { return extract.NameMention(msg) },
				Prompt:  staticPrompt("Perfeito! Qual é o seu nome completo?"),
			},
			{
				Name:    FieldEmail,
				Extract: func(_ *domain.Record, msg string) (string, bool) { return extract.Email(msg) },
				Correct: func(_ *domain.Record, msg string) (string, bool) { return extract.Email(msg) },
				Prompt:  staticPrompt("Obrigado. Pode compartilhar seu e-mail corporativo?"),
			},
			{
				Name:    FieldEmpresa,
				Extract: func(_ *domain.Record, msg string) (string, bool) { return extract.Company(msg) },
				Correct: func(_ *domain.Record, msg string) (string, bool) { return extract.Company(msg) },
				Prompt:  staticPrompt("Qual é o nome da sua empresa?"),
			},
			{
				Name:    FieldTamanhoEquipe,
				Extract: func(_ *domain.Record, msg string) (string, bool) { return extract.TeamSize(msg) },
				Correct: func(_ *domain.Record, msg string) (string, bool) { return extract.TeamSizeMention(msg) },
				Prompt:  staticPrompt("Quantas pessoas aproximadas compõem a equipe ou squad que usaria a solução?"),
			},
			{
				Name:      FieldInteresse,
				EntityKey: FieldInteresse,
				Extract:   wholeMessage,
				Prompt:    staticPrompt("Poderia detalhar rapidamente o que você busca? (ex: tipo de projeto, objetivo)"),
			},
			{
				Name:     FieldOrcamento,
				Optional: true,
				Extract:  func(_ *domain.Record, msg string) (string, bool) { return extract.Budget(msg) },
				Correct:  func(_ *domain.Record, msg string) (string, bool) { return extract.Budget(msg) },
				Prompt:   staticPrompt("Se já tiver uma estimativa de orçamento, posso registrar. Caso não tenha, é só dizer que ainda não definiu."),
			},
		},
		Confirm: leadConfirmRe.MatchString,
		Summary: func(rec *domain.Record) string {
			var b strings.Builder
			fmt.Fprintf(&b, "Resumo do que anotei:\n- Nome: %s\n- E-mail: %s\n- Empresa: %s\n- Tamanho da equipe: %s\n- Interesse: %s",
				rec.Value(FieldNome), rec.Value(FieldEmail), rec.Value(FieldEmpresa),
				rec.Value(FieldTamanhoEquipe), rec.Value(FieldInteresse))
			if budget, ok := rec.Get(FieldOrcamento); ok {
				fmt.Fprintf(&b, "\n- Orçamento estimado: %s", budget)
			}
			b.WriteString("\nPosso registrar esses dados no CRM para nosso time comercial? Usaremos somente para contato e acompanhamento.")
			return b.String()
		},
		SummaryEmbedsPrivacy: true,
		Commit: func(ctx context.Context, rec *domain.Record) error {
			return leads.Append(ctx, domain.Lead{
				Nome:          rec.Value(FieldNome),
				Email:         rec.Value(FieldEmail),
				Empresa:       rec.Value(FieldEmpresa),
				TamanhoEquipe: rec.Value(FieldTamanhoEquipe),
				Interesse:     rec.Value(FieldInteresse),
				Orcamento:     rec.Value(FieldOrcamento),
				CriadoEm:      time.Now(),
			})
		},
		AlreadyDone: "Dados já confirmados e enviados ao time comercial. Posso ajudar com algo mais?",
		Reconfirm:   "Se precisar ajustar alguma informação é só me avisar. Está tudo correto para eu enviar ao time comercial?",
		Success:     "Perfeito, encaminhei os dados ao time comercial. Eles entrarão em contato em breve. Posso ajudar com algo mais?",
	})
}

func staticPrompt(text string) func(*domain.Record) string {
	return func(*domain.Record) string { return text }
}

// wholeMessage is the catch-all extractor for free-form fields: the sanitized
// message itself is the value. Catch-all fields have no correction matcher.
func wholeMessage(_ *domain.Record, msg string) (string, bool) {
	sanitized := extract.Sanitize(msg)
	return sanitized, sanitized != ""
}
