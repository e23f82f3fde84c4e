package nlu

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/techsolutions/assistente/internal/domain"
)

const systemPrompt = `Você é o Assistente da Tech Solutions. Sempre em pt-BR. Seja objetivo, cordial e útil. ` +
	`Se a pergunta for fora do escopo ou sensível, diga que não pode ajudar e ofereça contato humano. ` +
	`Extraia e confirme dados quando for lead, suporte ou agendamento. Nunca invente fatos. ` +
	`Se não souber, diga que verificará com a equipe. Responda apenas com JSON no formato ` +
	`{"intent": "faq|lead|support|schedule|handoff|other", "confidence": 0-1, "action": "ask|answer|confirm|handoff", "entities": {...}, "notes": ""}.`

// fewShots anchor the JSON contract; one example per intent.
var fewShots = []struct {
	user      string
	assistant string
}{
	{
		"Quero entender os serviços de vocês.",
		`{"intent":"faq","confidence":0.8,"action":"answer","entities":{},"notes":"Usuário pediu lista de serviços"}`,
	},
	{
		"Preciso de um orçamento para um app mobile personalizado.",
		`{"intent":"lead","confidence":0.9,"action":"ask","entities":{"interesse":"app mobile"},"notes":"Iniciar coleta de lead"}`,
	},
	{
		"Estou enfrentando erro 500 na integração com ERP.",
		`{"intent":"support","confidence":0.85,"action":"ask","entities":{"descricao":"erro 500 na integração com ERP"},"notes":"Coletar severidade e contato"}`,
	},
	{
		"Quero agendar uma demonstração na próxima semana.",
		`{"intent":"schedule","confidence":0.8,"action":"ask","entities":{"periodo":"próxima semana"},"notes":"Oferecer slots"}`,
	},
	{
		"Me conte uma fofoca qualquer.",
		`{"intent":"other","confidence":0.9,"action":"handoff","entities":{},"notes":"Fora do escopo, sugerir humano"}`,
	},
}

// historyWindow is how many recent turns accompany each classification call.
const historyWindow = 6

// OpenAI classifies messages through a chat-completions model. Any backend
// failure degrades to the deterministic keyword classifier instead of
// surfacing to the caller.
type OpenAI struct {
	client   openai.Client
	model    string
	fallback *Keyword
}

// NewOpenAI creates the remote classifier.
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		model:    model,
		fallback: NewKeyword(),
	}
}

// Classify implements Classifier.
func (o *OpenAI) Classify(ctx context.Context, in Context) domain.Classification {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2*len(fewShots)+historyWindow+4)
	messages = append(messages, openai.SystemMessage(systemPrompt))
	for _, shot := range fewShots {
		messages = append(messages,
			openai.UserMessage(shot.user),
			openai.AssistantMessage(shot.assistant),
		)
	}

	if in.Summary != "" {
		messages = append(messages,
			openai.UserMessage("Resumo até aqui: "+in.Summary),
			openai.AssistantMessage(`{"intent":"faq","confidence":0.5,"action":"answer","entities":{},"notes":"Contexto recebido"}`),
		)
	}

	history := in.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, msg := range history {
		if msg.Role == domain.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(msg.Content))
		} else {
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	messages = append(messages, openai.UserMessage(in.Message))

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Temperature: openai.Float(0.2),
		Messages:    messages,
	})
	if err != nil {
		slog.Warn("classifier backend call failed, using keyword fallback", "error", err)
		return o.fallback.Classify(ctx, in)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		slog.Warn("classifier backend returned no content, using keyword fallback")
		return o.fallback.Classify(ctx, in)
	}

	parsed, err := parseClassification(completion.Choices[0].Message.Content)
	if err != nil {
		slog.Warn("classifier backend returned malformed payload, using keyword fallback", "error", err)
		return o.fallback.Classify(ctx, in)
	}
	return parsed
}

func parseClassification(content string) (domain.Classification, error) {
	var raw struct {
		Intent     string            `json:"intent"`
		Confidence float64           `json:"confidence"`
		Action     string            `json:"action"`
		Entities   map[string]string `json:"entities"`
		Notes      string            `json:"notes"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return domain.Classification{}, err
	}

	intent := domain.Intent(raw.Intent)
	if !validIntents[intent] {
		intent = domain.IntentOther
	}
	entities := raw.Entities
	if entities == nil {
		entities = map[string]string{}
	}
	return domain.Classification{
		Intent:     intent,
		Confidence: raw.Confidence,
		Action:     raw.Action,
		Entities:   entities,
		Notes:      raw.Notes,
	}, nil
}
