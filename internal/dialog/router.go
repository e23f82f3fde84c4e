// Package dialog orchestrates one chat turn: it sanitizes the message,
// classifies it, routes to the FAQ base or to the matching slot-filling flow,
// and maintains the session history around the exchange.
package dialog

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/techsolutions/assistente/internal/domain"
	"github.com/techsolutions/assistente/internal/extract"
	"github.com/techsolutions/assistente/internal/faq"
	"github.com/techsolutions/assistente/internal/flow"
	"github.com/techsolutions/assistente/internal/nlu"
	"github.com/techsolutions/assistente/internal/session"
)

// PrivacyNotice accompanies every reply that touches personal data.
const PrivacyNotice = "Usamos os dados compartilhados apenas para contato e atendimento, conforme solicitado."

// HandoffMessage is sent when the user asks for a person or the assistant
// gives up on understanding.
const HandoffMessage = "Claro! Vou acionar um especialista da Tech Solutions para continuar com você. Em instantes alguém assume a conversa."

const (
	ctaSuffix     = "Posso ajudar com algo mais?"
	fallbackReply = "Não tenho certeza se entendi. Poderia reformular ou detalhar um pouco mais?"
)

// maxFallbacks is how many consecutive misunderstood turns are tolerated
// before offering a human handoff.
const maxFallbacks = 2

// Keyword overrides applied when the classifier comes back undecided. The
// message itself often names the task even when the model hedges.
var (
	overrideLead     = regexp.MustCompile(`or[çc]amento|proposta|pre[çc]o`)
	overrideSupport  = regexp.MustCompile(`erro|bug|falha|problema|incidente`)
	overrideSchedule = regexp.MustCompile(`agend|reuni[aã]o|demo|calend[aá]rio`)
	overrideFAQ      = regexp.MustCompile(`servi[çc]o|produto|faq|pergunta`)
)

// stickyOrder is the priority in which unfinished flows reclaim an undecided
// message.
var stickyOrder = []domain.Intent{domain.IntentLead, domain.IntentSupport, domain.IntentSchedule}

// ErrBadInput marks requests missing the session key or the message.
var ErrBadInput = errors.New("message e sessionId são obrigatórios")

// Result is the outcome of one submitted message.
type Result struct {
	Reply   string
	Intent  domain.Intent
	Privacy string
}

// Router wires the classifier, the FAQ base and the flows onto the session
// store.
type Router struct {
	sessions   *session.Store
	classifier nlu.Classifier
	faqBase    *faq.Base
	flows      map[domain.Intent]*flow.Flow
}

// NewRouter assembles the turn orchestrator.
func NewRouter(sessions *session.Store, classifier nlu.Classifier, faqBase *faq.Base, flows ...*flow.Flow) *Router {
	byIntent := make(map[domain.Intent]*flow.Flow, len(flows))
	for _, f := range flows {
		byIntent[f.Domain()] = f
	}
	return &Router{
		sessions:   sessions,
		classifier: classifier,
		faqBase:    faqBase,
		flows:      byIntent,
	}
}

// Submit processes one user message for a session and produces the reply.
// The session lock is held for the whole turn, so concurrent messages for the
// same session are applied one at a time.
func (r *Router) Submit(ctx context.Context, sessionKey, message string) (Result, error) {
	if sessionKey == "" || strings.TrimSpace(message) == "" {
		return Result{}, ErrBadInput
	}

	sanitized := extract.Sanitize(message)

	sess, release := r.sessions.Acquire(sessionKey)
	defer release()

	sess.AppendMessage(domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   sanitized,
		Timestamp: time.Now(),
	})

	classification := r.classifier.Classify(ctx, nlu.Context{
		SessionID: sessionKey,
		Message:   sanitized,
		History:   sess.Messages,
		Summary:   sess.Summary,
	})

	intent := r.resolveIntent(sess, sanitized, classification.Intent)

	reply, err := r.dispatch(ctx, sess, intent, sanitized, classification.Entities)
	if err != nil {
		return Result{}, err
	}

	if !strings.HasSuffix(reply, ctaSuffix) {
		reply = reply + "\n" + ctaSuffix
	}
	sess.AppendMessage(domain.ChatMessage{
		Role:      domain.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
	})

	slog.Info("chat turn",
		"session", sessionKey,
		"intent", intent,
		"action", classification.Action,
		"confidence", classification.Confidence)

	return Result{Reply: reply, Intent: intent, Privacy: PrivacyNotice}, nil
}

// resolveIntent refines an undecided classification, first by message
// keywords, then by handing the message to whichever flow is mid-collection.
func (r *Router) resolveIntent(sess *session.Session, message string, intent domain.Intent) domain.Intent {
	if intent != domain.IntentOther {
		return intent
	}

	lowered := strings.ToLower(message)
	switch {
	case overrideLead.MatchString(lowered):
		return domain.IntentLead
	case overrideSupport.MatchString(lowered):
		return domain.IntentSupport
	case overrideSchedule.MatchString(lowered):
		return domain.IntentSchedule
	case overrideFAQ.MatchString(lowered):
		return domain.IntentFAQ
	}

	for _, candidate := range stickyOrder {
		if rec := sess.Record(candidate); rec != nil && !rec.Confirmed {
			return candidate
		}
	}
	return domain.IntentOther
}

func (r *Router) dispatch(ctx context.Context, sess *session.Session, intent domain.Intent, message string, entities map[string]string) (string, error) {
	if f, ok := r.flows[intent]; ok {
		return r.advanceFlow(ctx, sess, f, message, entities)
	}

	switch intent {
	case domain.IntentFAQ:
		sess.FallbackAttempts = 0
		if answer, ok := r.faqBase.Answer(message); ok {
			return answer, nil
		}
		return faq.Fallback, nil

	case domain.IntentHandoff:
		sess.FallbackAttempts = 0
		return HandoffMessage, nil
	}

	sess.FallbackAttempts++
	if sess.FallbackAttempts >= maxFallbacks {
		sess.FallbackAttempts = 0
		return HandoffMessage + "\nSe preferir posso registrar seu contato.", nil
	}
	return fallbackReply, nil
}

func (r *Router) advanceFlow(ctx context.Context, sess *session.Session, f *flow.Flow, message string, entities map[string]string) (string, error) {
	rec := sess.Record(f.Domain())
	if rec == nil {
		rec = domain.NewRecord()
		sess.SetRecord(f.Domain(), rec)
	}

	res, err := f.Advance(ctx, rec, message, entities)
	if err != nil {
		return "", err
	}

	reply := res.Reply
	if !res.PrivacyEmbedded {
		reply = reply + "\n" + PrivacyNotice
	}
	if res.Done {
		sess.ClearRecord(f.Domain())
	}
	sess.FallbackAttempts = 0
	return reply, nil
}
