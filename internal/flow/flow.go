// Package flow implements the slot-filling dialogue engine. One generic state
// machine collects a fixed, ordered set of fields turn by turn, asks for a
// confirmation once everything required is known, and commits the finished
// record. Each domain (lead, support, schedule) instantiates the engine with
// its own field list, prompts, extractors and commit sink.
package flow

import (
	"context"

	"github.com/techsolutions/assistente/internal/domain"
)

// Field describes one slot a flow collects. Declared order is both the
// extraction order and the prompt order; required fields come first.
type Field struct {
	Name     string
	Optional bool

	// EntityKey names the classifier entity that can seed this field.
	EntityKey string

	// Extract pulls a candidate value out of the raw message while the field
	// is unset. A miss is not an error.
	Extract func(rec *domain.Record, message string) (string, bool)

	// Correct, when non-nil, may overwrite an already-set value while the flow
	// waits for confirmation (the user is fixing something). Fields whose
	// extractor swallows whole messages leave this nil so arbitrary text
	// cannot clobber them.
	Correct func(rec *domain.Record, message string) (string, bool)

	// Prompt renders the question asked when this is the first missing field.
	Prompt func(rec *domain.Record) string

	// PromptEmbedsPrivacy marks prompts that already carry data-usage
	// language, so the router does not append the privacy notice again.
	PromptEmbedsPrivacy bool
}

// Config parameterizes the generic engine for one domain.
type Config struct {
	Domain domain.Intent
	Fields []Field

	// Confirm reports whether the message affirms the pending confirmation.
	Confirm func(message string) bool

	// Summary renders the confirmation request enumerating collected fields.
	Summary func(rec *domain.Record) string

	// SummaryEmbedsPrivacy marks summaries that already carry data-usage
	// language.
	SummaryEmbedsPrivacy bool

	// Prepare runs before extraction, letting a domain attach derived state to
	// the record (the schedule flow populates its slot options here).
	Prepare func(ctx context.Context, rec *domain.Record)

	// Commit persists the finished record. A commit failure fails the turn.
	Commit func(ctx context.Context, rec *domain.Record) error

	AlreadyDone string // terminal reply once the record is confirmed
	Reconfirm   string // re-prompt when confirmation is neither given nor corrected
	Success     string // reply after a successful commit
}

// Result is the outcome of one flow turn.
type Result struct {
	Reply string
	Done  bool

	// PrivacyEmbedded is true when the reply already embeds data-usage
	// language and the privacy notice must not be appended.
	PrivacyEmbedded bool
}

// Flow is a configured slot-filling state machine.
type Flow struct {
	cfg Config
}

// New builds a flow from a domain configuration.
func New(cfg Config) *Flow {
	return &Flow{cfg: cfg}
}

// Domain returns the intent this flow serves.
func (f *Flow) Domain() domain.Intent {
	return f.cfg.Domain
}

// Advance runs one turn: it folds the message (and any classifier-extracted
// entities) into the record, then decides the next prompt, the confirmation
// request, or the commit. The record is mutated in place; Done reports that
// the flow is finished for this session.
func (f *Flow) Advance(ctx context.Context, rec *domain.Record, message string, entities map[string]string) (Result, error) {
	// A confirmed record is immutable and the flow terminal: further messages
	// never re-extract and never re-submit.
	if rec.Confirmed {
		return Result{Reply: f.cfg.AlreadyDone, Done: true}, nil
	}

	if f.cfg.Prepare != nil {
		f.cfg.Prepare(ctx, rec)
	}

	// Seed unset fields from classifier entities.
	for _, field := range f.cfg.Fields {
		if field.EntityKey == "" || rec.Has(field.Name) {
			continue
		}
		if v, ok := entities[field.EntityKey]; ok && v != "" {
			rec.Set(field.Name, v)
		}
	}

	// Extraction pass, declared order. Set fields are only revisited during
	// the confirmation step, and only through the field's correction matcher.
	// While confirmation is pending every required field is already set, so a
	// catch-all extractor can never reinterpret the affirmation text itself.
	updated := false
	for _, field := range f.cfg.Fields {
		if !rec.Has(field.Name) {
			if v, ok := field.Extract(rec, message); ok {
				rec.Set(field.Name, v)
				updated = true
			}
			continue
		}
		if rec.ConfirmationRequested && field.Correct != nil {
			if v, ok := field.Correct(rec, message); ok && v != rec.Value(field.Name) {
				rec.Set(field.Name, v)
				updated = true
			}
		}
	}

	// An affirmation while confirmation is pending commits the record,
	// including whatever the same message just filled in or corrected.
	if rec.ConfirmationRequested && f.cfg.Confirm(message) {
		rec.Confirmed = true
		rec.ConfirmationRequested = false
		if err := f.cfg.Commit(ctx, rec); err != nil {
			rec.Confirmed = false
			return Result{}, err
		}
		return Result{Reply: f.cfg.Success, Done: true}, nil
	}

	missing := f.missingRequired(rec)

	if len(missing) == 0 && rec.ConfirmationRequested {
		if !updated {
			return Result{Reply: f.cfg.Reconfirm}, nil
		}
		// The user corrected a field: drop the stale confirmation and
		// re-summarize below.
		rec.ConfirmationRequested = false
	}

	if len(missing) == 0 {
		rec.ConfirmationRequested = true
		return Result{
			Reply:           f.cfg.Summary(rec),
			PrivacyEmbedded: f.cfg.SummaryEmbedsPrivacy,
		}, nil
	}

	next := missing[0]
	return Result{
		Reply:           next.Prompt(rec),
		PrivacyEmbedded: next.PromptEmbedsPrivacy,
	}, nil
}

func (f *Flow) missingRequired(rec *domain.Record) []Field {
	var missing []Field
	for _, field := range f.cfg.Fields {
		if !field.Optional && !rec.Has(field.Name) {
			missing = append(missing, field)
		}
	}
	return missing
}
