package nlu

import (
	"context"
	"regexp"
	"strings"

	"github.com/techsolutions/assistente/internal/domain"
)

var (
	kwFAQ      = regexp.MustCompile(`servi[çc]o|oferecem|produtos`)
	kwLead     = regexp.MustCompile(`or[çc]amento|proposta|pre[çc]o|cota[çc][aã]o`)
	kwSupport  = regexp.MustCompile(`erro|bug|falha|problema|parou`)
	kwSchedule = regexp.MustCompile(`agend|marcar|reuni[aã]o|demo`)
	kwHandoff  = regexp.MustCompile(`humano|atendente|pessoa`)
)

// Keyword is the deterministic classifier. It looks for domain keywords in
// the lowered message, first match wins, and hands the raw message over as
// the seed entity for the flows that start from free text.
type Keyword struct{}

// NewKeyword creates the keyword classifier.
func NewKeyword() *Keyword {
	return &Keyword{}
}

// Classify implements Classifier.
func (k *Keyword) Classify(_ context.Context, in Context) domain.Classification {
	text := strings.ToLower(in.Message)

	switch {
	case kwFAQ.MatchString(text):
		return domain.Classification{
			Intent:     domain.IntentFAQ,
			Confidence: 0.7,
			Action:     "answer",
			Entities:   map[string]string{},
		}
	case kwLead.MatchString(text):
		return domain.Classification{
			Intent:     domain.IntentLead,
			Confidence: 0.75,
			Action:     "ask",
			Entities:   map[string]string{"interesse": in.Message},
		}
	case kwSupport.MatchString(text):
		return domain.Classification{
			Intent:     domain.IntentSupport,
			Confidence: 0.7,
			Action:     "ask",
			Entities:   map[string]string{"descricao": in.Message},
		}
	case kwSchedule.MatchString(text):
		return domain.Classification{
			Intent:     domain.IntentSchedule,
			Confidence: 0.72,
			Action:     "ask",
			Entities:   map[string]string{"interesse": in.Message},
		}
	case kwHandoff.MatchString(text):
		return domain.Classification{
			Intent:     domain.IntentHandoff,
			Confidence: 0.8,
			Action:     "handoff",
			Entities:   map[string]string{},
		}
	}

	return domain.Classification{
		Intent:     domain.IntentOther,
		Confidence: 0.4,
		Action:     "ask",
		Entities:   map[string]string{},
	}
}
