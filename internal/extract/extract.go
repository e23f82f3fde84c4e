// Package extract provides pure, stateless field extractors used by the
// slot-filling flows. Extractors never fail: a miss means the field was not
// provided in this message, not an error.
package extract

import (
	"regexp"
	"strings"
)

var (
	dangerousChars = regexp.MustCompile("[<>\\\\{}\\[\\]^`]")

	emailRe    = regexp.MustCompile(`[\w.-]+@(?:[\w-]+\.)+[\w-]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s-]{7,}`)
	digitsRe   = regexp.MustCompile(`\d+`)
	budgetRe   = regexp.MustCompile(`\d+[\d.,]*`)
	budgetCtx  = regexp.MustCompile(`(?i)or[çc]amento|estimad|valor|investimento`)
	teamCtx    = regexp.MustCompile(`(?i)equipe|pessoas|time|squad`)
	nameHint   = regexp.MustCompile(`(?i)nome`)
	namePrefix = regexp.MustCompile(`(?i)^.*nome\s*(?:e|é)\s*`)
	// Two or more capitalized words and nothing else, e.g. "João Silva".
	bareName      = regexp.MustCompile(`^\p{Lu}\p{Ll}+(?: \p{Lu}\p{Ll}+)+$`)
	companyRe     = regexp.MustCompile(`(?i)\bempresa\b\s+(\S.*)$`)
	severityHigh  = regexp.MustCompile(`(?i)alta|cr[ií]tico|parado|urgente`)
	severityMed   = regexp.MustCompile(`(?i)m[eé]dia|intermedi[aá]ria`)
	severityLow   = regexp.MustCompile(`(?i)baixa|leve|informativo`)
	teamSmall     = regexp.MustCompile(`(?i)pequena|startup`)
	teamMedium    = regexp.MustCompile(`(?i)m[eé]dia`)
	teamLarge     = regexp.MustCompile(`(?i)grande|enterprise|corp`)
	slotOrdinalRe = regexp.MustCompile(`\b([1-6])\b`)
)

// Sanitize strips characters that could smuggle markup into replies or
// stored records, and trims surrounding whitespace.
func Sanitize(input string) string {
	return strings.TrimSpace(dangerousChars.ReplaceAllString(input, ""))
}

// Email returns the first email-shaped token in the text.
func Email(text string) (string, bool) {
	m := emailRe.FindString(text)
	return m, m != ""
}

// Contact returns an email address if present, otherwise a digit sequence of
// at least 8 characters (a phone number).
func Contact(text string) (string, bool) {
	if email, ok := Email(text); ok {
		return email, true
	}
	m := phoneRe.FindString(text)
	return m, m != ""
}

// TeamSize prefers a literal digit sequence over qualitative buckets
// ("pequena", "média", "grande"). Both absent means not provided.
func TeamSize(text string) (string, bool) {
	normalized := strings.ToLower(text)
	if m := digitsRe.FindString(normalized); m != "" {
		return m, true
	}
	switch {
	case teamSmall.MatchString(normalized):
		return "Pequena", true
	case teamMedium.MatchString(normalized):
		return "Média", true
	case teamLarge.MatchString(normalized):
		return "Grande", true
	}
	return "", false
}

// TeamSizeMention extracts a team size only when the message talks about a
// team. Used for corrections, where a bare number could mean anything.
func TeamSizeMention(text string) (string, bool) {
	if !teamCtx.MatchString(text) {
		return "", false
	}
	return TeamSize(text)
}

// Budget extracts a budget figure. The number must appear alongside budget
// language so that unrelated digits (a team size, a slot ordinal) are not
// mistaken for money.
func Budget(text string) (string, bool) {
	if !budgetCtx.MatchString(text) {
		return "", false
	}
	m := budgetRe.FindString(text)
	return m, m != ""
}

// Name extracts a person's name, either from a "meu nome é ..." phrase or
// from a message that is nothing but a capitalized full name.
func Name(text string) (string, bool) {
	sanitized := Sanitize(text)
	if nameHint.MatchString(sanitized) {
		stripped := strings.TrimSpace(namePrefix.ReplaceAllString(sanitized, ""))
		return stripped, stripped != ""
	}
	if bareName.MatchString(sanitized) {
		return sanitized, true
	}
	return "", false
}

// NameMention extracts a name only from an explicit "nome é ..." phrase.
func NameMention(text string) (string, bool) {
	sanitized := Sanitize(text)
	if !nameHint.MatchString(sanitized) {
		return "", false
	}
	stripped := strings.TrimSpace(namePrefix.ReplaceAllString(sanitized, ""))
	return stripped, stripped != ""
}

// Company extracts a company name following the word "empresa". The keyword
// must be followed by whitespace so email domains like "@empresa.com" do not
// match.
func Company(text string) (string, bool) {
	m := companyRe.FindStringSubmatch(Sanitize(text))
	if m == nil {
		return "", false
	}
	company := strings.TrimSpace(m[1])
	return company, company != ""
}

// Severity maps free text onto the fixed severity enum.
func Severity(text string) (string, bool) {
	switch {
	case severityHigh.MatchString(text):
		return "alta", true
	case severityMed.MatchString(text):
		return "media", true
	case severityLow.MatchString(text):
		return "baixa", true
	}
	return "", false
}

// SlotSelection resolves a user's slot choice against the offered options:
// either a 1-based ordinal or a partial match on a slot's date or time
// substring. An out-of-range or unmatched reference is a miss.
func SlotSelection(message string, options []string) (string, bool) {
	if m := slotOrdinalRe.FindStringSubmatch(message); m != nil {
		idx := int(m[1][0]-'0') - 1
		if idx >= 0 && idx < len(options) {
			return options[idx], true
		}
		return "", false
	}
	normalized := strings.ToLower(message)
	for _, slot := range options {
		if len(slot) >= 16 &&
			(strings.Contains(normalized, slot[:10]) || strings.Contains(normalized, slot[11:16])) {
			return slot, true
		}
	}
	return "", false
}
