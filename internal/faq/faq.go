// Package faq answers company questions from a local knowledge base that is
// embedded into the binary, so FAQ lookups work without any external call.
package faq

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

//go:embed faq.json
var rawData []byte

// Fallback is returned when no entry or topic matches the question.
const Fallback = "Ainda não tenho essa informação aqui. Posso encaminhar para alguém da Tech Solutions ajudar melhor?"

var (
	topicServices = regexp.MustCompile(`servi[çc]os?`)
	topicContact  = regexp.MustCompile(`contat|telefone|email`)
	topicMission  = regexp.MustCompile(`miss[aã]o|sobre`)
)

type entry struct {
	Pergunta string `json:"pergunta"`
	Resposta string `json:"resposta"`
}

type contacts struct {
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Horario  string `json:"horario"`
}

type company struct {
	Nome     string   `json:"nome"`
	Missao   string   `json:"missao"`
	Contatos contacts `json:"contatos"`
}

type data struct {
	Empresa  company  `json:"empresa"`
	Servicos []string `json:"servicos"`
	FAQs     []entry  `json:"faqs"`
}

// Base is the loaded FAQ knowledge base.
type Base struct {
	data data
}

// Load parses the embedded knowledge base.
func Load() (*Base, error) {
	var d data
	if err := json.Unmarshal(rawData, &d); err != nil {
		return nil, fmt.Errorf("parse faq data: %w", err)
	}
	return &Base{data: d}, nil
}

// Answer resolves a question against the knowledge base. Direct entries are
// matched by containment of the question stem, then broad topics (services,
// contact, mission) are tried. The second return reports whether anything
// matched.
func (b *Base) Answer(question string) (string, bool) {
	normalized := strings.ToLower(question)

	for _, item := range b.data.FAQs {
		stem, _, _ := strings.Cut(strings.ToLower(item.Pergunta), "?")
		if stem != "" && strings.Contains(normalized, stem) {
			return item.Resposta, true
		}
	}

	switch {
	case topicServices.MatchString(normalized):
		return fmt.Sprintf("Atualmente oferecemos: %s.", strings.Join(b.data.Servicos, ", ")), true
	case topicContact.MatchString(normalized):
		c := b.data.Empresa.Contatos
		return fmt.Sprintf("Você pode falar conosco pelo e-mail %s ou pelo telefone %s (%s).",
			c.Email, c.Telefone, c.Horario), true
	case topicMission.MatchString(normalized):
		return fmt.Sprintf("Nossa missão: %s", b.data.Empresa.Missao), true
	}

	return "", false
}
