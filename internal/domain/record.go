package domain

import (
	"time"
)

// Record accumulates slot values for one in-flight flow instance within a
// session. Field values are kept in a map keyed by slot name so the same
// record shape serves every flow; absence from the map means "not yet
// provided", which is distinct from a provided-but-empty value.
type Record struct {
	Fields                map[string]string
	Options               []string // offered time slots (schedule flow only)
	ConfirmationRequested bool
	Confirmed             bool
}

// NewRecord returns an empty record with no fields set.
func NewRecord() *Record {
	return &Record{Fields: make(map[string]string)}
}

// Get returns the value for a slot and whether it has been set.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Set stores a slot value.
func (r *Record) Set(name, value string) {
	r.Fields[name] = value
}

// Has reports whether a slot has been set.
func (r *Record) Has(name string) bool {
	_, ok := r.Fields[name]
	return ok
}

// Value returns the slot value, or the empty string when unset.
func (r *Record) Value(name string) string {
	return r.Fields[name]
}

// Lead is a committed sales lead. JSON keys match the original intake format
// consumed by the CRM webhook.
type Lead struct {
	ID            string    `json:"id,omitempty"`
	Nome          string    `json:"nome"`
	Email         string    `json:"email"`
	Empresa       string    `json:"empresa"`
	TamanhoEquipe string    `json:"tamanhoEquipe"`
	Interesse     string    `json:"interesse"`
	Orcamento     string    `json:"orcamento,omitempty"`
	CriadoEm      time.Time `json:"criadoEm"`
}

// Ticket is a committed support ticket.
type Ticket struct {
	ID         string    `json:"id,omitempty"`
	Severidade string    `json:"severidade"`
	Descricao  string    `json:"descricao"`
	Contato    string    `json:"contato"`
	CriadoEm   time.Time `json:"criadoEm"`
}

// Booking is a committed meeting slot reservation.
type Booking struct {
	ID        string    `json:"id,omitempty"`
	Slot      string    `json:"slot"`
	Interesse string    `json:"interesse"`
	Contato   string    `json:"contato"`
	CriadoEm  time.Time `json:"criadoEm"`
}
