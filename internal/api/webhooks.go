package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/techsolutions/assistente/internal/domain"
	"github.com/techsolutions/assistente/internal/flow"
)

// HandleCreateLead handles POST /api/leads, the direct lead intake used by
// external forms.
func (h *Handler) HandleCreateLead(w http.ResponseWriter, r *http.Request) {
	var lead domain.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		Error(w, http.StatusBadRequest, "corpo da requisição inválido.")
		return
	}
	if lead.Nome == "" || lead.Email == "" {
		Error(w, http.StatusBadRequest, "Campos mínimos não informados.")
		return
	}

	if err := h.repo.Leads().Append(r.Context(), lead); err != nil {
		slog.Error("failed to persist lead", "error", err)
		Error(w, http.StatusInternalServerError, "não foi possível salvar o lead.")
		return
	}

	slog.Info("lead saved via webhook")
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleCreateTicket handles POST /api/tickets.
func (h *Handler) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var ticket domain.Ticket
	if err := json.NewDecoder(r.Body).Decode(&ticket); err != nil {
		Error(w, http.StatusBadRequest, "corpo da requisição inválido.")
		return
	}
	if ticket.Descricao == "" || ticket.Contato == "" {
		Error(w, http.StatusBadRequest, "Campos mínimos não informados.")
		return
	}

	if err := h.repo.Tickets().Append(r.Context(), ticket); err != nil {
		slog.Error("failed to persist ticket", "error", err)
		Error(w, http.StatusInternalServerError, "não foi possível salvar o ticket.")
		return
	}

	slog.Info("ticket saved via webhook")
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleListSlots handles POST /api/slots and returns the currently offerable
// meeting slots.
func (h *Handler) HandleListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := flow.GenerateSlots(r.Context(), h.repo.Bookings(), time.Now())
	if err != nil {
		slog.Warn("slot generation degraded", "error", err)
	}
	JSON(w, http.StatusOK, map[string][]string{"slots": slots})
}

// HandleBook handles POST /api/book.
func (h *Handler) HandleBook(w http.ResponseWriter, r *http.Request) {
	var booking domain.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		Error(w, http.StatusBadRequest, "corpo da requisição inválido.")
		return
	}
	if booking.Slot == "" || booking.Interesse == "" || booking.Contato == "" {
		Error(w, http.StatusBadRequest, "slot, interesse e contato são obrigatórios.")
		return
	}

	if err := h.repo.Bookings().Append(r.Context(), booking); err != nil {
		slog.Error("failed to persist booking", "error", err)
		Error(w, http.StatusInternalServerError, "não foi possível salvar o agendamento.")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
