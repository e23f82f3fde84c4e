package flow

import (
	"context"
	"errors"

	"github.com/techsolutions/assistente/internal/domain"
)

// In-memory stores used across the flow tests.

type fakeLeads struct {
	leads []domain.Lead
	err   error
}

func (f *fakeLeads) LoadAll(context.Context) ([]domain.Lead, error) { return f.leads, f.err }

func (f *fakeLeads) Append(_ context.Context, lead domain.Lead) error {
	if f.err != nil {
		return f.err
	}
	f.leads = append(f.leads, lead)
	return nil
}

type fakeTickets struct {
	tickets []domain.Ticket
	err     error
}

func (f *fakeTickets) LoadAll(context.Context) ([]domain.Ticket, error) { return f.tickets, f.err }

func (f *fakeTickets) Append(_ context.Context, ticket domain.Ticket) error {
	if f.err != nil {
		return f.err
	}
	f.tickets = append(f.tickets, ticket)
	return nil
}

type fakeBookings struct {
	bookings []domain.Booking
	loadErr  error
	err      error
}

func (f *fakeBookings) LoadAll(context.Context) ([]domain.Booking, error) {
	return f.bookings, f.loadErr
}

func (f *fakeBookings) Append(_ context.Context, booking domain.Booking) error {
	if f.err != nil {
		return f.err
	}
	f.bookings = append(f.bookings, booking)
	return nil
}

var errStoreDown = errors.New("store unavailable")
