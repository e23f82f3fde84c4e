// Package store provides append-only persistence for committed records.
package store

import (
	"context"

	"github.com/techsolutions/assistente/internal/domain"
)

// LeadStore persists committed sales leads.
type LeadStore interface {
	// LoadAll returns every persisted lead, oldest first.
	LoadAll(ctx context.Context) ([]domain.Lead, error)

	// Append durably adds one lead. Failure means the commit did not happen.
	Append(ctx context.Context, lead domain.Lead) error
}

// TicketStore persists committed support tickets.
type TicketStore interface {
	LoadAll(ctx context.Context) ([]domain.Ticket, error)
	Append(ctx context.Context, ticket domain.Ticket) error
}

// BookingStore persists committed meeting bookings.
type BookingStore interface {
	LoadAll(ctx context.Context) ([]domain.Booking, error)
	Append(ctx context.Context, booking domain.Booking) error
}

// Repository groups the three record collections plus lifecycle operations.
type Repository interface {
	Leads() LeadStore
	Tickets() TicketStore
	Bookings() BookingStore

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
