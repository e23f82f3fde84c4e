package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/techsolutions/assistente/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite. Each Append is a single
// atomic INSERT, so concurrent commits to the same collection never
// interleave or lose records.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		nome TEXT NOT NULL,
		email TEXT NOT NULL,
		empresa TEXT NOT NULL,
		tamanho_equipe TEXT NOT NULL,
		interesse TEXT NOT NULL,
		orcamento TEXT,
		criado_em INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tickets (
		id TEXT PRIMARY KEY,
		severidade TEXT NOT NULL,
		descricao TEXT NOT NULL,
		contato TEXT NOT NULL,
		criado_em INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		slot TEXT NOT NULL,
		interesse TEXT NOT NULL,
		contato TEXT NOT NULL,
		criado_em INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_bookings_slot ON bookings(slot);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// Leads returns the lead collection view of the store.
func (s *SQLiteStore) Leads() LeadStore { return leadCollection{s} }

// Tickets returns the ticket collection view of the store.
func (s *SQLiteStore) Tickets() TicketStore { return ticketCollection{s} }

// Bookings returns the booking collection view of the store.
func (s *SQLiteStore) Bookings() BookingStore { return bookingCollection{s} }

type leadCollection struct{ s *SQLiteStore }
type ticketCollection struct{ s *SQLiteStore }
type bookingCollection struct{ s *SQLiteStore }

func (c leadCollection) LoadAll(ctx context.Context) ([]domain.Lead, error) {
	query := `
		SELECT id, nome, email, empresa, tamanho_equipe, interesse, orcamento, criado_em
		FROM leads ORDER BY criado_em ASC`

	rows, err := c.s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		var lead domain.Lead
		var orcamento sql.NullString
		var criadoEm int64
		if err := rows.Scan(&lead.ID, &lead.Nome, &lead.Email, &lead.Empresa,
			&lead.TamanhoEquipe, &lead.Interesse, &orcamento, &criadoEm); err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		lead.Orcamento = orcamento.String
		lead.CriadoEm = time.Unix(criadoEm, 0)
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (c leadCollection) Append(ctx context.Context, lead domain.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CriadoEm.IsZero() {
		lead.CriadoEm = time.Now()
	}

	var orcamento interface{}
	if lead.Orcamento != "" {
		orcamento = lead.Orcamento
	}

	query := `
		INSERT INTO leads (id, nome, email, empresa, tamanho_equipe, interesse, orcamento, criado_em)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := c.s.db.ExecContext(ctx, query,
		lead.ID, lead.Nome, lead.Email, lead.Empresa,
		lead.TamanhoEquipe, lead.Interesse, orcamento, lead.CriadoEm.Unix())
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (c ticketCollection) LoadAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `
		SELECT id, severidade, descricao, contato, criado_em
		FROM tickets ORDER BY criado_em ASC`

	rows, err := c.s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		var criadoEm int64
		if err := rows.Scan(&ticket.ID, &ticket.Severidade, &ticket.Descricao,
			&ticket.Contato, &criadoEm); err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		ticket.CriadoEm = time.Unix(criadoEm, 0)
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func (c ticketCollection) Append(ctx context.Context, ticket domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if ticket.CriadoEm.IsZero() {
		ticket.CriadoEm = time.Now()
	}

	query := `
		INSERT INTO tickets (id, severidade, descricao, contato, criado_em)
		VALUES (?, ?, ?, ?, ?)`
	_, err := c.s.db.ExecContext(ctx, query,
		ticket.ID, ticket.Severidade, ticket.Descricao, ticket.Contato, ticket.CriadoEm.Unix())
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (c bookingCollection) LoadAll(ctx context.Context) ([]domain.Booking, error) {
	query := `
		SELECT id, slot, interesse, contato, criado_em
		FROM bookings ORDER BY criado_em ASC`

	rows, err := c.s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		var criadoEm int64
		if err := rows.Scan(&booking.ID, &booking.Slot, &booking.Interesse,
			&booking.Contato, &criadoEm); err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		booking.CriadoEm = time.Unix(criadoEm, 0)
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (c bookingCollection) Append(ctx context.Context, booking domain.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CriadoEm.IsZero() {
		booking.CriadoEm = time.Now()
	}

	query := `
		INSERT INTO bookings (id, slot, interesse, contato, criado_em)
		VALUES (?, ?, ?, ?, ?)`
	_, err := c.s.db.ExecContext(ctx, query,
		booking.ID, booking.Slot, booking.Interesse, booking.Contato, booking.CriadoEm.Unix())
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}
