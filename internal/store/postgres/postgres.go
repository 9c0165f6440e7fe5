// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/quillcast/reel/internal/model"
	"github.com/quillcast/reel/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) GetCollection(ctx context.Context, kind model.Kind) (*model.CollectionRecord, error) {
	return queryGetCollection(ctx, s.db, kind)
}

func (s *PostgresStore) ReplaceCollection(ctx context.Context, kind model.Kind, items json.RawMessage, baseRevision int64) (*model.CollectionRecord, error) {
	return queryReplaceCollection(ctx, s.db, kind, items, baseRevision)
}

func (s *PostgresStore) ForceReplaceCollection(ctx context.Context, kind model.Kind, items json.RawMessage) (*model.CollectionRecord, error) {
	return queryForceReplaceCollection(ctx, s.db, kind, items)
}

func (s *PostgresStore) ListCollections(ctx context.Context) ([]*model.CollectionRecord, error) {
	return queryListCollections(ctx, s.db)
}

func (s *PostgresStore) CreateTicket(ctx context.Context, ticket *model.Ticket) error {
	return queryCreateTicket(ctx, s.db, ticket)
}

func (s *PostgresStore) GetTicket(ctx context.Context, id string) (*model.Ticket, error) {
	return queryGetTicket(ctx, s.db, id)
}

func (s *PostgresStore) ListTickets(ctx context.Context, status model.TicketStatus) ([]*model.Ticket, error) {
	return queryListTickets(ctx, s.db, status)
}

func (s *PostgresStore) UpdateTicket(ctx context.Context, ticket *model.Ticket) error {
	return queryUpdateTicket(ctx, s.db, ticket)
}

func (s *PostgresStore) CloseTicket(ctx context.Context, id string) (*model.Ticket, error) {
	return queryCloseTicket(ctx, s.db, id)
}

func (s *PostgresStore) DeleteTicket(ctx context.Context, id string) error {
	return queryDeleteTicket(ctx, s.db, id)
}
