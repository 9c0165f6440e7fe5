package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quillcast/reel/internal/model"
	"github.com/quillcast/reel/internal/store"
)

// --- Collections ---

func queryGetCollection(ctx context.Context, db *sql.DB, kind model.Kind) (*model.CollectionRecord, error) {
	rec := &model.CollectionRecord{Kind: kind}
	err := db.QueryRowContext(ctx,
		`SELECT revision, items, updated_at FROM collections WHERE kind = $1`,
		kind.String(),
	).Scan(&rec.Revision, &rec.Items, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Never-saved collections read back empty at revision 0.
		rec.Items = json.RawMessage("[]")
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get collection %s: %w", kind, err)
	}
	return rec, nil
}

func queryReplaceCollection(ctx context.Context, db *sql.DB, kind model.Kind, items json.RawMessage, baseRevision int64) (*model.CollectionRecord, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	rec := &model.CollectionRecord{Kind: kind, Items: items, UpdatedAt: now}

	var current int64
	err = tx.QueryRowContext(ctx,
		`SELECT revision FROM collections WHERE kind = $1 FOR UPDATE`,
		kind.String(),
	).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if baseRevision != 0 {
			return nil, &store.ConflictError{Kind: kind, Base: baseRevision, Current: 0}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collections (kind, revision, items, updated_at) VALUES ($1, 1, $2, $3)`,
			kind.String(), []byte(items), now,
		); err != nil {
			return nil, fmt.Errorf("insert collection %s: %w", kind, err)
		}
		rec.Revision = 1
	case err != nil:
		return nil, fmt.Errorf("lock collection %s: %w", kind, err)
	default:
		if current != baseRevision {
			return nil, &store.ConflictError{Kind: kind, Base: baseRevision, Current: current}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE collections SET revision = $2, items = $3, updated_at = $4 WHERE kind = $1`,
			kind.String(), current+1, []byte(items), now,
		); err != nil {
			return nil, fmt.Errorf("update collection %s: %w", kind, err)
		}
		rec.Revision = current + 1
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace: %w", err)
	}
	return rec, nil
}

func queryForceReplaceCollection(ctx context.Context, db *sql.DB, kind model.Kind, items json.RawMessage) (*model.CollectionRecord, error) {
	now := time.Now().UTC()
	rec := &model.CollectionRecord{Kind: kind, Items: items, UpdatedAt: now}
	err := db.QueryRowContext(ctx,
		`INSERT INTO collections (kind, revision, items, updated_at) VALUES ($1, 1, $2, $3)
		 ON CONFLICT (kind) DO UPDATE SET revision = collections.revision + 1, items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
		 RETURNING revision`,
		kind.String(), []byte(items), now,
	).Scan(&rec.Revision)
	if err != nil {
		return nil, fmt.Errorf("force replace collection %s: %w", kind, err)
	}
	return rec, nil
}

func queryListCollections(ctx context.Context, db *sql.DB) ([]*model.CollectionRecord, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT kind, revision, items, updated_at FROM collections ORDER BY kind`,
	)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var recs []*model.CollectionRecord
	for rows.Next() {
		rec := &model.CollectionRecord{}
		var kind string
		if err := rows.Scan(&kind, &rec.Revision, &rec.Items, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		rec.Kind = model.Kind(kind)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// --- Tickets ---

const ticketColumns = `id, subject, body, status, requester, created_at, updated_at, closed_at`

func scanTicket(row interface{ Scan(...any) error }) (*model.Ticket, error) {
	t := &model.Ticket{}
	var body, requester sql.NullString
	var closedAt sql.NullTime
	if err := row.Scan(&t.ID, &t.Subject, &body, &t.Status, &requester, &t.CreatedAt, &t.UpdatedAt, &closedAt); err != nil {
		return nil, err
	}
	t.Body = body.String
	t.Requester = requester.String
	if closedAt.Valid {
		t.ClosedAt = &closedAt.Time
	}
	return t, nil
}

func queryCreateTicket(ctx context.Context, db *sql.DB, ticket *model.Ticket) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO tickets (id, subject, body, status, requester, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ticket.ID, ticket.Subject, nullString(ticket.Body), ticket.Status.String(),
		nullString(ticket.Requester), ticket.CreatedAt, ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func queryGetTicket(ctx context.Context, db *sql.DB, id string) (*model.Ticket, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	return scanTicket(row)
}

func queryListTickets(ctx context.Context, db *sql.DB, status model.TicketStatus) ([]*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status.String())
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func queryUpdateTicket(ctx context.Context, db *sql.DB, ticket *model.Ticket) error {
	res, err := db.ExecContext(ctx,
		`UPDATE tickets SET subject = $2, body = $3, status = $4, updated_at = $5, closed_at = $6 WHERE id = $1`,
		ticket.ID, ticket.Subject, nullString(ticket.Body), ticket.Status.String(),
		ticket.UpdatedAt, ticket.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryCloseTicket(ctx context.Context, db *sql.DB, id string) (*model.Ticket, error) {
	now := time.Now().UTC()
	row := db.QueryRowContext(ctx,
		`UPDATE tickets SET status = $2, updated_at = $3, closed_at = $3 WHERE id = $1
		 RETURNING `+ticketColumns,
		id, model.TicketClosed.String(), now,
	)
	return scanTicket(row)
}

func queryDeleteTicket(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
