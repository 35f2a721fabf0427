package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"findmystuff/internal/infrastructure/storage/port"
	account "findmystuff/internal/pkg/account/domain"
	conversation "findmystuff/internal/pkg/conversation/domain"
	posting "findmystuff/internal/pkg/posting/domain"
)

// PgStore backs the storage port with Postgres, storing each record as a
// jsonb document keyed by the application's id. Row-level atomicity gives the
// same single-document guarantee the other backends provide.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore wraps an existing pool and creates the document tables if they
// do not exist yet.
func NewPgStore(ctx context.Context, pool *pgxpool.Pool) (*PgStore, error) {
	if pool == nil {
		return nil, errors.New("pgstore: nil pool")
	}
	s := &PgStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

var _ port.Store = (*PgStore)(nil)

const (
	tableUsers         = "users"
	tablePostings      = "postings"
	tableConversations = "conversations"
)

func (s *PgStore) ensureSchema(ctx context.Context) error {
	for _, table := range []string{tableUsers, tablePostings, tableConversations} {
		ddl := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id  text PRIMARY KEY,
				doc jsonb NOT NULL
			)
		`, table)
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("pgstore: create table %s: %w", table, err)
		}
	}
	return nil
}

func (s *PgStore) Users() port.Collection[account.User] {
	return &pgCollection[account.User]{pool: s.pool, table: tableUsers}
}

func (s *PgStore) Postings() port.Collection[posting.Posting] {
	return &pgCollection[posting.Posting]{pool: s.pool, table: tablePostings}
}

func (s *PgStore) Conversations() port.Collection[conversation.Conversation] {
	return &pgCollection[conversation.Conversation]{pool: s.pool, table: tableConversations}
}

func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PgStore) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

// pgCollection maps one document table to the Collection contract. The table
// name always comes from the fixed constants above, never from callers.
type pgCollection[T port.Entity] struct {
	pool  *pgxpool.Pool
	table string
}

func (c *pgCollection[T]) All(ctx context.Context) ([]T, error) {
	rows, err := c.pool.Query(ctx, fmt.Sprintf("SELECT doc FROM %s", c.table))
	if err != nil {
		return nil, fmt.Errorf("pgstore: query %s: %w", c.table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("pgstore: scan %s: %w", c.table, err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("pgstore: decode %s: %w", c.table, err)
		}
		out = append(out, doc)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("pgstore: rows %s: %w", c.table, rows.Err())
	}
	return out, nil
}

func (c *pgCollection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var doc T
	var raw []byte
	err := c.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE id = $1", c.table), id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return doc, port.ErrNotFound
	}
	if err != nil {
		return doc, fmt.Errorf("pgstore: find %s: %w", c.table, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("pgstore: decode %s: %w", c.table, err)
	}
	return doc, nil
}

func (c *pgCollection[T]) Find(ctx context.Context, pred func(T) bool) ([]T, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []T
	for _, item := range all {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *pgCollection[T]) Insert(ctx context.Context, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("pgstore: encode %s: %w", c.table, err)
	}
	_, err = c.pool.Exec(ctx,
		fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2)", c.table),
		doc.EntityID(), raw,
	)
	if err != nil {
		return fmt.Errorf("pgstore: insert %s: %w", c.table, err)
	}
	return nil
}

func (c *pgCollection[T]) Update(ctx context.Context, id string, doc T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("pgstore: encode %s: %w", c.table, err)
	}
	ct, err := c.pool.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET doc = $2 WHERE id = $1", c.table),
		id, raw,
	)
	if err != nil {
		return fmt.Errorf("pgstore: update %s: %w", c.table, err)
	}
	if ct.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}

func (c *pgCollection[T]) Delete(ctx context.Context, id string) error {
	ct, err := c.pool.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1", c.table), id,
	)
	if err != nil {
		return fmt.Errorf("pgstore: delete %s: %w", c.table, err)
	}
	if ct.RowsAffected() == 0 {
		return port.ErrNotFound
	}
	return nil
}
