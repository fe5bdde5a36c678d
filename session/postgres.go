package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_exchanges (
	id         BIGSERIAL PRIMARY KEY,
	session_id UUID NOT NULL,
	question   TEXT NOT NULL,
	answer     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS session_exchanges_session_idx ON session_exchanges (session_id, id);
`

// PostgresStore keeps session history in Postgres so it survives restarts.
// Sessions are implicit: a session exists once it has an exchange.
type PostgresStore struct {
	pool         *pgxpool.Pool
	maxExchanges int
}

type PostgresOption func(*PostgresStore)

func WithPostgresMaxExchanges(n int) PostgresOption {
	return func(s *PostgresStore) { s.maxExchanges = n }
}

// NewPostgres connects to connString and bootstraps the schema.
func NewPostgres(ctx context.Context, connString string, opts ...PostgresOption) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	s := &PostgresStore{pool: pool, maxExchanges: DefaultMaxExchanges}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Create(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *PostgresStore) Append(ctx context.Context, sessionID, question, answer string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_exchanges (session_id, question, answer) VALUES ($1, $2, $3)`,
		sessionID, question, answer,
	)
	if err != nil {
		return fmt.Errorf("append exchange: %w", err)
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, sessionID string) (string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT question, answer FROM (
			SELECT id, question, answer FROM session_exchanges
			WHERE session_id = $1 ORDER BY id DESC LIMIT $2
		) recent ORDER BY id ASC`,
		sessionID, s.maxExchanges,
	)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	exchanges, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Exchange])
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	return formatHistory(exchanges), nil
}

func (s *PostgresStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM session_exchanges WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
