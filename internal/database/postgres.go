package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jamp-chat/internal/models"
	"jamp-chat/pkg/logger"
)

//go:embed schema.sql
var schema string

var ErrSessionNotFound = errors.New("session not found")

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(ctx context.Context, databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

func (db *PostgresDB) CreateActiveSession(ctx context.Context, sessionID, username string) error {
	query := `
		INSERT INTO presence_sessions (session_id, username, connected_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET username = EXCLUDED.username, disconnected_at = NULL`

	_, err := db.pool.Exec(ctx, query, sessionID, username)
	return err
}

func (db *PostgresDB) RemoveActiveSession(ctx context.Context, sessionID string) error {
	query := `UPDATE presence_sessions SET disconnected_at = NOW() WHERE session_id = $1 AND disconnected_at IS NULL`
	tag, err := db.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (db *PostgresDB) GetActiveSessions(ctx context.Context) ([]*models.ActiveSession, error) {
	query := `
		SELECT session_id, username, connected_at
		FROM presence_sessions
		WHERE disconnected_at IS NULL
		ORDER BY connected_at`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.ActiveSession, error) {
		s := &models.ActiveSession{}
		err := row.Scan(&s.SessionID, &s.Username, &s.ConnectedAt)
		return s, err
	})
}

func (db *PostgresDB) CloseAllActiveSessions(ctx context.Context) (int64, error) {
	tag, err := db.pool.Exec(ctx, `UPDATE presence_sessions SET disconnected_at = NOW() WHERE disconnected_at IS NULL`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// NopSessions is used when no DATABASE_URL is configured.
type NopSessions struct{}

func (NopSessions) CreateActiveSession(context.Context, string, string) error {
	return nil
}

func (NopSessions) RemoveActiveSession(context.Context, string) error {
	return nil
}

func (NopSessions) GetActiveSessions(context.Context) ([]*models.ActiveSession, error) {
	return nil, nil
}

func (NopSessions) CloseAllActiveSessions(context.Context) (int64, error) {
	return 0, nil
}

func (NopSessions) Close() error {
	return nil
}
