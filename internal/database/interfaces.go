//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_session_repository.go -package=mocks
package database

import (
	"context"

	"jamp-chat/internal/models"
)

// SessionRepository logs presence: who was in the room and when. It never sees message content.
type SessionRepository interface {
	CreateActiveSession(ctx context.Context, sessionID, username string) error
	RemoveActiveSession(ctx context.Context, sessionID string) error
	GetActiveSessions(ctx context.Context) ([]*models.ActiveSession, error)
	// CloseAllActiveSessions ends sessions left open by a previous process.
	CloseAllActiveSessions(ctx context.Context) (int64, error)
	Close() error
}
