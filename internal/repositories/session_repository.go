package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopfront/backend/internal/models"
)

// sessionRepository implements SessionRepository
type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB) *sessionRepository {
	return &sessionRepository{
		db: db,
	}
}

// Create inserts a new session into the database
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, token)
		VALUES (?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, session.UserID, session.Token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	session.ID = int(id)
	return nil
}

// GetByUserAndToken retrieves the session holding token for the given user
func (r *sessionRepository) GetByUserAndToken(ctx context.Context, userID, token string) (*models.Session, error) {
	query := `
		SELECT id, user_id, token, created_at
		FROM sessions
		WHERE token = ? AND user_id = ?
		LIMIT 1
	`

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token, userID).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}

	return session, nil
}

// UpdateToken replaces the token of an existing session in place
func (r *sessionRepository) UpdateToken(ctx context.Context, oldToken, newToken, userID string) error {
	query := `
		UPDATE sessions
		SET token = ?, created_at = CURRENT_TIMESTAMP
		WHERE token = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, newToken, oldToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update session token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("session: %w", models.ErrNotFound)
	}

	return nil
}

// DeleteByToken deletes a session by token string; deleting an absent token is not an error
func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = ?`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteExpired deletes all sessions created at or before expiryTime
func (r *sessionRepository) DeleteExpired(ctx context.Context, expiryTime time.Time) (int, error) {
	query := `DELETE FROM sessions WHERE created_at <= ?`

	result, err := r.db.ExecContext(ctx, query, expiryTime)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}
