package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"diet-planner/internal/database"
	"diet-planner/internal/planner"
)

// SessionTypePlan marks a session holding the profile of the last plan.
const SessionTypePlan = "plan"

// Session represents an active user session, such as the profile behind
// the last generated plan.
type Session struct {
	ID          int64
	UserID      string
	SessionType string
	State       string
	ContextData string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// SessionContextData holds structured data stored in the context_data JSON field
type SessionContextData struct {
	Profile planner.ProfileInput `json:"profile"`
}

// SessionRepository provides access to session persistence operations
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session and returns its ID
func (sr *SessionRepository) Create(ctx context.Context, userID, sessionType, state string, contextData SessionContextData, ttl time.Duration) (int64, error) {
	jsonData, err := json.Marshal(contextData)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	res, err := sr.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, session_type, state, context_data, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, sessionType, state, string(jsonData), database.FormatTime(now.Add(ttl)), database.FormatTime(now),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	return res.LastInsertId()
}

// GetActive retrieves the most recent non-expired session for a user. It
// returns nil when there is none.
func (sr *SessionRepository) GetActive(ctx context.Context, userID string, now time.Time) (*Session, error) {
	row := sr.db.QueryRowContext(ctx,
		`SELECT id, user_id, session_type, state, context_data, expires_at, created_at
		   FROM sessions
		  WHERE user_id = ? AND expires_at > ?
		  ORDER BY created_at DESC, id DESC
		  LIMIT 1`,
		userID, database.FormatTime(now),
	)

	var (
		s                    Session
		expiresAt, createdAt string
	)
	err := row.Scan(&s.ID, &s.UserID, &s.SessionType, &s.State, &s.ContextData, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	if s.ExpiresAt, err = database.ParseTime(expiresAt); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetContextData unmarshals the context_data JSON field
func (s *Session) GetContextData() (SessionContextData, error) {
	var data SessionContextData
	err := json.Unmarshal([]byte(s.ContextData), &data)
	return data, err
}

// Update updates the state and context_data for a session
func (sr *SessionRepository) Update(ctx context.Context, sessionID int64, state string, contextData SessionContextData) error {
	jsonData, err := json.Marshal(contextData)
	if err != nil {
		return err
	}

	_, err = sr.db.ExecContext(ctx,
		`UPDATE sessions SET state = ?, context_data = ? WHERE id = ?`,
		state, string(jsonData), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// Delete removes a session
func (sr *SessionRepository) Delete(ctx context.Context, sessionID int64) error {
	if _, err := sr.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CleanupExpired removes all expired sessions and returns how many were deleted.
func (sr *SessionRepository) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := sr.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, database.FormatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %w", err)
	}
	return res.RowsAffected()
}
