/**
 * @description
 * Session persistence. Tokens are opaque strings generated by the app layer;
 * uniqueness is enforced by the primary key and surfaced as ErrDuplicateToken
 * so the session manager can retry with a fresh token. DeleteSession scopes
 * on (token, user_id) so a caller can only ever delete their own rows.
 */

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vaultra/account-service/internal/domain"
)

// InsertSession stores a new session row.
func (r *PostgresRepository) InsertSession(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (token, user_id)
		VALUES ($1, $2)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, session.Token, session.UserID).Scan(&session.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateToken
		}
		return err
	}
	return nil
}

// FindSessionUser resolves a presented token to its session and owning user.
func (r *PostgresRepository) FindSessionUser(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.role, u.created_at, s.token, s.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1
	`
	var user domain.User
	var session domain.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&session.Token,
		&session.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, err
	}
	session.UserID = user.ID
	return &user, &session, nil
}

// ListSessionsByUser retrieves a user's sessions, newest first.
func (r *PostgresRepository) ListSessionsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Session, error) {
	query := `
		SELECT token, user_id, created_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC, token
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.Token, &session.UserID, &session.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session only when it belongs to the given user.
// A token owned by someone else matches zero rows, which is deliberately not
// an error.
func (r *PostgresRepository) DeleteSession(ctx context.Context, token string, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1 AND user_id = $2`, token, userID)
	return err
}

// DeleteOtherSessions removes every session of the user except the presented
// one, in a single statement.
func (r *PostgresRepository) DeleteOtherSessions(ctx context.Context, userID uuid.UUID, currentToken string) (int64, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND token <> $2`,
		userID, currentToken,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// DeleteSessionsCreatedBefore removes sessions older than the cutoff. Used by
// the sweeper job.
func (r *PostgresRepository) DeleteSessionsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
