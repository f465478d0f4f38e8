/**
 * @description
 * Authentication and session management: registration, login with a
 * distributed rate limit, opaque token issuance, session listing with a
 * computed isCurrent flag, and owner-scoped revocation.
 *
 * Tokens are 32 random bytes hex-encoded. Uniqueness is enforced by the
 * store; the rare collision is retried with a fresh token instead of being
 * surfaced to the caller.
 */

package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vaultra/account-service/internal/domain"
	"github.com/vaultra/account-service/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const sessionTokenBytes = 32

// tokenInsertAttempts bounds the collision retry loop. With 256-bit tokens a
// second collision in a row means the RNG is broken, not bad luck.
const tokenInsertAttempts = 3

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Register creates a user account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || len(password) < 8 {
		return nil, domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, domain.ErrEmailTaken
		}
		return nil, storeFailure("auth.register", err)
	}
	return user, nil
}

// Login validates credentials and issues a new session. One session per
// login; repeated logins from other devices each get their own row.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", domain.ErrValidation
	}

	if s.loginLimiter != nil {
		count, _, err := s.loginLimiter.ConsumeRateLimit(ctx, "login", email, s.loginLimit, s.loginWindow)
		if err != nil {
			// Limiter trouble must not lock users out.
			zap.L().Warn("login rate limiter unavailable", zap.Error(err))
		} else if count > s.loginLimit {
			return nil, "", domain.ErrRateLimited
		}
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", storeFailure("auth.login", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CreateSession issues a cryptographically unpredictable opaque token and
// persists the session, retrying on the store's uniqueness constraint.
func (s *Service) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	for attempt := 0; attempt < tokenInsertAttempts; attempt++ {
		token, err := newSessionToken()
		if err != nil {
			return "", err
		}
		session := &domain.Session{Token: token, UserID: userID}
		err = s.repo.InsertSession(ctx, session)
		if err == nil {
			return token, nil
		}
		if errors.Is(err, store.ErrDuplicateToken) {
			zap.L().Warn("session token collision, retrying", zap.String("user_id", userID.String()))
			continue
		}
		return "", storeFailure("session.create", err)
	}
	return "", storeFailure("session.create", store.ErrDuplicateToken)
}

// AuthenticateToken resolves a presented token to its user and session.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	if token == "" {
		return nil, nil, domain.ErrUnauthorized
	}
	user, session, err := s.repo.FindSessionUser(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, storeFailure("session.authenticate", err)
	}
	return user, session, nil
}

// ListSessions returns the user's sessions with IsCurrent computed against
// the caller's own presented token.
func (s *Service) ListSessions(ctx context.Context, userID uuid.UUID, currentToken string) ([]domain.Session, error) {
	sessions, err := s.repo.ListSessionsByUser(ctx, userID)
	if err != nil {
		return nil, storeFailure("session.list", err)
	}
	for i := range sessions {
		sessions[i].IsCurrent = sessions[i].Token == currentToken
	}
	return sessions, nil
}

// RevokeSession deletes the session only if it belongs to the user. Revoking
// a token owned by someone else is a silent no-op; that the token exists at
// all is not information this caller is entitled to.
func (s *Service) RevokeSession(ctx context.Context, token string, userID uuid.UUID) error {
	if err := s.repo.DeleteSession(ctx, token, userID); err != nil {
		return storeFailure("session.revoke", err)
	}
	return nil
}

// RevokeOtherSessions logs out every device except the calling one.
func (s *Service) RevokeOtherSessions(ctx context.Context, userID uuid.UUID, currentToken string) (int64, error) {
	revoked, err := s.repo.DeleteOtherSessions(ctx, userID, currentToken)
	if err != nil {
		return 0, storeFailure("session.revoke_others", err)
	}
	return revoked, nil
}
