package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyloop/backend/domain"
	"github.com/studyloop/backend/repository"
)

// TokenTTL is how long issued tokens and their session records live.
const TokenTTL = 7 * 24 * time.Hour

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	secret   []byte
	issuer   string
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, secret, issuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		issuer:   issuer,
		logger:   logger,
	}
}

// Credentials carries a signed token together with the session it backs.
type Credentials struct {
	Token   string          `json:"token"`
	User    *domain.User    `json:"user"`
	Session *domain.Session `json:"session,omitempty"`
}

// Register creates a user with a bcrypt-hashed password and logs them in.
func (uc *UseCase) Register(ctx context.Context, username, email, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return uc.issue(ctx, user)
}

// Login verifies the credentials. Wrong email and wrong password produce
// the same error.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*Credentials, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrBadCredentials
	}

	return uc.issue(ctx, user)
}

// CurrentUser resolves the authenticated identity.
func (uc *UseCase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// Logout revokes the session record. The JWT itself stays valid until
// expiry; revocation is advisory.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) issue(ctx context.Context, user *domain.User) (*Credentials, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(TokenTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		// The token is still usable without the session record; keep
		// login working when Redis is down.
		uc.logger.Warn("failed to save session", zap.Error(err))
		session = nil
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"iss":     uc.issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(TokenTTL).Unix(),
	}
	if session != nil {
		claims["sid"] = session.ID
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		Token:   token,
		User:    user,
		Session: session,
	}, nil
}
