package service

import (
	"context"
	"errors"
	"time"

	"github.com/privacydesk/datamapd/internal/datamap/domain"
	"github.com/privacydesk/datamapd/internal/datamap/store"
	"github.com/privacydesk/datamapd/pkg/cryptox"
	"github.com/privacydesk/datamapd/pkg/jwtx"
	"github.com/privacydesk/datamapd/pkg/slogx"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrEmailTaken         = errors.New("user already exists with this email")

	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// failed login never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService registers accounts, verifies credentials, and issues bearer
// tokens. The signing secret and store handle are injected at construction;
// there is no ambient state.
type AuthService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Issuer   string
	TokenTTL time.Duration
}

// Register creates a new account and returns it with a freshly signed token.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return domain.User{}, "", ErrMissingCredentials
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, "", ErrPasswordTooShort
	}

	// Hash before entering the transaction; argon2 is deliberately slow and
	// must not hold a write transaction open.
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", "err", err)
		return domain.User{}, "", err
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmail(ctx, email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		user, err = tx.Users().CreateUser(ctx, email, hash)
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent register of the same email.
			return ErrEmailTaken
		}
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrEmailTaken) {
			log.Error("failed to create user", "err", err)
		}
		return domain.User{}, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Error("failed to sign token", "user_id", user.ID, "err", err)
		return domain.User{}, "", err
	}

	log.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies the credentials and returns the account with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return domain.User{}, "", ErrMissingCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to look up user", "err", err)
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Error("failed to sign token", "user_id", user.ID, "err", err)
		return domain.User{}, "", err
	}

	log.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// GetUserByID fetches an account, for the profile endpoint.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

func (s *AuthService) issueToken(u domain.User) (string, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}
	claims := jwtx.NewClaims(u.ID, u.Email, s.Issuer, ttl, time.Now().UTC())
	return s.Signer.Sign(claims)
}
