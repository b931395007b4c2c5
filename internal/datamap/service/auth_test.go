package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, "alice@x.com", user.Email)
	require.NotEmpty(t, token)

	// The stored hash is opaque; the plaintext never survives registration.
	require.NotContains(t, user.PasswordHash, "secret1")

	again, loginToken, err := svc.Login(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
	require.NotEmpty(t, loginToken)
}

func TestRegisterTokenCarriesIdentity(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := newAuthService(t, st)

	user, token, err := svc.Register(context.Background(), "alice@x.com", "secret1")
	require.NoError(t, err)

	claims, err := newVerifier(t).Verify(token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, user.ID, userID)
	require.Equal(t, "alice@x.com", claims.Email)
	require.Equal(t, testIssuer, claims.Issuer)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	t.Run("missing email", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "", "secret1")
		require.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("missing password", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "alice@x.com", "")
		require.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("short password", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "alice@x.com", "12345")
		require.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("six characters is enough", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "alice@x.com", "123456")
		require.NoError(t, err)
	})
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)

	// Duplicate fails regardless of password.
	_, _, err = svc.Register(ctx, "alice@x.com", "different-password")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "alice@x.com", "not-the-password")
	_, _, noSuchUser := svc.Login(ctx, "nobody@x.com", "secret1")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, noSuchUser, ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), noSuchUser.Error())
}

func TestLoginMissingFields(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := newAuthService(t, st)

	_, _, err := svc.Login(context.Background(), "", "")
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLoginEmailIsCaseSensitive(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice@X.com", "secret1")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@x.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserByID(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	svc := newAuthService(t, st)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)

	got, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, got.Email)
}
