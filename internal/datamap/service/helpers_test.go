package service

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/privacydesk/datamapd/internal/datamap/store"
	"github.com/privacydesk/datamapd/internal/datamap/store/drivers/sqlite"
	"github.com/privacydesk/datamapd/pkg/cryptox"
	"github.com/privacydesk/datamapd/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "datamapd-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "datamapd-pepper")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL",
		filepath.Join(t.TempDir(), "test.db"))

	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newAuthService(t *testing.T, st store.Store) *AuthService {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	return &AuthService{
		Store:  st,
		Signer: signer,
		Issuer: testIssuer,
	}
}

func newVerifier(t *testing.T) jwtx.Verifier {
	t.Helper()

	verifier, err := jwtx.NewVerifierHS256(testSecret, testIssuer)
	require.NoError(t, err)
	return verifier
}
