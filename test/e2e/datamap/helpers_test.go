package datamap_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httpapi "github.com/privacydesk/datamapd/internal/datamap/http"
	"github.com/privacydesk/datamapd/internal/datamap/service"
	"github.com/privacydesk/datamapd/internal/datamap/store/drivers/sqlite"
	"github.com/privacydesk/datamapd/pkg/cryptox"
	"github.com/privacydesk/datamapd/pkg/httpx"
	"github.com/privacydesk/datamapd/pkg/jwtx"
	"github.com/privacydesk/datamapd/pkg/slogx"
)

const (
	testSecret = "e2e-secret-0123456789abcdef0123456789"
	testIssuer = "datamapd-e2e"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "datamapd-e2e-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, "mkdtemp:", err)
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	// The suite fires requests far faster than a browser would; raise the
	// buckets so throttling does not interfere with functional assertions.
	generous := httpx.RateLimitConfig{RequestsPerWindow: 100000, Window: time.Minute, Burst: 100000}
	httpx.StrictLimit = generous
	httpx.ModerateLimit = generous
	httpx.LenientLimit = generous

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// env is a full service stack behind a real HTTP listener.
type env struct {
	server *httptest.Server
	client *http.Client
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL",
		filepath.Join(t.TempDir(), "e2e.db"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256([]byte(testSecret), testIssuer)
	require.NoError(t, err)

	logger := slogx.New(slogx.Config{Service: "datamapd-e2e", Level: "error", Format: "text"})

	router := httpapi.NewRouter(verifier, "test", "", st, logger)
	router.AuthService = &service.AuthService{
		Store:    st,
		Signer:   signer,
		Issuer:   testIssuer,
		TokenTTL: jwtx.DefaultTokenTTL,
	}
	router.MappingService = &service.MappingService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &env{server: server, client: server.Client()}
}

// do sends a JSON request and decodes the JSON response into a generic map.
func (e *env) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

// register creates an account and returns a bearer token for it.
func (e *env) register(t *testing.T, email, password string) string {
	t.Helper()

	status, body := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, status, "register %s: %v", email, body)

	token, ok := body["token"].(string)
	require.True(t, ok, "register response should carry a token: %v", body)
	return token
}
