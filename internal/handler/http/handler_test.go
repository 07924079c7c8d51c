package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/gitvault/internal/config"
	"github.com/MKhiriev/gitvault/internal/crypto"
	"github.com/MKhiriev/gitvault/internal/logger"
	"github.com/MKhiriev/gitvault/internal/store"
	"github.com/MKhiriev/gitvault/internal/utils"
	"github.com/MKhiriev/gitvault/internal/vault"
	"github.com/MKhiriev/gitvault/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassphrase = "correct horse battery staple"

func newTestServer(t *testing.T) (*httptest.Server, *vault.Vault) {
	t.Helper()

	kv, err := store.NewFileStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	v := vault.NewVault(crypto.NewKeyChain(), kv, logger.Nop())

	cfg := config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "gitvault-test",
		TokenDuration: time.Hour,
	}

	h := NewHandler(v, models.NewAppBuildInfo("1.0.0-test", "N/A", "N/A"), cfg, logger.Nop())

	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)

	return srv, v
}

func unlockVault(t *testing.T, srv *httptest.Server, passphrase string) string {
	t.Helper()

	body, err := json.Marshal(models.UnlockRequest{Passphrase: passphrase})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/session/unlock", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	authHeader := resp.Header.Get("Authorization")
	require.NotEmpty(t, authHeader)

	return authHeader
}

func doRequest(t *testing.T, method, url, authHeader string, body []byte) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func TestUnlock(t *testing.T) {
	srv, v := newTestServer(t)

	authHeader := unlockVault(t, srv, testPassphrase)
	assert.Contains(t, authHeader, "Bearer ")
	assert.True(t, v.Unlocked())
}

func TestUnlock_EmptyPassphrase(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(models.UnlockRequest{Passphrase: ""})
	resp, err := http.Post(srv.URL+"/api/session/unlock", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnlock_WrongPassphrase(t *testing.T) {
	srv, _ := newTestServer(t)

	// first unlock initializes the vault with this passphrase
	unlockVault(t, srv, testPassphrase)

	body, _ := json.Marshal(models.UnlockRequest{Passphrase: "not the passphrase"})
	resp, err := http.Post(srv.URL+"/api/session/unlock", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnlock_InvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/session/unlock", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVersion_NoAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/version/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "1.0.0-test", payload["version"])
}

func TestCredentials_FullFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	authHeader := unlockVault(t, srv, testPassphrase)

	// save
	saveBody, _ := json.Marshal(models.SaveCredentialRequest{
		URL:      "https://github.com/org/repo.git",
		Username: "octocat",
		Password: "ghp_secret",
	})
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/credentials/", authHeader, saveBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// lookup by bare domain finds the same record
	resp = doRequest(t, http.MethodGet, srv.URL+"/api/credentials/?url=github.com", authHeader, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var record models.CredentialRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	assert.Equal(t, "octocat", record.Username)
	assert.Equal(t, "ghp_secret", record.Password)

	// unknown domain yields no content
	resp = doRequest(t, http.MethodGet, srv.URL+"/api/credentials/?url=gitlab.com", authHeader, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// remove
	resp = doRequest(t, http.MethodDelete, srv.URL+"/api/credentials/?url=github.com", authHeader, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// lookup after removal yields no content
	resp = doRequest(t, http.MethodGet, srv.URL+"/api/credentials/?url=github.com", authHeader, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCredentials_RequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		url    string
	}{
		{"lookup", http.MethodGet, "/api/credentials/?url=github.com"},
		{"save", http.MethodPost, "/api/credentials/"},
		{"remove", http.MethodDelete, "/api/credentials/?url=github.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, tt.method, srv.URL+tt.url, "", nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestCredentials_InvalidToken(t *testing.T) {
	srv, _ := newTestServer(t)
	unlockVault(t, srv, testPassphrase)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/credentials/?url=github.com", "Bearer garbage.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCredentials_MalformedAuthHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/credentials/?url=github.com", "Bearer", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLookupCredential_MissingURLParam(t *testing.T) {
	srv, _ := newTestServer(t)
	authHeader := unlockVault(t, srv, testPassphrase)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/credentials/", authHeader, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSaveCredential_MissingFields(t *testing.T) {
	srv, _ := newTestServer(t)
	authHeader := unlockVault(t, srv, testPassphrase)

	tests := []struct {
		name string
		req  models.SaveCredentialRequest
	}{
		{"no url", models.SaveCredentialRequest{Username: "u", Password: "p"}},
		{"no username", models.SaveCredentialRequest{URL: "github.com", Password: "p"}},
		{"no password", models.SaveCredentialRequest{URL: "github.com", Username: "u"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.req)
			resp := doRequest(t, http.MethodPost, srv.URL+"/api/credentials/", authHeader, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestTraceIDHeader_SetOnResponse(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/version/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get(traceIDHeader))
}

func TestTraceIDHeader_Propagated(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/version/", nil)
	require.NoError(t, err)
	req.Header.Set(traceIDHeader, "trace-from-client")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "trace-from-client", resp.Header.Get(traceIDHeader))
}

func TestSessionLog_AttachesSessionID(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)

	ctx := zl.WithContext(context.Background())
	ctx = context.WithValue(ctx, utils.SessionIDCtxKey, "sess-123")

	r := httptest.NewRequest(http.MethodGet, "/api/credentials/", nil).WithContext(ctx)
	sessionLog(r).Info().Msg("lookup")

	assert.Contains(t, buf.String(), `"session_id":"sess-123"`)
}

func TestSessionLog_UnauthenticatedRequestOmitsSessionID(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)

	r := httptest.NewRequest(http.MethodGet, "/api/credentials/", nil).
		WithContext(zl.WithContext(context.Background()))
	sessionLog(r).Info().Msg("lookup")

	assert.NotContains(t, buf.String(), "session_id")
}
