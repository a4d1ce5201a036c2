package sheets

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPEM(t *testing.T) (string, *rsa.PublicKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der := x509.MarshalPKCS1PrivateKey(key)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der})
	return string(pemBytes), &key.PublicKey
}

func TestAssertionClaims(t *testing.T) {
	keyPEM, pub := testKeyPEM(t)
	c, err := New("sa@project.iam.gserviceaccount.com", keyPEM, "sheet123", "Orders")
	require.NoError(t, err)
	require.True(t, c.Enabled())

	fixed := time.Now().Truncate(time.Second)
	c.now = func() time.Time { return fixed }

	raw, err := c.assertion()
	require.NoError(t, err)

	parsed, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != "RS256" {
			return nil, errors.New("wrong alg")
		}
		return pub, nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "sa@project.iam.gserviceaccount.com", claims["iss"])
	assert.Equal(t, sheetsScope, claims["scope"])
	assert.Equal(t, float64(fixed.Unix()), claims["iat"])
	// one hour expiry
	assert.Equal(t, float64(fixed.Add(time.Hour).Unix()), claims["exp"])
}

// fakeSheets serves the minimal token + values API surface the client uses.
func fakeSheets(t *testing.T, existingIDs []string) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.Form.Get("grant_type"))
		assert.NotEmpty(t, r.Form.Get("assertion"))
		calls = append(calls, "token")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet:
			calls = append(calls, "read")
			values := make([][]string, 0, len(existingIDs))
			for _, id := range existingIDs {
				values = append(values, []string{id})
			}
			json.NewEncoder(w).Encode(map[string]any{"values": values})
		case r.Method == http.MethodPut:
			calls = append(calls, "update "+r.URL.Path)
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && strings.Contains(r.URL.Path, ":append"):
			calls = append(calls, "append")
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
	})
	srv := httptest.NewServer(mux)
	return srv, &calls
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	keyPEM, _ := testKeyPEM(t)
	c, err := New("sa@test", keyPEM, "sheet123", "Orders")
	require.NoError(t, err)
	c.tokenURL = srv.URL + "/token"
	c.apiBase = srv.URL + "/api"
	return c
}

func TestSyncUpdatesExistingRow(t *testing.T) {
	srv, calls := fakeSheets(t, []string{"id", "41", "42"})
	defer srv.Close()
	c := newTestClient(t, srv)

	err := c.Sync(context.Background(), Row{ID: "42", Number: "ORD-42", Client: "Acme", Status: "paid", Total: "238.00", Currency: "EUR", Updated: time.Now()})
	require.NoError(t, err)
	// matched in row 3 of column A -> in-place update, no append
	require.Len(t, *calls, 3)
	assert.Contains(t, (*calls)[2], "update")
	assert.Contains(t, (*calls)[2], "Orders!A3")
}

func TestSyncAppendsNewRow(t *testing.T) {
	srv, calls := fakeSheets(t, []string{"id", "41"})
	defer srv.Close()
	c := newTestClient(t, srv)

	err := c.Sync(context.Background(), Row{ID: "99", Number: "ORD-99"})
	require.NoError(t, err)
	assert.Equal(t, "append", (*calls)[len(*calls)-1])
}

func TestBearerTokenCached(t *testing.T) {
	srv, calls := fakeSheets(t, nil)
	defer srv.Close()
	c := newTestClient(t, srv)

	require.NoError(t, c.Sync(context.Background(), Row{ID: "1"}))
	require.NoError(t, c.Sync(context.Background(), Row{ID: "2"}))
	tokenCalls := 0
	for _, call := range *calls {
		if call == "token" {
			tokenCalls++
		}
	}
	assert.Equal(t, 1, tokenCalls, "token must be exchanged once and cached")
}

func TestSyncDisabled(t *testing.T) {
	c, err := New("", "", "", "Orders")
	require.NoError(t, err)
	assert.False(t, c.Enabled())
	err = c.Sync(context.Background(), Row{ID: "1"})
	assert.ErrorIs(t, err, ErrDisabled)
}
