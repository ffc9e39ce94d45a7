package googleauth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/campuslabs/gatehouse/internal/ports"
)

// newDiscoveryServer serves a minimal OIDC discovery document so the provider
// can be constructed without reaching Google.
func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"issuer": %q,
			"authorization_endpoint": %q,
			"token_endpoint": %q,
			"userinfo_endpoint": %q,
			"jwks_uri": %q
		}`, server.URL, server.URL+"/auth", server.URL+"/token", server.URL+"/userinfo", server.URL+"/jwks")
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"keys":[]}`)
	})

	return server
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	server := newDiscoveryServer(t)
	p, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/google/callback",
		IssuerURL:    server.URL,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProviderConfig
	}{
		{name: "missing client id", cfg: ProviderConfig{ClientSecret: "s", RedirectURL: "r"}},
		{name: "missing client secret", cfg: ProviderConfig{ClientID: "c", RedirectURL: "r"}},
		{name: "missing redirect url", cfg: ProviderConfig{ClientID: "c", ClientSecret: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewProvider_DiscoveryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewProvider(context.Background(), ProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/google/callback",
		IssuerURL:    server.URL,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oidc discovery")
}

func TestProvider_Begin(t *testing.T) {
	p := newTestProvider(t)

	authURL, state, nonce, err := p.Begin(context.Background())
	require.NoError(t, err)

	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)
	assert.NotEqual(t, state, nonce)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, nonce, q.Get("nonce"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Contains(t, strings.Split(q.Get("scope"), " "), "openid")
}

func TestProvider_Begin_StatesAreUnique(t *testing.T) {
	p := newTestProvider(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		_, state, _, err := p.Begin(context.Background())
		require.NoError(t, err)
		assert.False(t, seen[state], "state reused")
		seen[state] = true
	}
}

func TestProvider_Exchange_InputValidation(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Exchange(context.Background(), ports.ExchangeInput{State: "state-1"})
	assert.Error(t, err)

	_, err = p.Exchange(context.Background(), ports.ExchangeInput{Code: "code-1"})
	assert.Error(t, err)
}

func TestIdTokenFromToken(t *testing.T) {
	_, err := idTokenFromToken(nil)
	assert.Error(t, err)

	_, err = idTokenFromToken(&oauth2.Token{AccessToken: "at"})
	assert.Error(t, err)

	withID := (&oauth2.Token{AccessToken: "at"}).WithExtra(map[string]any{"id_token": "header.payload.sig"})
	raw, err := idTokenFromToken(withID)
	require.NoError(t, err)
	assert.Equal(t, "header.payload.sig", raw)
}

func TestFillMissingClaims(t *testing.T) {
	dst := profileClaims{Subject: "sub-1"}
	src := profileClaims{Subject: "sub-ignored", Email: "a@cs.example.edu", Name: "Ada", Picture: "pic"}

	fillMissingClaims(&dst, src)

	assert.Equal(t, "sub-1", dst.Subject)
	assert.Equal(t, "a@cs.example.edu", dst.Email)
	assert.Equal(t, "Ada", dst.Name)
	assert.Equal(t, "pic", dst.Picture)
}

func TestIdentityFromClaims(t *testing.T) {
	id := identityFromClaims(profileClaims{
		Subject: "sub-1",
		Email:   "a@cs.example.edu",
		Name:    "Ada",
		Picture: "pic",
	})

	assert.Equal(t, "sub-1", id.ProviderID)
	assert.Equal(t, "a@cs.example.edu", id.Email)
	assert.Equal(t, "Ada", id.DisplayName)
	assert.Equal(t, "pic", id.AvatarURL)
}

func TestRandomString(t *testing.T) {
	for _, n := range []int{0, 1, 16, 32, 33} {
		s, err := randomString(n)
		require.NoError(t, err)
		assert.Len(t, s, n)
	}

	a, err := randomString(32)
	require.NoError(t, err)
	b, err := randomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
