package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/studentrecords/internal/server/config"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewClient(&config.Config{
		GitHubClientID:     "cid",
		GitHubClientSecret: "csecret",
		GitHubRedirectURI:  "http://localhost:3000/auth/github/callback",
		GitHubAuthorizeURL: "https://github.com/login/oauth/authorize",
		GitHubTokenURL:     srv.URL + "/login/oauth/access_token",
		GitHubAPIURL:       srv.URL + "/",
		GitHubTimeout:      2 * time.Second,
	})
}

func TestAuthorizeURL(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	u, err := url.Parse(c.AuthorizeURL())
	require.NoError(t, err)

	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "/login/oauth/authorize", u.Path)
	assert.Equal(t, "cid", u.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:3000/auth/github/callback", u.Query().Get("redirect_uri"))
	assert.Equal(t, "user:email", u.Query().Get("scope"))
}

func TestExchangeCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		var req tokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cid", req.ClientID)
		assert.Equal(t, "csecret", req.ClientSecret)

		switch req.Code {
		case "good":
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_123", "token_type": "bearer"})
		case "used":
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code", "error_description": "The code passed is incorrect or expired."})
		case "empty":
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})
	c := newTestClient(t, mux)

	tok, err := c.ExchangeCode(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "gho_123", tok)

	_, err = c.ExchangeCode(context.Background(), "used")
	assert.ErrorIs(t, err, ErrNoAccessToken)
	assert.ErrorContains(t, err, "bad_verification_code")

	_, err = c.ExchangeCode(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrNoAccessToken)

	_, err = c.ExchangeCode(context.Background(), "other")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Status)
}

func TestFetchUserAndEmails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gho_123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id": 7, "login": "octocat", "name": "The Octocat"}`))
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gho_123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "octo@example.com", "primary": true, "verified": true}
		]`))
	})
	c := newTestClient(t, mux)

	u, err := c.FetchUser(context.Background(), "gho_123")
	require.NoError(t, err)
	assert.Equal(t, "octocat", u.Login)

	emails, err := c.FetchEmails(context.Background(), "gho_123")
	require.NoError(t, err)
	require.Len(t, emails, 2)

	email, ok := PrimaryVerified(emails)
	assert.True(t, ok)
	assert.Equal(t, "octo@example.com", email)
}

func TestFetchUser_Unauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))

	_, err := c.FetchUser(context.Background(), "bad")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Contains(t, se.Body, "Bad credentials")
}

func TestPrimaryVerified(t *testing.T) {
	tests := []struct {
		name   string
		emails []Email
		want   string
		ok     bool
	}{
		{name: "none", emails: nil},
		{name: "primary but unverified", emails: []Email{{Email: "a@x.com", Primary: true}}},
		{name: "verified but not primary", emails: []Email{{Email: "a@x.com", Verified: true}}},
		{name: "picks the primary verified one", emails: []Email{
			{Email: "a@x.com", Verified: true},
			{Email: "b@x.com", Primary: true, Verified: true},
		}, want: "b@x.com", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PrimaryVerified(tt.emails)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
