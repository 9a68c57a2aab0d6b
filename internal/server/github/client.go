// Package github talks to the GitHub OAuth and REST endpoints needed to turn
// an authorization code into a verified identity.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/studentrecords/internal/server/config"
)

const Scope = "user:email"

// ErrNoAccessToken is returned when the token endpoint answers without an
// access token, e.g. for an expired or already used code.
var ErrNoAccessToken = errors.New("github: no access token in response")

// StatusError reports a non-2xx answer from GitHub.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: %s returned %d: %s", e.URL, e.Status, e.Body)
}

type User struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

type Email struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	redirectURI  string
	authorizeURL string
	tokenURL     string
	apiURL       string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.GitHubTimeout},
		clientID:     cfg.GitHubClientID,
		clientSecret: cfg.GitHubClientSecret,
		redirectURI:  cfg.GitHubRedirectURI,
		authorizeURL: cfg.GitHubAuthorizeURL,
		tokenURL:     cfg.GitHubTokenURL,
		apiURL:       strings.TrimRight(cfg.GitHubAPIURL, "/"),
	}
}

// AuthorizeURL is where users are redirected to grant access.
func (c *Client) AuthorizeURL() string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("scope", Scope)
	return c.authorizeURL + "?" + q.Encode()
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode trades an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	body, err := json.Marshal(tokenRequest{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Code:         code,
		RedirectURI:  c.redirectURI,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var resp tokenResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}

	if resp.AccessToken == "" {
		if resp.Error != "" {
			return "", fmt.Errorf("%w: %s: %s", ErrNoAccessToken, resp.Error, resp.ErrorDescription)
		}
		return "", ErrNoAccessToken
	}

	return resp.AccessToken, nil
}

func (c *Client) FetchUser(ctx context.Context, accessToken string) (*User, error) {
	var u User
	if err := c.get(ctx, "/user", accessToken, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) FetchEmails(ctx context.Context, accessToken string) ([]Email, error) {
	var emails []Email
	if err := c.get(ctx, "/user/emails", accessToken, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

func (c *Client) get(ctx context.Context, path, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request error: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{URL: req.URL.String(), Status: res.StatusCode, Body: string(b)}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("github decode error: %w", err)
	}

	return nil
}

// PrimaryVerified returns the address flagged both primary and verified.
func PrimaryVerified(emails []Email) (string, bool) {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, true
		}
	}
	return "", false
}
