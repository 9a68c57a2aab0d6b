package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studentrecords/internal/common"
	"github.com/dmitrijs2005/studentrecords/internal/server/auth"
	"github.com/dmitrijs2005/studentrecords/internal/server/github"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/repomanager"
)

// OAuthDefaultRole is the role given to accounts created by GitHub login.
//
// Every new GitHub user becomes an admin. This grants write access to anyone
// with a GitHub account and is most likely a security defect; it is kept
// as a named policy until the intended behaviour is confirmed.
const OAuthDefaultRole = models.RoleAdmin

var (
	ErrMissingCode     = errors.New("authorization code missing")
	ErrNoAccessToken   = errors.New("failed to get access token")
	ErrNoVerifiedEmail = errors.New("no verified primary email")
)

// OAuthProvider is the subset of the GitHub client used by OAuthService.
type OAuthProvider interface {
	AuthorizeURL() string
	ExchangeCode(ctx context.Context, code string) (string, error)
	FetchUser(ctx context.Context, accessToken string) (*github.User, error)
	FetchEmails(ctx context.Context, accessToken string) ([]github.Email, error)
}

type OAuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	provider    OAuthProvider
}

func NewOAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService, provider OAuthProvider) *OAuthService {
	return &OAuthService{db: db, repomanager: m, tokens: tokens, provider: provider}
}

func (s *OAuthService) AuthorizeURL() string {
	return s.provider.AuthorizeURL()
}

// Callback completes the login started by AuthorizeURL: it exchanges the
// code, picks the primary verified email, finds or creates the local user
// and issues a token carrying the stored role.
func (s *OAuthService) Callback(ctx context.Context, code string) (*AuthResult, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	accessToken, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		if errors.Is(err, github.ErrNoAccessToken) {
			return nil, fmt.Errorf("%w: %v", ErrNoAccessToken, err)
		}
		return nil, fmt.Errorf("%w: code exchange: %v", common.ErrorInternal, err)
	}

	ghUser, err := s.provider.FetchUser(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch user: %v", common.ErrorInternal, err)
	}

	emails, err := s.provider.FetchEmails(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch emails: %v", common.ErrorInternal, err)
	}

	email, ok := github.PrimaryVerified(emails)
	if !ok {
		return nil, ErrNoVerifiedEmail
	}

	user, err := s.findOrCreate(ctx, ghUser.Login, email)
	if err != nil {
		return nil, err
	}

	return issueFor(s.tokens, user)
}

func (s *OAuthService) findOrCreate(ctx context.Context, login, email string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user, err = repo.Create(ctx, &models.User{
		Username:     login,
		Email:        email,
		PasswordHash: models.OAuthPasswordSentinel,
		Role:         OAuthDefaultRole,
	})
	if err == nil {
		return user, nil
	}

	// A concurrent callback for the same email won the insert.
	if errors.Is(err, common.ErrorAlreadyExists) {
		user, err = repo.GetUserByEmail(ctx, email)
		if err == nil {
			return user, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
