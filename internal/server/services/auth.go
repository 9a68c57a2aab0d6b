// Package services contains server-side business logic. This file implements
// AuthService, which handles local registration and login and mints JWTs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studentrecords/internal/common"
	"github.com/dmitrijs2005/studentrecords/internal/cryptox"
	"github.com/dmitrijs2005/studentrecords/internal/server/auth"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/repomanager"
)

// AuthResult is a freshly issued token and the user it belongs to.
type AuthResult struct {
	Token string
	User  models.PublicUser
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService) *AuthService {
	return &AuthService{db: db, repomanager: m, tokens: tokens}
}

// Register creates a user with role "user" and returns a token for it.
//
// The lookup by email or username only gives a fast answer for the common
// case; the UNIQUE constraint on users.email decides concurrent registrations.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	u, err := s.createUser(ctx, username, email, password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// CreateAdmin creates a user with role "admin". Used by the bootstrap CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, username, email, password string) (*models.PublicUser, error) {
	u, err := s.createUser(ctx, username, email, password, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// Login checks the password of the user with the given email.
// Unknown email and wrong password both yield common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, common.ErrorMissingFields
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(user)
}

// Logout does nothing on the server; tokens stay valid until they expire.
func (s *AuthService) Logout(context.Context) error {
	return nil
}

func (s *AuthService) createUser(ctx context.Context, username, email, password, role string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, common.ErrorMissingFields
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	u, err := repo.Create(ctx, &models.User{Username: username, Email: email, PasswordHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return u, nil
}

func (s *AuthService) issue(u *models.User) (*AuthResult, error) {
	return issueFor(s.tokens, u)
}

func issueFor(tokens *auth.TokenService, u *models.User) (*AuthResult, error) {
	token, err := tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &AuthResult{Token: token, User: u.Public()}, nil
}
