package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// OAuthPasswordSentinel is stored as the password hash of accounts created
// through GitHub login. It is not a bcrypt hash, so password login never succeeds.
const OAuthPasswordSentinel = "oauth_github"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the part of a user returned to clients.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
