// Package cli implements the interactive admin bootstrap: it asks for the
// account details on the terminal and creates a user with the admin role.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/studentrecords/internal/common"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

type AdminCreator interface {
	CreateAdmin(ctx context.Context, username, email, password string) (*models.PublicUser, error)
}

type App struct {
	creator AdminCreator
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(creator AdminCreator, in io.Reader, out io.Writer) *App {
	return &App{creator: creator, reader: bufio.NewReader(in), out: out}
}

// Run prompts for username, email and a confirmed password, then creates the admin.
func (a *App) Run(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := GetPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	u, err := a.creator.CreateAdmin(ctx, username, email, password)
	switch {
	case errors.Is(err, common.ErrorMissingFields):
		return fmt.Errorf("username, email and password are required: %w", err)
	case errors.Is(err, common.ErrorAlreadyExists):
		return fmt.Errorf("user %s already exists: %w", email, err)
	case err != nil:
		return err
	}

	fmt.Fprintf(a.out, "Admin %s <%s> created, id %s\n", u.Username, u.Email, u.ID)
	return nil
}
