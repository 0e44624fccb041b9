package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/gophstore/internal/client/models"
	"github.com/dmitrijs2005/gophstore/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates against the backend.
// A rejected login leaves the session signed out; a network failure is
// reported without touching any previously cached credentials.
func (a *App) Login(ctx context.Context) {
	if a.session.Authenticated() {
		a.printWarning("Already logged in as %s. Log out first.", a.session.Snapshot().User.Username)
		return
	}

	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		a.printError("Could not read username: %v", err)
		return
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		a.printError("Could not read password: %v", err)
		return
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			a.printError("Invalid username or password.")
		case errors.Is(err, common.ErrNetwork):
			a.printError("Could not reach the server. Please try again.")
		default:
			a.printError("Login failed: %v", err)
		}
		return
	}

	a.printSuccess("Logged in as %s.", a.session.Snapshot().User.Username)

	if err := a.cart.Refresh(ctx); err != nil {
		a.printError("Could not load your cart: %v", err)
	}
}

// Register collects account details, validates them locally and creates the
// account. Depending on configuration a successful registration may log the
// new user in right away.
func (a *App) Register(ctx context.Context) {
	var r models.Registration
	var err error

	if r.Username, err = getSimpleText(a.reader, "Enter username", os.Stdout); err != nil {
		a.printError("Could not read username: %v", err)
		return
	}
	if r.Email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
		a.printError("Could not read email: %v", err)
		return
	}
	if r.FirstName, err = getSimpleText(a.reader, "Enter first name (optional)", os.Stdout); err != nil {
		a.printError("Could not read first name: %v", err)
		return
	}
	if r.LastName, err = getSimpleText(a.reader, "Enter last name (optional)", os.Stdout); err != nil {
		a.printError("Could not read last name: %v", err)
		return
	}
	if r.Password, err = getPassword(os.Stdout, "Enter password"); err != nil {
		a.printError("Could not read password: %v", err)
		return
	}

	if err := a.session.Register(ctx, r); err != nil {
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			a.printError("Registration rejected: %v", ve)
			return
		}
		if errors.Is(err, common.ErrNetwork) {
			a.printError("Could not reach the server. Please try again.")
			return
		}
		a.printError("Registration failed: %v", err)
		return
	}

	if a.session.Authenticated() {
		a.printSuccess("Account created, logged in as %s.", a.session.Snapshot().User.Username)
		return
	}
	a.printSuccess("Account created. You can log in now.")
}

// Logout ends the session. It always succeeds locally even if the server is
// unreachable.
func (a *App) Logout(ctx context.Context) {
	if !a.session.Authenticated() {
		a.printWarning("Not logged in.")
		return
	}
	a.session.Logout(ctx)
	a.printSuccess("Logged out.")
}
