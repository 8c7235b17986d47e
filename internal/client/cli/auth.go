package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/blogcli/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and authenticates through the session
// manager. A rejected login prints the backend's message and leaves the
// anonymous state untouched.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		fmt.Println("Login failed:", a.session.State().Err)
		return err
	}

	fmt.Printf("Logged in as %s\n", a.getStatus())
	return nil
}

// Register prompts for the registration form, including an optional avatar
// image read from disk, and creates the account. On success the user is
// logged in right away with the same credentials.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	avatarPath, err := getSimpleText(a.reader, "Path to avatar image (optional)", os.Stdout)
	if err != nil {
		return err
	}

	in := api.RegisterInput{Name: name, Email: email, Password: string(password)}
	if avatarPath != "" {
		data, err := os.ReadFile(avatarPath)
		if err != nil {
			fmt.Println("Could not read avatar:", err)
			return err
		}
		in.Avatar = bytes.NewReader(data)
		in.AvatarName = filepath.Base(avatarPath)
	}

	if err := a.session.Register(ctx, in); err != nil {
		fmt.Println("Registration failed:", a.session.State().Err)
		return err
	}

	fmt.Println("Welcome,", a.getStatus())
	return nil
}

// Logout clears the stored credentials and resets the session. Local state
// is cleared even when the backend call fails.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	fmt.Println("Logged out")
	return nil
}

// WhoAmI prints the cached profile of the current user.
func (a *App) WhoAmI(ctx context.Context) error {
	user := a.session.User()
	if user == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s <%s>", user.Name, user.Email)
	if user.IsAdmin {
		fmt.Print(" (admin)")
	}
	fmt.Println()
	return nil
}
