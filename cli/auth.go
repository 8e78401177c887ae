// ABOUTME: Authentication CLI commands: login, register, logout, whoami
// ABOUTME: Passwords are read from the terminal with echo disabled
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/term"

	"github.com/farmwise/fbconsole/config"
)

// LoginCommand exchanges credentials for a bearer token and persists it.
// Handles the MFA step when the server requires it. With an external
// identity provider the token is issued out of band and pasted in.
func LoginCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email (required in basic mode)")
	_ = fs.Parse(args)

	if app.Config.AuthProvider == config.AuthProviderExternal {
		return loginExternal(app)
	}

	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	tok, err := app.Auth.Login(app.ctx(), *email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if tok.MFARequired {
		code, err := promptLine("MFA code: ")
		if err != nil {
			return err
		}
		tok, err = app.Auth.VerifyMFA(app.ctx(), *email, code)
		if err != nil {
			return fmt.Errorf("MFA verification failed: %w", err)
		}
	}

	if err := app.Session.SetToken(&oauth2.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	fmt.Printf("✓ Logged in as %s\n", *email)
	return nil
}

// loginExternal persists a token obtained from the configured identity
// provider. The console never sees external credentials, only the result.
func loginExternal(app *App) error {
	fmt.Printf("Obtain an access token from %s and paste it below.\n", app.Config.AuthURL)
	token, err := promptPassword("Access token: ")
	if err != nil {
		return err
	}
	if err := app.Session.SetToken(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	fmt.Println("✓ Logged in")
	return nil
}

// RegisterCommand creates an account and logs in.
func RegisterCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "Account email (required)")
	_ = fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	tok, err := app.Auth.Register(app.ctx(), *email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if tok.AccessToken != "" {
		if err := app.Session.SetToken(&oauth2.Token{
			AccessToken:  tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			TokenType:    tok.TokenType,
		}); err != nil {
			return fmt.Errorf("failed to save credential: %w", err)
		}
	}

	fmt.Printf("✓ Registered %s\n", *email)
	return nil
}

// LogoutCommand clears the persisted credential.
func LogoutCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	_ = fs.Parse(args)

	app.Session.Clear()
	fmt.Println("✓ Logged out")
	return nil
}

// WhoamiCommand reports the session state and token expiry.
func WhoamiCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	_ = fs.Parse(args)

	if !app.Session.Authenticated() && app.Session.AccessToken() == "" {
		fmt.Println("Not logged in")
		return nil
	}

	fmt.Printf("Organization: %s\n", app.Config.Organization)
	if d, ok := app.Session.ExpiresIn(); ok {
		if d <= 0 {
			fmt.Println("Token: expired")
		} else {
			fmt.Printf("Token expires in: %s\n", d.Round(time.Minute))
		}
	} else {
		fmt.Println("Token: no expiry information")
	}
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimSpace(string(raw))
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
