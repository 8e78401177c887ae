// ABOUTME: User admin CLI commands
package cli

import (
	"flag"
	"fmt"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
)

// ListUsersCommand lists console users.
func ListUsersCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ExitOnError)
	query := fs.String("query", "", "Search by email")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 50, "Results per page")
	_ = fs.Parse(args)

	result, err := app.Users.List(app.ctx(), api.ListOptions{
		Q: *query, Page: *page, ItemsPerPage: *limit, SortBy: []string{"email"},
	})
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(result.Items) == 0 {
		fmt.Println("No users found")
		return nil
	}

	w := newTable()
	_, _ = fmt.Fprintln(w, "ID\tEMAIL\tROLE\tEXPERIMENTAL")
	_, _ = fmt.Fprintln(w, "--\t-----\t----\t------------")
	for _, u := range result.Items {
		experimental := "no"
		if u.ExperimentalFeatures {
			experimental = "yes"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Email, orDash(u.Role), experimental)
	}
	_ = w.Flush()

	printTotal(len(result.Items), result.Total, "user")
	return nil
}

// AddUserCommand creates a user with an initial password.
func AddUserCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-user", flag.ExitOnError)
	email := fs.String("email", "", "Email address (required)")
	role := fs.String("role", "", "Role")
	_ = fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	password, err := promptPassword("Initial password: ")
	if err != nil {
		return err
	}

	created, err := app.Users.Create(app.ctx(), models.User{
		Email:    *email,
		Role:     *role,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("✓ User created: %s (ID: %d)\n", created.Email, created.ID)
	return nil
}

// UpdateUserCommand updates role or feature flags; password only when
// --set-password is given.
func UpdateUserCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("update-user", flag.ExitOnError)
	role := fs.String("role", "", "Role")
	experimental := fs.String("experimental", "", "Enable experimental features (true/false)")
	setPassword := fs.Bool("set-password", false, "Prompt for a new password")
	_ = fs.Parse(args)

	id, err := requireID(fs, "user")
	if err != nil {
		return err
	}

	existing, err := app.Users.Get(app.ctx(), id)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if *role != "" {
		existing.Role = *role
	}
	switch *experimental {
	case "":
	case "true":
		existing.ExperimentalFeatures = true
	case "false":
		existing.ExperimentalFeatures = false
	default:
		return fmt.Errorf("invalid --experimental %q (want true or false)", *experimental)
	}
	if *setPassword {
		password, err := promptPassword("New password: ")
		if err != nil {
			return err
		}
		existing.Password = password
	}

	updated, err := app.Users.Update(app.ctx(), id, *existing)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	fmt.Printf("✓ User updated: %s (ID: %d)\n", updated.Email, updated.ID)
	return nil
}

// DeleteUserCommand deletes a user by id.
func DeleteUserCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := requireID(fs, "user")
	if err != nil {
		return err
	}

	if err := app.Users.Delete(app.ctx(), id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Printf("✓ User deleted (ID: %d)\n", id)
	return nil
}
