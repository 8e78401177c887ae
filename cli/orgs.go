// ABOUTME: Organization and membership CLI commands
package cli

import (
	"flag"
	"fmt"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
)

// ListOrgsCommand lists organizations visible to the caller.
func ListOrgsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-orgs", flag.ExitOnError)
	query := fs.String("query", "", "Search by name")
	_ = fs.Parse(args)

	result, err := app.Orgs.List(app.ctx(), api.ListOptions{Q: *query, SortBy: []string{"name"}})
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	if len(result.Items) == 0 {
		fmt.Println("No organizations found")
		return nil
	}

	w := newTable()
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSLUG")
	_, _ = fmt.Fprintln(w, "--\t----\t----")
	for _, o := range result.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", o.ID, o.Name, o.Slug)
	}
	_ = w.Flush()

	printTotal(len(result.Items), result.Total, "organization")
	return nil
}

// AddOrgCommand creates an organization.
func AddOrgCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-org", flag.ExitOnError)
	name := fs.String("name", "", "Organization name (required)")
	slug := fs.String("slug", "", "URL slug (required)")
	description := fs.String("description", "", "Description")
	_ = fs.Parse(args)

	if *name == "" || *slug == "" {
		return fmt.Errorf("--name and --slug are required")
	}

	created, err := app.Orgs.Create(app.ctx(), models.Organization{
		Name:        *name,
		Slug:        *slug,
		Description: *description,
	})
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	fmt.Printf("✓ Organization created: %s (%s)\n", created.Name, created.ID)
	return nil
}

// DeleteOrgCommand deletes an organization by id.
func DeleteOrgCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-org", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("organization ID is required")
	}
	id := fs.Args()[0]

	if err := app.Orgs.Delete(app.ctx(), id); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	fmt.Printf("✓ Organization deleted (%s)\n", id)
	return nil
}

// ListMembersCommand lists an organization's members.
func ListMembersCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-members", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("organization ID is required")
	}
	orgID := fs.Args()[0]

	result, err := app.Orgs.ListMembers(app.ctx(), orgID, api.ListOptions{SortBy: []string{"email"}})
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	if len(result.Items) == 0 {
		fmt.Println("No members found")
		return nil
	}

	w := newTable()
	_, _ = fmt.Fprintln(w, "ID\tEMAIL\tROLE")
	_, _ = fmt.Fprintln(w, "--\t-----\t----")
	for _, m := range result.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Email, m.Role)
	}
	_ = w.Flush()

	printTotal(len(result.Items), result.Total, "member")
	return nil
}

// AddMemberCommand invites a user into an organization.
func AddMemberCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-member", flag.ExitOnError)
	email := fs.String("email", "", "Member email (required)")
	role := fs.String("role", "member", "Member role")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("organization ID is required")
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}
	orgID := fs.Args()[0]

	member, err := app.Orgs.AddMember(app.ctx(), orgID, *email, *role)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	fmt.Printf("✓ Member added: %s as %s\n", member.Email, member.Role)
	return nil
}

// RemoveMemberCommand removes a member. Takes org id then member id.
func RemoveMemberCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("remove-member", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 2 {
		return fmt.Errorf("organization ID and member ID are required")
	}

	if err := app.Orgs.RemoveMember(app.ctx(), fs.Args()[0], fs.Args()[1]); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	fmt.Println("✓ Member removed")
	return nil
}
