// ABOUTME: Contact CLI commands: list, add, update, delete, chat, memories
// ABOUTME: Human-friendly commands over the contacts API
package cli

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
)

// ListContactsCommand lists contacts with search and role filtering.
func ListContactsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, phone or email")
	role := fs.String("role", "", "Filter by role (farmer, extension_officer, aggregator, input_supplier)")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 50, "Results per page")
	_ = fs.Parse(args)

	opts := api.ListOptions{Q: *query, Page: *page, ItemsPerPage: *limit, SortBy: []string{"name"}}
	if *role != "" {
		opts.Filters = map[string][]string{"role": {*role}}
	}

	result, err := app.Contacts.List(app.ctx(), opts)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	if len(result.Items) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	w := newTable()
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPHONE\tROLE\tFARMS")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t----\t-----")
	for _, c := range result.Items {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
			c.ID, c.Name, orDash(c.PhoneNumber), orDash(c.Role), len(c.Farms))
	}
	_ = w.Flush()

	printTotal(len(result.Items), result.Total, "contact")
	return nil
}

// AddContactCommand creates a contact.
func AddContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	phone := fs.String("phone", "", "Phone number")
	email := fs.String("email", "", "Email address")
	role := fs.String("role", models.RoleFarmer, "Role")
	gender := fs.String("gender", "", "Gender")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	contact := models.Contact{
		Name:        *name,
		PhoneNumber: *phone,
		Email:       *email,
		Role:        *role,
		Gender:      *gender,
	}

	created, err := app.Contacts.Create(app.ctx(), contact)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %d)\n", created.Name, created.ID)
	if created.PhoneNumber != "" {
		fmt.Printf("  Phone: %s\n", created.PhoneNumber)
	}
	return nil
}

// UpdateContactCommand updates fields on an existing contact; flags left
// unset keep their current values.
func UpdateContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name")
	phone := fs.String("phone", "", "Phone number")
	email := fs.String("email", "", "Email address")
	role := fs.String("role", "", "Role")
	_ = fs.Parse(args)

	id, err := requireID(fs, "contact")
	if err != nil {
		return err
	}

	existing, err := app.Contacts.Get(app.ctx(), id)
	if err != nil {
		return fmt.Errorf("contact not found: %w", err)
	}

	if *name != "" {
		existing.Name = *name
	}
	if *phone != "" {
		existing.PhoneNumber = *phone
	}
	if *email != "" {
		existing.Email = *email
	}
	if *role != "" {
		existing.Role = *role
	}

	updated, err := app.Contacts.Update(app.ctx(), id, *existing)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	fmt.Printf("✓ Contact updated: %s (ID: %d)\n", updated.Name, updated.ID)
	return nil
}

// DeleteContactCommand deletes a contact by id.
func DeleteContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := requireID(fs, "contact")
	if err != nil {
		return err
	}

	if err := app.Contacts.Delete(app.ctx(), id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	fmt.Printf("✓ Contact deleted (ID: %d)\n", id)
	return nil
}

// ShowChatCommand prints the contact's recent message transcript.
func ShowChatCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("show-chat", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := requireID(fs, "contact")
	if err != nil {
		return err
	}

	state, err := app.Contacts.GetChatState(app.ctx(), id)
	if err != nil {
		return fmt.Errorf("failed to load chat state: %w", err)
	}

	if state.LastAgent != nil {
		fmt.Printf("Last agent: %s\n\n", state.LastAgent.Name)
	}
	if len(state.Messages) == 0 {
		fmt.Println("No messages")
		return nil
	}
	for _, m := range state.Messages {
		marker := "<"
		if m.Direction == models.DirectionOutbound {
			marker = ">"
		}
		ts := ""
		if !m.Timestamp.IsZero() {
			ts = m.Timestamp.Format("2006-01-02 15:04 ")
		}
		fmt.Printf("%s%s %s\n", ts, marker, m.Text)
	}
	return nil
}

// ShowMemoriesCommand prints the agent memory items for a contact.
func ShowMemoriesCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("show-memories", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := requireID(fs, "contact")
	if err != nil {
		return err
	}

	memories, err := app.Contacts.GetMemories(app.ctx(), id)
	if err != nil {
		return fmt.Errorf("failed to load memories: %w", err)
	}

	if len(memories) == 0 {
		fmt.Println("No memories")
		return nil
	}
	for _, m := range memories {
		fmt.Printf("- %s\n", m.Memory)
	}
	fmt.Printf("\nTotal: %d memor(ies)\n", len(memories))
	return nil
}

// requireID reads the first positional argument as a numeric record id.
func requireID(fs *flag.FlagSet, noun string) (int64, error) {
	if len(fs.Args()) < 1 {
		return 0, fmt.Errorf("%s ID is required", noun)
	}
	id, err := strconv.ParseInt(fs.Args()[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID %q", noun, fs.Args()[0])
	}
	return id, nil
}
