// ABOUTME: Contact engagement CLI commands
package cli

import (
	"flag"
	"fmt"
	"time"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
)

// ListEngagementsCommand lists engagements, optionally for one contact.
func ListEngagementsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-engagements", flag.ExitOnError)
	contactID := fs.Int64("contact", 0, "Filter by contact ID")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 50, "Results per page")
	_ = fs.Parse(args)

	opts := api.ListOptions{
		Page: *page, ItemsPerPage: *limit,
		SortBy: []string{"engagement_date"}, Descending: []bool{true},
	}
	if *contactID > 0 {
		opts.Filters = map[string][]string{"contact_id": {fmt.Sprintf("%d", *contactID)}}
	}

	result, err := app.Engagements.List(app.ctx(), opts)
	if err != nil {
		return fmt.Errorf("failed to list engagements: %w", err)
	}

	if len(result.Items) == 0 {
		fmt.Println("No engagements found")
		return nil
	}

	w := newTable()
	_, _ = fmt.Fprintln(w, "ID\tCONTACT\tTYPE\tDATE\tNOTES")
	_, _ = fmt.Fprintln(w, "--\t-------\t----\t----\t-----")
	for _, e := range result.Items {
		notes := e.Notes
		if len(notes) > 40 {
			notes = notes[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n",
			e.ID, e.ContactID, e.EngagementType, e.EngagementDate, orDash(notes))
	}
	_ = w.Flush()

	printTotal(len(result.Items), result.Total, "engagement")
	return nil
}

// AddEngagementCommand records an engagement with a contact.
func AddEngagementCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-engagement", flag.ExitOnError)
	contactID := fs.Int64("contact", 0, "Contact ID (required)")
	engType := fs.String("type", models.EngagementVisit, "Type (call, visit, message, training, field_day)")
	date := fs.String("date", time.Now().Format("2006-01-02"), "Engagement date (YYYY-MM-DD)")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	if *contactID == 0 {
		return fmt.Errorf("--contact is required")
	}

	created, err := app.Engagements.Create(app.ctx(), models.ContactEngagement{
		ContactID:      *contactID,
		EngagementType: *engType,
		EngagementDate: *date,
		Notes:          *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	fmt.Printf("✓ Engagement recorded: %s with contact %d (ID: %d)\n",
		created.EngagementType, created.ContactID, created.ID)
	return nil
}

// DeleteEngagementCommand removes an engagement by id.
func DeleteEngagementCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-engagement", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := requireID(fs, "engagement")
	if err != nil {
		return err
	}

	if err := app.Engagements.Delete(app.ctx(), id); err != nil {
		return fmt.Errorf("failed to delete engagement: %w", err)
	}

	fmt.Printf("✓ Engagement deleted (ID: %d)\n", id)
	return nil
}
