// ABOUTME: Farm CLI commands: list, add, update, delete, notes
package cli

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
)

// ListFarmsCommand lists farms with optional search.
func ListFarmsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-farms", flag.ExitOnError)
	query := fs.String("query", "", "Search by farm name")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 50, "Results per page")
	_ = fs.Parse(args)

	result, err := app.Farms.List(app.ctx(), api.ListOptions{
		Q: *query, Page: *page, ItemsPerPage: *limit, SortBy: []string{"name"},
	})
	if err != nil {
		return fmt.Errorf("failed to list farms: %w", err)
	}

	if len(result.Items) == 0 {
		fmt.Println("No farms found")
		return nil
	}

	w := newTable()
	_, _ = fmt.Fprintln(w, "ID\tNAME\tAREA (HA)\tOWNER\tCONTACTS")
	_, _ = fmt.Fprintln(w, "--\t----\t---------\t-----\t--------")
	for _, f := range result.Items {
		area := "-"
		if f.AreaHa > 0 {
			area = strconv.FormatFloat(f.AreaHa, 'f', -1, 64)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
			f.ID, f.Name, area, orDash(f.Owner), len(f.Contacts))
	}
	_ = w.Flush()

	printTotal(len(result.Items), result.Total, "farm")
	return nil
}

// AddFarmCommand creates a farm.
func AddFarmCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-farm", flag.ExitOnError)
	name := fs.String("name", "", "Farm name (required)")
	description := fs.String("description", "", "Description")
	area := fs.Float64("area", 0, "Area in hectares")
	owner := fs.String("owner", "", "Owner name")
	lat := fs.Float64("lat", 0, "Latitude")
	lng := fs.Float64("lng", 0, "Longitude")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	farm := models.Farm{
		Name:        *name,
		Description: *description,
		AreaHa:      *area,
		Owner:       *owner,
	}
	if *lat != 0 || *lng != 0 {
		farm.Location = &models.Location{Latitude: *lat, Longitude: *lng}
	}

	created, err := app.Farms.Create(app.ctx(), farm)
	if err != nil {
		return fmt.Errorf("failed to create farm: %w", err)
	}

	fmt.Printf("✓ Farm created: %s (ID: %d)\n", created.Name, created.ID)
	return nil
}

// UpdateFarmCommand updates fields on an existing farm.
func UpdateFarmCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("update-farm", flag.ExitOnError)
	name := fs.String("name", "", "Farm name")
	description := fs.String("description", "", "Description")
	area := fs.Float64("area", 0, "Area in hectares")
	owner := fs.String("owner", "", "Owner name")
	_ = fs.Parse(args)

	id, err := requireID(fs, "farm")
	if err != nil {
		return err
	}

	existing, err := app.Farms.Get(app.ctx(), id)
	if err != nil {
		return fmt.Errorf("farm not found: %w", err)
	}

	if *name != "" {
		existing.Name = *name
	}
	if *description != "" {
		existing.Description = *description
	}
	if *area > 0 {
		existing.AreaHa = *area
	}
	if *owner != "" {
		existing.Owner = *owner
	}

	updated, err := app.Farms.Update(app.ctx(), id, *existing)
	if err != nil {
		return fmt.Errorf("failed to update farm: %w", err)
	}

	fmt.Printf("✓ Farm updated: %s (ID: %d)\n", updated.Name, updated.ID)
	return nil
}

// DeleteFarmCommand deletes a farm by id.
func DeleteFarmCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-farm", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := requireID(fs, "farm")
	if err != nil {
		return err
	}

	if err := app.Farms.Delete(app.ctx(), id); err != nil {
		return fmt.Errorf("failed to delete farm: %w", err)
	}

	fmt.Printf("✓ Farm deleted (ID: %d)\n", id)
	return nil
}

// ListNotesCommand prints the notes on a farm.
func ListNotesCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-notes", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := requireID(fs, "farm")
	if err != nil {
		return err
	}

	result, err := app.Farms.ListNotes(app.ctx(), id)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if len(result.Items) == 0 {
		fmt.Println("No notes")
		return nil
	}
	for _, n := range result.Items {
		when := ""
		if !n.CreatedAt.IsZero() {
			when = n.CreatedAt.Format("2006-01-02") + " "
		}
		tags := ""
		if len(n.Tags) > 0 {
			tags = " [" + strings.Join(n.Tags, ", ") + "]"
		}
		fmt.Printf("%d: %s%s%s\n", n.ID, when, n.Content, tags)
	}
	printTotal(len(result.Items), result.Total, "note")
	return nil
}

// AddNoteCommand attaches a note to a farm.
func AddNoteCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-note", flag.ExitOnError)
	content := fs.String("content", "", "Note content (required)")
	tags := fs.String("tags", "", "Comma-separated tags")
	_ = fs.Parse(args)

	id, err := requireID(fs, "farm")
	if err != nil {
		return err
	}
	if *content == "" {
		return fmt.Errorf("--content is required")
	}

	note := models.Note{Content: *content}
	if *tags != "" {
		for _, tag := range strings.Split(*tags, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				note.Tags = append(note.Tags, trimmed)
			}
		}
	}

	created, err := app.Farms.CreateNote(app.ctx(), id, note)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	fmt.Printf("✓ Note added to farm %d (ID: %d)\n", id, created.ID)
	return nil
}

// DeleteNoteCommand removes a note from a farm. Takes farm id then note id.
func DeleteNoteCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-note", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 2 {
		return fmt.Errorf("farm ID and note ID are required")
	}
	farmID, err := strconv.ParseInt(fs.Args()[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid farm ID %q", fs.Args()[0])
	}
	noteID, err := strconv.ParseInt(fs.Args()[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid note ID %q", fs.Args()[1])
	}

	if err := app.Farms.DeleteNote(app.ctx(), farmID, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	fmt.Printf("✓ Note deleted (ID: %d)\n", noteID)
	return nil
}
