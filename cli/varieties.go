// ABOUTME: Crop variety and agronomy calendar CLI commands
// ABOUTME: Varieties come from the disk cache unless --refresh forces a fetch
package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/farmwise/fbconsole/stores"
)

// ListVarietiesCommand prints the variety catalog for a crop.
func ListVarietiesCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-varieties", flag.ExitOnError)
	query := fs.String("query", "", "Filter varieties by name, producer or description")
	refresh := fs.Bool("refresh", false, "Bypass the local cache and refetch")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("crop name is required (e.g. maize)")
	}
	crop := strings.ToLower(fs.Args()[0])

	store := stores.NewVarietyStore(stores.VarietyDeps{
		Varieties: app.Varieties,
		Cache:     varietyCache(app),
		Logger:    app.Log,
	})

	var err error
	if *refresh {
		err = store.Refresh(app.ctx(), crop)
	} else {
		err = store.Load(app.ctx(), crop)
	}
	if err != nil {
		return fmt.Errorf("failed to load varieties for %s: %w", crop, err)
	}

	if *query != "" {
		store.UpdateTableOptions(stores.OptionsPatch{Q: query})
	}
	perPage := 1000 // CLI prints the whole filtered set
	store.UpdateTableOptions(stores.OptionsPatch{ItemsPerPage: &perPage})

	table := store.Table()
	if len(table.Rows.Items) == 0 {
		fmt.Printf("No varieties found for %s\n", crop)
		return nil
	}

	w := newTable()
	_, _ = fmt.Fprintln(w, "VARIETY\tPRODUCER\tMATURITY\tDAYS\tYIELD (T/HA)")
	_, _ = fmt.Fprintln(w, "-------\t--------\t--------\t----\t------------")
	for _, v := range table.Rows.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			v.Variety, orDash(v.Producer), orDash(v.MaturityCategory),
			orDash(v.MaturityDays), orDash(v.YieldTHa))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d variet(ies) of %s\n", len(table.Rows.Items), crop)
	return nil
}

// RefreshVarietiesCommand refetches and re-caches one crop's varieties.
func RefreshVarietiesCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("refresh-varieties", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("crop name is required (e.g. maize)")
	}
	crop := strings.ToLower(fs.Args()[0])

	store := stores.NewVarietyStore(stores.VarietyDeps{
		Varieties: app.Varieties,
		Cache:     varietyCache(app),
		Logger:    app.Log,
	})
	if err := store.Refresh(app.ctx(), crop); err != nil {
		return fmt.Errorf("failed to refresh varieties for %s: %w", crop, err)
	}

	table := store.Table()
	total := 0
	if table.Rows.Total != nil {
		total = *table.Rows.Total
	}
	fmt.Printf("✓ Cached %d variet(ies) of %s\n", total, crop)
	return nil
}

// CalendarCommand prints agronomy crop cycles with their stages.
func CalendarCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("calendar", flag.ExitOnError)
	koppen := fs.String("koppen", "", "Köppen climate classification (e.g. Cwa)")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("crop name is required (e.g. maize)")
	}
	crop := strings.ToLower(fs.Args()[0])

	cycles, err := app.Agronomy.GetCropCycles(app.ctx(), crop, *koppen)
	if err != nil {
		return fmt.Errorf("failed to load crop cycles for %s: %w", crop, err)
	}

	if len(cycles) == 0 {
		fmt.Printf("No crop cycles found for %s\n", crop)
		return nil
	}

	for _, cycle := range cycles {
		fmt.Printf("Cycle %d: %s", cycle.ID, cycle.CropID)
		if cycle.KoppenClimateClassification != "" {
			fmt.Printf(" (%s)", cycle.KoppenClimateClassification)
		}
		fmt.Println()
		for _, stage := range cycle.Stages {
			fmt.Printf("  %2d. %-24s %d day(s)\n", stage.Order, stage.Name, stage.Duration)
		}
		for _, event := range cycle.Events {
			fmt.Printf("      day %d-%d: %s\n", event.StartDay, event.EndDay, event.Event.Title)
		}
		fmt.Println()
	}
	return nil
}

// varietyCache adapts the optional cache handle to the store interface; a
// nil *Cache must become a nil interface.
func varietyCache(app *App) stores.VarietyCache {
	if app.VarietyCache == nil {
		return nil
	}
	return app.VarietyCache
}
