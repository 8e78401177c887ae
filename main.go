// ABOUTME: Entry point for the Farmbase administrative console
// ABOUTME: Routes to the full-screen TUI or to CLI commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/cli"
	"github.com/farmwise/fbconsole/config"
	"github.com/farmwise/fbconsole/notify"
	"github.com/farmwise/fbconsole/pkg/logger"
	"github.com/farmwise/fbconsole/refdata"
	"github.com/farmwise/fbconsole/session"
	"github.com/farmwise/fbconsole/stores"
	"github.com/farmwise/fbconsole/tui"
)

const version = "0.3.1"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	org := flag.String("org", "", "Organization slug (overrides FARMBASE_ORG)")
	crop := flag.String("crop", "maize", "Default crop for the varieties tab")
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("fbconsole version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if *org != "" {
		cfg.Organization = *org
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	sess := session.New()
	queue := notify.NewQueue()

	client := api.NewClient(api.Config{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.Timeout,
		Organization:   func() string { return cfg.Organization },
		Token:          sess.AccessToken,
		Notifier:       queue,
		OnUnauthorized: sess.Clear,
		Logger:         zlog,
	})

	app := &cli.App{
		Config:      cfg,
		Session:     sess,
		Log:         zlog,
		Contacts:    api.NewContactsAPI(client),
		Farms:       api.NewFarmsAPI(client),
		Engagements: api.NewEngagementsAPI(client),
		Filters:     api.NewContactFiltersAPI(client),
		Markets:     api.NewMarketsAPI(client),
		Varieties:   api.NewVarietiesAPI(client),
		Agronomy:    api.NewAgronomyAPI(client),
		Users:       api.NewUsersAPI(client),
		Auth:        api.NewAuthAPI(client),
		Orgs:        api.NewOrganizationsAPI(client),
	}

	// The variety cache is best-effort; without it variety commands just
	// hit the API every time.
	if cache, err := refdata.Open(refdata.DefaultPath()); err != nil {
		zlog.Warn("variety cache unavailable", zap.Error(err))
	} else {
		app.VarietyCache = cache
		defer func() { _ = cache.Close() }()
	}

	args := flag.Args()

	// No command opens the full-screen console.
	if len(args) == 0 {
		runTUI(app, queue, *crop)
		return
	}

	command := args[0]
	commandArgs := args[1:]

	commands := map[string]func(*cli.App, []string) error{
		"login":    cli.LoginCommand,
		"register": cli.RegisterCommand,
		"logout":   cli.LogoutCommand,
		"whoami":   cli.WhoamiCommand,

		"list-contacts":  cli.ListContactsCommand,
		"add-contact":    cli.AddContactCommand,
		"update-contact": cli.UpdateContactCommand,
		"delete-contact": cli.DeleteContactCommand,
		"show-chat":      cli.ShowChatCommand,
		"show-memories":  cli.ShowMemoriesCommand,

		"list-farms":  cli.ListFarmsCommand,
		"add-farm":    cli.AddFarmCommand,
		"update-farm": cli.UpdateFarmCommand,
		"delete-farm": cli.DeleteFarmCommand,
		"list-notes":  cli.ListNotesCommand,
		"add-note":    cli.AddNoteCommand,
		"delete-note": cli.DeleteNoteCommand,

		"list-engagements":  cli.ListEngagementsCommand,
		"add-engagement":    cli.AddEngagementCommand,
		"delete-engagement": cli.DeleteEngagementCommand,

		"list-markets":     cli.ListMarketsCommand,
		"list-commodities": cli.ListCommoditiesCommand,
		"list-prices":      cli.ListPricesCommand,

		"list-varieties":    cli.ListVarietiesCommand,
		"refresh-varieties": cli.RefreshVarietiesCommand,
		"calendar":          cli.CalendarCommand,

		"list-users":  cli.ListUsersCommand,
		"add-user":    cli.AddUserCommand,
		"update-user": cli.UpdateUserCommand,
		"delete-user": cli.DeleteUserCommand,

		"list-orgs":     cli.ListOrgsCommand,
		"add-org":       cli.AddOrgCommand,
		"delete-org":    cli.DeleteOrgCommand,
		"list-members":  cli.ListMembersCommand,
		"add-member":    cli.AddMemberCommand,
		"remove-member": cli.RemoveMemberCommand,
	}

	cmd, ok := commands[command]
	if !ok {
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	if err := cmd(app, commandArgs); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runTUI(app *cli.App, queue *notify.Queue, crop string) {
	deps := stores.SimpleDeps{Notifier: queue, Logger: app.Log}

	model := tui.NewModel(tui.Deps{
		Contacts: stores.NewContactStore(stores.ContactDeps{
			Contacts:    app.Contacts,
			Engagements: app.Engagements,
			Filters:     app.Filters,
			Notifier:    queue,
			Logger:      app.Log,
		}),
		Farms: stores.NewFarmStore(stores.FarmDeps{
			Farms:    app.Farms,
			Notifier: queue,
			Logger:   app.Log,
		}),
		Engagements: stores.NewEngagementStore(app.Engagements, deps),
		Prices: stores.NewMarketStore(stores.MarketDeps{
			Markets:  app.Markets,
			Notifier: queue,
			Logger:   app.Log,
		}),
		Varieties: stores.NewVarietyStore(stores.VarietyDeps{
			Varieties: app.Varieties,
			Cache:     varietyCacheOf(app),
			Notifier:  queue,
			Logger:    app.Log,
		}),
		Users:       stores.NewUserStore(app.Users, deps),
		Notifier:    queue,
		Logger:      app.Log,
		DefaultCrop: crop,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Console failed: %v", err)
	}
}

// varietyCacheOf keeps a nil *refdata.Cache from becoming a non-nil
// interface value.
func varietyCacheOf(app *cli.App) stores.VarietyCache {
	if app.VarietyCache == nil {
		return nil
	}
	return app.VarietyCache
}

func printUsage() {
	fmt.Println(`fbconsole - Farmbase administrative console

Usage:
  fbconsole                 Open the full-screen console
  fbconsole <command> ...   Run a single command

Session:
  login, register, logout, whoami

Contacts:
  list-contacts, add-contact, update-contact, delete-contact,
  show-chat <id>, show-memories <id>

Farms:
  list-farms, add-farm, update-farm, delete-farm,
  list-notes <farm-id>, add-note <farm-id>, delete-note <farm-id> <note-id>

Engagements:
  list-engagements, add-engagement, delete-engagement

Markets:
  list-markets, list-commodities, list-prices

Varieties:
  list-varieties <crop>, refresh-varieties <crop>, calendar <crop>

Users:
  list-users, add-user, update-user, delete-user

Organizations:
  list-orgs, add-org, delete-org,
  list-members <org-id>, add-member <org-id>, remove-member <org-id> <member-id>

Run 'fbconsole <command> -h' for command flags.`)
}
