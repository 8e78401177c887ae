// ABOUTME: Shared command context: wired API clients, session and output helpers
// ABOUTME: Every command is a func(app, args) error over a flag.FlagSet
package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/config"
	"github.com/farmwise/fbconsole/refdata"
	"github.com/farmwise/fbconsole/session"
)

// App bundles everything a command needs. Built once in main.
type App struct {
	Config  *config.Config
	Session *session.Session
	Log     *zap.Logger

	Contacts    *api.ContactsAPI
	Farms       *api.FarmsAPI
	Engagements *api.EngagementsAPI
	Filters     *api.ContactFiltersAPI
	Markets     *api.MarketsAPI
	Varieties   *api.VarietiesAPI
	Agronomy    *api.AgronomyAPI
	Users       *api.UsersAPI
	Auth        *api.AuthAPI
	Orgs        *api.OrganizationsAPI

	// VarietyCache may be nil when the cache database failed to open;
	// variety commands then always hit the API.
	VarietyCache *refdata.Cache
}

func (a *App) ctx() context.Context {
	return context.Background()
}

// newTable returns the standard column writer for list output.
func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// printTotal reports the list footer: shown rows out of the server total.
func printTotal(shown, total int, noun string) {
	if total > shown {
		fmt.Printf("\nShowing %d of %d %s(s)\n", shown, total, noun)
		return
	}
	fmt.Printf("\nTotal: %d %s(s)\n", total, noun)
}
