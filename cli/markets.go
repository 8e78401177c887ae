// ABOUTME: Market price CLI commands: pickers and price queries
package cli

import (
	"flag"
	"fmt"

	"github.com/farmwise/fbconsole/api"
)

// ListMarketsCommand prints the market catalog.
func ListMarketsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-markets", flag.ExitOnError)
	_ = fs.Parse(args)

	result, err := app.Markets.ListMarkets(app.ctx())
	if err != nil {
		return fmt.Errorf("failed to list markets: %w", err)
	}

	if len(result.Items) == 0 {
		fmt.Println("No markets found")
		return nil
	}

	w := newTable()
	_, _ = fmt.Fprintln(w, "ID\tNAME")
	_, _ = fmt.Fprintln(w, "--\t----")
	for _, m := range result.Items {
		_, _ = fmt.Fprintf(w, "%d\t%s\n", m.ID, m.Name)
	}
	_ = w.Flush()

	printTotal(len(result.Items), result.Total, "market")
	return nil
}

// ListCommoditiesCommand prints the full commodity catalog.
func ListCommoditiesCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-commodities", flag.ExitOnError)
	_ = fs.Parse(args)

	commodities, err := app.Markets.ListAllCommodities(app.ctx())
	if err != nil {
		return fmt.Errorf("failed to list commodities: %w", err)
	}

	if len(commodities) == 0 {
		fmt.Println("No commodities found")
		return nil
	}

	w := newTable()
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCLASSIFICATION\tGRADE")
	_, _ = fmt.Fprintln(w, "--\t----\t--------------\t-----")
	for _, c := range commodities {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			c.ID, c.Name, orDash(c.Classification), orDash(c.Grade))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d commodit(ies)\n", len(commodities))
	return nil
}

// ListPricesCommand prints market prices filtered by market or commodity.
func ListPricesCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-prices", flag.ExitOnError)
	marketID := fs.Int64("market", 0, "Filter by market ID")
	commodityID := fs.Int64("commodity", 0, "Filter by commodity ID")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 50, "Results per page")
	_ = fs.Parse(args)

	if *marketID == 0 && *commodityID == 0 {
		return fmt.Errorf("--market or --commodity is required")
	}

	result, err := app.Markets.ListMarketPrices(app.ctx(), api.MarketPriceQuery{
		MarketID:     *marketID,
		CommodityID:  *commodityID,
		Page:         *page,
		ItemsPerPage: *limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list market prices: %w", err)
	}

	if len(result.Items) == 0 {
		fmt.Println("No prices found")
		return nil
	}

	w := newTable()
	_, _ = fmt.Fprintln(w, "DATE\tMARKET\tCOMMODITY\tWHOLESALE\tRETAIL")
	_, _ = fmt.Fprintln(w, "----\t------\t---------\t---------\t------")
	for _, p := range result.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.PriceDate, p.Market.Name, p.Commodity.Name,
			formatPrice(p.WholesalePrice, p.WholesaleUnit, p.WholesaleCcy),
			formatPrice(p.RetailPrice, p.RetailUnit, p.RetailCcy))
	}
	_ = w.Flush()

	printTotal(len(result.Items), result.Total, "price")
	return nil
}

func formatPrice(value *float64, unit, ccy string) string {
	if value == nil {
		return "-"
	}
	out := fmt.Sprintf("%.2f", *value)
	if ccy != "" {
		out += " " + ccy
	}
	if unit != "" {
		out += "/" + unit
	}
	return out
}
