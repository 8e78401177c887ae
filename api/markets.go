// ABOUTME: Market, commodity and market-price reference clients
// ABOUTME: Global (tenant-independent) read-only browsing endpoints
package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/farmwise/fbconsole/models"
)

type MarketsAPI struct {
	client *Client
}

func NewMarketsAPI(c *Client) *MarketsAPI {
	return &MarketsAPI{client: c}
}

func (a *MarketsAPI) ListMarkets(ctx context.Context) (Page[models.Market], error) {
	var page Page[models.Market]
	err := a.client.Get(ctx, "/markets", nil, &page)
	return page, err
}

func (a *MarketsAPI) ListCommodities(ctx context.Context, page, itemsPerPage int) (Page[models.Commodity], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("items_per_page", strconv.Itoa(itemsPerPage))

	var out Page[models.Commodity]
	err := a.client.Get(ctx, "/commodities", query, &out)
	return out, err
}

// ListAllCommodities walks the paginated endpoint until exhausted; the
// commodity catalog is small enough to hold in memory.
func (a *MarketsAPI) ListAllCommodities(ctx context.Context) ([]models.Commodity, error) {
	var all []models.Commodity
	for page := 1; ; page++ {
		out, err := a.ListCommodities(ctx, page, 50)
		if err != nil {
			return nil, err
		}
		all = append(all, out.Items...)
		if len(out.Items) < 50 || len(all) >= out.Total {
			return all, nil
		}
	}
}

// MarketPriceQuery selects the fact rows by market or commodity.
type MarketPriceQuery struct {
	MarketID     int64
	CommodityID  int64
	Page         int
	ItemsPerPage int
}

func (a *MarketsAPI) ListMarketPrices(ctx context.Context, q MarketPriceQuery) (Page[models.MarketPrice], error) {
	query := url.Values{}
	if q.MarketID > 0 {
		query.Set("market_id", strconv.FormatInt(q.MarketID, 10))
	}
	if q.CommodityID > 0 {
		query.Set("commodity_id", strconv.FormatInt(q.CommodityID, 10))
	}
	page := q.Page
	if page == 0 {
		page = 1
	}
	itemsPerPage := q.ItemsPerPage
	if itemsPerPage == 0 {
		itemsPerPage = 50
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("items_per_page", strconv.Itoa(itemsPerPage))

	var out Page[models.MarketPrice]
	err := a.client.Get(ctx, "/market_prices", query, &out)
	return out, err
}
