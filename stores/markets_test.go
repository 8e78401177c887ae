// ABOUTME: Tests for the market price browser store
package stores

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
)

type priceServer struct {
	mu      sync.Mutex
	queries []map[string]string
}

func (p *priceServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/markets", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.Page[models.Market]{
			Items: []models.Market{{ID: 1, Name: "Mbare Musika"}},
			Total: 1,
		})
	})
	mux.HandleFunc("/commodities", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.Page[models.Commodity]{
			Items: []models.Commodity{{ID: 10, Name: "Maize"}},
			Total: 1,
		})
	})
	mux.HandleFunc("/market_prices", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		q := map[string]string{}
		for key := range r.URL.Query() {
			q[key] = r.URL.Query().Get(key)
		}
		p.queries = append(p.queries, q)
		p.mu.Unlock()

		price := 120.5
		_ = json.NewEncoder(w).Encode(api.Page[models.MarketPrice]{
			Items: []models.MarketPrice{{ID: 100, PriceDate: "2026-08-01", RetailPrice: &price}},
			Total: 1,
		})
	})
	return mux
}

func (p *priceServer) priceQueries() []map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]map[string]string(nil), p.queries...)
}

func newMarketTestStore(t *testing.T) (*MarketStore, *priceServer) {
	t.Helper()
	ps := &priceServer{}
	srv := httptest.NewServer(ps.handler())
	t.Cleanup(srv.Close)
	client := api.NewClient(api.Config{BaseURL: srv.URL})
	store := NewMarketStore(MarketDeps{
		Markets:  api.NewMarketsAPI(client),
		Debounce: 20 * time.Millisecond,
	})
	return store, ps
}

func TestMarketStoreLoadsPickers(t *testing.T) {
	s, _ := newMarketTestStore(t)

	require.NoError(t, s.LoadMarkets(context.Background()))
	require.NoError(t, s.LoadCommodities(context.Background()))

	markets := s.Markets()
	require.Len(t, markets, 1)
	assert.Equal(t, "Mbare Musika", markets[0].Name)

	commodities := s.Commodities()
	require.Len(t, commodities, 1)
	assert.Equal(t, "Maize", commodities[0].Name)
}

func TestMarketStoreQueriesByMarket(t *testing.T) {
	s, ps := newMarketTestStore(t)

	marketID := int64(1)
	s.UpdatePriceOptions(PriceOptionsPatch{MarketID: &marketID})

	waitFor(t, func() bool { return len(ps.priceQueries()) == 1 })
	q := ps.priceQueries()[0]
	assert.Equal(t, "1", q["market_id"])
	assert.NotContains(t, q, "commodity_id")

	view, _ := s.Prices()
	require.Len(t, view.Rows.Items, 1)
	require.NotNil(t, view.Rows.Total)
	assert.Equal(t, 1, *view.Rows.Total)
}

func TestMarketStoreSwitchingTargetResetsPage(t *testing.T) {
	s, ps := newMarketTestStore(t)

	marketID := int64(1)
	s.UpdatePriceOptions(PriceOptionsPatch{MarketID: &marketID})
	page := 4
	s.UpdatePriceOptions(PriceOptionsPatch{Page: &page})
	waitFor(t, func() bool { return len(ps.priceQueries()) == 1 })
	assert.Equal(t, "4", ps.priceQueries()[0]["page"])

	byCommodity := PricesByCommodity
	commodityID := int64(10)
	s.UpdatePriceOptions(PriceOptionsPatch{QueryType: &byCommodity, CommodityID: &commodityID})
	waitFor(t, func() bool { return len(ps.priceQueries()) == 2 })

	q := ps.priceQueries()[1]
	assert.Equal(t, "10", q["commodity_id"])
	assert.NotContains(t, q, "market_id")
	assert.Equal(t, "1", q["page"])
}

func TestMarketStoreNoSelectionNoRequest(t *testing.T) {
	s, ps := newMarketTestStore(t)

	s.GetPrices()
	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, ps.priceQueries())

	view, _ := s.Prices()
	assert.False(t, view.Loading)
}
