// ABOUTME: Market price browser: market/commodity pickers plus a price table
// ABOUTME: Prices query by market or commodity, never free-text search
package stores

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/notify"
)

// PriceQueryType selects which picker drives the price table.
type PriceQueryType string

const (
	PricesByMarket    PriceQueryType = "market"
	PricesByCommodity PriceQueryType = "commodity"
)

// PriceOptions is the price table's query state.
type PriceOptions struct {
	QueryType    PriceQueryType
	MarketID     int64
	CommodityID  int64
	Page         int
	ItemsPerPage int
}

// PriceOptionsPatch merges into PriceOptions. Switching the query target
// resets the page to 1.
type PriceOptionsPatch struct {
	QueryType    *PriceQueryType
	MarketID     *int64
	CommodityID  *int64
	Page         *int
	ItemsPerPage *int
}

// MarketStore drives the price browser. The pickers load once; the price
// table refetches debounced as the selection changes.
type MarketStore struct {
	mu  sync.Mutex
	api *api.MarketsAPI

	notifier *notify.Queue
	log      *zap.Logger
	debounce time.Duration

	markets            []models.Market
	commodities        []models.Commodity
	loadingMarkets     bool
	loadingCommodities bool

	prices        []models.MarketPrice
	pricesTotal   *int
	pricesLoading bool
	options       PriceOptions

	timer      *time.Timer
	dispatched uint64
	applied    uint64
}

type MarketDeps struct {
	Markets  *api.MarketsAPI
	Notifier *notify.Queue
	Logger   *zap.Logger
	Debounce time.Duration
}

func NewMarketStore(deps MarketDeps) *MarketStore {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	debounce := deps.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	return &MarketStore{
		api:      deps.Markets,
		notifier: deps.Notifier,
		log:      log,
		debounce: debounce,
		options: PriceOptions{
			QueryType:    PricesByMarket,
			Page:         1,
			ItemsPerPage: 25,
		},
	}
}

// LoadMarkets fetches the market picker options.
func (s *MarketStore) LoadMarkets(ctx context.Context) error {
	s.mu.Lock()
	s.loadingMarkets = true
	s.mu.Unlock()

	page, err := s.api.ListMarkets(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingMarkets = false
	if err != nil {
		s.log.Warn("market list failed", zap.Error(err))
		s.notifyError(err, "Failed to load markets.")
		return err
	}
	s.markets = page.Items
	return nil
}

// LoadCommodities fetches the full commodity picker options.
func (s *MarketStore) LoadCommodities(ctx context.Context) error {
	s.mu.Lock()
	s.loadingCommodities = true
	s.mu.Unlock()

	commodities, err := s.api.ListAllCommodities(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingCommodities = false
	if err != nil {
		s.log.Warn("commodity list failed", zap.Error(err))
		s.notifyError(err, "Failed to load commodities.")
		return err
	}
	s.commodities = commodities
	return nil
}

// Markets returns the loaded market picker options.
func (s *MarketStore) Markets() []models.Market {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Market(nil), s.markets...)
}

// Commodities returns the loaded commodity picker options.
func (s *MarketStore) Commodities() []models.Commodity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Commodity(nil), s.commodities...)
}

// Prices returns a snapshot of the price table.
func (s *MarketStore) Prices() (TableView[models.MarketPrice], PriceOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := TableView[models.MarketPrice]{
		Rows:    TableRows[models.MarketPrice]{Items: append([]models.MarketPrice(nil), s.prices...)},
		Loading: s.pricesLoading,
	}
	if s.pricesTotal != nil {
		total := *s.pricesTotal
		view.Rows.Total = &total
	}
	return view, s.options
}

// UpdatePriceOptions merges the patch and schedules a refetch. Changing
// the query target or its id resets the page.
func (s *MarketStore) UpdatePriceOptions(patch PriceOptionsPatch) {
	s.mu.Lock()
	resetPage := false
	if patch.QueryType != nil {
		s.options.QueryType = *patch.QueryType
		resetPage = true
	}
	if patch.MarketID != nil {
		s.options.MarketID = *patch.MarketID
		resetPage = true
	}
	if patch.CommodityID != nil {
		s.options.CommodityID = *patch.CommodityID
		resetPage = true
	}
	if patch.ItemsPerPage != nil {
		s.options.ItemsPerPage = *patch.ItemsPerPage
	}
	if patch.Page != nil {
		s.options.Page = *patch.Page
	}
	if resetPage {
		s.options.Page = 1
	}
	s.mu.Unlock()

	s.GetPrices()
}

// GetPrices schedules a debounced price fetch for the current selection.
func (s *MarketStore) GetPrices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.fetchPrices)
}

// FlushPrices runs any pending debounced fetch immediately.
func (s *MarketStore) FlushPrices() {
	s.mu.Lock()
	pending := s.timer != nil && s.timer.Stop()
	s.timer = nil
	s.mu.Unlock()
	if pending {
		s.fetchPrices()
	}
}

func (s *MarketStore) fetchPrices() {
	s.mu.Lock()
	s.dispatched++
	seq := s.dispatched
	opts := s.options
	s.pricesLoading = true
	s.mu.Unlock()

	query := api.MarketPriceQuery{Page: opts.Page, ItemsPerPage: opts.ItemsPerPage}
	switch opts.QueryType {
	case PricesByCommodity:
		query.CommodityID = opts.CommodityID
	default:
		query.MarketID = opts.MarketID
	}

	// No selection yet; nothing to ask for.
	if query.MarketID == 0 && query.CommodityID == 0 {
		s.mu.Lock()
		s.pricesLoading = false
		s.mu.Unlock()
		return
	}

	page, err := s.api.ListMarketPrices(context.Background(), query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		return
	}
	s.applied = seq
	s.pricesLoading = false
	if err != nil {
		s.log.Warn("market price fetch failed", zap.Error(err))
		s.notifyError(err, "Failed to load market prices.")
		return
	}
	total := page.Total
	s.prices = page.Items
	s.pricesTotal = &total
}

func (s *MarketStore) notifyError(err error, fallback string) {
	if s.notifier == nil || api.IsHandled(err) || api.StatusOf(err) == 401 {
		return
	}
	s.notifier.Error(fallback)
}
