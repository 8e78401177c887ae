// ABOUTME: Seed variety browser: one-shot fetch, then local filter/sort/page
// ABOUTME: Reference data is cached on disk and refreshed on demand
package stores

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/notify"
)

// VarietyCache persists fetched variety reference data between runs.
type VarietyCache interface {
	Load(crop string) ([]models.CropVariety, bool, error)
	Save(crop string, varieties []models.CropVariety) error
}

// VarietyStore holds the full variety set for one crop and serves table
// pages locally. Option changes never hit the network; only Load and
// Refresh do.
type VarietyStore struct {
	mu  sync.Mutex
	api *api.VarietiesAPI

	cache    VarietyCache
	notifier *notify.Queue
	log      *zap.Logger

	crop    string
	all     []models.CropVariety
	options TableOptions
	loading bool
}

type VarietyDeps struct {
	Varieties *api.VarietiesAPI
	Cache     VarietyCache
	Notifier  *notify.Queue
	Logger    *zap.Logger
}

func NewVarietyStore(deps VarietyDeps) *VarietyStore {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &VarietyStore{
		api:      deps.Varieties,
		cache:    deps.Cache,
		notifier: deps.Notifier,
		log:      log,
		options: TableOptions{
			Page:         1,
			ItemsPerPage: 25,
			SortBy:       []string{"variety"},
		},
	}
}

// Crop reports the crop whose varieties are loaded.
func (s *VarietyStore) Crop() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.crop
}

// Load fills the store for a crop, serving from the cache when possible
// and falling back to the API. A cache miss followed by a successful fetch
// populates the cache.
func (s *VarietyStore) Load(ctx context.Context, crop string) error {
	if s.cache != nil {
		varieties, ok, err := s.cache.Load(crop)
		if err != nil {
			s.log.Warn("variety cache read failed", zap.String("crop", crop), zap.Error(err))
		} else if ok {
			s.commit(crop, varieties)
			return nil
		}
	}
	return s.Refresh(ctx, crop)
}

// Refresh bypasses the cache, fetches the crop's varieties and rewrites
// the cache entry.
func (s *VarietyStore) Refresh(ctx context.Context, crop string) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	resp, err := s.api.GetVarieties(ctx, crop)

	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.log.Warn("variety fetch failed", zap.String("crop", crop), zap.Error(err))
		if s.notifier != nil && !api.IsHandled(err) && api.StatusOf(err) != 401 {
			s.notifier.Error("Failed to load crop varieties.")
		}
		return err
	}

	s.commit(crop, resp.Varieties)
	if s.cache != nil {
		if err := s.cache.Save(crop, resp.Varieties); err != nil {
			s.log.Warn("variety cache write failed", zap.String("crop", crop), zap.Error(err))
		}
	}
	return nil
}

func (s *VarietyStore) commit(crop string, varieties []models.CropVariety) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crop = crop
	s.all = varieties
	s.loading = false
	s.options.Page = 1
}

// UpdateTableOptions merges the patch locally; search and filter changes
// reset the page. No network traffic results.
func (s *VarietyStore) UpdateTableOptions(patch OptionsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resetPage := false
	if patch.Q != nil {
		s.options.Q = *patch.Q
		resetPage = true
	}
	if patch.Filters != nil {
		s.options.Filters = patch.Filters
		resetPage = true
	}
	if patch.ItemsPerPage != nil {
		s.options.ItemsPerPage = *patch.ItemsPerPage
	}
	if patch.SortBy != nil {
		s.options.SortBy = patch.SortBy
	}
	if patch.Descending != nil {
		s.options.Descending = patch.Descending
	}
	if patch.Page != nil {
		s.options.Page = *patch.Page
	}
	if resetPage {
		s.options.Page = 1
	}
}

// Table applies the current filter, sort and pagination to the held set
// and returns the visible page. Total counts the filtered set, not the
// full catalog.
func (s *VarietyStore) Table() TableView[models.CropVariety] {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := filterVarieties(s.all, s.options.Q)
	sortVarieties(filtered, s.options.SortBy, s.options.Descending)

	total := len(filtered)
	start := (s.options.Page - 1) * s.options.ItemsPerPage
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + s.options.ItemsPerPage
	if end > total {
		end = total
	}

	return TableView[models.CropVariety]{
		Rows:    TableRows[models.CropVariety]{Items: filtered[start:end], Total: &total},
		Options: s.options,
		Loading: s.loading,
	}
}

// filterVarieties keeps rows whose variety, producer, description or
// maturity category contains the query, case-insensitively.
func filterVarieties(all []models.CropVariety, q string) []models.CropVariety {
	if q == "" {
		return append([]models.CropVariety(nil), all...)
	}
	needle := strings.ToLower(q)
	var out []models.CropVariety
	for _, v := range all {
		haystack := strings.ToLower(strings.Join([]string{
			v.Variety, v.Producer, v.Description, v.MaturityCategory,
		}, " "))
		if strings.Contains(haystack, needle) {
			out = append(out, v)
		}
	}
	return out
}

func sortVarieties(items []models.CropVariety, sortBy []string, descending []bool) {
	if len(sortBy) == 0 {
		return
	}
	field := sortBy[0]
	desc := len(descending) > 0 && descending[0]
	key := func(v models.CropVariety) string {
		switch field {
		case "producer":
			return v.Producer
		case "maturity_category":
			return v.MaturityCategory
		case "maturity_days":
			return v.MaturityDays
		case "yield_t_ha":
			return v.YieldTHa
		default:
			return v.Variety
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(key(items[i])), strings.ToLower(key(items[j]))
		if desc {
			return a > b
		}
		return a < b
	})
}
