// ABOUTME: Saved contact-filter resource client
// ABOUTME: Read-mostly; populates the filter dialog options
package api

import (
	"context"
	"fmt"

	"github.com/farmwise/fbconsole/models"
)

const contactFiltersResource = "/contact_filters"

type ContactFiltersAPI struct {
	client *Client
}

func NewContactFiltersAPI(c *Client) *ContactFiltersAPI {
	return &ContactFiltersAPI{client: c}
}

type contactFilterPayload struct {
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	FilterType     string         `json:"filter_type"`
	FilterCriteria map[string]any `json:"filter_criteria,omitempty"`
	Enabled        bool           `json:"enabled"`
}

func newContactFilterPayload(f models.ContactFilter) contactFilterPayload {
	return contactFilterPayload{
		Name:           f.Name,
		Description:    f.Description,
		FilterType:     f.FilterType,
		FilterCriteria: f.FilterCriteria,
		Enabled:        f.Enabled,
	}
}

func (a *ContactFiltersAPI) List(ctx context.Context, opts ListOptions) (Page[models.ContactFilter], error) {
	var page Page[models.ContactFilter]
	err := a.client.Get(ctx, contactFiltersResource, opts.Values(), &page)
	return page, err
}

// ListEnabled fetches the enabled saved filters used as dialog options.
func (a *ContactFiltersAPI) ListEnabled(ctx context.Context) (Page[models.ContactFilter], error) {
	opts := ListOptions{Filters: map[string][]string{"enabled": {"true"}}}
	return a.List(ctx, opts)
}

func (a *ContactFiltersAPI) Get(ctx context.Context, id int64) (*models.ContactFilter, error) {
	var filter models.ContactFilter
	if err := a.client.Get(ctx, fmt.Sprintf("%s/%d", contactFiltersResource, id), nil, &filter); err != nil {
		return nil, err
	}
	return &filter, nil
}

func (a *ContactFiltersAPI) Create(ctx context.Context, filter models.ContactFilter) (*models.ContactFilter, error) {
	var created models.ContactFilter
	if err := a.client.Post(ctx, contactFiltersResource, newContactFilterPayload(filter), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *ContactFiltersAPI) Update(ctx context.Context, id int64, filter models.ContactFilter) (*models.ContactFilter, error) {
	var updated models.ContactFilter
	if err := a.client.Put(ctx, fmt.Sprintf("%s/%d", contactFiltersResource, id), newContactFilterPayload(filter), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *ContactFiltersAPI) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, fmt.Sprintf("%s/%d", contactFiltersResource, id))
}
