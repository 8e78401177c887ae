// ABOUTME: List query translation from table options to wire parameters
// ABOUTME: Pagination, multi-value sort keys, bracketed structured filters
package api

import (
	"net/url"
	"strconv"
)

// ListOptions is the typed query every list endpoint accepts.
type ListOptions struct {
	Q            string
	Page         int
	ItemsPerPage int
	SortBy       []string
	Descending   []bool
	// Filters flatten into one filters[<key>] parameter per value.
	Filters map[string][]string
}

// Values builds the query string. Empty q is omitted; a filter key whose
// values are all empty is omitted entirely.
func (o ListOptions) Values() url.Values {
	v := url.Values{}
	if o.Q != "" {
		v.Set("q", o.Q)
	}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.ItemsPerPage > 0 {
		v.Set("itemsPerPage", strconv.Itoa(o.ItemsPerPage))
	}
	for _, s := range o.SortBy {
		v.Add("sortBy[]", s)
	}
	for _, d := range o.Descending {
		v.Add("descending[]", strconv.FormatBool(d))
	}
	for key, values := range o.Filters {
		for _, value := range values {
			if value != "" {
				v.Add("filters["+key+"]", value)
			}
		}
	}
	return v
}

// Page is the paginated list envelope every collection endpoint returns.
type Page[T any] struct {
	Items        []T `json:"items"`
	Total        int `json:"total"`
	Page         int `json:"page,omitempty"`
	ItemsPerPage int `json:"items_per_page,omitempty"`
}
