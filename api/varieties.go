// ABOUTME: Crop variety and agronomy crop-cycle reference clients
// ABOUTME: Global read-only endpoints; varieties are cached client-side
package api

import (
	"context"
	"net/url"

	"github.com/farmwise/fbconsole/models"
)

type VarietiesAPI struct {
	client *Client
}

func NewVarietiesAPI(c *Client) *VarietiesAPI {
	return &VarietiesAPI{client: c}
}

// VarietiesResponse is the full reference data set for one crop. It is
// fetched in one shot and filtered/sorted/paginated client-side.
type VarietiesResponse struct {
	Crop      string               `json:"crop"`
	Varieties []models.CropVariety `json:"varieties"`
}

func (a *VarietiesAPI) GetVarieties(ctx context.Context, crop string) (*VarietiesResponse, error) {
	var out VarietiesResponse
	if err := a.client.Get(ctx, "/crop-varieties/"+url.PathEscape(crop), nil, &out); err != nil {
		return nil, err
	}
	if out.Crop == "" {
		out.Crop = crop
	}
	return &out, nil
}

type AgronomyAPI struct {
	client *Client
}

func NewAgronomyAPI(c *Client) *AgronomyAPI {
	return &AgronomyAPI{client: c}
}

// GetCropCycles fetches agronomy calendars for a crop, optionally narrowed
// to one Köppen climate classification.
func (a *AgronomyAPI) GetCropCycles(ctx context.Context, crop, koppenClass string) ([]models.CropCycle, error) {
	query := url.Values{}
	if koppenClass != "" {
		query.Set("koppen_climate_classification", koppenClass)
	}

	var cycles []models.CropCycle
	err := a.client.Get(ctx, "/agronomy/crop-cycles/crop/"+url.PathEscape(crop), query, &cycles)
	return cycles, err
}
