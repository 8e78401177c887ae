// ABOUTME: Farm resource client plus the farm-scoped notes collection
// ABOUTME: Notes are only ever addressed under a farm context
package api

import (
	"context"
	"fmt"

	"github.com/farmwise/fbconsole/models"
)

const farmsResource = "/farms"

type FarmsAPI struct {
	client *Client
}

func NewFarmsAPI(c *Client) *FarmsAPI {
	return &FarmsAPI{client: c}
}

// farmPayload is the vetted field subset for create and update; the
// denormalized contacts list stays read-only.
type farmPayload struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Location    *models.Location `json:"location,omitempty"`
	AreaHa      float64          `json:"area,omitempty"`
	Owner       string           `json:"owner,omitempty"`
}

func newFarmPayload(f models.Farm) farmPayload {
	return farmPayload{
		Name:        f.Name,
		Description: f.Description,
		Location:    f.Location,
		AreaHa:      f.AreaHa,
		Owner:       f.Owner,
	}
}

func (a *FarmsAPI) List(ctx context.Context, opts ListOptions) (Page[models.Farm], error) {
	var page Page[models.Farm]
	err := a.client.Get(ctx, farmsResource, opts.Values(), &page)
	return page, err
}

func (a *FarmsAPI) Get(ctx context.Context, id int64) (*models.Farm, error) {
	var farm models.Farm
	if err := a.client.Get(ctx, fmt.Sprintf("%s/%d", farmsResource, id), nil, &farm); err != nil {
		return nil, err
	}
	return &farm, nil
}

func (a *FarmsAPI) Create(ctx context.Context, farm models.Farm) (*models.Farm, error) {
	var created models.Farm
	if err := a.client.Post(ctx, farmsResource, newFarmPayload(farm), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *FarmsAPI) Update(ctx context.Context, id int64, farm models.Farm) (*models.Farm, error) {
	var updated models.Farm
	if err := a.client.Put(ctx, fmt.Sprintf("%s/%d", farmsResource, id), newFarmPayload(farm), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *FarmsAPI) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, fmt.Sprintf("%s/%d", farmsResource, id))
}

func (a *FarmsAPI) ListNotes(ctx context.Context, farmID int64) (Page[models.Note], error) {
	var page Page[models.Note]
	err := a.client.Get(ctx, fmt.Sprintf("%s/%d/notes", farmsResource, farmID), nil, &page)
	return page, err
}

func (a *FarmsAPI) CreateNote(ctx context.Context, farmID int64, note models.Note) (*models.Note, error) {
	var created models.Note
	payload := map[string]any{"content": note.Content}
	if len(note.Tags) > 0 {
		payload["tags"] = note.Tags
	}
	if note.Location != nil {
		payload["location"] = note.Location
	}
	if err := a.client.Post(ctx, fmt.Sprintf("%s/%d/notes", farmsResource, farmID), payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *FarmsAPI) UpdateNote(ctx context.Context, farmID, noteID int64, note models.Note) (*models.Note, error) {
	var updated models.Note
	payload := map[string]any{"content": note.Content}
	if len(note.Tags) > 0 {
		payload["tags"] = note.Tags
	}
	if err := a.client.Put(ctx, fmt.Sprintf("%s/%d/notes/%d", farmsResource, farmID, noteID), payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *FarmsAPI) DeleteNote(ctx context.Context, farmID, noteID int64) error {
	return a.client.Delete(ctx, fmt.Sprintf("%s/%d/notes/%d", farmsResource, farmID, noteID))
}
