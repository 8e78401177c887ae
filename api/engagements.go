// ABOUTME: Contact engagement resource client
// ABOUTME: Independent CRUD collection, optionally filtered by contact
package api

import (
	"context"
	"fmt"

	"github.com/farmwise/fbconsole/models"
)

const engagementsResource = "/contact_engagements"

type EngagementsAPI struct {
	client *Client
}

func NewEngagementsAPI(c *Client) *EngagementsAPI {
	return &EngagementsAPI{client: c}
}

type engagementPayload struct {
	ContactID      int64  `json:"contact_id"`
	EngagementType string `json:"engagement_type"`
	EngagementDate string `json:"engagement_date"`
	Notes          string `json:"notes,omitempty"`
}

func newEngagementPayload(e models.ContactEngagement) engagementPayload {
	return engagementPayload{
		ContactID:      e.ContactID,
		EngagementType: e.EngagementType,
		EngagementDate: e.EngagementDate,
		Notes:          e.Notes,
	}
}

func (a *EngagementsAPI) List(ctx context.Context, opts ListOptions) (Page[models.ContactEngagement], error) {
	var page Page[models.ContactEngagement]
	err := a.client.Get(ctx, engagementsResource, opts.Values(), &page)
	return page, err
}

// ListForContact fetches engagement history for one contact.
func (a *EngagementsAPI) ListForContact(ctx context.Context, contactID int64) (Page[models.ContactEngagement], error) {
	opts := ListOptions{Filters: map[string][]string{"contact_id": {fmt.Sprintf("%d", contactID)}}}
	return a.List(ctx, opts)
}

func (a *EngagementsAPI) Get(ctx context.Context, id int64) (*models.ContactEngagement, error) {
	var engagement models.ContactEngagement
	if err := a.client.Get(ctx, fmt.Sprintf("%s/%d", engagementsResource, id), nil, &engagement); err != nil {
		return nil, err
	}
	return &engagement, nil
}

func (a *EngagementsAPI) Create(ctx context.Context, engagement models.ContactEngagement) (*models.ContactEngagement, error) {
	var created models.ContactEngagement
	if err := a.client.Post(ctx, engagementsResource, newEngagementPayload(engagement), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *EngagementsAPI) Update(ctx context.Context, id int64, engagement models.ContactEngagement) (*models.ContactEngagement, error) {
	var updated models.ContactEngagement
	if err := a.client.Put(ctx, fmt.Sprintf("%s/%d", engagementsResource, id), newEngagementPayload(engagement), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *EngagementsAPI) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, fmt.Sprintf("%s/%d", engagementsResource, id))
}
