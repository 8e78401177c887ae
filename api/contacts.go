// ABOUTME: Contact resource client plus contact-scoped chat state and memories
// ABOUTME: Pure translation from store intents to HTTP calls
package api

import (
	"context"
	"fmt"

	"github.com/farmwise/fbconsole/models"
)

const contactsResource = "/contacts"

type ContactsAPI struct {
	client *Client
}

func NewContactsAPI(c *Client) *ContactsAPI {
	return &ContactsAPI{client: c}
}

// contactPayload is the vetted field subset sent on create and update.
// Read-only and denormalized fields (farms, timestamps) never go out.
type contactPayload struct {
	ExternalID             string                   `json:"external_id,omitempty"`
	ExternalURL            string                   `json:"external_url,omitempty"`
	Name                   string                   `json:"name"`
	PhoneNumber            string                   `json:"phone_number,omitempty"`
	Email                  string                   `json:"email,omitempty"`
	PreferredFormOfAddress string                   `json:"preferred_form_of_address,omitempty"`
	Gender                 string                   `json:"gender,omitempty"`
	DateOfBirth            string                   `json:"date_of_birth,omitempty"`
	EstimatedAge           int                      `json:"estimated_age,omitempty"`
	Role                   string                   `json:"role,omitempty"`
	Experience             int                      `json:"experience,omitempty"`
	ProductInterests       *models.ProductInterests `json:"product_interests,omitempty"`
}

func newContactPayload(c models.Contact) contactPayload {
	return contactPayload{
		ExternalID:             c.ExternalID,
		ExternalURL:            c.ExternalURL,
		Name:                   c.Name,
		PhoneNumber:            c.PhoneNumber,
		Email:                  c.Email,
		PreferredFormOfAddress: c.PreferredFormOfAddress,
		Gender:                 c.Gender,
		DateOfBirth:            c.DateOfBirth,
		EstimatedAge:           c.EstimatedAge,
		Role:                   c.Role,
		Experience:             c.Experience,
		ProductInterests:       c.ProductInterests,
	}
}

func (a *ContactsAPI) List(ctx context.Context, opts ListOptions) (Page[models.Contact], error) {
	var page Page[models.Contact]
	err := a.client.Get(ctx, contactsResource, opts.Values(), &page)
	return page, err
}

func (a *ContactsAPI) Get(ctx context.Context, id int64) (*models.Contact, error) {
	var contact models.Contact
	if err := a.client.Get(ctx, fmt.Sprintf("%s/%d", contactsResource, id), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (a *ContactsAPI) Create(ctx context.Context, contact models.Contact) (*models.Contact, error) {
	var created models.Contact
	if err := a.client.Post(ctx, contactsResource, newContactPayload(contact), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *ContactsAPI) Update(ctx context.Context, id int64, contact models.Contact) (*models.Contact, error) {
	var updated models.Contact
	if err := a.client.Put(ctx, fmt.Sprintf("%s/%d", contactsResource, id), newContactPayload(contact), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *ContactsAPI) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, fmt.Sprintf("%s/%d", contactsResource, id))
}

// GetChatState fetches the contact's latest message transcript. Read-only.
func (a *ContactsAPI) GetChatState(ctx context.Context, contactID int64) (*models.ChatState, error) {
	var state models.ChatState
	if err := a.client.Get(ctx, fmt.Sprintf("%s/%d/chatstate", contactsResource, contactID), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// GetMemories fetches the contact's memory items. Read-only.
func (a *ContactsAPI) GetMemories(ctx context.Context, contactID int64) ([]models.Memory, error) {
	var out struct {
		Results []models.Memory `json:"results"`
	}
	if err := a.client.Get(ctx, fmt.Sprintf("%s/%d/memories", contactsResource, contactID), nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}
