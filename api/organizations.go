// ABOUTME: Organization and membership resource client
// ABOUTME: Organization paths are never tenant-prefixed
package api

import (
	"context"
	"fmt"

	"github.com/farmwise/fbconsole/models"
)

const organizationsResource = "/organizations"

type OrganizationsAPI struct {
	client *Client
}

func NewOrganizationsAPI(c *Client) *OrganizationsAPI {
	return &OrganizationsAPI{client: c}
}

func (a *OrganizationsAPI) List(ctx context.Context, opts ListOptions) (Page[models.Organization], error) {
	var page Page[models.Organization]
	err := a.client.Get(ctx, organizationsResource, opts.Values(), &page)
	return page, err
}

func (a *OrganizationsAPI) Get(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	if err := a.client.Get(ctx, fmt.Sprintf("%s/%s", organizationsResource, id), nil, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (a *OrganizationsAPI) Create(ctx context.Context, org models.Organization) (*models.Organization, error) {
	payload := map[string]any{"name": org.Name, "slug": org.Slug}
	if org.Description != "" {
		payload["description"] = org.Description
	}
	var created models.Organization
	if err := a.client.Post(ctx, organizationsResource, payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *OrganizationsAPI) Update(ctx context.Context, id string, org models.Organization) (*models.Organization, error) {
	payload := map[string]any{"name": org.Name, "slug": org.Slug, "description": org.Description}
	var updated models.Organization
	if err := a.client.Put(ctx, fmt.Sprintf("%s/%s", organizationsResource, id), payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *OrganizationsAPI) Delete(ctx context.Context, id string) error {
	return a.client.Delete(ctx, fmt.Sprintf("%s/%s", organizationsResource, id))
}

func (a *OrganizationsAPI) ListMembers(ctx context.Context, orgID string, opts ListOptions) (Page[models.OrganizationMember], error) {
	var page Page[models.OrganizationMember]
	err := a.client.Get(ctx, fmt.Sprintf("%s/%s/members", organizationsResource, orgID), opts.Values(), &page)
	return page, err
}

func (a *OrganizationsAPI) AddMember(ctx context.Context, orgID, email, role string) (*models.OrganizationMember, error) {
	payload := map[string]string{"email": email, "role": role}
	var member models.OrganizationMember
	if err := a.client.Post(ctx, fmt.Sprintf("%s/%s/members", organizationsResource, orgID), payload, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (a *OrganizationsAPI) UpdateMember(ctx context.Context, orgID, memberID, role string) (*models.OrganizationMember, error) {
	payload := map[string]string{"role": role}
	var member models.OrganizationMember
	if err := a.client.Put(ctx, fmt.Sprintf("%s/%s/members/%s", organizationsResource, orgID, memberID), payload, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (a *OrganizationsAPI) RemoveMember(ctx context.Context, orgID, memberID string) error {
	return a.client.Delete(ctx, fmt.Sprintf("%s/%s/members/%s", organizationsResource, orgID, memberID))
}
