// ABOUTME: User admin resource client and authentication endpoints
// ABOUTME: Login, register and MFA verify are auth actions, not record CRUD
package api

import (
	"context"
	"fmt"

	"github.com/farmwise/fbconsole/models"
)

const usersResource = "/users"

type UsersAPI struct {
	client *Client
}

func NewUsersAPI(c *Client) *UsersAPI {
	return &UsersAPI{client: c}
}

type userPayload struct {
	Email                string `json:"email"`
	Role                 string `json:"role,omitempty"`
	ExperimentalFeatures bool   `json:"experimental_features"`
	Password             string `json:"password,omitempty"`
}

func newUserPayload(u models.User) userPayload {
	return userPayload{
		Email:                u.Email,
		Role:                 u.Role,
		ExperimentalFeatures: u.ExperimentalFeatures,
		Password:             u.Password,
	}
}

func (a *UsersAPI) List(ctx context.Context, opts ListOptions) (Page[models.User], error) {
	var page Page[models.User]
	err := a.client.Get(ctx, usersResource, opts.Values(), &page)
	return page, err
}

func (a *UsersAPI) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := a.client.Get(ctx, fmt.Sprintf("%s/%d", usersResource, id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UsersAPI) Create(ctx context.Context, user models.User) (*models.User, error) {
	var created models.User
	if err := a.client.Post(ctx, usersResource, newUserPayload(user), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *UsersAPI) Update(ctx context.Context, id int64, user models.User) (*models.User, error) {
	// Password is write-only; an empty password on update means unchanged.
	payload := newUserPayload(user)
	var updated models.User
	if err := a.client.Put(ctx, fmt.Sprintf("%s/%d", usersResource, id), payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *UsersAPI) Delete(ctx context.Context, id int64) error {
	return a.client.Delete(ctx, fmt.Sprintf("%s/%d", usersResource, id))
}

// TokenResponse is returned by login, register and MFA verification.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	MFARequired  bool   `json:"mfa_required,omitempty"`
}

type AuthAPI struct {
	client *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{client: c}
}

// Login exchanges credentials for a bearer token. Error handling is opted
// out: a wrong password is the caller's flow, not a toast.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out TokenResponse
	if err := a.client.Do(ctx, "POST", "/auth/login", nil, body, &out, SkipErrorHandle()); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthAPI) Register(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out TokenResponse
	if err := a.client.Do(ctx, "POST", "/auth/register", nil, body, &out, SkipErrorHandle()); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyMFA completes a login that answered with mfa_required.
func (a *AuthAPI) VerifyMFA(ctx context.Context, email, code string) (*TokenResponse, error) {
	body := map[string]string{"email": email, "code": code}
	var out TokenResponse
	if err := a.client.Do(ctx, "POST", "/auth/mfa/verify", nil, body, &out, SkipErrorHandle()); err != nil {
		return nil, err
	}
	return &out, nil
}
