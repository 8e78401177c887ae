// ABOUTME: Tests for the contact resource client's outgoing payload shape
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/fbconsole/models"
)

// Updating a freshly fetched record must send only the editable field
// subset: server-owned fields (id, farms, organization, timestamps) never
// appear in the request body, and editable values go out unchanged.
func TestContactUpdateSendsVettedPayload(t *testing.T) {
	var putBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/default/contacts/5", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(models.Contact{
				ID:           5,
				Name:         "Amina Phiri",
				PhoneNumber:  "+260971234567",
				Email:        "amina@example.com",
				Role:         "farmer",
				Gender:       "female",
				Experience:   4,
				Organization: "default",
				Farms:        []models.FarmRef{{ID: 2, Name: "Riverside"}},
				CreatedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			})
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			_ = json.NewEncoder(w).Encode(models.Contact{ID: 5})
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	contacts := NewContactsAPI(NewClient(Config{BaseURL: srv.URL}))

	fetched, err := contacts.Get(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, fetched.Farms, 1)

	_, err = contacts.Update(context.Background(), 5, *fetched)
	require.NoError(t, err)
	require.NotNil(t, putBody)

	editable := map[string]bool{
		"external_id":               true,
		"external_url":              true,
		"name":                      true,
		"phone_number":              true,
		"email":                     true,
		"preferred_form_of_address": true,
		"gender":                    true,
		"date_of_birth":             true,
		"estimated_age":             true,
		"role":                      true,
		"experience":                true,
		"product_interests":         true,
	}
	for key := range putBody {
		assert.True(t, editable[key], "unexpected field %q in update payload", key)
	}
	assert.NotContains(t, putBody, "id")
	assert.NotContains(t, putBody, "farms")
	assert.NotContains(t, putBody, "organization")
	assert.NotContains(t, putBody, "created_at")
	assert.NotContains(t, putBody, "updated_at")

	assert.Equal(t, fetched.Name, putBody["name"])
	assert.Equal(t, fetched.PhoneNumber, putBody["phone_number"])
	assert.Equal(t, fetched.Email, putBody["email"])
	assert.Equal(t, fetched.Role, putBody["role"])
	assert.Equal(t, fetched.Gender, putBody["gender"])
	assert.EqualValues(t, fetched.Experience, putBody["experience"])
}

func TestContactCreateSendsVettedPayload(t *testing.T) {
	var postBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/default/contacts", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&postBody))
		_ = json.NewEncoder(w).Encode(models.Contact{ID: 9})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	contacts := NewContactsAPI(NewClient(Config{BaseURL: srv.URL}))

	_, err := contacts.Create(context.Background(), models.Contact{
		Name:  "Blessing Moyo",
		Role:  "agrodealer",
		Farms: []models.FarmRef{{ID: 1, Name: "stray reference"}},
	})
	require.NoError(t, err)
	require.NotNil(t, postBody)

	assert.Equal(t, "Blessing Moyo", postBody["name"])
	assert.Equal(t, "agrodealer", postBody["role"])
	assert.NotContains(t, postBody, "farms")
	assert.NotContains(t, postBody, "id")
}
