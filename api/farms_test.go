// ABOUTME: Tests for the farm resource client's outgoing payload shape
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

// The denormalized contact list and server timestamps are read-only on a
// farm record; saving a fetched farm unchanged must not echo them back.
func TestFarmUpdateSendsVettedPayload(t *testing.T) {
	var putBody map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("/default/farms/3", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(models.Farm{
				ID:          3,
				Name:        "Riverside",
				Description: "Irrigated plot by the Kafue",
				Location:    &models.Location{Latitude: -15.4, Longitude: 28.3},
				AreaHa:      2.5,
				Owner:       "Amina Phiri",
				Contacts:    []models.Contact{{ID: 7, Name: "Amina Phiri"}},
				CreatedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			})
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			_ = json.NewEncoder(w).Encode(models.Farm{ID: 3})
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	farms := NewFarmsAPI(NewClient(Config{BaseURL: srv.URL}))

	fetched, err := farms.Get(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, fetched.Contacts, 1)

	_, err = farms.Update(context.Background(), 3, *fetched)
	require.NoError(t, err)
	require.NotNil(t, putBody)

	editable := map[string]bool{
		"name":        true,
		"description": true,
		"location":    true,
		"area":        true,
		"owner":       true,
	}
	for key := range putBody {
		assert.True(t, editable[key], "unexpected field %q in update payload", key)
	}
	assert.NotContains(t, putBody, "id")
	assert.NotContains(t, putBody, "contacts")
	assert.NotContains(t, putBody, "created_at")
	assert.NotContains(t, putBody, "updated_at")

	assert.Equal(t, fetched.Name, putBody["name"])
	assert.Equal(t, fetched.Description, putBody["description"])
	assert.Equal(t, fetched.Owner, putBody["owner"])
	assert.EqualValues(t, fetched.AreaHa, putBody["area"])

	location, ok := putBody["location"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, -15.4, location["latitude"])
}
