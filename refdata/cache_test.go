// ABOUTME: Tests for the SQLite variety cache
package refdata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/fbconsole/models"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "refdata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLoadMissReturnsFalse(t *testing.T) {
	c := openTestCache(t)

	varieties, ok, err := c.Load("maize")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, varieties)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	c := openTestCache(t)

	in := []models.CropVariety{
		{Variety: "SC719", Producer: "SeedCo", Description: "late white dent", MaturityCategory: "late", MaturityDays: "140-150", YieldTHa: "10-14", AltitudeRangeM: "600-1500"},
		{Variety: "DK8031", Producer: "Dekalb", MaturityCategory: "early"},
	}
	require.NoError(t, c.Save("maize", in))

	out, ok, err := c.Load("maize")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 2)
	// Loaded ordered by variety name.
	assert.Equal(t, "DK8031", out[0].Variety)
	assert.Equal(t, "SC719", out[1].Variety)
	assert.Equal(t, "late white dent", out[1].Description)
	assert.Equal(t, "600-1500", out[1].AltitudeRangeM)
}

func TestSaveReplacesWholeCropSet(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.Save("maize", []models.CropVariety{{Variety: "old-a"}, {Variety: "old-b"}}))
	require.NoError(t, c.Save("maize", []models.CropVariety{{Variety: "new"}}))

	out, ok, err := c.Load("maize")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "new", out[0].Variety)
}

func TestCropsAreIsolated(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.Save("maize", []models.CropVariety{{Variety: "SC719"}}))
	require.NoError(t, c.Save("sorghum", []models.CropVariety{{Variety: "Macia"}}))

	maize, ok, err := c.Load("maize")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "SC719", maize[0].Variety)

	crops, err := c.Crops()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"maize", "sorghum"}, crops)
}
