// ABOUTME: On-disk cache for crop variety reference data
// ABOUTME: SQLite with WAL mode at an XDG cache path; disposable, refreshed on demand
package refdata

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"

	"github.com/farmwise/fbconsole/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS crop_varieties (
	crop TEXT NOT NULL,
	variety TEXT NOT NULL,
	producer TEXT,
	description TEXT,
	maturity_category TEXT,
	maturity_days TEXT,
	yield_t_ha TEXT,
	altitude_range_m TEXT,
	fetched_at DATETIME NOT NULL,
	PRIMARY KEY (crop, variety)
);

CREATE INDEX IF NOT EXISTS idx_crop_varieties_crop ON crop_varieties(crop);
`

// Cache holds fetched variety sets keyed by crop. An entry is replaced
// wholesale on refresh; there is no row-level merge.
type Cache struct {
	db *sql.DB
}

// DefaultPath is the XDG cache location for the variety database.
func DefaultPath() string {
	return filepath.Join(xdg.CacheHome, "fbconsole", "refdata.db")
}

// Open opens (and if needed creates) the cache database at path.
func Open(path string) (*Cache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Load returns the cached variety set for a crop. The second return is
// false on a cache miss.
func (c *Cache) Load(crop string) ([]models.CropVariety, bool, error) {
	rows, err := c.db.Query(`
		SELECT variety, producer, description, maturity_category, maturity_days, yield_t_ha, altitude_range_m
		FROM crop_varieties WHERE crop = ? ORDER BY variety
	`, crop)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var varieties []models.CropVariety
	for rows.Next() {
		var v models.CropVariety
		if err := rows.Scan(&v.Variety, &v.Producer, &v.Description, &v.MaturityCategory, &v.MaturityDays, &v.YieldTHa, &v.AltitudeRangeM); err != nil {
			return nil, false, err
		}
		varieties = append(varieties, v)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	if len(varieties) == 0 {
		return nil, false, nil
	}
	return varieties, true, nil
}

// Save replaces the cached set for a crop in one transaction.
func (c *Cache) Save(crop string, varieties []models.CropVariety) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM crop_varieties WHERE crop = ?`, crop); err != nil {
		return err
	}

	now := time.Now()
	for _, v := range varieties {
		_, err := tx.Exec(`
			INSERT INTO crop_varieties (crop, variety, producer, description, maturity_category, maturity_days, yield_t_ha, altitude_range_m, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, crop, v.Variety, v.Producer, v.Description, v.MaturityCategory, v.MaturityDays, v.YieldTHa, v.AltitudeRangeM, now)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Crops lists the crops with a cached set, newest first.
func (c *Cache) Crops() ([]string, error) {
	rows, err := c.db.Query(`
		SELECT crop FROM crop_varieties GROUP BY crop ORDER BY MAX(fetched_at) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crops []string
	for rows.Next() {
		var crop string
		if err := rows.Scan(&crop); err != nil {
			return nil, err
		}
		crops = append(crops, crop)
	}
	return crops, rows.Err()
}
