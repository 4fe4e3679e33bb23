package grid

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"github.com/searoute/searoute/internal/models"
)

// Store persists grid cells to SQLite. Classification columns are written
// once when the grid is generated; cost refreshes update only the cost and
// weather columns.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed initializes) a grid database.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening grid database: %w", err)
	}
	// Performance pragmas
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")
	db.Exec("PRAGMA cache_size=10000")

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS grid_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			resolution REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS grid_cells (
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			is_land INTEGER NOT NULL,
			is_obstacle INTEGER NOT NULL,
			zone TEXT,
			cost INTEGER NOT NULL DEFAULT 0,
			weather TEXT,
			PRIMARY KEY (lat, lon)
		);
		CREATE INDEX IF NOT EXISTS idx_grid_cells_land ON grid_cells(is_land);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating grid schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveCells writes a classification batch. This replaces any previous
// grid: classification is regenerated wholesale, never patched in place.
func (s *Store) SaveCells(resolution float64, cells []models.GridCell) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM grid_cells"); err != nil {
		return fmt.Errorf("clearing previous grid: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO grid_meta (id, resolution) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET resolution = excluded.resolution",
		resolution,
	); err != nil {
		return fmt.Errorf("saving grid metadata: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO grid_cells (lat, lon, is_land, is_obstacle, zone, cost, weather)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing cell insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, c := range cells {
		var weatherJSON any
		if c.Weather != nil {
			b, err := json.Marshal(c.Weather)
			if err != nil {
				log.Printf("Error marshaling weather for cell (%v, %v): %v", c.Lat, c.Lon, err)
				continue
			}
			weatherJSON = string(b)
		}
		if _, err := stmt.Exec(c.Lat, c.Lon, c.IsLand, c.IsObstacle, string(c.Zone), c.Cost, weatherJSON); err != nil {
			return fmt.Errorf("inserting cell (%v, %v): %w", c.Lat, c.Lon, err)
		}
		count++
		if count%10000 == 0 {
			log.Printf("Saved %d cells...", count)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing grid save: %w", err)
	}
	log.Printf("Saved grid with %d cells at %v degree resolution", count, resolution)
	return nil
}

// LoadCells reads the full grid back.
func (s *Store) LoadCells() (float64, []models.GridCell, error) {
	var resolution float64
	err := s.db.QueryRow("SELECT resolution FROM grid_meta WHERE id = 1").Scan(&resolution)
	if err == sql.ErrNoRows {
		return 0, nil, fmt.Errorf("grid database has no metadata; run gridgen first")
	}
	if err != nil {
		return 0, nil, fmt.Errorf("reading grid metadata: %w", err)
	}

	rows, err := s.db.Query("SELECT lat, lon, is_land, is_obstacle, zone, cost, weather FROM grid_cells")
	if err != nil {
		return 0, nil, fmt.Errorf("querying grid cells: %w", err)
	}
	defer rows.Close()

	var cells []models.GridCell
	for rows.Next() {
		var c models.GridCell
		var zone string
		var weatherJSON sql.NullString
		if err := rows.Scan(&c.Lat, &c.Lon, &c.IsLand, &c.IsObstacle, &zone, &c.Cost, &weatherJSON); err != nil {
			return 0, nil, fmt.Errorf("scanning grid cell: %w", err)
		}
		c.Zone = models.Zone(zone)
		if weatherJSON.Valid {
			var w models.WeatherSample
			if err := json.Unmarshal([]byte(weatherJSON.String), &w); err == nil {
				c.Weather = &w
			}
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("iterating grid cells: %w", err)
	}
	return resolution, cells, nil
}

// SaveCosts persists a cost refresh without touching classification
// columns.
func (s *Store) SaveCosts(g *Grid, updates []CostUpdate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning cost transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE grid_cells SET cost = ?, weather = ? WHERE lat = ? AND lon = ? AND is_land = 0")
	if err != nil {
		return fmt.Errorf("preparing cost update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		k := g.KeyOf(u.Lat, u.Lon)
		center := g.Center(k)
		b, err := json.Marshal(u.Sample)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(g.Cost(k), string(b), center.Lat, center.Lon); err != nil {
			return fmt.Errorf("updating cost for (%v, %v): %w", center.Lat, center.Lon, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cost update: %w", err)
	}
	return nil
}

// Load builds a Grid straight from the store.
func Load(dbPath string) (*Grid, error) {
	store, err := OpenStore(dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	resolution, cells, err := store.LoadCells()
	if err != nil {
		return nil, err
	}
	return New(resolution, cells)
}
