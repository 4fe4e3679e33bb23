// Package history is the caller-side owner of the append-only strategy
// log: it remembers the last strategy planned per endpoint pair and
// records a RouteChangeEvent whenever a new plan for the same endpoints
// lands on a different strategy.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/searoute/searoute/internal/models"
)

// Repository persists strategy history in SQLite.
type Repository struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the history database.
func Open(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS route_strategies (
			endpoints TEXT PRIMARY KEY,
			strategy TEXT NOT NULL,
			reason TEXT,
			updated_at DATETIME NOT NULL
		);
		CREATE TABLE IF NOT EXISTS strategy_changes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			endpoints TEXT NOT NULL,
			from_strategy TEXT NOT NULL,
			to_strategy TEXT NOT NULL,
			reason TEXT,
			changed_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_strategy_changes_endpoints ON strategy_changes(endpoints);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the underlying database.
func (r *Repository) Close() error { return r.db.Close() }

// EndpointKey canonicalizes an endpoint pair for history lookups.
func EndpointKey(fromLat, fromLon, toLat, toLon float64) string {
	return fmt.Sprintf("%.4f,%.4f->%.4f,%.4f", fromLat, fromLon, toLat, toLon)
}

// LastStrategy returns the most recent strategy planned for the endpoint
// pair; ok is false when the pair has never been planned.
func (r *Repository) LastStrategy(endpoints string) (models.Strategy, bool, error) {
	var strategy string
	err := r.db.QueryRow(
		"SELECT strategy FROM route_strategies WHERE endpoints = ?", endpoints,
	).Scan(&strategy)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying last strategy: %w", err)
	}
	return models.Strategy(strategy), true, nil
}

// Record stores the latest plan's strategy for the endpoint pair and, if
// it differs from the previous one, appends a change event. The returned
// event is nil when the strategy is unchanged.
func (r *Repository) Record(endpoints string, route *models.Route) (*models.RouteChangeEvent, error) {
	prev, had, err := r.LastStrategy(endpoints)
	if err != nil {
		return nil, err
	}

	next := route.Strategy
	if _, err := r.db.Exec(`
		INSERT INTO route_strategies (endpoints, strategy, reason, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(endpoints) DO UPDATE SET
			strategy = excluded.strategy,
			reason = excluded.reason,
			updated_at = excluded.updated_at
	`, endpoints, string(next.Strategy), next.Reason, route.PlannedAt); err != nil {
		return nil, fmt.Errorf("saving strategy: %w", err)
	}

	if !had || prev == next.Strategy {
		return nil, nil
	}

	event := &models.RouteChangeEvent{
		From:      prev,
		To:        next.Strategy,
		Reason:    next.Reason,
		Timestamp: route.PlannedAt,
	}
	if _, err := r.db.Exec(`
		INSERT INTO strategy_changes (endpoints, from_strategy, to_strategy, reason, changed_at)
		VALUES (?, ?, ?, ?, ?)
	`, endpoints, string(event.From), string(event.To), event.Reason, event.Timestamp); err != nil {
		return nil, fmt.Errorf("appending change event: %w", err)
	}
	return event, nil
}

// Changes lists the change events recorded for an endpoint pair, oldest
// first.
func (r *Repository) Changes(endpoints string) ([]models.RouteChangeEvent, error) {
	rows, err := r.db.Query(`
		SELECT from_strategy, to_strategy, reason, changed_at
		FROM strategy_changes WHERE endpoints = ? ORDER BY id
	`, endpoints)
	if err != nil {
		return nil, fmt.Errorf("querying change events: %w", err)
	}
	defer rows.Close()

	var events []models.RouteChangeEvent
	for rows.Next() {
		var e models.RouteChangeEvent
		var from, to string
		var ts time.Time
		if err := rows.Scan(&from, &to, &e.Reason, &ts); err != nil {
			return nil, fmt.Errorf("scanning change event: %w", err)
		}
		e.From = models.Strategy(from)
		e.To = models.Strategy(to)
		e.Timestamp = ts
		events = append(events, e)
	}
	return events, rows.Err()
}
