package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/searoute/searoute/internal/models"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func routeWith(strategy models.Strategy, reason string, at time.Time) *models.Route {
	return &models.Route{
		Strategy:  models.RouteStrategy{Strategy: strategy, Reason: reason},
		PlannedAt: at,
	}
}

func TestEndpointKey(t *testing.T) {
	key := EndpointKey(18.97, 72.87, 13.08, 80.27)
	if key != "18.9700,72.8700->13.0800,80.2700" {
		t.Errorf("EndpointKey = %q", key)
	}
	// Direction matters: A->B is not B->A.
	if key == EndpointKey(13.08, 80.27, 18.97, 72.87) {
		t.Error("reversed endpoints produced the same key")
	}
}

func TestRecord_FirstPlanEmitsNoEvent(t *testing.T) {
	repo := openTestRepo(t)
	key := EndpointKey(18.97, 72.87, 13.08, 80.27)

	event, err := repo.Record(key, routeWith(models.StrategyOptimal, "favorable conditions", time.Now().UTC()))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if event != nil {
		t.Errorf("first plan emitted an event: %+v", event)
	}

	strategy, ok, err := repo.LastStrategy(key)
	if err != nil {
		t.Fatalf("LastStrategy: %v", err)
	}
	if !ok || strategy != models.StrategyOptimal {
		t.Errorf("LastStrategy = %s/%v, want OPTIMAL/true", strategy, ok)
	}
}

func TestRecord_SameStrategyIsSilent(t *testing.T) {
	repo := openTestRepo(t)
	key := EndpointKey(18.97, 72.87, 13.08, 80.27)
	now := time.Now().UTC()

	if _, err := repo.Record(key, routeWith(models.StrategyFuel, "low fuel economy", now)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	event, err := repo.Record(key, routeWith(models.StrategyFuel, "low fuel economy", now.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if event != nil {
		t.Errorf("unchanged strategy emitted an event: %+v", event)
	}

	changes, err := repo.Changes(key)
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(changes) != 0 {
		t.Errorf("change log has %d entries, want 0", len(changes))
	}
}

func TestRecord_ChangedStrategyEmitsEvent(t *testing.T) {
	repo := openTestRepo(t)
	key := EndpointKey(18.97, 72.87, 13.08, 80.27)
	now := time.Now().UTC().Truncate(time.Second)

	if _, err := repo.Record(key, routeWith(models.StrategyOptimal, "favorable conditions", now)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	event, err := repo.Record(key, routeWith(models.StrategySafe, "critical wind along route", now.Add(6*time.Hour)))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if event == nil {
		t.Fatal("changed strategy emitted no event")
	}
	if event.From != models.StrategyOptimal || event.To != models.StrategySafe {
		t.Errorf("event = %s -> %s, want OPTIMAL -> SAFE", event.From, event.To)
	}
	if event.Reason != "critical wind along route" {
		t.Errorf("event reason = %q", event.Reason)
	}

	strategy, ok, err := repo.LastStrategy(key)
	if err != nil {
		t.Fatalf("LastStrategy: %v", err)
	}
	if !ok || strategy != models.StrategySafe {
		t.Errorf("LastStrategy after change = %s/%v, want SAFE/true", strategy, ok)
	}
}

func TestChanges_OrderedOldestFirst(t *testing.T) {
	repo := openTestRepo(t)
	key := EndpointKey(18.97, 72.87, 13.08, 80.27)
	now := time.Now().UTC().Truncate(time.Second)

	steps := []models.Strategy{
		models.StrategyOptimal,
		models.StrategySafe,
		models.StrategyFuel,
		models.StrategyOptimal,
	}
	for i, s := range steps {
		if _, err := repo.Record(key, routeWith(s, "reassessed", now.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Record step %d: %v", i, err)
		}
	}

	changes, err := repo.Changes(key)
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(changes) != 3 {
		t.Fatalf("change log has %d entries, want 3", len(changes))
	}
	want := [][2]models.Strategy{
		{models.StrategyOptimal, models.StrategySafe},
		{models.StrategySafe, models.StrategyFuel},
		{models.StrategyFuel, models.StrategyOptimal},
	}
	for i, w := range want {
		if changes[i].From != w[0] || changes[i].To != w[1] {
			t.Errorf("change %d = %s -> %s, want %s -> %s", i, changes[i].From, changes[i].To, w[0], w[1])
		}
	}

	// Other endpoint pairs are not mixed in.
	other, err := repo.Changes(EndpointKey(0, 0, 1, 1))
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("unrelated endpoints returned %d events", len(other))
	}
}

func TestLastStrategy_UnknownEndpoints(t *testing.T) {
	repo := openTestRepo(t)
	_, ok, err := repo.LastStrategy(EndpointKey(0, 0, 1, 1))
	if err != nil {
		t.Fatalf("LastStrategy: %v", err)
	}
	if ok {
		t.Error("unknown endpoints reported a stored strategy")
	}
}
