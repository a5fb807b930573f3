package listing_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/boring-ventures/ubigroup-sub000/internal/cache"
	"github.com/boring-ventures/ubigroup-sub000/internal/listing"
	"github.com/boring-ventures/ubigroup-sub000/internal/models"
	"github.com/google/uuid"
)

// fakeCache is an in-memory JSON cache recording reads and writes.
type fakeCache struct {
	data map[string][]byte
	gets []string
	sets []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	f.gets = append(f.gets, key)
	b, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (f *fakeCache) Set(_ context.Context, key string, v any) error {
	f.sets = append(f.sets, key)
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeCache) preload(t *testing.T, key string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal cache fixture: %v", err)
	}
	f.data[key] = b
}

// A cache hit must serve the snapshot without touching the database: the
// service below has no pool, so any fetch would panic.
func TestSnapshotServedFromCache(t *testing.T) {
	fc := newFakeCache()
	agentID := uuid.New()
	want := []models.Listing{
		makeProperty("Casa cacheada", "Calle 1", "La Paz", "150000", 2, models.ListingStatusApproved, time.Now()),
	}
	fc.preload(t, cache.AgentListingsKey(agentID), want)
	fc.preload(t, cache.PublicListingsKey(), want)
	fc.preload(t, cache.AdminListingsKey(), want)

	svc := listing.NewService(nil, fc)

	got, err := svc.SnapshotByOwner(context.Background(), agentID)
	if err != nil {
		t.Fatalf("SnapshotByOwner() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Casa cacheada" {
		t.Fatalf("SnapshotByOwner() = %+v, want the cached listing", got)
	}
	if _, err := svc.SnapshotPublic(context.Background()); err != nil {
		t.Fatalf("SnapshotPublic() error = %v", err)
	}
	if _, err := svc.SnapshotAll(context.Background()); err != nil {
		t.Fatalf("SnapshotAll() error = %v", err)
	}

	wantGets := []string{
		cache.AgentListingsKey(agentID),
		cache.PublicListingsKey(),
		cache.AdminListingsKey(),
	}
	if len(fc.gets) != len(wantGets) {
		t.Fatalf("cache reads = %v, want %v", fc.gets, wantGets)
	}
	for i, k := range wantGets {
		if fc.gets[i] != k {
			t.Errorf("cache read %d = %q, want %q", i, fc.gets[i], k)
		}
	}
	if len(fc.sets) != 0 {
		t.Errorf("cache hits should not rewrite keys, got sets %v", fc.sets)
	}
}

// Dropping the scope keys forces the next read back to the database.
func TestInvalidatedScopeForcesRefetch(t *testing.T) {
	fc := newFakeCache()
	agentID := uuid.New()
	fc.preload(t, cache.AgentListingsKey(agentID), []models.Listing{
		makeProperty("Casa vieja", "Calle 2", "La Paz", "100000", 1, models.ListingStatusPending, time.Now()),
	})

	for _, key := range cache.ListingScopeKeys(agentID) {
		delete(fc.data, key)
	}

	var hit []models.Listing
	ok, err := fc.Get(context.Background(), cache.AgentListingsKey(agentID), &hit)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("owner collection still cached after scope invalidation")
	}
}
