//nolint:funlen // ok for tests
package catalog

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
)

var sampleTracks = []model.TrackEntity{
	{ID: 10, Name: "Road America"},
	{ID: 11, Name: "Road America", Variant: "National"},
	{ID: 20, Name: "Spa", Variant: "Grand Prix"},
	{ID: 21, Name: "Spa", Variant: "Endurance"},
}

func TestCatalogTrackKeys(t *testing.T) {
	c := NewCatalog(nil, sampleTracks)
	want := []string{
		"road america",
		"road america national",
		"road america - national",
		"spa",
		"spa grand prix",
		"spa - grand prix",
		"spa endurance",
		"spa - endurance",
	}
	if diff := cmp.Diff(want, c.TrackKeys()); diff != "" {
		t.Errorf("TrackKeys() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		key    string
		wantID int
	}{
		{"road america", 10},
		{"road america national", 11},
		{"road america - national", 11},
		{"spa", 20},
		{"spa - endurance", 21},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := c.TrackByKey(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
	assert.Equal(t, []string{"Road America", "Spa"}, c.TrackBaseNames())
}

func TestCatalogVariantOwnsBareNameIfFirst(t *testing.T) {
	c := NewCatalog(nil, []model.TrackEntity{
		{ID: 1, Name: "Road America", Variant: "National"},
		{ID: 2, Name: "Road America"},
	})
	got, ok := c.TrackByKey("road america")
	assert.True(t, ok)
	assert.Equal(t, 1, got.ID)
}

func TestCatalogCarIndex(t *testing.T) {
	c := NewCatalog([]model.CarEntity{
		{ID: 1, Name: "BMW M4 GT3"},
		{ID: 2, Name: ""},
		{ID: 3, Name: "Mazda MX-5"},
		{ID: 4, Name: "bmw m4 gt3"},
	}, nil)
	assert.Equal(t, []string{"bmw m4 gt3", "mazda mx-5"}, c.CarKeys())
	got, ok := c.CarByKey("bmw m4 gt3")
	assert.True(t, ok)
	assert.Equal(t, 4, got.ID, "later duplicates win")
	assert.Equal(t, 4, c.NumCars())
	assert.Equal(t, []int{4, 3}, []int{c.IndexedCars()[0].ID, c.IndexedCars()[1].ID})
	_, ok = c.CarByKey("")
	assert.False(t, ok)
}

func TestCatalogIsImmutable(t *testing.T) {
	cars := []model.CarEntity{{ID: 1, Name: "A"}}
	c := NewCatalog(cars, nil)
	cars[0].Name = "changed"
	got := c.Cars()
	got[0].Name = "changed too"
	assert.Equal(t, "A", c.Cars()[0].Name)
}

func TestTracksByBaseName(t *testing.T) {
	c := NewCatalog(nil, sampleTracks)
	assert.Len(t, c.TracksByBaseName("Spa"), 2)
	assert.Empty(t, c.TracksByBaseName("spa"))
	assert.Empty(t, Empty.TracksByBaseName("Spa"))
}

func TestStoreReplaceIsAtomic(t *testing.T) {
	s := NewStore()
	s.Replace([]model.CarEntity{{ID: 1, Name: "Old Car"}}, []model.TrackEntity{{ID: 1, Name: "Old Track"}})
	before := s.Snapshot()

	s.SetCars([]byte(`{"items":[{"id":2,"name":"New Car"}],"total":1}`))
	s.SetTracks(`[{"id":2,"name":"New Track"}]`)

	now := s.Snapshot()
	_, ok := now.CarByKey("old car")
	assert.False(t, ok)
	_, ok = now.TrackByKey("old track")
	assert.False(t, ok)
	_, ok = now.CarByKey("new car")
	assert.True(t, ok)
	_, ok = now.TrackByKey("new track")
	assert.True(t, ok)

	// snapshots taken earlier stay untouched
	_, ok = before.CarByKey("old car")
	assert.True(t, ok)
}

func TestStoreMalformedPayloadEmptiesKind(t *testing.T) {
	s := NewStore()
	s.Replace([]model.CarEntity{{ID: 1, Name: "A"}}, []model.TrackEntity{{ID: 1, Name: "T"}})
	s.SetCars(42)
	assert.Equal(t, 0, s.Snapshot().NumCars())
	assert.Equal(t, 1, s.Snapshot().NumTracks())
}

func TestStoreSwapListener(t *testing.T) {
	var calls []int
	s := NewStore(WithSwapListener(func(c *Catalog) {
		calls = append(calls, c.NumCars())
	}))
	s.SetCars([]string{"a", "b"})
	s.SetTracks([]model.TrackEntity{})
	assert.Equal(t, []int{2, 2}, calls)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace([]model.CarEntity{{ID: i, Name: "Car"}}, sampleTracks)
		}()
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			if c, ok := snap.CarByKey("car"); ok {
				assert.Equal(t, snap.Cars()[0].ID, c.ID)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Snapshot().NumCars())
}
