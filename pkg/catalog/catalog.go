package catalog

import (
	"slices"
	"strings"

	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
)

// Catalog is an immutable snapshot of cars and tracks with their lookup
// indexes. A new Catalog is built on every change, existing instances are
// never modified.
type Catalog struct {
	cars   []model.CarEntity
	tracks []model.TrackEntity

	// keys in first insertion order, values are last write wins
	carKeys    []string
	carByKey   map[string]model.CarEntity
	trackKeys  []string
	trackByKey map[string]model.TrackEntity
	baseNames  []string // distinct track base names in catalog order
}

// Empty is the catalog used before anything was loaded
var Empty = NewCatalog(nil, nil)

func NewCatalog(cars []model.CarEntity, tracks []model.TrackEntity) *Catalog {
	c := &Catalog{
		cars:       slices.Clone(cars),
		tracks:     slices.Clone(tracks),
		carByKey:   make(map[string]model.CarEntity, len(cars)),
		trackByKey: make(map[string]model.TrackEntity, 3*len(tracks)),
	}
	c.buildCarIndex()
	c.buildTrackIndex()
	return c
}

func (c *Catalog) buildCarIndex() {
	for _, car := range c.cars {
		key := strings.ToLower(car.Name)
		if key == "" {
			continue
		}
		if _, ok := c.carByKey[key]; !ok {
			c.carKeys = append(c.carKeys, key)
		}
		c.carByKey[key] = car
	}
}

func (c *Catalog) buildTrackIndex() {
	put := func(key string, t model.TrackEntity) {
		if _, ok := c.trackByKey[key]; !ok {
			c.trackKeys = append(c.trackKeys, key)
		}
		c.trackByKey[key] = t
	}
	seenBase := make(map[string]struct{})
	for _, t := range c.tracks {
		if _, ok := seenBase[t.Name]; !ok && t.Name != "" {
			seenBase[t.Name] = struct{}{}
			c.baseNames = append(c.baseNames, t.Name)
		}
		base := strings.ToLower(t.Name)
		// first track of a venue owns the bare name
		if _, ok := c.trackByKey[base]; base != "" && !ok {
			put(base, t)
		}
		if t.Variant == "" {
			continue
		}
		variant := strings.ToLower(t.Variant)
		put(strings.TrimSpace(base+" "+variant), t)
		put(strings.TrimSpace(base+" - "+variant), t)
	}
}

// Cars returns the cars in catalog order
func (c *Catalog) Cars() []model.CarEntity { return slices.Clone(c.cars) }

// Tracks returns the tracks in catalog order
func (c *Catalog) Tracks() []model.TrackEntity { return slices.Clone(c.tracks) }

func (c *Catalog) NumCars() int   { return len(c.cars) }
func (c *Catalog) NumTracks() int { return len(c.tracks) }

// CarKeys returns the lower cased car names in index order
func (c *Catalog) CarKeys() []string { return slices.Clone(c.carKeys) }

// TrackKeys returns all track lookup keys in index order
func (c *Catalog) TrackKeys() []string { return slices.Clone(c.trackKeys) }

// TrackBaseNames returns the distinct base names (original case) in catalog order
func (c *Catalog) TrackBaseNames() []string { return slices.Clone(c.baseNames) }

// CarByKey looks up a car by its lower cased name
func (c *Catalog) CarByKey(key string) (model.CarEntity, bool) {
	car, ok := c.carByKey[key]
	return car, ok
}

// TrackByKey looks up a track by one of its lower cased keys
func (c *Catalog) TrackByKey(key string) (model.TrackEntity, bool) {
	t, ok := c.trackByKey[key]
	return t, ok
}

// IndexedCars returns the car index values in key order
func (c *Catalog) IndexedCars() []model.CarEntity {
	ret := make([]model.CarEntity, len(c.carKeys))
	for i, k := range c.carKeys {
		ret[i] = c.carByKey[k]
	}
	return ret
}

// TracksByBaseName returns all tracks with exactly this base name
func (c *Catalog) TracksByBaseName(name string) []model.TrackEntity {
	ret := make([]model.TrackEntity, 0)
	for _, t := range c.tracks {
		if t.Name == name {
			ret = append(ret, t)
		}
	}
	return ret
}
