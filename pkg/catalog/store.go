package catalog

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
	"github.com/mpapenbr/garage61-mcp-go/pkg/scoring"
)

type (
	Option func(*Store)
	// Store holds the current Catalog. Readers get an immutable snapshot,
	// writers replace the whole snapshot atomically.
	Store struct {
		current atomic.Pointer[Catalog]
		writeMu sync.Mutex
		scorer  *scoring.Scorer
		l       *log.Logger
		onSwap  []func(*Catalog)
	}
)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.l = l
	}
}

func WithScorer(scorer *scoring.Scorer) Option {
	return func(s *Store) {
		s.scorer = scorer
	}
}

// WithSwapListener registers a function called after every replace
func WithSwapListener(f func(*Catalog)) Option {
	return func(s *Store) {
		s.onSwap = append(s.onSwap, f)
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		scorer: scoring.Default(),
		l:      log.Default().Named("catalog"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(Empty)
	return s
}

// Snapshot returns the current catalog. The result never changes, later
// updates produce a new snapshot.
func (s *Store) Snapshot() *Catalog {
	return s.current.Load()
}

func (s *Store) Scorer() *scoring.Scorer {
	return s.scorer
}

// SetCars replaces all cars. payload may be raw JSON ([]byte, string), a
// decoded envelope or list, []string or []model.CarEntity. Unrecognized
// payloads are logged and result in an empty car list.
func (s *Store) SetCars(payload any) {
	var cars []model.CarEntity
	if typed, ok := payload.([]model.CarEntity); ok {
		cars = typed
	} else {
		res, err := parsePayload(payload)
		s.logParse("cars", res, err)
		if err == nil {
			cars = toCars(res.items)
		}
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	cur := s.current.Load()
	next := NewCatalog(cars, cur.tracks)
	s.swap(next)
	s.l.Info("Cached cars", log.Int("cars", next.NumCars()))
}

// SetTracks replaces all tracks. Accepted payloads are the same as for SetCars.
func (s *Store) SetTracks(payload any) {
	var tracks []model.TrackEntity
	if typed, ok := payload.([]model.TrackEntity); ok {
		tracks = typed
	} else {
		res, err := parsePayload(payload)
		s.logParse("tracks", res, err)
		if err == nil {
			tracks = toTracks(res.items)
		}
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	cur := s.current.Load()
	next := NewCatalog(cur.cars, tracks)
	s.swap(next)
	s.l.Info("Cached tracks",
		log.Int("tracks", next.NumTracks()),
		log.Int("lookupKeys", len(next.trackKeys)))
	if len(next.trackKeys) > 0 {
		s.l.Debug("Sample track lookup keys",
			log.Strings("keys", next.trackKeys[:min(5, len(next.trackKeys))]))
	}
}

// Replace swaps cars and tracks in one step
func (s *Store) Replace(cars []model.CarEntity, tracks []model.TrackEntity) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	next := NewCatalog(cars, tracks)
	s.swap(next)
	s.l.Info("Replaced catalog",
		log.Int("cars", next.NumCars()),
		log.Int("tracks", next.NumTracks()))
}

func (s *Store) swap(next *Catalog) {
	s.current.Store(next)
	for _, f := range s.onSwap {
		f(next)
	}
}

func (s *Store) logParse(kind string, res *parseResult, err error) {
	switch {
	case errors.Is(err, ErrMalformedItem):
		s.l.Error("Unexpected data format", log.String("kind", kind), log.ErrorField(err))
	case err != nil:
		s.l.Warn("Unexpected data format", log.String("kind", kind), log.ErrorField(err))
	case res.total >= 0:
		s.l.Debug("Extracting items from API response",
			log.String("kind", kind),
			log.Int("items", len(res.items)),
			log.Int("total", res.total))
	}
}
