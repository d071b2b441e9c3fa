// Package resolver maps free text car and track names onto catalog entities.
// All lookups work on a single catalog snapshot and never modify it.
package resolver

import (
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/pkg/catalog"
	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
	"github.com/mpapenbr/garage61-mcp-go/pkg/observability"
	"github.com/mpapenbr/garage61-mcp-go/pkg/scoring"
	"github.com/mpapenbr/garage61-mcp-go/pkg/utils/fuzzy"
)

const (
	carFuzzyCutoff        = 0.3
	carFuzzyLimit         = 10
	carWordFuzzyLimit     = 5
	suggestionCutoff      = 0.4
	trackFuzzyCutoff      = 0.4
	trackFuzzyLimit       = 3
	DefaultSuggestionSize = 5
)

// Result is a resolved entity. For tracks Name contains the variant
// ("Name - Variant").
type Result struct {
	ID   int
	Name string
}

type (
	Option   func(*Resolver)
	Resolver struct {
		store *catalog.Store
		l     *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		r.l = l
	}
}

func New(store *catalog.Store, opts ...Option) *Resolver {
	r := &Resolver{
		store: store,
		l:     log.Default().Named("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Store() *catalog.Store {
	return r.store
}

func (r *Resolver) scorer() *scoring.Scorer {
	return r.store.Scorer()
}

// FindCar resolves query to a car. Legacy cars are only considered if
// includeLegacy is set or the query contains a legacy keyword.
//
//nolint:funlen,cyclop // matching stages
func (r *Resolver) FindCar(query string, includeLegacy bool) (Result, bool) {
	snap := r.store.Snapshot()
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		return r.carMiss(query)
	}
	if r.scorer().WantsLegacy(q) {
		includeLegacy = true
		r.l.Debug("Legacy keywords detected, including legacy cars", log.String("query", query))
	}

	if car, ok := snap.CarByKey(q); ok {
		observability.RecordLookup("car", observability.StageExact)
		return carResult(car), true
	}

	words := strings.Fields(q)
	partial := lo.Filter(snap.IndexedCars(), func(c model.CarEntity, _ int) bool {
		name := strings.ToLower(c.Name)
		return strings.Contains(name, q) ||
			strings.Contains(q, name) ||
			containsAll(name, words)
	})
	if len(partial) == 1 {
		r.l.Debug("Found partial match for car",
			log.String("query", query), log.String("car", partial[0].Name))
		observability.RecordLookup("car", observability.StagePartial)
		return carResult(partial[0]), true
	}
	if len(partial) > 1 {
		ranked := catalog.SortCarsByRelevance(r.scorer(), partial, includeLegacy)
		if len(ranked) == 0 {
			// every candidate is legacy, rank them anyway
			ranked = catalog.SortCarsByRelevance(r.scorer(), partial, true)
		}
		best := ranked[0]
		for _, c := range ranked {
			if hasAllTokens(strings.Fields(strings.ToLower(c.Name)), words) {
				best = c
				break
			}
		}
		r.l.Debug("Found prioritized match for car",
			log.String("query", query),
			log.String("car", best.Name),
			log.Int("score", r.scorer().CarGenerationScore(best.Name)))
		observability.RecordLookup("car", observability.StagePartial)
		return carResult(best), true
	}

	keys := snap.CarKeys()
	matches := fuzzy.CloseMatches(q, keys, carFuzzyLimit, carFuzzyCutoff)
	if len(matches) == 0 && len(words) > 1 {
		for _, w := range words {
			matches = append(matches, fuzzy.CloseMatches(w, keys, carWordFuzzyLimit, carFuzzyCutoff)...)
		}
		matches = lo.Uniq(matches)
	}
	r.l.Debug("Fuzzy matching for car",
		log.String("query", query), log.Strings("matches", matches[:min(3, len(matches))]))
	if len(matches) > 0 {
		cars := lo.FilterMap(matches, func(k string, _ int) (model.CarEntity, bool) {
			return snap.CarByKey(k)
		})
		ranked := catalog.SortCarsByRelevance(r.scorer(), cars, includeLegacy)
		if len(ranked) > 0 {
			r.l.Debug("Found fuzzy match for car",
				log.String("query", query), log.String("car", ranked[0].Name))
			observability.RecordLookup("car", observability.StageFuzzy)
			return carResult(ranked[0]), true
		}
	}
	return r.carMiss(query)
}

func (r *Resolver) carMiss(query string) (Result, bool) {
	r.l.Warn("No match found for car", log.String("query", query))
	observability.RecordLookup("car", observability.StageMiss)
	return Result{}, false
}

// CarSuggestions returns up to limit car names related to query, most current
// first.
//
//nolint:whitespace // can't make both editor and linter happy
func (r *Resolver) CarSuggestions(
	query string, limit int, includeLegacy bool,
) []string {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" || limit <= 0 {
		return []string{}
	}
	snap := r.store.Snapshot()
	if r.scorer().WantsLegacy(q) {
		includeLegacy = true
	}
	words := strings.Fields(q)
	keys := lo.Filter(snap.CarKeys(), func(k string, _ int) bool {
		return strings.Contains(k, q) || containsAny(k, words)
	})
	keys = lo.Uniq(append(keys, fuzzy.CloseMatches(q, snap.CarKeys(), 2*limit, suggestionCutoff)...))
	cars := lo.FilterMap(keys, func(k string, _ int) (model.CarEntity, bool) {
		return snap.CarByKey(k)
	})
	ranked := catalog.SortCarsByRelevance(r.scorer(), cars, includeLegacy)
	return lo.Map(ranked[:min(limit, len(ranked))], func(c model.CarEntity, _ int) string {
		return c.Name
	})
}

// FindTrack resolves query to a track layout. If the query names a venue but
// no layout, preferRacing selects the racing layout with the best variant
// score, otherwise the first layout of the venue is used.
//
//nolint:funlen // matching stages
func (r *Resolver) FindTrack(query string, preferRacing bool) (Result, bool) {
	snap := r.store.Snapshot()
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" {
		return r.trackMiss(query)
	}
	r.l.Debug("Searching for track", log.String("query", query))

	if t, ok := snap.TrackByKey(q); ok {
		r.l.Debug("Found exact match for track",
			log.String("query", query), log.String("track", t.DisplayName()))
		observability.RecordLookup("track", observability.StageExact)
		return trackResult(t), true
	}

	words := strings.Fields(q)
	matching := lo.Filter(snap.Tracks(), func(t model.TrackEntity, _ int) bool {
		base := strings.ToLower(t.Name)
		if base == "" {
			return false
		}
		full := strings.TrimSpace(base + " " + strings.ToLower(t.Variant))
		return strings.Contains(base, q) ||
			strings.Contains(q, base) ||
			strings.Contains(full, q) ||
			containsAny(base, words)
	})
	if len(matching) > 0 {
		groups := catalog.GroupTracksByBaseName(matching)
		bests := lo.FilterMap(groups, func(g catalog.TrackGroup, _ int) (model.TrackEntity, bool) {
			return catalog.BestTrackVariant(r.scorer(), g.Tracks, preferRacing)
		})
		best := bests[0]
		if len(bests) > 1 {
			bestScore := baseNameScore(q, best.Name)
			for _, t := range bests[1:] {
				if s := baseNameScore(q, t.Name); s > bestScore {
					best, bestScore = t, s
				}
			}
		}
		r.l.Debug("Found track",
			log.String("query", query),
			log.String("track", best.DisplayName()),
			log.Int("variantScore", r.scorer().TrackVariantScore(best.Variant)))
		observability.RecordLookup("track", observability.StagePartial)
		return trackResult(best), true
	}

	baseNames := snap.TrackBaseNames()
	lowered := lo.Map(baseNames, func(n string, _ int) string { return strings.ToLower(n) })
	matches := fuzzy.CloseMatches(q, lowered, trackFuzzyLimit, trackFuzzyCutoff)
	if len(matches) > 0 {
		idx := lo.IndexOf(lowered, matches[0])
		if best, ok := catalog.BestTrackVariant(
			r.scorer(), snap.TracksByBaseName(baseNames[idx]), preferRacing); ok {
			r.l.Debug("Found fuzzy match for track",
				log.String("query", query), log.String("track", best.DisplayName()))
			observability.RecordLookup("track", observability.StageFuzzy)
			return trackResult(best), true
		}
	}
	return r.trackMiss(query)
}

func (r *Resolver) trackMiss(query string) (Result, bool) {
	r.l.Warn("No match found for track", log.String("query", query))
	observability.RecordLookup("track", observability.StageMiss)
	return Result{}, false
}

// TrackSuggestions returns up to limit formatted track names related to query
func (r *Resolver) TrackSuggestions(query string, limit int) []string {
	q := strings.ToLower(query)
	if strings.TrimSpace(q) == "" || limit <= 0 {
		return []string{}
	}
	snap := r.store.Snapshot()
	words := strings.Fields(q)
	allKeys := snap.TrackKeys()
	keys := lo.Filter(allKeys, func(k string, _ int) bool {
		return strings.Contains(k, q) || containsAny(k, words)
	})
	keys = append(keys, fuzzy.CloseMatches(q, allKeys, limit, suggestionCutoff)...)
	names := lo.Uniq(lo.FilterMap(keys, func(k string, _ int) (string, bool) {
		t, ok := snap.TrackByKey(k)
		return t.DisplayName(), ok
	}))
	return names[:min(limit, len(names))]
}

// baseNameScore rates how well a venue name matches the query
func baseNameScore(q, name string) int {
	base := strings.ToLower(name)
	switch {
	case q == base:
		return 100
	case strings.Contains(base, q):
		return 80
	case strings.Contains(q, base):
		return 60
	default:
		return 20
	}
}

func carResult(c model.CarEntity) Result {
	return Result{ID: c.ID, Name: c.Name}
}

func trackResult(t model.TrackEntity) Result {
	return Result{ID: t.ID, Name: t.DisplayName()}
}

// containsAll reports whether every word is a substring of s
func containsAll(s string, words []string) bool {
	return lo.EveryBy(words, func(w string) bool { return strings.Contains(s, w) })
}

// containsAny reports whether at least one word is a substring of s
func containsAny(s string, words []string) bool {
	return lo.SomeBy(words, func(w string) bool { return strings.Contains(s, w) })
}

// hasAllTokens reports whether every word is one of tokens
func hasAllTokens(tokens, words []string) bool {
	return lo.Every(tokens, words)
}
