package catalog

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
	"github.com/mpapenbr/garage61-mcp-go/pkg/scoring"
)

// TrackGroup holds all layouts of a venue
type TrackGroup struct {
	Name   string
	Tracks []model.TrackEntity
}

// GroupTracksByBaseName groups tracks by their base name. Groups are ordered by
// first appearance, tracks within a group keep their order.
func GroupTracksByBaseName(tracks []model.TrackEntity) []TrackGroup {
	grouped := lo.GroupBy(tracks, func(t model.TrackEntity) string { return t.Name })
	names := lo.Uniq(lo.Map(tracks, func(t model.TrackEntity, _ int) string { return t.Name }))
	return lo.Map(names, func(name string, _ int) TrackGroup {
		return TrackGroup{Name: name, Tracks: grouped[name]}
	})
}

// FormatTrackName returns "Name - Variant" or Name if there is no variant
func FormatTrackName(t model.TrackEntity) string {
	return t.DisplayName()
}

// SortCarsByRelevance orders cars by generation score, most current first.
// Legacy cars are removed unless includeLegacy is set. The sort is stable,
// equal scores keep the input order.
//
//nolint:whitespace // can't make both editor and linter happy
func SortCarsByRelevance(
	scorer *scoring.Scorer, cars []model.CarEntity, includeLegacy bool,
) []model.CarEntity {
	ret := slices.Clone(cars)
	if !includeLegacy {
		ret = lo.Reject(ret, func(c model.CarEntity, _ int) bool {
			return scorer.IsLegacyCar(c.Name)
		})
	}
	scores := make(map[string]int, len(ret))
	for _, c := range ret {
		if _, ok := scores[c.Name]; !ok {
			scores[c.Name] = scorer.CarGenerationScore(c.Name)
		}
	}
	slices.SortStableFunc(ret, func(a, b model.CarEntity) int {
		return cmp.Compare(scores[b.Name], scores[a.Name])
	})
	return ret
}

// SortTrackVariants orders tracks by variant preference, best first (stable)
func SortTrackVariants(scorer *scoring.Scorer, tracks []model.TrackEntity) []model.TrackEntity {
	ret := slices.Clone(tracks)
	slices.SortStableFunc(ret, func(a, b model.TrackEntity) int {
		return cmp.Compare(scorer.TrackVariantScore(b.Variant), scorer.TrackVariantScore(a.Variant))
	})
	return ret
}

// BestTrackVariant returns the first track with the highest variant score.
// Without preferRacing the first track is returned.
//
//nolint:whitespace // can't make both editor and linter happy
func BestTrackVariant(
	scorer *scoring.Scorer, tracks []model.TrackEntity, preferRacing bool,
) (model.TrackEntity, bool) {
	if len(tracks) == 0 {
		return model.TrackEntity{}, false
	}
	if !preferRacing || len(tracks) == 1 {
		return tracks[0], true
	}
	return SortTrackVariants(scorer, tracks)[0], true
}

func (s *Store) SortCarsByRelevance(cars []model.CarEntity, includeLegacy bool) []model.CarEntity {
	return SortCarsByRelevance(s.scorer, cars, includeLegacy)
}

func (s *Store) SortTrackVariants(tracks []model.TrackEntity) []model.TrackEntity {
	return SortTrackVariants(s.scorer, tracks)
}

func (s *Store) IsLegacyCar(name string) bool {
	return s.scorer.IsLegacyCar(name)
}

func (s *Store) TrackVariantScore(variant string) int {
	return s.scorer.TrackVariantScore(variant)
}
