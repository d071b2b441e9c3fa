// Package listing renders the car and track catalog as markdown text
package listing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/garage61-mcp-go/pkg/catalog"
	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
	"github.com/mpapenbr/garage61-mcp-go/pkg/resolver"
)

const (
	maxCarsSearch    = 20
	maxCarsAll       = 50
	maxTrackGroups   = 15
	maxTrackGroupAll = 30
	maxVariantsAll   = 3
	suggestionLimit  = 10
)

// ListCars lists cars matching search, most current generation first.
// A legacy keyword in search implies showLegacy.
func ListCars(r *resolver.Resolver, search string, showLegacy bool) string {
	store := r.Store()
	cars := store.Snapshot().Cars()
	if search != "" && store.Scorer().WantsLegacy(search) {
		showLegacy = true
	}
	if search == "" {
		return listAllCars(store, cars, showLegacy)
	}

	lower := strings.ToLower(search)
	words := strings.Fields(lower)
	filtered := lo.Filter(cars, func(c model.CarEntity, _ int) bool {
		name := strings.ToLower(c.Name)
		return strings.Contains(name, lower) ||
			lo.SomeBy(words, func(w string) bool { return strings.Contains(name, w) })
	})
	if len(filtered) == 0 {
		sugg := r.CarSuggestions(search, suggestionLimit, showLegacy)
		if len(sugg) == 0 {
			return fmt.Sprintf("No cars found matching '%s'", search)
		}
		return fmt.Sprintf("**No exact matches for '%s'. Did you mean:**\n\n", search) + bullets(sugg)
	}

	sorted := store.SortCarsByRelevance(filtered, showLegacy)
	note := " (modern cars prioritized)"
	if showLegacy {
		note = " (including legacy cars)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Cars matching '%s'%s:**\n\n", search, note)
	b.WriteString(bullets(carNames(sorted[:min(maxCarsSearch, len(sorted))])))
	if len(sorted) > maxCarsSearch {
		fmt.Fprintf(&b, "\n\n... and %d more cars", len(sorted)-maxCarsSearch)
	}
	if !showLegacy && lo.SomeBy(filtered, func(c model.CarEntity) bool {
		return store.IsLegacyCar(c.Name)
	}) {
		b.WriteString("\n\n*Note: Some legacy cars were filtered out. " +
			"Use 'legacy' in search term to see all versions.*")
	}
	return b.String()
}

func listAllCars(store *catalog.Store, cars []model.CarEntity, showLegacy bool) string {
	sorted := store.SortCarsByRelevance(cars, showLegacy)
	if len(sorted) == 0 {
		return "No cars available"
	}
	note := " (modern cars prioritized)"
	if showLegacy {
		note = " (all cars including legacy)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**Available Cars (%d total%s):**\n\n", len(sorted), note)
	b.WriteString(bullets(carNames(sorted[:min(maxCarsAll, len(sorted))])))
	if len(sorted) > maxCarsAll {
		fmt.Fprintf(&b, "\n\n... and %d more cars. Use a search term to filter.",
			len(sorted)-maxCarsAll)
	}
	if !showLegacy {
		legacy := lo.CountBy(cars, func(c model.CarEntity) bool { return store.IsLegacyCar(c.Name) })
		if legacy > 0 {
			fmt.Fprintf(&b, "\n\n*Note: %d legacy cars filtered out. "+
				"Add 'legacy' to search to see all versions.*", legacy)
		}
	}
	return b.String()
}

// ListTracks lists tracks grouped by venue. Variants are ordered by
// preference, the exact names to use for lap lookups are printed in bold.
func ListTracks(r *resolver.Resolver, search string) string {
	store := r.Store()
	tracks := store.Snapshot().Tracks()
	if search == "" {
		return listAllTracks(store, tracks)
	}

	lower := strings.ToLower(search)
	words := strings.Fields(lower)
	filtered := lo.Filter(tracks, func(t model.TrackEntity, _ int) bool {
		name := strings.ToLower(t.Name)
		full := strings.TrimSpace(name + " " + strings.ToLower(t.Variant))
		return strings.Contains(name, lower) ||
			lo.SomeBy(words, func(w string) bool { return strings.Contains(name, w) }) ||
			strings.Contains(full, lower)
	})
	if len(filtered) == 0 {
		sugg := r.TrackSuggestions(search, suggestionLimit)
		if len(sugg) == 0 {
			return fmt.Sprintf("No tracks found matching '%s'", search)
		}
		return fmt.Sprintf("**No exact matches for '%s'. Did you mean:**\n\n", search) + bullets(sugg)
	}

	groups := sortedByName(catalog.GroupTracksByBaseName(filtered))
	lines := []string{fmt.Sprintf("**Tracks matching '%s':**\n", search)}
	for _, g := range groups[:min(maxTrackGroups, len(groups))] {
		lines = append(lines, fmt.Sprintf("**%s:**", g.Name))
		for _, t := range store.SortTrackVariants(g.Tracks) {
			lines = append(lines, fmt.Sprintf("  • **%s** (preference: %d)",
				catalog.FormatTrackName(t), store.TrackVariantScore(t.Variant)))
		}
		lines = append(lines, "")
	}
	ret := strings.Join(lines, "\n")
	if len(groups) > maxTrackGroups {
		ret += fmt.Sprintf("\n\n... showing first %d tracks. "+
			"Use a more specific search term to filter.", maxTrackGroups)
	}
	return ret
}

func listAllTracks(store *catalog.Store, tracks []model.TrackEntity) string {
	groups := catalog.GroupTracksByBaseName(tracks)
	lines := []string{fmt.Sprintf("**Available Tracks (%d unique tracks, %d total variants):**\n",
		len(groups), len(tracks))}
	for _, g := range sortedByName(groups[:min(maxTrackGroupAll, len(groups))]) {
		if len(g.Tracks) == 1 {
			lines = append(lines, fmt.Sprintf("• **%s**", catalog.FormatTrackName(g.Tracks[0])))
			continue
		}
		lines = append(lines, fmt.Sprintf("**%s:**", g.Name))
		variants := store.SortTrackVariants(g.Tracks)
		for _, t := range variants[:min(maxVariantsAll, len(variants))] {
			lines = append(lines, fmt.Sprintf("  • **%s**", catalog.FormatTrackName(t)))
		}
		if len(variants) > maxVariantsAll {
			lines = append(lines, fmt.Sprintf("  • ... and %d more variants",
				len(variants)-maxVariantsAll))
		}
		lines = append(lines, "")
	}
	if len(groups) > maxTrackGroupAll {
		lines = append(lines, fmt.Sprintf("\n... and %d more tracks", len(groups)-maxTrackGroupAll))
	}
	return strings.Join(lines, "\n") +
		"\n\n*Tip: Use the exact track names shown above (in bold) for telemetry tools. " +
		"Search for specific tracks to see all variants.*"
}

func sortedByName(groups []catalog.TrackGroup) []catalog.TrackGroup {
	ret := slices.Clone(groups)
	slices.SortStableFunc(ret, func(a, b catalog.TrackGroup) int {
		return strings.Compare(a.Name, b.Name)
	})
	return ret
}

func carNames(cars []model.CarEntity) []string {
	return lo.Map(cars, func(c model.CarEntity, _ int) string { return c.Name })
}

func bullets(items []string) string {
	return strings.Join(lo.Map(items, func(s string, _ int) string { return "• " + s }), "\n")
}
