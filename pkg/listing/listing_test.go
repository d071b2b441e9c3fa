//nolint:funlen,lll // ok for tests
package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/garage61-mcp-go/pkg/catalog"
	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
	"github.com/mpapenbr/garage61-mcp-go/pkg/resolver"
)

func newTestResolver() *resolver.Resolver {
	s := catalog.NewStore()
	s.Replace(
		[]model.CarEntity{
			{ID: 1, Name: "BMW M4 GT3"},
			{ID: 2, Name: "Porsche 911 GT3 Cup (991)"},
			{ID: 3, Name: "Mazda MX-5 Cup"},
			{ID: 4, Name: "Porsche 911 GT3 Cup (992)"},
		},
		[]model.TrackEntity{
			{ID: 10, Name: "Watkins Glen", Variant: "Boot"},
			{ID: 11, Name: "Watkins Glen", Variant: "Classic"},
			{ID: 12, Name: "Watkins Glen", Variant: "Short"},
			{ID: 13, Name: "Watkins Glen", Variant: "Grand Prix"},
			{ID: 20, Name: "Monza", Variant: "Combined"},
			{ID: 21, Name: "Monza", Variant: "Grand Prix"},
			{ID: 22, Name: "Monza", Variant: "Junior"},
			{ID: 30, Name: "Road America"},
		})
	return resolver.New(s)
}

func TestListCars(t *testing.T) {
	r := newTestResolver()
	tests := []struct {
		name       string
		search     string
		showLegacy bool
		want       string
	}{
		{
			name:   "search filters legacy",
			search: "porsche",
			want: "**Cars matching 'porsche' (modern cars prioritized):**\n\n" +
				"• Porsche 911 GT3 Cup (992)\n\n" +
				"*Note: Some legacy cars were filtered out. Use 'legacy' in search term to see all versions.*",
		},
		{
			name:   "legacy keyword in search",
			search: "porsche 991",
			want: "**Cars matching 'porsche 991' (including legacy cars):**\n\n" +
				"• Porsche 911 GT3 Cup (992)\n" +
				"• Porsche 911 GT3 Cup (991)",
		},
		{
			name:   "any word matches",
			search: "bmw mazda",
			want: "**Cars matching 'bmw mazda' (modern cars prioritized):**\n\n" +
				"• BMW M4 GT3\n" +
				"• Mazda MX-5 Cup",
		},
		{
			name: "all cars",
			want: "**Available Cars (3 total (modern cars prioritized)):**\n\n" +
				"• Porsche 911 GT3 Cup (992)\n" +
				"• BMW M4 GT3\n" +
				"• Mazda MX-5 Cup\n\n" +
				"*Note: 1 legacy cars filtered out. Add 'legacy' to search to see all versions.*",
		},
		{
			name:       "all cars with legacy",
			showLegacy: true,
			want: "**Available Cars (4 total (all cars including legacy)):**\n\n" +
				"• Porsche 911 GT3 Cup (992)\n" +
				"• BMW M4 GT3\n" +
				"• Mazda MX-5 Cup\n" +
				"• Porsche 911 GT3 Cup (991)",
		},
		{
			name:   "nothing found",
			search: "zzzz",
			want:   "No cars found matching 'zzzz'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ListCars(r, tt.search, tt.showLegacy))
		})
	}
}

func TestListCarsSuggestions(t *testing.T) {
	got := ListCars(newTestResolver(), "Mazdda MX5", false)
	assert.True(t, strings.HasPrefix(got, "**No exact matches for 'Mazdda MX5'. Did you mean:**\n\n"), got)
	assert.Contains(t, got, "• Mazda MX-5 Cup")
}

func TestListCarsEmptyCatalog(t *testing.T) {
	r := resolver.New(catalog.NewStore())
	assert.Equal(t, "No cars available", ListCars(r, "", false))
	assert.Equal(t, "No cars found matching 'bmw'", ListCars(r, "bmw", false))
}

func TestListCarsCapped(t *testing.T) {
	s := catalog.NewStore()
	cars := make([]model.CarEntity, 0, 60)
	for i := range 60 {
		cars = append(cars, model.CarEntity{ID: i + 1, Name: "Skip Barber " + strings.Repeat("x", i+1)})
	}
	s.Replace(cars, nil)
	r := resolver.New(s)

	got := ListCars(r, "skip", false)
	assert.Equal(t, maxCarsSearch, strings.Count(got, "• "))
	assert.True(t, strings.HasSuffix(got, "\n\n... and 40 more cars"), got)

	got = ListCars(r, "", false)
	assert.Equal(t, maxCarsAll, strings.Count(got, "• "))
	assert.True(t, strings.HasSuffix(got, "\n\n... and 10 more cars. Use a search term to filter."), got)
}

func TestListTracks(t *testing.T) {
	r := newTestResolver()

	got := ListTracks(r, "monza")
	assert.Equal(t, "**Tracks matching 'monza':**\n\n"+
		"**Monza:**\n"+
		"  • **Monza - Grand Prix** (preference: 100)\n"+
		"  • **Monza - Combined** (preference: 50)\n"+
		"  • **Monza - Junior** (preference: 50)\n", got)

	got = ListTracks(r, "glen short")
	assert.Contains(t, got, "**Watkins Glen:**\n  • **Watkins Glen - Grand Prix** (preference: 100)")
	assert.Contains(t, got, "  • **Watkins Glen - Short** (preference: 45)")
	assert.NotContains(t, got, "Monza")
}

func TestListTracksAll(t *testing.T) {
	got := ListTracks(newTestResolver(), "")
	want := "**Available Tracks (3 unique tracks, 8 total variants):**\n\n" +
		"**Monza:**\n" +
		"  • **Monza - Grand Prix**\n" +
		"  • **Monza - Combined**\n" +
		"  • **Monza - Junior**\n" +
		"\n" +
		"• **Road America**\n" +
		"**Watkins Glen:**\n" +
		"  • **Watkins Glen - Grand Prix**\n" +
		"  • **Watkins Glen - Boot**\n" +
		"  • **Watkins Glen - Classic**\n" +
		"  • ... and 1 more variants\n" +
		"\n\n" +
		"*Tip: Use the exact track names shown above (in bold) for telemetry tools. " +
		"Search for specific tracks to see all variants.*"
	assert.Equal(t, want, got)
}

func TestListTracksFallback(t *testing.T) {
	r := newTestResolver()
	got := ListTracks(r, "monzza")
	assert.Equal(t, "**No exact matches for 'monzza'. Did you mean:**\n\n"+
		"• Monza - Combined\n• Monza - Grand Prix\n• Monza - Junior", got)
	assert.Equal(t, "No tracks found matching 'qqqqqq'", ListTracks(r, "qqqqqq"))
}
