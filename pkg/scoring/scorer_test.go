//nolint:funlen // ok for tests
package scoring

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarGenerationScore(t *testing.T) {
	tests := []struct {
		name string
		car  string
		want int
	}{
		{name: "porsche 992", car: "Porsche 911 GT3 Cup (992)", want: 100},
		{name: "porsche 991 is legacy", car: "Porsche 911 GT3 Cup (991)", want: 0},
		{name: "year bucket 2024", car: "Toyota GR86 2024", want: 90},
		{name: "year bucket 2022", car: "Some Car 2022", want: 80},
		{name: "year bucket 2020", car: "NASCAR Cup Series Next Gen Chevrolet 2020", want: 70},
		{name: "year bucket 2019", car: "Audi R8 LMS 2019", want: 50},
		{name: "year bucket 2017", car: "Audi 2017", want: 30},
		{name: "legacy year", car: "Ford Fusion 2016", want: 0},
		{name: "next gen", car: "NASCAR Cup Series Next Gen Ford Mustang", want: 90},
		{name: "gtp", car: "Cadillac V-Series.R GTP", want: 85},
		{name: "gt3 r", car: "Ferrari 296 GT3 R", want: 75},
		{name: "gt3 evo uses max", car: "Lamborghini Huracan GT3 EVO", want: 70},
		{name: "gt4", car: "BMW M4 GT4", want: 60},
		{name: "baseline", car: "Global Mazda MX-5 Cup", want: 40},
		{name: "evo with year is year bucket", car: "Audi R8 LMS EVO II GT3 2022", want: 80},
		{name: "explicit legacy wording", car: "[Legacy] Dallara DW12", want: 0},
		{name: "case insensitive", car: "BMW M4 gt3", want: 65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CarGenerationScore(tt.car))
		})
	}
}

func TestIsLegacyCar(t *testing.T) {
	tests := []struct {
		car  string
		want bool
	}{
		{car: "Porsche 911 GT3 Cup (991)", want: true},
		{car: "Porsche 911 GT3 Cup (992)", want: false},
		{car: "Chevrolet Corvette C6.R GT1", want: true},
		{car: "Chevrolet Corvette C7 Daytona Prototype", want: true},
		{car: "Chevrolet Corvette Z06 GT3.R", want: false},
		{car: "NASCAR Cup Chevrolet Impala COT - 2009", want: true},
		{car: "Formula Renault 2.0", want: true},
		{car: "Dallara IR18", want: true},
		{car: "Dallara IR-05", want: true},
		{car: "Mercedes-AMG GT3 2020", want: false},
		{car: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.car, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLegacyCar(tt.car))
		})
	}
}

func TestTrackVariantScore(t *testing.T) {
	tests := []struct {
		variant string
		want    int
	}{
		{variant: "", want: 50},
		{variant: "Grand Prix", want: 100},
		{variant: "grandprix", want: 100},
		{variant: "Full Course", want: 95},
		{variant: "International", want: 90},
		{variant: "Endurance", want: 85},
		{variant: "Oval", want: 80},
		{variant: "National", want: 75},
		{variant: "Club", want: 70},
		{variant: "Moto", want: 40},
		{variant: "Bike", want: 35},
		{variant: "Rallycross", want: 30},
		{variant: "Legends Oval", want: 80},
		{variant: "Legends", want: 25},
		{variant: "School", want: 20},
		{variant: "Reverse", want: 15},
		{variant: "Short", want: 45},
		{variant: "Alt", want: 40},
		{variant: "Grand Prix without Bus Stop", want: 100},
		{variant: "Without Chicane", want: 35},
		{variant: "Combined", want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			assert.Equal(t, tt.want, TrackVariantScore(tt.variant))
		})
	}
}

func TestVariantPreferenceOrder(t *testing.T) {
	gp := TrackVariantScore("Grand Prix")
	short := TrackVariantScore("Short")
	moto := TrackVariantScore("Moto")
	assert.Greater(t, gp, short)
	assert.Greater(t, short, moto)
}

func TestScoresArePure(t *testing.T) {
	for _, name := range []string{"Porsche 911 GT3 Cup (992)", "BMW M4 GT3", "Ford Fusion 2016"} {
		first := CarGenerationScore(name)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, CarGenerationScore(name))
		}
	}
}

func TestWantsLegacy(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{query: "porsche gt3 cup 991", want: true},
		{query: "Legacy Corvette", want: true},
		{query: "vintage lotus", want: true},
		{query: "gen 1 supercar", want: true},
		{query: "porsche gt3 cup", want: false},
		{query: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, WantsLegacy(tt.query))
		})
	}
}

func TestNewScorerCustomTables(t *testing.T) {
	s, err := NewScorer(Config{
		LegacyPatterns:    []string{`\bretro\b`},
		PreferredVariants: []PatternScore{{Pattern: `\bring\b`, Score: 99}},
	})
	require.NoError(t, err)
	assert.True(t, s.IsLegacyCar("Retro Racer"))
	assert.False(t, s.IsLegacyCar("Porsche 911 GT3 Cup (991)"))
	assert.Equal(t, 99, s.TrackVariantScore("Ring"))
	// not configured tables fall back to defaults
	assert.Equal(t, 40, s.TrackVariantScore("Moto"))
	assert.Equal(t, 40, s.CarGenerationScore("Global Mazda MX-5 Cup"))
}

func TestNewScorerExplicitZero(t *testing.T) {
	s, err := NewScorer(Config{
		ModernBaseline: lo.ToPtr(0),
		VariantDefault: lo.ToPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, s.CarGenerationScore("Ligier JS P320"))
	assert.Equal(t, 0, s.TrackVariantScore(""))
	assert.Equal(t, 0, s.TrackVariantScore("Boot"))
	assert.Equal(t, 100, s.TrackVariantScore("Grand Prix"))

	// nil keeps the defaults
	s, err = NewScorer(Config{})
	require.NoError(t, err)
	assert.Equal(t, 40, s.CarGenerationScore("Ligier JS P320"))
	assert.Equal(t, 50, s.TrackVariantScore(""))
}

func TestNewScorerInvalidPattern(t *testing.T) {
	_, err := NewScorer(Config{LegacyPatterns: []string{`(`}})
	assert.Error(t, err)
	assert.Panics(t, func() { MustNewScorer(Config{YearBuckets: []PatternScore{{Pattern: `[`}}}) })
}
