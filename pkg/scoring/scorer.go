// Package scoring computes relevance scores for car names and preference
// scores for track variants. All functions are pure: identical input strings
// always give identical scores.
package scoring

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Scorer evaluates the compiled pattern tables of a Config. It is immutable
// and safe for concurrent use.
type Scorer struct {
	legacy         []*regexp.Regexp
	legacyKeywords []string
	chassis        []Rule
	years          []Rule
	modern         []Rule
	modernBaseline int
	preferred      []Rule
	lessPreferred  []Rule
	variantDefault int
}

var defaultScorer = MustNewScorer(DefaultConfig())

// Default returns the scorer built from DefaultConfig
func Default() *Scorer {
	return defaultScorer
}

// NewScorer compiles the tables of cfg. Empty tables and nil values are
// taken from DefaultConfig.
func NewScorer(cfg Config) (*Scorer, error) {
	cfg = WithDefaults(cfg)
	s := &Scorer{
		legacyKeywords: lowerAll(cfg.LegacyKeywords),
		modernBaseline: *cfg.ModernBaseline,
		variantDefault: *cfg.VariantDefault,
	}
	var err error
	if s.legacy, err = compileRegexps(cfg.LegacyPatterns); err != nil {
		return nil, err
	}
	for _, c := range cfg.Chassis {
		s.chassis = append(s.chassis, containsRule(c))
	}
	if s.years, err = compilePatterns(cfg.YearBuckets); err != nil {
		return nil, err
	}
	if s.modern, err = compilePatterns(cfg.ModernIndicators); err != nil {
		return nil, err
	}
	if s.preferred, err = compilePatterns(cfg.PreferredVariants); err != nil {
		return nil, err
	}
	if s.lessPreferred, err = compilePatterns(cfg.LessPreferredVariants); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNewScorer is like NewScorer but panics if a pattern does not compile
func MustNewScorer(cfg Config) *Scorer {
	s, err := NewScorer(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// WithDefaults fills every empty table and nil value of cfg from DefaultConfig
func WithDefaults(cfg Config) Config {
	def := DefaultConfig()
	if len(cfg.LegacyPatterns) == 0 {
		cfg.LegacyPatterns = def.LegacyPatterns
	}
	if len(cfg.LegacyKeywords) == 0 {
		cfg.LegacyKeywords = def.LegacyKeywords
	}
	if len(cfg.Chassis) == 0 {
		cfg.Chassis = def.Chassis
	}
	if len(cfg.YearBuckets) == 0 {
		cfg.YearBuckets = def.YearBuckets
	}
	if len(cfg.ModernIndicators) == 0 {
		cfg.ModernIndicators = def.ModernIndicators
	}
	if cfg.ModernBaseline == nil {
		cfg.ModernBaseline = def.ModernBaseline
	}
	if len(cfg.PreferredVariants) == 0 {
		cfg.PreferredVariants = def.PreferredVariants
	}
	if len(cfg.LessPreferredVariants) == 0 {
		cfg.LessPreferredVariants = def.LessPreferredVariants
	}
	if cfg.VariantDefault == nil {
		cfg.VariantDefault = def.VariantDefault
	}
	return cfg
}

// IsLegacyCar reports whether name matches any of the legacy patterns
func (s *Scorer) IsLegacyCar(name string) bool {
	lower := strings.ToLower(name)
	for _, re := range s.legacy {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// CarGenerationScore returns how current a car is. Higher is more recent,
// legacy cars score 0.
func (s *Scorer) CarGenerationScore(name string) int {
	if s.IsLegacyCar(name) {
		return 0
	}
	lower := strings.ToLower(name)
	if score, ok := firstMatch(s.chassis, lower); ok {
		return score
	}
	if score, ok := firstMatch(s.years, lower); ok {
		return score
	}
	return maxMatch(s.modern, lower, s.modernBaseline)
}

// TrackVariantScore returns the preference of a track variant.
// Preferred layouts are always checked before less preferred ones.
func (s *Scorer) TrackVariantScore(variant string) int {
	if variant == "" {
		return s.variantDefault
	}
	lower := strings.ToLower(variant)
	if score, ok := firstMatch(s.preferred, lower); ok {
		return score
	}
	if score, ok := firstMatch(s.lessPreferred, lower); ok {
		return score
	}
	return s.variantDefault
}

// WantsLegacy reports whether a query contains one of the legacy keywords
func (s *Scorer) WantsLegacy(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range s.legacyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// The package level functions use the Default scorer.

func IsLegacyCar(name string) bool         { return defaultScorer.IsLegacyCar(name) }
func CarGenerationScore(name string) int   { return defaultScorer.CarGenerationScore(name) }
func TrackVariantScore(variant string) int { return defaultScorer.TrackVariantScore(variant) }
func WantsLegacy(query string) bool        { return defaultScorer.WantsLegacy(query) }

func lowerAll(in []string) []string {
	return lo.Map(in, func(item string, _ int) string { return strings.ToLower(item) })
}
