package scoring

import "github.com/samber/lo"

// Config holds the pattern tables used for scoring. All patterns are matched
// against the lower cased name. The tables are domain data and may be
// overridden via the config file (key "scoring").
//
//nolint:lll // readability
type Config struct {
	// LegacyPatterns classify a car as legacy/retired content
	LegacyPatterns []string `mapstructure:"legacyPatterns" json:"legacyPatterns" yaml:"legacyPatterns"`
	// LegacyKeywords in a query signal that legacy cars are wanted
	LegacyKeywords []string `mapstructure:"legacyKeywords" json:"legacyKeywords" yaml:"legacyKeywords"`
	// Chassis rules are checked before the year rules
	Chassis []ContainsScore `mapstructure:"chassis" json:"chassis" yaml:"chassis"`
	// YearBuckets ordered from newest to oldest, first match wins
	YearBuckets []PatternScore `mapstructure:"yearBuckets" json:"yearBuckets" yaml:"yearBuckets"`
	// ModernIndicators are used if no year matched, max score wins
	ModernIndicators []PatternScore `mapstructure:"modernIndicators" json:"modernIndicators" yaml:"modernIndicators"`
	// ModernBaseline is the score for cars without any era marker. nil means
	// the default, an explicit 0 is kept.
	ModernBaseline *int `mapstructure:"modernBaseline" json:"modernBaseline" yaml:"modernBaseline"`
	// PreferredVariants are racing layouts, first match wins
	PreferredVariants []PatternScore `mapstructure:"preferredVariants" json:"preferredVariants" yaml:"preferredVariants"`
	// LessPreferredVariants are checked only if no preferred variant matched
	LessPreferredVariants []PatternScore `mapstructure:"lessPreferredVariants" json:"lessPreferredVariants" yaml:"lessPreferredVariants"`
	// VariantDefault is used for empty or unmatched variants. nil means the
	// default, an explicit 0 is kept.
	VariantDefault *int `mapstructure:"variantDefault" json:"variantDefault" yaml:"variantDefault"`
}

//nolint:funlen // table data
func DefaultConfig() Config {
	return Config{
		LegacyPatterns: []string{
			`\b(991)\b`,
			`\b(2008|2009|2010|2012|2013|2014|2015|2016)\b`,
			`\b(cot|car of tomorrow)\b`,
			`\b(legacy|retired|discontinued|old)\b`,
			`\bmk.*1\b`,
			`\bgen.*1\b`,
			`c6\.r`,
			`c7\s`,
			`impala.*cot`,
			`fusion.*2016`,
			`2010|2012|2013|2014|2015|2016`,
			`legends.*1987`,
			`nationwide.*2012`,
			`gander.*2015`,
			`xfinity.*201[4-6]`,
			`truck.*2008|truck.*2018`,
			`mazda.*2010`,
			`formula\s*renault`,
			`ir-05|ir18`,
			`falcon.*2009|falcon.*2014`,
			`commodore.*2014`,
			`f82.*2018`,
		},
		LegacyKeywords: []string{
			"legacy", "old", "classic", "vintage", "991", "gen 1", "generation 1",
		},
		Chassis: []ContainsScore{
			{AllOf: []string{"porsche", "992"}, Score: 100},
			{AllOf: []string{"porsche", "991"}, Score: 10},
		},
		YearBuckets: []PatternScore{
			{Pattern: `\b(2024|2025)\b`, Score: 90},
			{Pattern: `\b(2022|2023)\b`, Score: 80},
			{Pattern: `\b(2020|2021)\b`, Score: 70},
			{Pattern: `\b(2018|2019)\b`, Score: 50},
			{Pattern: `\b(2016|2017)\b`, Score: 30},
			{Pattern: `\b(2014|2015)\b`, Score: 20},
			{Pattern: `\b(2012|2013)\b`, Score: 15},
			{Pattern: `\b(2010|2011)\b`, Score: 10},
			{Pattern: `\b(2008|2009)\b`, Score: 5},
		},
		ModernIndicators: []PatternScore{
			{Pattern: `\bevo\s*(2024|2023|2022|2021|2020)\b`, Score: 85},
			{Pattern: `\bevo\s*ii\b`, Score: 80},
			{Pattern: `\bevo\b`, Score: 70},
			{Pattern: `\bnext\s*gen\b`, Score: 90},
			{Pattern: `\bgen\s*3\b`, Score: 85},
			{Pattern: `\bhybrid\b`, Score: 80},
			{Pattern: `\bgtp\b`, Score: 85},
			{Pattern: `\bgt3.*r\b`, Score: 75},
			{Pattern: `\bgt3\b`, Score: 65},
			{Pattern: `\bgt4\b`, Score: 60},
			{Pattern: `\bgte\b`, Score: 70},
			{Pattern: `\btcr\b`, Score: 65},
			{Pattern: `\bcup.*\(99[2-9]\)`, Score: 80},
		},
		ModernBaseline: lo.ToPtr(40),
		PreferredVariants: []PatternScore{
			{Pattern: `\bgrand\s*prix\b`, Score: 100},
			{Pattern: `\bfull\s*course\b`, Score: 95},
			{Pattern: `\binternational\b`, Score: 90},
			{Pattern: `\bendurance\b`, Score: 85},
			{Pattern: `\boval\b`, Score: 80},
			{Pattern: `\bnational\b`, Score: 75},
			{Pattern: `\bclub\b`, Score: 70},
		},
		LessPreferredVariants: []PatternScore{
			{Pattern: `\bmoto\b`, Score: 40},
			{Pattern: `\bbike\b`, Score: 35},
			{Pattern: `\brallycross\b`, Score: 30},
			{Pattern: `\blegends\b`, Score: 25},
			{Pattern: `\bschool\b`, Score: 20},
			{Pattern: `\breverse\b`, Score: 15},
			{Pattern: `\bshort\b`, Score: 45},
			{Pattern: `\balt\b`, Score: 40},
			{Pattern: `\bwithout\b|w/out\b`, Score: 35},
		},
		VariantDefault: lo.ToPtr(50),
	}
}
