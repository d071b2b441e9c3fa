package scoring

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is a predicate with an associated score. Tables of rules are evaluated in
// order.
type Rule struct {
	Name  string
	Match func(lower string) bool
	Score int
}

// PatternScore is the configurable form of a regex based rule.
type PatternScore struct {
	Pattern string `mapstructure:"pattern" json:"pattern" yaml:"pattern"`
	Score   int    `mapstructure:"score" json:"score" yaml:"score"`
}

// ContainsScore matches if all fragments are contained in the (lower cased) name.
type ContainsScore struct {
	AllOf []string `mapstructure:"allOf" json:"allOf" yaml:"allOf"`
	Score int      `mapstructure:"score" json:"score" yaml:"score"`
}

func patternRule(p PatternScore) (Rule, error) {
	re, err := regexp.Compile(p.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid pattern %q: %w", p.Pattern, err)
	}
	return Rule{Name: p.Pattern, Match: re.MatchString, Score: p.Score}, nil
}

func containsRule(c ContainsScore) Rule {
	frags := make([]string, len(c.AllOf))
	for i := range c.AllOf {
		frags[i] = strings.ToLower(c.AllOf[i])
	}
	return Rule{
		Name: strings.Join(frags, "+"),
		Match: func(lower string) bool {
			for _, f := range frags {
				if !strings.Contains(lower, f) {
					return false
				}
			}
			return true
		},
		Score: c.Score,
	}
}

func compilePatterns(in []PatternScore) ([]Rule, error) {
	ret := make([]Rule, 0, len(in))
	for _, p := range in {
		r, err := patternRule(p)
		if err != nil {
			return nil, err
		}
		ret = append(ret, r)
	}
	return ret, nil
}

func compileRegexps(in []string) ([]*regexp.Regexp, error) {
	ret := make([]*regexp.Regexp, 0, len(in))
	for _, p := range in {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		ret = append(ret, re)
	}
	return ret, nil
}

// firstMatch returns the score of the first matching rule
func firstMatch(rules []Rule, lower string) (int, bool) {
	for i := range rules {
		if rules[i].Match(lower) {
			return rules[i].Score, true
		}
	}
	return 0, false
}

// maxMatch returns the maximum of base and all matching rule scores
func maxMatch(rules []Rule, lower string, base int) int {
	ret := base
	for i := range rules {
		if rules[i].Score > ret && rules[i].Match(lower) {
			ret = rules[i].Score
		}
	}
	return ret
}
