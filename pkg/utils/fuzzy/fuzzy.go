// Package fuzzy provides approximate closest-match search based on the
// levenshtein edit distance.
package fuzzy

import (
	"slices"

	"github.com/agnivade/levenshtein"
)

const (
	// partialWeight scales the best window ratio so a full match always beats
	// a partial one
	partialWeight = 0.9
	// shorter strings would match almost any window
	minPartialLen = 4
)

// Ratio returns a similarity in [0,1]. It is the maximum of the whole string
// ratio and the weighted best partial ratio (shorter string against every
// window of the longer one with the same length).
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if a == b {
		return 1
	}
	best := ratio(ra, rb)
	if min(len(ra), len(rb)) < minPartialLen {
		return best
	}
	if p := partialWeight * partialRatio(ra, rb); p > best {
		best = p
	}
	return best
}

func ratio(a, b []rune) float64 {
	maxLen := max(len(a), len(b))
	dist := levenshtein.ComputeDistance(string(a), string(b))
	return 1 - float64(dist)/float64(maxLen)
}

func partialRatio(a, b []rune) float64 {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == len(long) {
		return ratio(short, long)
	}
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(short, long[i:i+len(short)])
		if r > best {
			best = r
			if best == 1 {
				break
			}
		}
	}
	return best
}

type scored struct {
	idx   int
	score float64
}

// CloseMatches returns at most n candidates whose Ratio with word is at least
// cutoff, best first. Equal scores keep the order of candidates.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []string {
	if n <= 0 || word == "" {
		return nil
	}
	hits := make([]scored, 0)
	for i, c := range candidates {
		if s := Ratio(word, c); s >= cutoff {
			hits = append(hits, scored{idx: i, score: s})
		}
	}
	slices.SortStableFunc(hits, func(x, y scored) int {
		switch {
		case x.score > y.score:
			return -1
		case x.score < y.score:
			return 1
		default:
			return 0
		}
	})
	if len(hits) > n {
		hits = hits[:n]
	}
	ret := make([]string, len(hits))
	for i, h := range hits {
		ret[i] = candidates[h.idx]
	}
	return ret
}
