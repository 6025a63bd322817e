// Package resolve maps free text onto known rooms, lights and colors.
package resolve

import (
	"math"
	"strings"

	"github.com/agext/levenshtein"
)

const DefaultThreshold = 70

// Score returns the similarity of a and b on a 0-100 scale. Case and
// surrounding whitespace are ignored, so equal names always score 100.
func Score(a, b string) int {
	a = normalize(a)
	b = normalize(b)
	if a == b {
		return 100
	}
	return int(math.Round(100 * levenshtein.Similarity(a, b, nil)))
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// best returns the index of the highest scoring candidate above threshold.
// Ties go to the earliest candidate.
func best(candidates []string, text string, threshold int) (int, bool) {
	idx, top := -1, threshold
	for i, c := range candidates {
		if s := Score(c, text); s > top {
			idx, top = i, s
		}
	}
	return idx, idx >= 0
}
