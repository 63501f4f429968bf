package collector

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// closestName returns the candidate most similar to `name` by Jaro-Winkler
// similarity, compared case-insensitively. ok is false when there is nothing
// similar at all.
func closestName(name string, candidates []string) (closest string, similarity float64, ok bool) {
	target := strings.ToLower(name)
	for _, candidate := range candidates {
		sim := matchr.JaroWinkler(target, strings.ToLower(candidate), false)
		if sim > similarity {
			similarity = sim
			closest = candidate
		}
	}
	return closest, similarity, similarity > 0
}
