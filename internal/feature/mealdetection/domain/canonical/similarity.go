package canonical

import "strings"

// ContainmentScore is returned when one name contains the other.
const ContainmentScore = 0.9

// Similarity scores two names in [0, 1]. Containment of either lowercase form
// in the other short-circuits to ContainmentScore; otherwise it is the
// Jaccard index of the whitespace token sets. Blank names score 0.
func Similarity(a, b string) float64 {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return 0
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return ContainmentScore
	}
	return jaccard(strings.Fields(la), strings.Fields(lb))
}

func jaccard(a, b []string) float64 {
	set := make(map[string]uint8, len(a)+len(b))
	for _, t := range a {
		set[t] |= 1
	}
	for _, t := range b {
		set[t] |= 2
	}
	if len(set) == 0 {
		return 0
	}
	inter := 0
	for _, m := range set {
		if m == 3 {
			inter++
		}
	}
	return float64(inter) / float64(len(set))
}
