package lexicon

import (
	"cmp"
	"sort"
	"strings"

	"meal_backend/internal/feature/mealdetection/domain/entity"
)

// minFoodishLength is the longest trimmed text that is always rejected.
const minFoodishLength = 2

// vegFruitOrder lists vegFruitKeywords longest first so that among keywords
// ending at the same position the longer one wins.
var vegFruitOrder = sortedVegFruitKeys()

// IsFoodish reports whether text plausibly names a food. The allowlist wins
// over the junk pattern.
func IsFoodish(text string) bool {
	t := strings.TrimSpace(text)
	if len(t) <= minFoodishLength {
		return false
	}
	if allowPattern.MatchString(t) {
		return true
	}
	return !junkPattern.MatchString(t)
}

// IsHardReject reports whether text names serveware that is never kept.
func IsHardReject(text string) bool {
	return hardRejectPattern.MatchString(text)
}

// IsCondiment reports whether text names a condiment.
func IsCondiment(text string) bool {
	return condimentPattern.MatchString(text)
}

// IsVegetableOrFruit reports whether the normalized text contains, or is
// contained by, any vegetable or fruit keyword. The match is intentionally
// loose.
func IsVegetableOrFruit(text string) bool {
	n := normalize(text)
	if n == "" {
		return false
	}
	for kw := range vegFruitKeywords {
		if strings.Contains(n, kw) || strings.Contains(kw, n) {
			return true
		}
	}
	return false
}

// CategoryOf infers a nutrition category from a food name. Names that match
// nothing fall back to CategoryOther.
func CategoryOf(text string) entity.Category {
	n := normalize(text)
	if n == "" {
		return entity.CategoryOther
	}
	for _, cp := range categoryPatterns {
		if cp.pattern.MatchString(n) {
			return cp.category
		}
	}
	// The keyword ending last is the head noun ("cherry tomato" is a tomato).
	best, bestEnd := "", -1
	for _, kw := range vegFruitOrder {
		idx := strings.LastIndex(n, kw)
		if idx < 0 {
			continue
		}
		if end := idx + len(kw); end > bestEnd {
			best, bestEnd = kw, end
		}
	}
	if best != "" {
		return vegFruitKeywords[best]
	}
	return entity.CategoryOther
}

// IsLoggableCategory reports whether c is one of the categories a meal log
// accepts.
func IsLoggableCategory(c entity.Category) bool {
	switch c {
	case entity.CategoryProtein, entity.CategoryVegetable, entity.CategoryFruit,
		entity.CategoryGrain, entity.CategoryDairy, entity.CategoryFat:
		return true
	}
	return false
}

// CompareSourcePriority orders detections from one source: objects before
// labels, then higher confidence first. It returns a negative number when a
// ranks ahead of b.
func CompareSourcePriority(a, b entity.RawDetection) int {
	if c := cmp.Compare(kindRank(a.Kind), kindRank(b.Kind)); c != 0 {
		return c
	}
	return cmp.Compare(b.Confidence, a.Confidence)
}

func kindRank(k entity.DetectionKind) int {
	if k == entity.KindObject {
		return 0
	}
	return 1
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func sortedVegFruitKeys() []string {
	keys := make([]string, 0, len(vegFruitKeywords))
	for k := range vegFruitKeywords {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
