package fusion

import (
	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/domain/lexicon"
)

// FilterStats counts what FilterMeal removed at each stage.
type FilterStats struct {
	Before           int
	After            int
	DroppedNonFood   int
	DroppedCategory  int
	DroppedCondiment int
}

// FilterMeal keeps only items a meal log can accept. It drops non-food and
// serveware names, then categories outside the loggable set. Condiments are
// dropped too unless a condiment is the only item left.
func FilterMeal(items []entity.FusedFoodItem) ([]entity.FusedFoodItem, FilterStats) {
	stats := FilterStats{Before: len(items)}

	kept := make([]entity.FusedFoodItem, 0, len(items))
	for _, it := range items {
		if !lexicon.IsFoodish(it.CanonicalName) || lexicon.IsHardReject(it.CanonicalName) {
			stats.DroppedNonFood++
			continue
		}
		if !lexicon.IsLoggableCategory(it.Category) {
			stats.DroppedCategory++
			continue
		}
		kept = append(kept, it)
	}

	if len(kept) > 1 && hasCondiment(kept) {
		out := kept[:0]
		for _, it := range kept {
			if lexicon.IsCondiment(it.CanonicalName) {
				stats.DroppedCondiment++
				continue
			}
			out = append(out, it)
		}
		kept = out
	}

	stats.After = len(kept)
	return kept, stats
}

// Dedupe keeps the first item per canonical name and cuts the list to limit.
// Names are expected to be canonical already. A non-positive limit means
// DefaultCap.
func Dedupe(items []entity.FusedFoodItem, limit int) []entity.FusedFoodItem {
	if limit <= 0 {
		limit = DefaultCap
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]entity.FusedFoodItem, 0, min(len(items), limit))
	for _, it := range items {
		if it.CanonicalName == "" {
			continue
		}
		if _, ok := seen[it.CanonicalName]; ok {
			continue
		}
		seen[it.CanonicalName] = struct{}{}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

func hasCondiment(items []entity.FusedFoodItem) bool {
	for _, it := range items {
		if lexicon.IsCondiment(it.CanonicalName) {
			return true
		}
	}
	return false
}
