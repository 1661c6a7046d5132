// Package fusion merges the primary detector's scored, boxed candidates with
// the secondary detector's free-text names into one ranked, bounded list.
package fusion

import (
	"sort"

	"meal_backend/internal/feature/mealdetection/domain/canonical"
	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/domain/lexicon"
)

const (
	// DefaultThreshold is the similarity at which a secondary name merges
	// into an existing item.
	DefaultThreshold = 0.85
	// DefaultCap is the maximum number of fused items returned.
	DefaultCap = 8
)

// Options tunes Fuse. Zero values fall back to the defaults.
type Options struct {
	Threshold float64
	Cap       int
}

// DefaultOptions returns the reference fusion settings.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Cap: DefaultCap}
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Cap <= 0 {
		o.Cap = DefaultCap
	}
	return o
}

// Fuse merges primary detections and secondary names with the default options.
func Fuse(primary []entity.RawDetection, secondary []string) []entity.FusedFoodItem {
	return FuseWithOptions(primary, secondary, DefaultOptions())
}

// FuseWithOptions seeds one item per primary detection, then folds each
// secondary name into the first item with the same canonical name or one it
// is similar enough to, appending a secondary-only item otherwise. Items with a box rank first, then by
// confidence. The result is cut to opts.Cap.
//
// Primary detections are not merged with each other; callers that need
// unique names pass the output of PreparePrimary.
func FuseWithOptions(primary []entity.RawDetection, secondary []string, opts Options) []entity.FusedFoodItem {
	opts = opts.withDefaults()

	items := make([]entity.FusedFoodItem, 0, len(primary)+len(secondary))
	for _, d := range primary {
		items = append(items, seed(d))
	}

	for _, raw := range secondary {
		name := canonical.Canonicalize(raw)
		if name == "" {
			continue
		}
		merged := false
		for i := range items {
			// identical names merge whatever the threshold
			if items[i].CanonicalName == name || canonical.Similarity(items[i].CanonicalName, name) >= opts.Threshold {
				// primary metadata stays as it was
				items[i].OriginSet.Add(entity.SourceSecondary)
				merged = true
				break
			}
		}
		if !merged {
			item := entity.FusedFoodItem{CanonicalName: name}
			item.OriginSet.Add(entity.SourceSecondary)
			items = append(items, item)
		}
	}

	Rank(items)
	if len(items) > opts.Cap {
		items = items[:opts.Cap]
	}
	return items
}

// Rank sorts items in place: boxed items before unboxed ones, then higher
// confidence first. Equal items keep their relative order.
func Rank(items []entity.FusedFoodItem) {
	sort.SliceStable(items, func(i, j int) bool {
		bi, bj := items[i].BoundingBox != nil, items[j].BoundingBox != nil
		if bi != bj {
			return bi
		}
		return items[i].Score() > items[j].Score()
	})
}

// PreparePrimary orders detections by source priority, drops those failing
// the food filter and keeps only the best detection per canonical name.
func PreparePrimary(dets []entity.RawDetection) []entity.RawDetection {
	ordered := make([]entity.RawDetection, 0, len(dets))
	for _, d := range dets {
		if lexicon.IsFoodish(d.Name) {
			ordered = append(ordered, d)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return lexicon.CompareSourcePriority(ordered[i], ordered[j]) < 0
	})

	seen := make(map[string]struct{}, len(ordered))
	out := ordered[:0]
	for _, d := range ordered {
		name := canonical.Canonicalize(d.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, d)
	}
	return out
}

func seed(d entity.RawDetection) entity.FusedFoodItem {
	item := entity.FusedFoodItem{CanonicalName: canonical.Canonicalize(d.Name)}
	item.OriginSet.Add(entity.SourcePrimary)
	if d.BoundingBox != nil {
		box := *d.BoundingBox
		item.BoundingBox = &box
	}
	conf := d.Confidence
	item.Confidence = &conf
	return item
}
