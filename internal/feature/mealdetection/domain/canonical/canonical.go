// Package canonical maps free-text food names onto a shared vocabulary and
// scores how alike two names are.
package canonical

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	prepAdjectives = regexp.MustCompile(`\b(?:cooked|grilled|baked|fried|raw|fresh)\b`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// synonyms is keyed on strings that already went through adjective stripping
// and the single trailing "s" removal, so plural keys look misspelled
// ("tomatoe", "asparagu"). Every head term must map to itself when
// canonicalized again.
var synonyms = map[string]string{
	// salmon
	"salmon fillet":   "salmon",
	"salmon filet":    "salmon",
	"salmon steak":    "salmon",
	"salmon portion":  "salmon",
	"smoked salmon":   "salmon",
	"atlantic salmon": "salmon",

	// tomato; cherry and grape tomatoes stay their own item
	"tomatoe":             "tomato",
	"cherry tomatoe":      "cherry tomato",
	"grape tomato":        "cherry tomato",
	"grape tomatoe":       "cherry tomato",
	"plum tomato":         "tomato",
	"roma tomato":         "tomato",
	"roma tomatoe":        "tomato",
	"tomato slice":        "tomato",
	"sliced tomato":       "tomato",
	"cherry tomato halve": "cherry tomato",

	// citrus garnishes
	"lemon slice": "lemon",
	"lemon wedge": "lemon",
	"lemon half":  "lemon",
	"lime slice":  "lime",
	"lime wedge":  "lime",

	// asparagus
	"asparagu":        "asparagus",
	"asparagus spear": "asparagus",
	"asparagus tip":   "asparagus",
	"green asparagu":  "asparagus",
	"asparagus stalk": "asparagus",

	// other words ending in "s"
	"hummu":           "hummus",
	"couscou":         "couscous",
	"brussels sprout": "brussels sprout",
	"brussel sprout":  "brussels sprout",
	"bas":             "sea bass",
	"sea bas":         "sea bass",
	"swis":            "swiss cheese",
	"swiss cheese":    "swiss cheese",
	"cres":            "cress",
	"watercres":       "watercress",
	"oat":             "oatmeal",
	"rolled oat":      "oatmeal",
	"porridge":        "oatmeal",

	// poultry and meat
	"chicken breast":  "chicken",
	"chicken thigh":   "chicken",
	"chicken fillet":  "chicken",
	"beef steak":      "steak",
	"sirloin steak":   "steak",
	"ribeye":          "steak",
	"scrambled egg":   "egg",
	"boiled egg":      "egg",
	"hard boiled egg": "egg",

	// starches
	"white rice":     "rice",
	"steamed rice":   "rice",
	"french frie":    "french fries",
	"fry":            "french fries",
	"frie":           "french fries",
	"mashed potatoe": "mashed potato",
	"potatoe":        "potato",
	"sweet potatoe":  "sweet potato",
	"spaghetti":      "pasta",
	"penne":          "pasta",
	"toast slice":    "toast",
	"bread slice":    "bread",

	// greens
	"romaine lettuce": "lettuce",
	"mixed green":     "salad",
	"green salad":     "salad",
	"side salad":      "salad",
	"baby spinach":    "spinach",
	"broccoli floret": "broccoli",
	"avocado slice":   "avocado",
}

// Canonicalize normalizes a raw detector name: NFKC-fold, lowercase and trim,
// strip preparation adjectives, drop one trailing "s", collapse whitespace,
// then resolve synonyms.
func Canonicalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(norm.NFKC.String(raw)))
	s = prepAdjectives.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "s")
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	if head, ok := synonyms[s]; ok {
		return head
	}
	return s
}

// heads returns every synonym head term.
func heads() []string {
	seen := make(map[string]struct{}, len(synonyms))
	out := make([]string, 0, len(synonyms))
	for _, h := range synonyms {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}
