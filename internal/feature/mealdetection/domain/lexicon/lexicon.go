// Package lexicon holds the process-wide word lists used to tell food from
// non-food vocabulary, and the pure predicates built on them.
//
// Every table here is built once at package init and never mutated.
package lexicon

import (
	"regexp"
	"strings"

	"meal_backend/internal/feature/mealdetection/domain/entity"
)

// allowTerms are specific protein, vegetable, starch and dairy words. A match
// here wins over any junk match.
var allowTerms = []string{
	// protein
	"salmon", "tuna", "cod", "trout", "tilapia", "sardine", "mackerel", "halibut",
	"shrimp", "prawn", "crab", "lobster", "scallop", "mussel", "fish",
	"chicken", "turkey", "duck", "beef", "steak", "pork", "bacon", "ham",
	"sausage", "lamb", "meatball", "egg", "tofu", "tempeh", "lentil",
	"chickpea", "bean", "edamame",
	// vegetable
	"asparagus", "broccoli", "spinach", "kale", "lettuce", "arugula", "carrot",
	"tomato", "cucumber", "pepper", "onion", "garlic", "zucchini", "mushroom",
	"cauliflower", "celery", "cabbage", "corn", "pea", "eggplant", "beet",
	"radish", "squash", "pumpkin", "brussels sprout", "green bean", "okra",
	// starch
	"rice", "quinoa", "pasta", "spaghetti", "noodle", "bread", "toast", "bagel",
	"tortilla", "oat", "oatmeal", "couscous", "potato", "sweet potato", "barley",
	"pancake", "waffle",
	// dairy
	"cheese", "yogurt", "yoghurt", "milk", "butter", "cream", "cottage cheese",
	"mozzarella", "feta", "parmesan",
}

// junkTerms cover tableware, cutlery, packaging, branding and generic
// dish/recipe vocabulary that detectors like to emit.
var junkTerms = []string{
	// tableware
	"plate", "bowl", "dish", "dishware", "tableware", "serveware", "platter",
	"saucer", "tray", "cup", "mug", "glass", "napkin", "placemat", "table",
	"tablecloth", "cutting board",
	// cutlery
	"fork", "spoon", "knife", "chopstick", "cutlery", "utensil", "silverware",
	// packaging
	"package", "packaging", "wrapper", "container", "bottle", "can", "jar",
	"box", "bag", "carton", "plastic", "paper", "foil",
	// brand and logo
	"brand", "logo", "label", "text", "font", "trademark", "product",
	// generic dish and recipe words
	"food", "meal", "cuisine", "recipe", "ingredient", "produce", "dinner",
	"lunch", "breakfast", "brunch", "garnish", "cooking", "staple food",
	"natural foods", "whole food", "superfood", "finger food", "fast food",
	"comfort food", "side dish", "leaf vegetable",
}

// hardRejectTerms are serveware words that are never logged, whatever the
// allowlist says.
var hardRejectTerms = []string{
	"plate", "bowl", "dish", "cup", "mug", "glass", "tray", "platter", "saucer",
	"napkin", "fork", "spoon", "knife", "chopstick", "utensil", "cutlery",
	"tableware", "serveware", "dishware", "placemat",
}

// condimentTerms mark items that are only kept when nothing else was seen.
var condimentTerms = []string{
	"syrup", "sauce", "ketchup", "mayo", "mayonnaise", "mustard", "dressing",
	"relish", "gravy", "vinegar", "sriracha", "aioli", "salsa", "jam", "jelly",
	"dip", "condiment",
}

// vegFruitKeywords maps each vegetable or fruit keyword to its category.
var vegFruitKeywords = map[string]entity.Category{
	"asparagus": entity.CategoryVegetable, "broccoli": entity.CategoryVegetable,
	"spinach": entity.CategoryVegetable, "kale": entity.CategoryVegetable,
	"lettuce": entity.CategoryVegetable, "arugula": entity.CategoryVegetable,
	"carrot": entity.CategoryVegetable, "tomato": entity.CategoryVegetable,
	"cucumber": entity.CategoryVegetable, "pepper": entity.CategoryVegetable,
	"onion": entity.CategoryVegetable, "garlic": entity.CategoryVegetable,
	"zucchini": entity.CategoryVegetable, "mushroom": entity.CategoryVegetable,
	"cauliflower": entity.CategoryVegetable, "celery": entity.CategoryVegetable,
	"cabbage": entity.CategoryVegetable, "corn": entity.CategoryVegetable,
	"pea": entity.CategoryVegetable, "eggplant": entity.CategoryVegetable,
	"beet": entity.CategoryVegetable, "radish": entity.CategoryVegetable,
	"squash": entity.CategoryVegetable, "pumpkin": entity.CategoryVegetable,
	"brussels sprout": entity.CategoryVegetable, "green bean": entity.CategoryVegetable,
	"okra": entity.CategoryVegetable, "salad": entity.CategoryVegetable,
	"apple": entity.CategoryFruit, "banana": entity.CategoryFruit,
	"orange": entity.CategoryFruit, "lemon": entity.CategoryFruit,
	"lime": entity.CategoryFruit, "grape": entity.CategoryFruit,
	"strawberr": entity.CategoryFruit, "blueberr": entity.CategoryFruit,
	"raspberr": entity.CategoryFruit, "berry": entity.CategoryFruit,
	"mango": entity.CategoryFruit, "pineapple": entity.CategoryFruit,
	"peach": entity.CategoryFruit, "pear": entity.CategoryFruit,
	"plum": entity.CategoryFruit, "cherry": entity.CategoryFruit,
	"kiwi": entity.CategoryFruit, "melon": entity.CategoryFruit,
	"watermelon": entity.CategoryFruit, "avocado": entity.CategoryFruit,
}

// categoryTerms drive CategoryOf for everything that is not a vegetable or
// fruit keyword. Checked in slice order.
var categoryTerms = []struct {
	category entity.Category
	terms    []string
}{
	{entity.CategoryDairy, []string{"cheese", "yogurt", "yoghurt", "milk", "cream", "mozzarella", "feta", "parmesan", "kefir"}},
	{entity.CategoryFat, []string{"butter", "oil", "syrup", "nut", "almond", "walnut", "peanut", "seed", "bacon grease", "lard"}},
	{entity.CategoryProtein, []string{
		"salmon", "tuna", "cod", "trout", "tilapia", "sardine", "mackerel", "halibut",
		"shrimp", "prawn", "crab", "lobster", "scallop", "mussel", "fish",
		"chicken", "turkey", "duck", "beef", "steak", "pork", "bacon", "ham",
		"sausage", "lamb", "meatball", "egg", "tofu", "tempeh", "lentil",
		"chickpea", "bean", "edamame",
	}},
	{entity.CategoryGrain, []string{
		"rice", "quinoa", "pasta", "spaghetti", "noodle", "bread", "toast", "bagel",
		"tortilla", "oat", "couscous", "potato", "barley", "pancake", "waffle",
		"cereal", "granola", "cracker",
	}},
}

var (
	allowPattern      = compileWordPattern(allowTerms)
	junkPattern       = compileWordPattern(junkTerms)
	hardRejectPattern = compileWordPattern(hardRejectTerms)
	condimentPattern  = compileWordPattern(condimentTerms)
	categoryPatterns  = compileCategoryPatterns()
)

// compileWordPattern builds one case-insensitive, word-bounded alternation.
// Each term may carry a plural "s" or "es".
func compileWordPattern(terms []string) *regexp.Regexp {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, strings.ReplaceAll(regexp.QuoteMeta(t), " ", `\s+`))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)(?:e?s)?\b`)
}

type categoryPattern struct {
	category entity.Category
	pattern  *regexp.Regexp
}

func compileCategoryPatterns() []categoryPattern {
	out := make([]categoryPattern, 0, len(categoryTerms))
	for _, ct := range categoryTerms {
		out = append(out, categoryPattern{category: ct.category, pattern: compileWordPattern(ct.terms)})
	}
	return out
}
