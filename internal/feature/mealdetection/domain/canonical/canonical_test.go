package canonical

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"grilled salmon", "salmon"},
		{"salmon fillet", "salmon"},
		{"Grilled Salmon Fillet", "salmon"},
		{"cherry tomatoes", "cherry tomato"},
		{"grape tomato", "cherry tomato"},
		{"tomato", "tomato"},
		{"tomatoes", "tomato"},
		{"lemon slice", "lemon"},
		{"lemon wedge", "lemon"},
		{"asparagus", "asparagus"},
		{"asparagus spears", "asparagus"},
		{"  Fresh   Baby  Spinach ", "spinach"},
		{"raw carrots", "carrot"},
		{"fried rice", "rice"},
		{"sea bass", "sea bass"},
		{"hummus", "hummus"},
		{"", ""},
		{"   ", ""},
		{"mystery stew", "mystery stew"},
		{"ＳＡＬＭＯＮ", "salmon"},
		{"jalapen\u0303o", "jalape\u00f1o"},
		{"cooked", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Canonicalize(tt.input))
		})
	}
}

// TestCanonicalize_TrailingSQuirk pins the blunt plural stripping: it runs on
// the whole phrase and before synonym lookup.
func TestCanonicalize_TrailingSQuirk(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cheese", Canonicalize("cheeses"))
	assert.Equal(t, "molasse", Canonicalize("molasses"))
	assert.Equal(t, "glas", Canonicalize("glass"))
	assert.Equal(t, "watercress", Canonicalize("watercress"))
	assert.Equal(t, "watercress", Canonicalize(Canonicalize("watercress")))
	assert.Equal(t, "cress", Canonicalize("cress"))
	assert.Equal(t, "grilled", Canonicalize("grilleds")) // adjective match happens before the "s" is gone
}

func TestHeads_AreFixedPoints(t *testing.T) {
	t.Parallel()

	for _, h := range heads() {
		assert.Equal(t, h, Canonicalize(h), "head %q must canonicalize to itself", h)
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want float64
	}{
		{"salmon fillet", "salmon", 0.9},
		{"cherry tomato", "tomato", 0.9},
		{"lemon slice", "lemon", 0.9},
		{"Salmon", "salmon", 0.9},
		{"brown rice", "rice pilaf", 1.0 / 3.0},
		{"green beans", "green peas", 1.0 / 3.0},
		{"salmon", "broccoli", 0},
		{"", "salmon", 0},
		{"", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Similarity(tt.b, tt.a), 1e-9)
		})
	}

	assert.GreaterOrEqual(t, Similarity("cherry tomato", "tomato"), 0.85)
	assert.GreaterOrEqual(t, Similarity("salmon fillet", "salmon"), 0.85)
	assert.GreaterOrEqual(t, Similarity("lemon slice", "lemon"), 0.85)
}

var (
	vocabulary = []interface{}{
		"salmon", "asparagus", "tomato", "cherry tomato", "lemon", "lime",
		"hummus", "couscous", "sea bass", "brussels sprout", "swiss cheese",
		"oatmeal", "chicken breast", "rice", "french fries", "egg", "broccoli",
		"sweet potato", "avocado", "waffle", "maple syrup", "lentil",
		"watercress", "cress",
	}
	decorations = []interface{}{"", "grilled ", "Fresh ", "  baked  ", "RAW "}
	suffixes    = []interface{}{"", "s", "es", " "}
)

// genFoodPhrase generates food names as detectors tend to phrase them.
func genFoodPhrase() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf(decorations...),
		gen.OneConstOf(vocabulary...),
		gen.OneConstOf(suffixes...),
	).Map(func(vals []interface{}) string {
		return vals[0].(string) + vals[1].(string) + vals[2].(string)
	})
}

func TestCanonicalize_Properties(t *testing.T) {
	t.Parallel()

	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("idempotent over food phrases", prop.ForAll(
		func(s string) bool {
			once := Canonicalize(s)
			return Canonicalize(once) == once
		},
		genFoodPhrase(),
	))

	properties.Property("deterministic", prop.ForAll(
		func(s string) bool {
			return Canonicalize(s) == Canonicalize(s)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestSimilarity_Properties(t *testing.T) {
	t.Parallel()

	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("symmetric", prop.ForAll(
		func(a, b string) bool {
			return Similarity(a, b) == Similarity(b, a)
		},
		gen.AlphaString(), gen.AlphaString(),
	))

	properties.Property("bounded", prop.ForAll(
		func(a, b string) bool {
			s := Similarity(a, b)
			return s >= 0 && s <= 1
		},
		gen.AnyString(), gen.AnyString(),
	))

	properties.TestingRun(t)
}
