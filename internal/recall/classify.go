package recall

import (
	"sort"
	"strings"
)

// Type is the coarse category of a recall cause.
type Type string

const (
	TypeAllergen        Type = "allergen"
	TypeBacteria        Type = "bacteria"
	TypeForeignMaterial Type = "foreign_material"
	TypeMislabeling     Type = "mislabeling"
	TypeQuality         Type = "quality"
	TypeProcessing      Type = "processing"
	TypeUnauthorized    Type = "unauthorized"
	TypeOther           Type = "other"
)

// typeRules is evaluated top to bottom with first-match-wins semantics.
// The slice ordering IS the tie-break between overlapping groups (an
// undeclared-milk reason is an allergen recall, not a mislabeling one),
// so new keywords must be added to the right group, never reordered.
type typeRule struct {
	typ      Type
	keywords []string
}

var typeRules = []typeRule{
	{TypeAllergen, []string{
		"allergen", "undeclared", "milk", "egg", "peanut", "tree nut",
		"almond", "cashew", "walnut", "soy", "wheat", "sesame", "shellfish",
		"sulfite",
	}},
	{TypeBacteria, []string{
		"listeria", "salmonella", "e. coli", "e.coli", "botulism",
		"clostridium", "cronobacter", "hepatitis", "norovirus", "bacteria",
	}},
	{TypeForeignMaterial, []string{
		"foreign material", "foreign matter", "metal", "plastic", "glass",
		"wood", "rubber",
	}},
	{TypeMislabeling, []string{
		"mislabel", "misbranded", "incorrect label", "wrong label",
		"labeling error", "packaging error",
	}},
	{TypeQuality, []string{
		"spoilage", "mold", "deterioration", "off odor", "off-odor",
		"quality",
	}},
	{TypeProcessing, []string{
		"underprocess", "under-process", "process deviation",
		"processing deviation", "temperature abuse", "inadequate",
	}},
	{TypeUnauthorized, []string{
		"unapproved", "unauthorized", "not permitted", "without the benefit",
	}},
}

// ClassifyType maps a free-text recall reason to a Type. Matching is
// case-insensitive substring containment; the first rule with any keyword
// hit wins, and text matching nothing is TypeOther.
func ClassifyType(text string) Type {
	t := strings.ToLower(text)
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.typ
			}
		}
	}
	return TypeOther
}

// Allergen is one of the major allergen classes tracked by the FDA.
type Allergen string

const (
	AllergenMilk       Allergen = "milk"
	AllergenEggs       Allergen = "eggs"
	AllergenFish       Allergen = "fish"
	AllergenCrustacean Allergen = "crustacean"
	AllergenTreeNuts   Allergen = "tree nuts"
	AllergenPeanuts    Allergen = "peanuts"
	AllergenWheat      Allergen = "wheat"
	AllergenSoy        Allergen = "soy"
	AllergenSesame     Allergen = "sesame"
	AllergenSulfites   Allergen = "sulfites"
)

var allergenRules = []struct {
	allergen Allergen
	keywords []string
}{
	{AllergenMilk, []string{"milk", "dairy", "whey", "casein", "lactose", "butter", "cheese"}},
	{AllergenEggs, []string{"egg", "albumen", "albumin"}},
	{AllergenFish, []string{"fish", "anchovy", "tuna", "cod", "pollock", "tilapia"}},
	{AllergenCrustacean, []string{"crustacean", "shellfish", "shrimp", "crab", "lobster", "prawn", "crawfish"}},
	{AllergenTreeNuts, []string{"tree nut", "almond", "cashew", "walnut", "pecan", "pistachio", "hazelnut", "macadamia"}},
	{AllergenPeanuts, []string{"peanut"}},
	{AllergenWheat, []string{"wheat", "gluten"}},
	{AllergenSoy, []string{"soy", "soya", "lecithin"}},
	{AllergenSesame, []string{"sesame", "tahini"}},
	{AllergenSulfites, []string{"sulfite", "sulphite", "sulfur dioxide"}},
}

// ClassifyAllergens returns every allergen class with at least one keyword
// hit in the text. Groups are independent (a reason can carry several),
// and the result is sorted so equal inputs render identically.
func ClassifyAllergens(text string) []Allergen {
	t := strings.ToLower(text)
	var out []Allergen
	for _, rule := range allergenRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				out = append(out, rule.allergen)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
