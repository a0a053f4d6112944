package domain

import "slices"

// Taxonomy holds the closed enumerations the classifier output is coerced
// into. The last member of each list is the fallback for out-of-set values.
type Taxonomy struct {
	MainCategories []string `yaml:"main_categories"`
	Industries     []string `yaml:"industries"`
}

const (
	FallbackCategory = "Nondescript"
	FallbackIndustry = "Other"
)

// DefaultTaxonomy returns the built-in enumerations.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		MainCategories: []string{"Retail", "Institutional", "Nondescript"},
		Industries: []string{
			"Banking", "Insurance", "Asset Management", "Hedge Funds", "Pension Funds",
			"Energy", "Technology", "Healthcare", "Industrials", "Consumer", "Real Estate",
			"Telecom", "Utilities", "Other",
		},
	}
}

func (t Taxonomy) categoryFallback() string {
	if slices.Contains(t.MainCategories, FallbackCategory) || len(t.MainCategories) == 0 {
		return FallbackCategory
	}
	return t.MainCategories[len(t.MainCategories)-1]
}

func (t Taxonomy) industryFallback() string {
	if slices.Contains(t.Industries, FallbackIndustry) || len(t.Industries) == 0 {
		return FallbackIndustry
	}
	return t.Industries[len(t.Industries)-1]
}

// CoerceCategory maps a raw audience label onto the closed category set.
func (t Taxonomy) CoerceCategory(audience string) string {
	if slices.Contains(t.MainCategories, audience) {
		return audience
	}
	return t.categoryFallback()
}

// CoerceIndustry maps a raw industry label onto the closed industry set.
func (t Taxonomy) CoerceIndustry(industry string) string {
	if slices.Contains(t.Industries, industry) {
		return industry
	}
	return t.industryFallback()
}

// Coerce applies the closed-set rules to a classification in place.
func (t Taxonomy) Coerce(cls *Classification) {
	cls.MainCategory = t.CoerceCategory(cls.Audience)
	cls.Industry = t.CoerceIndustry(cls.Industry)
}
