package positionparser

import "fmt"

// Category identifies one of the nine issue fields a stance can be
// filed under. The zero-ish Uncategorized sentinel blocks commit until
// the operator resolves it.
type Category string

const (
	Uncategorized                     Category = "uncategorized"
	CategoryEconomicPolicy            Category = "economic-policy"
	CategoryBusinessLabor             Category = "business-labor"
	CategoryHealthCare                Category = "health-care"
	CategoryEducation                 Category = "education"
	CategoryEnvironment               Category = "environment"
	CategoryCivilRights               Category = "civil-rights"
	CategoryVotingRights              Category = "voting-rights"
	CategoryImmigrationForeignAffairs Category = "immigration-foreign-affairs"
	CategoryPublicSafety              Category = "public-safety"
)

// Categories lists every assignable category in display order.
// Uncategorized is deliberately absent.
var Categories = []Category{
	CategoryEconomicPolicy,
	CategoryBusinessLabor,
	CategoryHealthCare,
	CategoryEducation,
	CategoryEnvironment,
	CategoryCivilRights,
	CategoryVotingRights,
	CategoryImmigrationForeignAffairs,
	CategoryPublicSafety,
}

var categoryFields = map[Category]string{
	CategoryEconomicPolicy:            "economicPolicy",
	CategoryBusinessLabor:             "businessLabor",
	CategoryHealthCare:                "healthCare",
	CategoryEducation:                 "education",
	CategoryEnvironment:               "environment",
	CategoryCivilRights:               "civilRights",
	CategoryVotingRights:              "votingRights",
	CategoryImmigrationForeignAffairs: "immigrationForeignAffairs",
	CategoryPublicSafety:              "publicSafety",
}

var categoryLabels = map[Category]string{
	CategoryEconomicPolicy:            "Economic Policy",
	CategoryBusinessLabor:             "Business & Labor",
	CategoryHealthCare:                "Health Care",
	CategoryEducation:                 "Education",
	CategoryEnvironment:               "Environment",
	CategoryCivilRights:               "Civil Rights",
	CategoryVotingRights:              "Voting Rights",
	CategoryImmigrationForeignAffairs: "Immigration & Foreign Affairs",
	CategoryPublicSafety:              "Public Safety",
}

var labelCategories = func() map[string]Category {
	out := map[string]Category{}
	for category, label := range categoryLabels {
		out[label] = category
	}
	return out
}()

// Field returns the record field this category's stances are stored
// under. Total over the assignable categories.
func (c Category) Field() string {
	return categoryFields[c]
}

// Label returns the category's display name.
func (c Category) Label() string {
	if c == Uncategorized {
		return "Uncategorized"
	}
	return categoryLabels[c]
}

func (c Category) Valid() bool {
	_, ok := categoryFields[c]
	return ok
}

// CategoryFromLabel resolves a backend-reported category label, e.g.
// "Health Care". The backend's label set is not under our control, so
// unknown labels map to Uncategorized rather than failing the stream.
func CategoryFromLabel(label string) Category {
	if category, ok := labelCategories[label]; ok {
		return category
	}
	return Uncategorized
}

// ParseCategory resolves operator input: either the key form
// ("health-care") or "uncategorized".
func ParseCategory(input string) (Category, error) {
	c := Category(input)
	if c == Uncategorized || c.Valid() {
		return c, nil
	}
	return Uncategorized, fmt.Errorf("unknown category: %q", input)
}
