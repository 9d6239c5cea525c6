// Package profile holds the data a user supplies to the BEST FIT wizard and
// session flows, along with the closed option sets each wizard field accepts.
package profile

import "fmt"

// SelectPlaceholder is the label forms show for an unset single-select field.
const SelectPlaceholder = "--- Select ---"

// Option sets for the biometrics step.
var (
	AgeRanges = []string{"Under 18", "18-24", "25-34", "35-44", "45-54", "55-64", "65+"}

	Sexes = []string{"Man", "Woman", "Non-Binary"}

	WeightRanges = []string{
		"Under 100lbs (<45kg)",
		"100-120lbs (45-54kg)",
		"120-140lbs (54-63kg)",
		"140-160lbs (63-72kg)",
		"160-180lbs (72-81kg)",
		"180-200lbs (81-90kg)",
		"200-220lbs (90-100kg)",
		"Over 220lbs (>100kg)",
	}

	HeightRanges = []string{
		`Under 4'9"`,
		`4'9" - 5'0"`,
		`5'0" - 5'3"`,
		`5'3" - 5'6"`,
		`5'6" - 5'9"`,
		`5'9" - 6'0"`,
		`6'0" - 6'3"`,
		`Over 6'3"`,
	}
)

// Option sets for the foot details step.
var (
	ShoeSizes = buildShoeSizes()

	FootWidths = []string{"Standard", "Wide", "Narrow"}

	ArchTypes = []string{"Don't know", "Neutral", "High", "Flat"}

	Injuries = []string{
		InjuryNone,
		InjuryOverpronation,
		"Knee Pain (Runner's Knee)",
		"Shin Splints",
		"Plantar Fasciitis",
		"Achilles Tendonitis",
	}
)

// Injury values referenced by prompt rules.
const (
	InjuryNone          = "None"
	InjuryOverpronation = "Overpronation / Collapsed Arches"
)

// Activity is one sport or pursuit the user selects on step 3.
type Activity string

const (
	ActivityRunning    Activity = "Running"
	ActivityWalking    Activity = "Walking"
	ActivityHiking     Activity = "Hiking"
	ActivityBasketball Activity = "Basketball"
	ActivitySoccer     Activity = "Soccer"
	ActivityTennis     Activity = "Tennis"
	ActivityPickleball Activity = "Pickleball"
	ActivityGym        Activity = "Gym/Training"
)

// Activities lists every selectable activity in display order.
var Activities = []Activity{
	ActivityRunning,
	ActivityWalking,
	ActivityHiking,
	ActivityBasketball,
	ActivitySoccer,
	ActivityTennis,
	ActivityPickleball,
	ActivityGym,
}

// Option sets for the deep dive step.
var (
	Frequencies = []string{"Weekly", "Daily", "Pro"}

	ExperienceLevels = []string{"Beginner", "Intermediate", "Advanced"}

	Priorities = []string{"Comfort", "Price", "Durability", "Style", "Brand"}
)

// SessionActivities are the suggestions printed before the session flow's
// activity prompt. Answers are free text and not checked against this list.
var SessionActivities = []string{
	"Hiking", "Running", "Trail Running", "Walking", "Backpacking",
	"Soccer", "Basketball", "Football", "Tennis", "Pickleball",
	"Baseball", "Skateboarding", "Skiing", "Snowboarding", "Training",
}

// buildShoeSizes renders US 5.0 through 14.5 in half sizes with the EU size
// alongside.
func buildShoeSizes() []string {
	sizes := make([]string, 0, 20)
	for i := 10; i < 30; i++ {
		us := float64(i) / 2
		sizes = append(sizes, fmt.Sprintf("US %.1f  |  EU %d", us, int(us+33)))
	}
	return sizes
}

// OptionSet is the serializable view of every enumeration, served to forms.
type OptionSet struct {
	AgeRanges        []string `json:"age_ranges"`
	Sexes            []string `json:"sexes"`
	WeightRanges     []string `json:"weight_ranges"`
	HeightRanges     []string `json:"height_ranges"`
	ShoeSizes        []string `json:"shoe_sizes"`
	FootWidths       []string `json:"foot_widths"`
	ArchTypes        []string `json:"arch_types"`
	Injuries         []string `json:"injuries"`
	Activities       []string `json:"activities"`
	Frequencies      []string `json:"frequencies"`
	ExperienceLevels []string `json:"experience_levels"`
	Priorities       []string `json:"priorities"`
}

// Options returns a copy of every option set.
func Options() OptionSet {
	acts := make([]string, len(Activities))
	for i, a := range Activities {
		acts[i] = string(a)
	}
	return OptionSet{
		AgeRanges:        append([]string(nil), AgeRanges...),
		Sexes:            append([]string(nil), Sexes...),
		WeightRanges:     append([]string(nil), WeightRanges...),
		HeightRanges:     append([]string(nil), HeightRanges...),
		ShoeSizes:        append([]string(nil), ShoeSizes...),
		FootWidths:       append([]string(nil), FootWidths...),
		ArchTypes:        append([]string(nil), ArchTypes...),
		Injuries:         append([]string(nil), Injuries...),
		Activities:       acts,
		Frequencies:      append([]string(nil), Frequencies...),
		ExperienceLevels: append([]string(nil), ExperienceLevels...),
		Priorities:       append([]string(nil), Priorities...),
	}
}

// IsActivity reports whether name is a selectable activity.
func IsActivity(name string) bool {
	for _, a := range Activities {
		if string(a) == name {
			return true
		}
	}
	return false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
