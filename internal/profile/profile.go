package profile

import "fmt"

// FieldError is returned by a setter when a value is not one of the field's
// allowed options. The profile is left unchanged.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Field)
}

// ActivityDetail captures how often and how seriously the user does one activity.
type ActivityDetail struct {
	Frequency  string `json:"frequency,omitempty"`
	Experience string `json:"experience,omitempty"`
}

// Profile is the record accumulated across the wizard steps. Every scalar
// field is either empty (unset) or one of its option set's values.
type Profile struct {
	AgeRange    string `json:"age_range"`
	Sex         string `json:"sex"`
	WeightRange string `json:"weight_range"`
	HeightRange string `json:"height_range"`

	ShoeSize  string `json:"shoe_size"`
	FootWidth string `json:"foot_width"`
	ArchType  string `json:"arch_type"`
	Injury    string `json:"injury"`

	Activities      []Activity                  `json:"selected_activities"`
	ActivityDetails map[Activity]ActivityDetail `json:"activity_details"`
	Priorities      []string                    `json:"priorities"`
}

// New returns an empty profile.
func New() *Profile {
	return &Profile{ActivityDetails: make(map[Activity]ActivityDetail)}
}

func setEnum(dst *string, field string, set []string, v string) error {
	if v != "" && !contains(set, v) {
		return &FieldError{Field: field, Value: v}
	}
	*dst = v
	return nil
}

// SetAgeRange sets the age bracket. An empty value clears it.
func (p *Profile) SetAgeRange(v string) error { return setEnum(&p.AgeRange, "age_range", AgeRanges, v) }

// SetSex sets the sex. An empty value clears it.
func (p *Profile) SetSex(v string) error { return setEnum(&p.Sex, "sex", Sexes, v) }

// SetWeightRange sets the weight bracket. An empty value clears it.
func (p *Profile) SetWeightRange(v string) error {
	return setEnum(&p.WeightRange, "weight_range", WeightRanges, v)
}

// SetHeightRange sets the height bracket. An empty value clears it.
func (p *Profile) SetHeightRange(v string) error {
	return setEnum(&p.HeightRange, "height_range", HeightRanges, v)
}

// SetShoeSize sets the shoe size label. An empty value clears it.
func (p *Profile) SetShoeSize(v string) error { return setEnum(&p.ShoeSize, "shoe_size", ShoeSizes, v) }

// SetFootWidth sets the foot width. An empty value clears it.
func (p *Profile) SetFootWidth(v string) error {
	return setEnum(&p.FootWidth, "foot_width", FootWidths, v)
}

// SetArchType sets the arch type. An empty value clears it.
func (p *Profile) SetArchType(v string) error { return setEnum(&p.ArchType, "arch_type", ArchTypes, v) }

// SetInjury sets the injury history. An empty value clears it.
func (p *Profile) SetInjury(v string) error { return setEnum(&p.Injury, "injury", Injuries, v) }

// SetActivities replaces the selected activities. Duplicates are dropped
// keeping first occurrence, and details for deselected activities are pruned.
func (p *Profile) SetActivities(acts []Activity) error {
	seen := make(map[Activity]bool, len(acts))
	next := make([]Activity, 0, len(acts))
	for _, a := range acts {
		if !IsActivity(string(a)) {
			return &FieldError{Field: "selected_activities", Value: string(a)}
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		next = append(next, a)
	}

	p.Activities = next
	for a := range p.ActivityDetails {
		if !seen[a] {
			delete(p.ActivityDetails, a)
		}
	}
	return nil
}

// SetActivityDetail records frequency and experience for a selected activity.
func (p *Profile) SetActivityDetail(a Activity, d ActivityDetail) error {
	if !p.HasActivity(a) {
		return &FieldError{Field: "activity_details", Value: string(a)}
	}
	if d.Frequency != "" && !contains(Frequencies, d.Frequency) {
		return &FieldError{Field: "frequency", Value: d.Frequency}
	}
	if d.Experience != "" && !contains(ExperienceLevels, d.Experience) {
		return &FieldError{Field: "experience", Value: d.Experience}
	}
	if p.ActivityDetails == nil {
		p.ActivityDetails = make(map[Activity]ActivityDetail)
	}
	p.ActivityDetails[a] = d
	return nil
}

// SetPriorities replaces the priority tags, keeping order and dropping duplicates.
func (p *Profile) SetPriorities(tags []string) error {
	seen := make(map[string]bool, len(tags))
	next := make([]string, 0, len(tags))
	for _, t := range tags {
		if !contains(Priorities, t) {
			return &FieldError{Field: "priorities", Value: t}
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		next = append(next, t)
	}
	p.Priorities = next
	return nil
}

// HasActivity reports whether a is currently selected.
func (p *Profile) HasActivity(a Activity) bool {
	for _, s := range p.Activities {
		if s == a {
			return true
		}
	}
	return false
}

// Detail returns the recorded detail for a, or the zero value.
func (p *Profile) Detail(a Activity) ActivityDetail {
	return p.ActivityDetails[a]
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Activities = append([]Activity(nil), p.Activities...)
	c.Priorities = append([]string(nil), p.Priorities...)
	c.ActivityDetails = make(map[Activity]ActivityDetail, len(p.ActivityDetails))
	for k, v := range p.ActivityDetails {
		c.ActivityDetails[k] = v
	}
	return &c
}

// Reset clears every field back to unset.
func (p *Profile) Reset() {
	*p = Profile{ActivityDetails: make(map[Activity]ActivityDetail)}
}
