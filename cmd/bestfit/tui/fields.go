package tui

import (
	"bestfit/internal/profile"
	"bestfit/internal/wizard"
)

type fieldKind int

const (
	kindSelect fieldKind = iota
	kindMulti
)

// field is one form control bound to a profile attribute.
type field struct {
	key     string
	label   string
	kind    fieldKind
	options []string
	get     func(*profile.Profile) []string
	set     func(*profile.Profile, []string) error
}

func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

func selectField(key, label string, options []string, get func(*profile.Profile) string, set func(*profile.Profile, string) error) field {
	return field{
		key:     key,
		label:   label,
		kind:    kindSelect,
		options: options,
		get:     func(p *profile.Profile) []string { return single(get(p)) },
		set:     func(p *profile.Profile, vs []string) error { return set(p, first(vs)) },
	}
}

func activityNames() []string {
	out := make([]string, len(profile.Activities))
	for i, a := range profile.Activities {
		out[i] = string(a)
	}
	return out
}

// fieldsFor returns the controls shown on step s. Deep dive controls depend
// on the selected activities.
func fieldsFor(s wizard.Step, p *profile.Profile) []field {
	switch s {
	case wizard.StepBiometrics:
		return []field{
			selectField("age", "Age", profile.AgeRanges,
				func(p *profile.Profile) string { return p.AgeRange }, (*profile.Profile).SetAgeRange),
			selectField("sex", "Sex", profile.Sexes,
				func(p *profile.Profile) string { return p.Sex }, (*profile.Profile).SetSex),
			selectField("weight", "Weight", profile.WeightRanges,
				func(p *profile.Profile) string { return p.WeightRange }, (*profile.Profile).SetWeightRange),
			selectField("height", "Height", profile.HeightRanges,
				func(p *profile.Profile) string { return p.HeightRange }, (*profile.Profile).SetHeightRange),
		}

	case wizard.StepFootDetails:
		return []field{
			selectField("shoe", "Shoe Size", profile.ShoeSizes,
				func(p *profile.Profile) string { return p.ShoeSize }, (*profile.Profile).SetShoeSize),
			selectField("width", "Width", profile.FootWidths,
				func(p *profile.Profile) string { return p.FootWidth }, (*profile.Profile).SetFootWidth),
			selectField("arch", "Arch Type", profile.ArchTypes,
				func(p *profile.Profile) string { return p.ArchType }, (*profile.Profile).SetArchType),
			selectField("injury", "Injury", profile.Injuries,
				func(p *profile.Profile) string { return p.Injury }, (*profile.Profile).SetInjury),
		}

	case wizard.StepActivities:
		return []field{{
			key:     "activities",
			label:   "Activities",
			kind:    kindMulti,
			options: activityNames(),
			get: func(p *profile.Profile) []string {
				out := make([]string, len(p.Activities))
				for i, a := range p.Activities {
					out[i] = string(a)
				}
				return out
			},
			set: func(p *profile.Profile, vs []string) error {
				acts := make([]profile.Activity, len(vs))
				for i, v := range vs {
					acts[i] = profile.Activity(v)
				}
				return p.SetActivities(acts)
			},
		}}

	case wizard.StepDeepDive:
		var out []field
		for _, a := range p.Activities {
			a := a
			out = append(out,
				selectField("freq:"+string(a), string(a)+" Freq", profile.Frequencies,
					func(p *profile.Profile) string { return p.Detail(a).Frequency },
					func(p *profile.Profile, v string) error {
						d := p.Detail(a)
						d.Frequency = v
						return p.SetActivityDetail(a, d)
					}),
				selectField("exp:"+string(a), string(a)+" Level", profile.ExperienceLevels,
					func(p *profile.Profile) string { return p.Detail(a).Experience },
					func(p *profile.Profile, v string) error {
						d := p.Detail(a)
						d.Experience = v
						return p.SetActivityDetail(a, d)
					}),
			)
		}
		out = append(out, field{
			key:     "priorities",
			label:   "Priorities",
			kind:    kindMulti,
			options: profile.Priorities,
			get:     func(p *profile.Profile) []string { return append([]string(nil), p.Priorities...) },
			set:     (*profile.Profile).SetPriorities,
		})
		return out
	}
	return nil
}

// cycle moves a single-select value by delta through the options, with the
// unset placeholder between the last and first option.
func cycle(options []string, current string, delta int) string {
	idx := 0 // 0 is unset
	for i, o := range options {
		if o == current {
			idx = i + 1
			break
		}
	}
	n := len(options) + 1
	idx = ((idx+delta)%n + n) % n
	if idx == 0 {
		return ""
	}
	return options[idx-1]
}

// toggle appends v to vs, or removes it if present. Picks keep the order
// they were made in. Values outside options are ignored.
func toggle(options, vs []string, v string) []string {
	known := false
	for _, o := range options {
		if o == v {
			known = true
			break
		}
	}

	out := make([]string, 0, len(vs)+1)
	removed := false
	for _, s := range vs {
		if s == v {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if !removed && known {
		out = append(out, v)
	}
	return out
}
