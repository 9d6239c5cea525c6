// Package prompt turns a collected profile into the system instruction and
// user message sent to the completion API. Compilation is pure and
// deterministic.
package prompt

import (
	"fmt"
	"strings"

	"bestfit/internal/profile"
)

const (
	// WizardProductCount is how many products the wizard asks for.
	WizardProductCount = 6
	// SessionTierCount is how many price tiers the session flow asks for.
	SessionTierCount = 3

	notSpecified = "Not specified"
)

// Compiled is the two-part prompt for one completion request.
type Compiled struct {
	System string
	User   string
}

// WizardSystemPrompt is the base instruction for the wizard flow.
var WizardSystemPrompt = fmt.Sprintf("You are BEST FIT. Recommend exactly %d REAL, EXISTING products (Shoes/Boots). "+
	"Return valid JSON only. Format: { \"products\": [ { \"brand\": \"...\", \"model\": \"...\", "+
	"\"price\": \"...\", \"short_desc\": \"...\", \"long_desc\": \"...\" } ] }", WizardProductCount)

// SessionSystemPrompt is the instruction for the session flow.
var SessionSystemPrompt = fmt.Sprintf("You are 'BEST FIT', an expert gear consultant AI. "+
	"Your goal is to recommend footwear/gear based on user biometrics and specific needs. "+
	"You must provide exactly %d recommendations categorized by price: "+
	"1. High End / Premium "+
	"2. Moderate / Best Value "+
	"3. Low / Budget Friendly "+
	"For each item, explain WHY it fits their specific foot shape, injury history, and terrain.", SessionTierCount)

// CompileWizard builds the wizard prompt using DefaultRules.
func CompileWizard(p *profile.Profile) Compiled {
	return CompileWizardWithRules(p, DefaultRules)
}

// CompileWizardWithRules builds the wizard prompt, appending every applicable
// rule's text to the system instruction.
func CompileWizardWithRules(p *profile.Profile, rules []Rule) Compiled {
	var sys strings.Builder
	sys.WriteString(WizardSystemPrompt)
	for _, r := range ActiveRules(rules, p) {
		sys.WriteString("\n")
		sys.WriteString(r.Text)
	}

	var user strings.Builder
	fmt.Fprintf(&user, "User Profile: Age %s, Weight %s, Sex %s.\n",
		orUnset(p.AgeRange), orUnset(p.WeightRange), orUnset(p.Sex))
	if p.HeightRange != "" {
		fmt.Fprintf(&user, "Height: %s.\n", p.HeightRange)
	}
	if foot := footwearLine(p); foot != "" {
		fmt.Fprintf(&user, "Footwear: %s.\n", foot)
	}
	fmt.Fprintf(&user, "Injury History: %s.\n", orUnset(p.Injury))
	fmt.Fprintf(&user, "Activity List: %s.\n", activityList(p.Activities))
	for _, a := range p.Activities {
		d := p.Detail(a)
		if d.Frequency == "" && d.Experience == "" {
			continue
		}
		fmt.Fprintf(&user, "- %s: Frequency %s, Experience %s.\n", a, orUnset(d.Frequency), orUnset(d.Experience))
	}
	if len(p.Priorities) > 0 {
		fmt.Fprintf(&user, "Priorities: %s.\n", strings.Join(p.Priorities, ", "))
	}

	return Compiled{System: sys.String(), User: strings.TrimRight(user.String(), "\n")}
}

// CompileSession builds the session prompt. Every answer is interpolated as given.
func CompileSession(s profile.Session) Compiled {
	user := fmt.Sprintf(`User Profile:
- Age/Sex: %s, %s
- Size: %s (%s), Arch: %s
- Weight/Height: %s, %s
- Injury History: %s
- Activity: %s (%s)
- Terrain/Conditions: %s, Waterproof: %s
- Experience: %s
- Top Priority: %s

Please provide the %d recommendations now.`,
		s.Age, s.Sex,
		s.ShoeSize, s.FootShape, s.Arch,
		s.Weight, s.Height,
		s.Injury,
		s.Activity, s.Frequency,
		s.Terrain, s.Waterproof,
		s.Experience,
		s.Priority,
		SessionTierCount)

	return Compiled{System: SessionSystemPrompt, User: user}
}

func footwearLine(p *profile.Profile) string {
	var parts []string
	if p.ShoeSize != "" {
		parts = append(parts, "Size "+p.ShoeSize)
	}
	if p.FootWidth != "" {
		parts = append(parts, "Width "+p.FootWidth)
	}
	if p.ArchType != "" {
		parts = append(parts, "Arch "+p.ArchType)
	}
	return strings.Join(parts, ", ")
}

// activityList renders activities as a bracketed, quoted list: ['Running', 'Hiking'].
func activityList(acts []profile.Activity) string {
	quoted := make([]string, len(acts))
	for i, a := range acts {
		quoted[i] = "'" + string(a) + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func orUnset(v string) string {
	if v == "" {
		return notSpecified
	}
	return v
}
