package prompt

import "bestfit/internal/profile"

// Rule is a conditional instruction appended to the wizard's system prompt
// when its predicate holds for the profile being compiled.
type Rule struct {
	ID      string
	Applies func(*profile.Profile) bool
	Text    string
}

// OverpronationConstraint is the mandatory instruction for users who report
// overpronation or collapsed arches.
const OverpronationConstraint = "CRITICAL: User has Overpronation/Collapsed Arches. " +
	"You MUST recommend shoes with 'Motion Control', 'GuideRails', or strong medial posts. " +
	"Do NOT recommend neutral shoes."

// DefaultRules is the rule set used by CompileWizard.
var DefaultRules = []Rule{
	{
		ID: "overpronation",
		Applies: func(p *profile.Profile) bool {
			return p.Injury == profile.InjuryOverpronation
		},
		Text: OverpronationConstraint,
	},
}

// ActiveRules returns the rules from set that apply to p, in order.
func ActiveRules(set []Rule, p *profile.Profile) []Rule {
	var out []Rule
	for _, r := range set {
		if r.Applies(p) {
			out = append(out, r)
		}
	}
	return out
}
