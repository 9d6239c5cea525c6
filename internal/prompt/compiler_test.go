package prompt

import (
	"strings"
	"testing"

	"bestfit/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runnerProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p := profile.New()
	require.NoError(t, p.SetAgeRange("25-34"))
	require.NoError(t, p.SetWeightRange("140-160lbs (63-72kg)"))
	require.NoError(t, p.SetSex("Woman"))
	require.NoError(t, p.SetInjury("None"))
	require.NoError(t, p.SetActivities([]profile.Activity{profile.ActivityRunning}))
	return p
}

func TestCompileWizard_EndToEnd(t *testing.T) {
	c := CompileWizard(runnerProfile(t))

	for _, want := range []string{"25-34", "140-160lbs", "Woman", "None", "['Running']"} {
		assert.Contains(t, c.User, want)
	}
	assert.Contains(t, c.System, "exactly 6")
	assert.Contains(t, c.System, `"products"`)
	assert.NotContains(t, c.System, "Motion Control")
}

func TestCompileWizard_Deterministic(t *testing.T) {
	p := runnerProfile(t)
	assert.Equal(t, CompileWizard(p), CompileWizard(p.Clone()))
}

func TestCompileWizard_OverpronationRule(t *testing.T) {
	for _, injury := range profile.Injuries {
		t.Run(injury, func(t *testing.T) {
			p := runnerProfile(t)
			require.NoError(t, p.SetInjury(injury))

			c := CompileWizard(p)
			if injury == profile.InjuryOverpronation {
				assert.Contains(t, c.System, OverpronationConstraint)
				assert.Contains(t, c.System, "Do NOT recommend neutral shoes")
				assert.NotContains(t, c.User, "CRITICAL")
			} else {
				assert.NotContains(t, c.System, OverpronationConstraint)
			}
		})
	}
}

func TestCompileWizard_UnsetAndOptionalFields(t *testing.T) {
	p := profile.New()
	c := CompileWizard(p)
	assert.Contains(t, c.User, "Age Not specified")
	assert.Contains(t, c.User, "Activity List: [].")
	assert.NotContains(t, c.User, "Height")
	assert.NotContains(t, c.User, "Priorities")

	require.NoError(t, p.SetHeightRange(`5'6" - 5'9"`))
	require.NoError(t, p.SetArchType("Flat"))
	require.NoError(t, p.SetActivities([]profile.Activity{profile.ActivityHiking, profile.ActivityTennis}))
	require.NoError(t, p.SetActivityDetail(profile.ActivityTennis, profile.ActivityDetail{Frequency: "Daily", Experience: "Advanced"}))
	require.NoError(t, p.SetPriorities([]string{"Comfort", "Price"}))

	c = CompileWizard(p)
	assert.Contains(t, c.User, `Height: 5'6" - 5'9".`)
	assert.Contains(t, c.User, "Footwear: Arch Flat.")
	assert.Contains(t, c.User, "['Hiking', 'Tennis']")
	assert.Contains(t, c.User, "- Tennis: Frequency Daily, Experience Advanced.")
	assert.NotContains(t, c.User, "- Hiking:")
	assert.Contains(t, c.User, "Priorities: Comfort, Price.")
}

func TestCompileWizardWithRules_Custom(t *testing.T) {
	rules := []Rule{{
		ID:      "hikers",
		Applies: func(p *profile.Profile) bool { return p.HasActivity(profile.ActivityHiking) },
		Text:    "Prefer boots with ankle support.",
	}}
	p := runnerProfile(t)
	assert.NotContains(t, CompileWizardWithRules(p, rules).System, "ankle")

	require.NoError(t, p.SetActivities([]profile.Activity{profile.ActivityHiking}))
	assert.True(t, strings.HasSuffix(CompileWizardWithRules(p, rules).System, "Prefer boots with ankle support."))
}

func TestCompileSession(t *testing.T) {
	s := profile.Session{
		Age: "34", Sex: "Man", Weight: "180", Height: "6'0\"",
		ShoeSize: "11", FootShape: "Wide", Arch: "Flat", Injury: "Knees",
		Activity: "Trail Running", Frequency: "3x a week", Experience: "Expert",
		Terrain: "Rocky", Waterproof: "Yes", Priority: "Durability",
	}
	c := CompileSession(s)

	assert.Contains(t, c.System, "exactly 3 recommendations")
	assert.Contains(t, c.System, "High End / Premium")
	assert.Contains(t, c.System, "Low / Budget Friendly")
	assert.Contains(t, c.User, "- Age/Sex: 34, Man")
	assert.Contains(t, c.User, "- Size: 11 (Wide), Arch: Flat")
	assert.Contains(t, c.User, "- Activity: Trail Running (3x a week)")
	assert.Contains(t, c.User, "- Terrain/Conditions: Rocky, Waterproof: Yes")
	assert.Contains(t, c.User, "- Top Priority: Durability")
	assert.True(t, strings.HasSuffix(c.User, "Please provide the 3 recommendations now."))
}
