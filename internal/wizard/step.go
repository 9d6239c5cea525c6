package wizard

import "fmt"

// Step is one stage of the wizard.
type Step int

const (
	StepBiometrics Step = iota + 1
	StepFootDetails
	StepActivities
	StepDeepDive
	StepResults
)

// StepCount is the number of wizard steps.
const StepCount = int(StepResults)

func (s Step) String() string {
	switch s {
	case StepBiometrics:
		return "BIOMETRICS"
	case StepFootDetails:
		return "FOOT_DETAILS"
	case StepActivities:
		return "ACTIVITIES"
	case StepDeepDive:
		return "DEEP_DIVE"
	case StepResults:
		return "RESULTS"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Title is the heading shown above the step's form.
func (s Step) Title() string {
	switch s {
	case StepBiometrics:
		return "Find Your Perfect Gear"
	case StepFootDetails:
		return "Foot Details"
	case StepActivities:
		return "Your Activities"
	case StepDeepDive:
		return "Deep Dive"
	case StepResults:
		return "Your Recommendations"
	default:
		return ""
	}
}

// Valid reports whether s is one of the five wizard steps.
func (s Step) Valid() bool {
	return s >= StepBiometrics && s <= StepResults
}
