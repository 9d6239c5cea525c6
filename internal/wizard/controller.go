// Package wizard implements the five-step BEST FIT form as an explicit state
// machine. A Controller owns one user's profile and wizard state; it never
// renders and is not safe for concurrent use.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bestfit/internal/logging"
	"bestfit/internal/profile"
	"bestfit/internal/recommend"
)

// GuestName is the display name of a signed-out user.
const GuestName = "Guest"

// Validation messages.
const (
	MsgCompleteFields = "Please complete all fields."
	MsgSelectActivity = "Select at least one activity."
	MsgEmailRequired  = "Please enter an email address."
)

// ErrInvalidTransition is returned when a transition is not allowed from the
// current step.
var ErrInvalidTransition = errors.New("invalid transition")

// ValidationError reports required fields missing on a step.
type ValidationError struct {
	Step    Step
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d: %s", int(e.Step), e.Message)
}

// Recommender fetches recommendations for a completed profile.
type Recommender interface {
	Recommend(ctx context.Context, p *profile.Profile) ([]recommend.Recommendation, error)
}

// State is a snapshot of the wizard's session state.
type State struct {
	Step            Step                       `json:"current_step"`
	Authenticated   bool                       `json:"is_authenticated"`
	DisplayName     string                     `json:"display_name"`
	Recommendations []recommend.Recommendation `json:"recommendation_cache"`
}

// Controller drives one wizard session.
type Controller struct {
	rec     Recommender
	profile *profile.Profile
	state   State
}

// New returns a controller on step 1 with an empty profile.
func New(rec Recommender) *Controller {
	return &Controller{
		rec:     rec,
		profile: profile.New(),
		state:   State{Step: StepBiometrics, DisplayName: GuestName},
	}
}

// Step returns the current step.
func (c *Controller) Step() Step { return c.state.Step }

// Profile returns a copy of the profile.
func (c *Controller) Profile() *profile.Profile { return c.profile.Clone() }

// State returns a copy of the session state.
func (c *Controller) State() State {
	s := c.state
	if c.state.Recommendations != nil {
		s.Recommendations = make([]recommend.Recommendation, len(c.state.Recommendations))
		copy(s.Recommendations, c.state.Recommendations)
	}
	return s
}

// HasRecommendations reports whether a cached result exists.
func (c *Controller) HasRecommendations() bool {
	return c.state.Recommendations != nil
}

// Update applies fn to a copy of the profile and commits it if fn succeeds.
// A committed edit discards cached recommendations; on the results step it
// also returns to the deep dive, which is the only step that can fetch.
func (c *Controller) Update(fn func(*profile.Profile) error) error {
	next := c.profile.Clone()
	if err := fn(next); err != nil {
		return err
	}
	c.profile = next
	if c.state.Recommendations != nil {
		logging.WizardDebug("profile edited, dropping cached recommendations")
		c.state.Recommendations = nil
	}
	if c.state.Step == StepResults {
		c.state.Step = StepDeepDive
		logging.Wizard("profile edited on %s, back to %s", StepResults, StepDeepDive)
	}
	return nil
}

// Validate checks the required fields of the current step.
func (c *Controller) Validate() error {
	return validateStep(c.state.Step, c.profile)
}

func validateStep(s Step, p *profile.Profile) error {
	switch s {
	case StepBiometrics:
		if p.AgeRange == "" || p.WeightRange == "" {
			return &ValidationError{Step: s, Message: MsgCompleteFields}
		}
	case StepActivities, StepDeepDive:
		if len(p.Activities) == 0 {
			return &ValidationError{Step: s, Message: MsgSelectActivity}
		}
	}
	return nil
}

// Advance moves to the next step. Leaving step 4 fetches recommendations
// unless a cached result exists; if the fetch fails the step and cache are
// left unchanged and the recommender's error is returned.
func (c *Controller) Advance(ctx context.Context) error {
	from := c.state.Step
	if from >= StepResults {
		return ErrInvalidTransition
	}
	if err := c.Validate(); err != nil {
		logging.WizardDebug("advance blocked on %s: %v", from, err)
		return err
	}

	if from == StepDeepDive && c.state.Recommendations == nil {
		recs, err := c.FetchRecommendations(ctx)
		if err != nil {
			return err
		}
		return c.Deliver(recs)
	}

	c.state.Step = from + 1
	logging.Wizard("advance %s -> %s", from, c.state.Step)
	return nil
}

// NeedsFetch reports whether advancing from the current step would call the
// recommender.
func (c *Controller) NeedsFetch() bool {
	return c.state.Step == StepDeepDive && c.state.Recommendations == nil && c.Validate() == nil
}

// FetchRecommendations asks the recommender for results for the current
// profile. It does not change any state.
func (c *Controller) FetchRecommendations(ctx context.Context) ([]recommend.Recommendation, error) {
	if c.rec == nil {
		return nil, &recommend.BoundaryError{Err: errors.New("no recommender configured")}
	}
	logging.Wizard("fetching recommendations for %d activities", len(c.profile.Activities))
	recs, err := c.rec.Recommend(ctx, c.profile.Clone())
	if err != nil {
		logging.Get(logging.CategoryWizard).Warn("fetch failed: %v", err)
		return nil, err
	}
	return recs, nil
}

// Deliver caches recs and enters the results step. It is valid only from
// step 4 with no cached result.
func (c *Controller) Deliver(recs []recommend.Recommendation) error {
	if c.state.Step != StepDeepDive || c.state.Recommendations != nil {
		return ErrInvalidTransition
	}
	cached := make([]recommend.Recommendation, len(recs))
	copy(cached, recs)
	c.state.Recommendations = cached
	c.state.Step = StepResults
	logging.Wizard("advance %s -> %s with %d recommendations", StepDeepDive, StepResults, len(recs))
	return nil
}

// Retreat moves back one step.
func (c *Controller) Retreat() error {
	if c.state.Step <= StepBiometrics {
		return ErrInvalidTransition
	}
	c.state.Step--
	logging.Wizard("retreat to %s", c.state.Step)
	return nil
}

// Restart returns to step 1 and drops cached recommendations. The profile is
// kept.
func (c *Controller) Restart() {
	c.state.Step = StepBiometrics
	c.state.Recommendations = nil
	logging.Wizard("restart")
}

// Reset restarts and clears the profile.
func (c *Controller) Reset() {
	c.Restart()
	c.profile.Reset()
}

// Login signs the user in (demo mode). The display name is the part of the
// email before the @.
func (c *Controller) Login(email string) error {
	email = strings.TrimSpace(email)
	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		return &ValidationError{Step: c.state.Step, Message: MsgEmailRequired}
	}
	c.state.Authenticated = true
	c.state.DisplayName = name
	logging.Wizard("login as %s", name)
	return nil
}

// Logout signs the user out and clears the session.
func (c *Controller) Logout() {
	c.state.Authenticated = false
	c.state.DisplayName = GuestName
	c.Reset()
}
