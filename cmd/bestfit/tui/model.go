// Package tui is the interactive terminal front end of the BEST FIT wizard.
// It renders the controller's current step and turns key presses into
// profile edits and step transitions.
package tui

import (
	"context"
	"errors"
	"strings"

	"bestfit/cmd/bestfit/ui"
	"bestfit/internal/logging"
	"bestfit/internal/profile"
	"bestfit/internal/recommend"
	"bestfit/internal/wizard"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// LoadingText is shown next to the spinner while recommendations are fetched.
const LoadingText = "Analyzing biomechanics & inventory..."

// recommendationsMsg carries a successful fetch back to the update loop.
type recommendationsMsg struct {
	recs []recommend.Recommendation
}

// errorMsg carries a failed fetch back to the update loop.
type errorMsg struct {
	err error
}

// Model is the Bubble Tea model for the wizard.
type Model struct {
	ctx    context.Context
	ctl    *wizard.Controller
	styles ui.Styles

	focus   int
	cursors map[string]int
	err     string
	notice  string
	loading bool

	// results
	selected  int
	searching bool
	search    textinput.Model

	// demo sign-in
	loggingIn bool
	login     textinput.Model

	spinner  spinner.Model
	progress progress.Model
	renderer *glamour.TermRenderer

	width  int
	height int
}

// New creates the model around ctl.
func New(ctx context.Context, ctl *wizard.Controller, styles ui.Styles) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	search := textinput.New()
	search.Placeholder = "e.g., 'Cheapest' or 'Waterproof'"
	search.CharLimit = 64

	login := textinput.New()
	login.Placeholder = "you@example.com"
	login.CharLimit = 128

	prog := progress.New(progress.WithSolidFill(string(styles.Theme.Accent)), progress.WithoutPercentage())
	prog.Width = 40

	m := Model{
		ctx:      ctx,
		ctl:      ctl,
		styles:   styles,
		cursors:  make(map[string]int),
		search:   search,
		login:    login,
		spinner:  sp,
		progress: prog,
		width:    100,
		height:   30,
	}
	m.renderer = newRenderer(styles.Theme.IsDark, 80)
	return m
}

func newRenderer(dark bool, width int) *glamour.TermRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logging.BootWarn("markdown renderer unavailable: %v", err)
		return nil
	}
	return r
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Controller exposes the wrapped controller.
func (m Model) Controller() *wizard.Controller { return m.ctl }

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool { return m.loading }

// Err returns the inline error currently shown, if any.
func (m Model) Err() string { return m.err }

func (m Model) fields() []field {
	return fieldsFor(m.ctl.Step(), m.ctl.Profile())
}

// fetchCmd runs the fetch off the update loop. Input is ignored while it
// runs, so the controller is not mutated concurrently.
func (m Model) fetchCmd() tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		recs, err := ctl.FetchRecommendations(ctx)
		if err != nil {
			return errorMsg{err: err}
		}
		return recommendationsMsg{recs: recs}
	}
}

// visibleRecommendations applies the search filter.
func (m Model) visibleRecommendations() []recommend.Recommendation {
	return recommend.Filter(m.ctl.State().Recommendations, m.search.Value())
}

// errorText renders a transition error for inline display.
func errorText(err error) string {
	var ve *wizard.ValidationError
	var be *recommend.BoundaryError
	var fe *profile.FieldError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &be):
		return recommend.Message(be.Err)
	case errors.As(err, &fe):
		return fe.Error()
	default:
		return strings.TrimSpace(err.Error())
	}
}

// fetchErrorText renders a failed fetch as "AI Error: ...".
func fetchErrorText(err error) string {
	var be *recommend.BoundaryError
	if errors.As(err, &be) {
		return recommend.Message(be.Err)
	}
	return recommend.Message(err)
}
