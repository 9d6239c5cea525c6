package tui

import (
	"bestfit/internal/logging"
	"bestfit/internal/profile"
	"bestfit/internal/wizard"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = clamp(msg.Width-10, 10, 60)
		m.renderer = newRenderer(m.styles.Theme.IsDark, clamp(msg.Width/2-8, 20, 80))
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case recommendationsMsg:
		m.loading = false
		if err := m.ctl.Deliver(msg.recs); err != nil {
			m.err = errorText(err)
			return m, nil
		}
		m.err = ""
		m.selected = 0
		m.search.SetValue("")
		return m, m.syncProgress()

	case errorMsg:
		m.loading = false
		m.err = fetchErrorText(msg.err)
		logging.Get(logging.CategoryWizard).Warn("fetch failed in UI: %v", msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}
	if m.loggingIn {
		return m.handleLoginInput(msg)
	}
	if m.searching {
		return m.handleSearchInput(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlR:
		m.ctl.Restart()
		return m, m.resetView()
	case tea.KeyCtrlL:
		if m.ctl.State().Authenticated {
			m.ctl.Logout()
			cmd := m.resetView()
			m.notice = "Logged out."
			return m, cmd
		}
		m.loggingIn = true
		m.login.SetValue("")
		return m, m.login.Focus()
	}

	if m.ctl.Step() == wizard.StepResults {
		return m.handleResultsKey(msg)
	}
	return m.handleFormKey(msg)
}

// resetView clears transient view state after a restart or logout.
func (m *Model) resetView() tea.Cmd {
	m.focus = 0
	m.err = ""
	m.notice = ""
	m.selected = 0
	m.search.SetValue("")
	return m.syncProgress()
}

// syncProgress points the progress bar at the current step.
func (m *Model) syncProgress() tea.Cmd {
	return m.progress.SetPercent(float64(m.ctl.Step()) / float64(wizard.StepCount))
}

func (m Model) handleLoginInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.loggingIn = false
		m.login.Blur()
		return m, nil
	case tea.KeyEnter:
		if err := m.ctl.Login(m.login.Value()); err != nil {
			m.err = errorText(err)
			return m, nil
		}
		m.loggingIn = false
		m.login.Blur()
		m.err = ""
		m.notice = "Logged in! (Demo Mode)"
		return m, nil
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		fallthrough
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.selected = 0
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.selected = 0
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.fields()
	if m.focus >= len(fields) {
		m.focus = 0
	}

	switch msg.String() {
	case "up", "shift+tab", "k":
		if len(fields) > 0 {
			m.focus = (m.focus - 1 + len(fields)) % len(fields)
		}
	case "down", "tab", "j":
		if len(fields) > 0 {
			m.focus = (m.focus + 1) % len(fields)
		}
	case "left", "h":
		return m.adjust(fields, -1)
	case "right", "l":
		return m.adjust(fields, 1)
	case " ":
		return m.toggleFocused(fields)
	case "enter":
		return m.advance()
	case "esc":
		if err := m.ctl.Retreat(); err == nil {
			m.focus = 0
			m.err = ""
			return m, m.syncProgress()
		}
	}
	return m, nil
}

// adjust cycles a select field or moves a multi-select cursor.
func (m Model) adjust(fields []field, delta int) (tea.Model, tea.Cmd) {
	if len(fields) == 0 {
		return m, nil
	}
	f := fields[m.focus]
	if f.kind == kindMulti {
		n := len(f.options)
		m.cursors[f.key] = ((m.cursors[f.key]+delta)%n + n) % n
		return m, nil
	}
	next := cycle(f.options, first(f.get(m.ctl.Profile())), delta)
	return m.apply(f, single(next))
}

func (m Model) toggleFocused(fields []field) (tea.Model, tea.Cmd) {
	if len(fields) == 0 {
		return m, nil
	}
	f := fields[m.focus]
	if f.kind != kindMulti {
		return m, nil
	}
	opt := f.options[m.cursors[f.key]]
	return m.apply(f, toggle(f.options, f.get(m.ctl.Profile()), opt))
}

func (m Model) apply(f field, values []string) (tea.Model, tea.Cmd) {
	err := m.ctl.Update(func(p *profile.Profile) error { return f.set(p, values) })
	if err != nil {
		m.err = errorText(err)
	} else {
		m.err = ""
	}
	return m, nil
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	if m.ctl.NeedsFetch() {
		m.loading = true
		m.err = ""
		return m, tea.Batch(m.spinner.Tick, m.fetchCmd())
	}
	if err := m.ctl.Advance(m.ctx); err != nil {
		m.err = errorText(err)
		return m, nil
	}
	m.err = ""
	m.focus = 0
	return m, m.syncProgress()
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.visibleRecommendations())
	switch msg.String() {
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "left", "h":
		if m.selected > 0 {
			m.selected--
		}
	case "right", "l":
		if m.selected < n-1 {
			m.selected++
		}
	case "up", "k":
		if m.selected >= 2 {
			m.selected -= 2
		}
	case "down", "j":
		if m.selected+2 < n {
			m.selected += 2
		}
	case "esc":
		if err := m.ctl.Retreat(); err == nil {
			m.focus = 0
			m.search.SetValue("")
			return m, m.syncProgress()
		}
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
