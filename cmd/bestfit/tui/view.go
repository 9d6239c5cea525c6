package tui

import (
	"fmt"
	"strings"

	"bestfit/cmd/bestfit/ui"
	"bestfit/internal/logging"
	"bestfit/internal/profile"
	"bestfit/internal/recommend"
	"bestfit/internal/wizard"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	var body string
	if m.ctl.Step() == wizard.StepResults {
		body = m.renderResults()
	} else {
		body = m.renderForm()
	}
	b.WriteString(m.styles.Content.Render(body))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	st := m.ctl.State()
	who := "Guest  (ctrl+l to log in)"
	if st.Authenticated {
		who = "Welcome back, " + st.DisplayName
	}
	left := m.styles.Header.Render("BEST FIT")
	right := m.styles.Muted.Render(who)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderForm() string {
	var b strings.Builder
	step := m.ctl.Step()

	if step == wizard.StepBiometrics {
		b.WriteString(ui.Logo(m.styles))
		b.WriteString("\n")
		b.WriteString(m.styles.Title.Render(step.Title()))
		b.WriteString("\n")
		b.WriteString(m.styles.Subtitle.Render("AI-Powered recommendations tailored to your biomechanics."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.styles.Title.Render(fmt.Sprintf("Step %d of %d · %s", int(step), wizard.StepCount, step.Title())))
		b.WriteString("\n")
		b.WriteString(m.progress.View())
		b.WriteString("\n\n")
	}

	p := m.ctl.Profile()
	fields := fieldsFor(step, p)
	if step == wizard.StepActivities {
		b.WriteString(m.styles.Body.Render("Select all that apply:"))
		b.WriteString("\n")
	}
	if step == wizard.StepDeepDive {
		b.WriteString(m.styles.Body.Render("Tell us more about how you train."))
		b.WriteString("\n")
	}
	for i, f := range fields {
		b.WriteString(m.renderField(f, p, i == m.focus))
		b.WriteString("\n")
	}

	if m.loggingIn {
		b.WriteString("\n")
		b.WriteString(m.styles.Bold.Render("Email: "))
		b.WriteString(m.login.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderField(f field, p *profile.Profile, focused bool) string {
	label := m.styles.Label.Render(f.label)
	if focused {
		label = m.styles.FocusedLabel.Render("› " + f.label)
	}

	values := f.get(p)
	if f.kind == kindSelect {
		v := first(values)
		if v == "" {
			return label + " " + m.styles.Placeholder.Render(profile.SelectPlaceholder)
		}
		return label + " " + m.styles.Value.Render(v)
	}

	selected := make(map[string]bool, len(values))
	for _, v := range values {
		selected[v] = true
	}
	chips := make([]string, 0, len(f.options))
	for i, o := range f.options {
		style := m.styles.Chip
		if selected[o] {
			style = m.styles.SelectedChip
		}
		if focused && i == m.cursors[f.key] && !selected[o] {
			style = m.styles.CursorChip
		} else if focused && i == m.cursors[f.key] {
			style = style.Underline(true)
		}
		chips = append(chips, style.Render(o))
	}
	return label + "\n" + lipgloss.NewStyle().Width(m.width-6).Render(strings.Join(chips, " "))
}

func (m Model) renderStatus() string {
	switch {
	case m.loading:
		return m.spinner.View() + " " + m.styles.Muted.Render(LoadingText)
	case m.err != "":
		return m.styles.Error.Render(m.err)
	case m.notice != "":
		return m.styles.Success.Render(m.notice)
	}
	return ""
}

func (m Model) renderResults() string {
	var b strings.Builder
	st := m.ctl.State()
	b.WriteString(m.styles.Title.Render("Top Recommendations for " + st.DisplayName))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(wizard.StepResults.Title()))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Bold.Render("Search: "))
	if m.searching {
		b.WriteString(m.search.View())
	} else if q := m.search.Value(); q != "" {
		b.WriteString(m.styles.Value.Render(q))
	} else {
		b.WriteString(m.styles.Placeholder.Render("press / to filter"))
	}
	b.WriteString("\n\n")

	recs := m.visibleRecommendations()
	if len(recs) == 0 {
		b.WriteString(m.styles.Muted.Render("No products match your search."))
		b.WriteString("\n")
		b.WriteString(m.renderStatus())
		return b.String()
	}

	cardWidth := clamp(m.width/2-6, 24, 60)
	var rows []string
	for i := 0; i < len(recs); i += 2 {
		left := m.renderCard(recs[i], i == m.selected, cardWidth)
		if i+1 < len(recs) {
			right := m.renderCard(recs[i+1], i+1 == m.selected, cardWidth)
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
		} else {
			rows = append(rows, left)
		}
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	b.WriteString("\n")

	if m.selected < len(recs) {
		r := recs[m.selected]
		b.WriteString(m.styles.RenderDivider(clamp(m.width-6, 10, 2*cardWidth+6)))
		b.WriteString("\n")
		b.WriteString(m.styles.Badge.Render("Why this fits you"))
		b.WriteString("\n")
		b.WriteString(m.safeRenderMarkdown(r.LongDesc))
	}
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderCard(r recommend.Recommendation, focused bool, width int) string {
	style := m.styles.Card
	if focused {
		style = m.styles.FocusedCard
	}
	body := m.styles.CardTitle.Render(r.Title()) + "\n" +
		m.styles.Price.Render(r.Price) + "\n" +
		m.styles.Body.Render(r.ShortDesc)
	return style.Width(width).Render(body)
}

// safeRenderMarkdown renders model text through glamour, falling back to the
// raw text when the renderer fails or panics.
func (m Model) safeRenderMarkdown(content string) (out string) {
	if m.renderer == nil {
		return content + "\n"
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Get(logging.CategoryWizard).Error("markdown render panic: %v", r)
			out = content + "\n"
		}
	}()
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

func (m Model) renderFooter() string {
	var help string
	switch {
	case m.loading:
		help = "ctrl+c quit"
	case m.loggingIn:
		help = "enter log in • esc cancel"
	case m.searching:
		help = "enter apply • esc clear"
	case m.ctl.Step() == wizard.StepResults:
		help = "←/→/↑/↓ select • / search • esc back • ctrl+r start over • q quit"
	case m.ctl.Step() == wizard.StepDeepDive:
		help = "↑/↓ field • ←/→ choose • space toggle • enter Find My Gear • esc back"
	case m.ctl.Step() == wizard.StepBiometrics:
		help = "↑/↓ field • ←/→ choose • enter next • ctrl+c quit"
	default:
		help = "↑/↓ field • ←/→ choose • space toggle • enter next • esc back"
	}
	return m.styles.Footer.Render(help)
}
