package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/ports"
)

// Session is the part of an intervention session the screen drives.
type Session interface {
	State() domain.State
	SelectIntention(id domain.IntentionID) bool
	SetCustomText(text string) bool
	SubmitCustom() bool
	Proceed() bool
	Dismiss() bool
	Restart(ctx context.Context) error
	Abandon()
}

type stateMsg domain.State

// restartedMsg reports the result of a restart on focus regain.
type restartedMsg struct{ err error }

type model struct {
	session Session
	states  <-chan domain.State
	t       ports.Translator
	logger  ports.Logger
	appName string

	state     domain.State
	cursor    int
	input     textarea.Model
	editing   bool
	blurred   bool
	abandoned bool

	styles styles
	width  int
}

func newModel(sess Session, states <-chan domain.State, t ports.Translator, logger ports.Logger, appName string) model {
	ta := textarea.New()
	ta.Placeholder = t.T("intention.other.placeholder")
	ta.ShowLineNumbers = false
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.CharLimit = domain.MaxCustomTextLength

	return model{
		session: sess,
		states:  states,
		t:       t,
		logger:  logger,
		appName: appName,
		state:   sess.State(),
		input:   ta,
		styles:  newStyles(),
	}
}

func waitForState(states <-chan domain.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

func (m model) Init() tea.Cmd {
	return waitForState(m.states)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		return m.applyState(domain.State(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.BlurMsg:
		m.blurred = true
		return m, nil

	case tea.FocusMsg:
		if !m.blurred {
			return m, nil
		}
		m.blurred = false
		return m, m.restart()

	case restartedMsg:
		if msg.err != nil {
			m.logger.Error(fmt.Sprintf("Failed to restart intervention: %v", msg.err))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(min(50, msg.Width-10))
		return m, nil
	}

	if m.editing {
		return m.updateInput(msg)
	}
	return m, nil
}

func (m model) applyState(st domain.State) (tea.Model, tea.Cmd) {
	prev := m.state.Phase
	m.state = st

	if st.Terminal() {
		return m, tea.Quit
	}

	if st.Phase != domain.PhaseIntention {
		m.editing = false
		m.input.Blur()
	}
	if st.Phase == domain.PhaseWaiting && prev != domain.PhaseWaiting {
		// Restarted: forget the previous draft.
		m.cursor = 0
		m.input.Reset()
	}
	if st.Phase == domain.PhaseIntention && st.AwaitingText && !m.editing {
		m.editing = true
		return m, tea.Batch(m.input.Focus(), waitForState(m.states))
	}
	return m, waitForState(m.states)
}

func (m model) restart() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		return restartedMsg{err: sess.Restart(context.Background())}
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m.abandon()
	}

	switch m.state.Phase {
	case domain.PhaseWaiting:
		if key == "esc" || key == "q" {
			return m.abandon()
		}
		return m, nil

	case domain.PhaseIntention:
		if m.editing {
			return m.handleEditingKey(msg)
		}
		return m.handleIntentionKey(key)

	case domain.PhaseConfirm:
		switch key {
		case "o", "enter":
			return m.decide(m.session.Proceed)
		case "b", "esc", "q":
			return m.decide(m.session.Dismiss)
		}
	}
	return m, nil
}

// decide runs the terminal event in the update loop so that the outcome is
// recorded before the program exits.
func (m model) decide(event func() bool) (tea.Model, tea.Cmd) {
	if !event() {
		return m, nil
	}
	m.state = m.session.State()
	return m, tea.Quit
}

func (m model) handleIntentionKey(key string) (tea.Model, tea.Cmd) {
	options := domain.Intentions()

	switch key {
	case "esc", "q":
		return m.abandon()
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "j", "down":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "1", "2", "3", "4", "5":
		idx := int(key[0] - '1')
		if idx < len(options) {
			m.cursor = idx
			return m.choose(options[idx].ID)
		}
	case "enter", " ":
		return m.choose(options[m.cursor].ID)
	}
	return m, nil
}

func (m model) choose(id domain.IntentionID) (tea.Model, tea.Cmd) {
	m.session.SelectIntention(id)
	if id == domain.IntentionOther {
		// Re-entering "other" keeps the draft typed before.
		m.session.SetCustomText(m.input.Value())
	}
	return m, nil
}

func (m model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Back to the option list; the draft is kept.
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.session.SetCustomText(m.input.Value())
		m.session.SubmitCustom()
		return m, nil
	}
	return m.updateInput(msg)
}

func (m model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.session.SetCustomText(after)
	}
	return m, cmd
}

func (m model) abandon() (tea.Model, tea.Cmd) {
	m.session.Abandon()
	m.abandoned = true
	return m, tea.Quit
}

func (m model) View() string {
	if m.state.Terminal() || m.abandoned {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render(strings.ToUpper(m.t.T("app.title"))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#404040")).
		Render("────────────────────────────────────────"))
	b.WriteString("\n\n")

	switch m.state.Phase {
	case domain.PhaseWaiting:
		b.WriteString(m.viewWaiting())
	case domain.PhaseIntention:
		b.WriteString(m.viewIntention())
	case domain.PhaseConfirm:
		b.WriteString(m.viewConfirm())
	}

	b.WriteString(m.styles.help.Render(m.t.T("help." + m.state.Phase.String())))
	return m.styles.container.Render(b.String())
}

func (m model) viewWaiting() string {
	var b strings.Builder
	b.WriteString(m.styles.subtitle.Render(m.t.T("waiting.title")))
	b.WriteString("\n")
	b.WriteString(m.styles.unselected.Render(m.t.T("waiting.subtitle", m.appName)))
	b.WriteString("\n")
	b.WriteString(m.styles.countdown.Render(m.t.T("waiting.remaining", m.state.Remaining)))
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")
	b.WriteString(m.styles.unselected.Render(m.t.T("waiting.opens", m.state.OpenCount)))
	b.WriteString("\n")
	return b.String()
}

func (m model) renderProgress() string {
	const width = 40
	done := width
	if m.state.WaitSeconds > 0 {
		done = width * (m.state.WaitSeconds - m.state.Remaining) / m.state.WaitSeconds
	}
	return m.styles.barFull.Render(strings.Repeat("━", done)) +
		m.styles.barEmpty.Render(strings.Repeat("─", width-done))
}

func (m model) viewIntention() string {
	var b strings.Builder
	b.WriteString(m.styles.subtitle.Render(m.t.T("intention.prompt", m.appName)))
	b.WriteString("\n\n")

	for i, in := range domain.Intentions() {
		label := fmt.Sprintf("%d. %s", i+1, m.t.T(in.LabelKey))
		switch {
		case i == m.cursor && !m.editing:
			b.WriteString("  " + m.styles.cursor.Render(" "+label+" "))
		case in.ID == m.state.Intention:
			b.WriteString("  " + m.styles.selected.Render(label))
		default:
			b.WriteString("  " + m.styles.unselected.Render(label))
		}
		b.WriteString("\n")
	}

	if m.state.AwaitingText {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.state.CanSubmitCustom() {
			b.WriteString(m.styles.unselected.Render(m.t.T("intention.other.submit")))
		} else {
			b.WriteString(m.styles.unselected.Render(m.t.T("intention.other.empty")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) viewConfirm() string {
	var b strings.Builder

	intention := m.state.CustomText
	if m.state.Intention != domain.IntentionOther {
		intention = m.t.T("intention." + string(m.state.Intention))
	}
	b.WriteString(m.styles.subtitle.Render(m.t.T("confirm.title", intention)))
	b.WriteString("\n\n")

	if m.state.HighUsageWarning() {
		b.WriteString(m.styles.warning.Render(m.t.T("confirm.warning", m.state.OpenCount)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.button.Render(m.t.T("confirm.proceed", m.appName)),
		"  ",
		m.styles.button.Render(m.t.T("confirm.dismiss")),
	))
	b.WriteString("\n")
	return b.String()
}
