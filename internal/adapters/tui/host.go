package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/ports"
)

const stateBuffer = 128

// Host runs the intervention screens in the terminal. Create it before the
// session starts and pass OnChange as the trigger's state callback.
type Host struct {
	t       ports.Translator
	logger  ports.Logger
	appName string
	states  chan domain.State

	input  io.Reader
	output io.Writer
}

// HostOption customizes a Host.
type HostOption func(*Host)

// WithIO replaces the terminal input and output.
func WithIO(in io.Reader, out io.Writer) HostOption {
	return func(h *Host) { h.input, h.output = in, out }
}

// NewHost creates a host for one session on appName.
func NewHost(t ports.Translator, logger ports.Logger, appName string, opts ...HostOption) *Host {
	h := &Host{
		t:       t,
		logger:  logger,
		appName: appName,
		states:  make(chan domain.State, stateBuffer),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnChange queues a state for rendering. It never blocks: when the screen
// falls behind, the oldest queued state is dropped.
func (h *Host) OnChange(st domain.State) {
	for {
		select {
		case h.states <- st:
			return
		default:
		}
		select {
		case <-h.states:
		default:
		}
	}
}

// Run shows the screens until the session decides or the user leaves. It
// reports whether the session reached a decision; a session left any other
// way has been abandoned.
func (h *Host) Run(sess Session) (decided bool, err error) {
	if os.Getenv("TERM") == "" {
		os.Setenv("TERM", "xterm-256color")
		h.logger.Debug("TERM was empty, set to xterm-256color")
	}

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus()}
	if h.input != nil {
		opts = append(opts, tea.WithInput(h.input))
	} else if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		// stdin may carry the trigger payload.
		defer tty.Close()
		opts = append(opts, tea.WithInput(tty), tea.WithOutput(tty))
	}
	if h.output != nil {
		opts = append(opts, tea.WithOutput(h.output))
	}

	m := newModel(sess, h.states, h.t, h.logger, h.appName)
	prog := tea.NewProgram(m, opts...)

	final, err := prog.Run()
	if err != nil {
		sess.Abandon()
		h.logger.Debug(fmt.Sprintf("TUI error: %v", err))
		return false, fmt.Errorf("run intervention screen: %w", err)
	}

	result := final.(model)
	if result.abandoned || !result.state.Terminal() {
		sess.Abandon()
		return false, nil
	}
	return true, nil
}
