package intervention

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/ports"
)

// ErrSessionClosed is returned when a finished or abandoned session is restarted.
var ErrSessionClosed = errors.New("session closed")

// Session is one intervention, from app open to proceed or dismiss.
// All events are applied under a single lock, so ticks and user input never
// interleave within a transition.
type Session struct {
	id      string
	svc     *Service
	trigger Trigger

	mu      sync.Mutex
	state   domain.State
	gen     int // bumped on every restart; ticks from older generations are dropped
	ticker  ports.Ticker
	stop    chan struct{}
	closed  bool
	outcome *domain.InterventionOutcome
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns a snapshot of the current state.
func (s *Session) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome returns the terminal record once the session has decided.
func (s *Session) Outcome() (domain.InterventionOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return domain.InterventionOutcome{}, false
	}
	return *s.outcome, true
}

func (s *Session) begin() {
	s.mu.Lock()
	s.startCountdownLocked()
	s.notifyLocked()
	s.mu.Unlock()
}

// startCountdownLocked owns the ticker for the waiting phase.
func (s *Session) startCountdownLocked() {
	if s.state.Phase != domain.PhaseWaiting {
		return
	}
	t := s.svc.newTicker(s.svc.cfg.TickInterval)
	stop := make(chan struct{})
	s.ticker, s.stop = t, stop
	gen := s.gen

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-t.C():
				if !s.tick(gen) {
					return
				}
			}
		}
	}()
}

func (s *Session) stopCountdownLocked() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.ticker, s.stop = nil, nil
}

// tick applies one countdown second. It reports whether the countdown should
// keep running.
func (s *Session) tick(gen int) bool {
	s.mu.Lock()
	if s.closed || gen != s.gen || s.state.Phase != domain.PhaseWaiting {
		s.mu.Unlock()
		return false
	}
	next, _ := domain.Transition(s.state, domain.TickEvent{})
	s.state = next
	running := next.Phase == domain.PhaseWaiting
	if !running {
		s.stopCountdownLocked()
	}
	s.notifyLocked()
	s.mu.Unlock()
	return running
}

// Send applies a user event and reports whether it was accepted. Tick events
// are owned by the countdown and are rejected here.
func (s *Session) Send(e domain.Event) bool {
	if _, ok := e.(domain.TickEvent); ok {
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	next, ok := domain.Transition(s.state, e)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.state = next

	var outcome *domain.InterventionOutcome
	if next.Terminal() {
		s.stopCountdownLocked()
		s.closed = true
		o := domain.NewInterventionOutcome(s.id, s.trigger.AppName, s.trigger.AppPackage, next, s.svc.now())
		s.outcome = &o
		outcome = &o
	}
	s.notifyLocked()
	s.mu.Unlock()

	if outcome != nil {
		s.finish(*outcome)
	}
	return true
}

// SelectIntention picks an intention option.
func (s *Session) SelectIntention(id domain.IntentionID) bool {
	return s.Send(domain.SelectIntentionEvent{ID: id})
}

// SetCustomText updates the free-text draft for the "other" intention.
func (s *Session) SetCustomText(text string) bool {
	return s.Send(domain.CustomTextEvent{Text: text})
}

// SubmitCustom confirms the free-text draft.
func (s *Session) SubmitCustom() bool {
	return s.Send(domain.SubmitCustomEvent{})
}

// Proceed ends the session by opening the app.
func (s *Session) Proceed() bool {
	return s.Send(domain.ProceedEvent{})
}

// Dismiss ends the session by returning home.
func (s *Session) Dismiss() bool {
	return s.Send(domain.DismissEvent{})
}

// Restart discards the in-progress phase and selection and begins again in
// the waiting phase. The open count is re-read, not incremented.
func (s *Session) Restart(ctx context.Context) error {
	prior, err := s.svc.currentPriorOpens(ctx)
	if err != nil {
		return fmt.Errorf("read daily counter: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.stopCountdownLocked()
	s.gen++
	s.state = s.svc.newState(prior)
	s.startCountdownLocked()
	s.notifyLocked()
	st := s.state
	s.mu.Unlock()

	s.svc.logger.Debug(fmt.Sprintf("Session %s restarted: prior opens=%d, wait=%ds", s.id, prior, st.WaitSeconds))
	return nil
}

// Abandon discards the session without recording anything. It is safe to
// call more than once and after the session has decided.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopCountdownLocked()
	s.closed = true
	s.svc.logger.Debug(fmt.Sprintf("Session %s abandoned in phase %s", s.id, s.state.Phase))
}

func (s *Session) finish(o domain.InterventionOutcome) {
	s.svc.logger.Debug(fmt.Sprintf("Session %s decided: %s (intention=%s)", s.id, o.Decision(), o.Intention))

	if o.Proceeded {
		if s.trigger.OnProceed != nil {
			s.trigger.OnProceed()
		}
	} else if s.trigger.OnDismiss != nil {
		s.trigger.OnDismiss()
	}

	s.svc.record(o)
}

// notifyLocked publishes the current state. It runs under s.mu so that
// states reach OnChange in the order they were applied.
func (s *Session) notifyLocked() {
	if s.trigger.OnChange != nil {
		s.trigger.OnChange(s.state)
	}
}
