package domain

import "unicode/utf8"

// Phase is the position of an intervention session in the friction flow.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseIntention
	PhaseConfirm
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseIntention:
		return "intention"
	case PhaseConfirm:
		return "confirm"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// DefaultWarningThreshold is the open count at which the confirm phase shows
// the high-usage warning.
const DefaultWarningThreshold = 3

// Event is a user or timer input to the friction state machine.
type Event interface {
	frictionEvent()
}

// TickEvent is one elapsed second of the waiting countdown.
type TickEvent struct{}

// SelectIntentionEvent picks an intention option.
type SelectIntentionEvent struct {
	ID IntentionID
}

// CustomTextEvent replaces the free-text draft for IntentionOther.
type CustomTextEvent struct {
	Text string
}

// SubmitCustomEvent confirms the free-text draft.
type SubmitCustomEvent struct{}

// ProceedEvent opens the monitored app anyway.
type ProceedEvent struct{}

// DismissEvent returns the user home.
type DismissEvent struct{}

func (TickEvent) frictionEvent()            {}
func (SelectIntentionEvent) frictionEvent() {}
func (CustomTextEvent) frictionEvent()      {}
func (SubmitCustomEvent) frictionEvent()    {}
func (ProceedEvent) frictionEvent()         {}
func (DismissEvent) frictionEvent()         {}

// State is the full state of one intervention session. It is a value: every
// transition returns a new State.
type State struct {
	Phase            Phase
	OpenCount        int
	WarningThreshold int

	WaitSeconds int
	Remaining   int

	Intention    IntentionID
	CustomText   string
	AwaitingText bool // IntentionOther picked, text not yet submitted

	Proceeded bool
}

// NewState builds the initial waiting state for a session. A non-positive
// wait cannot be counted down, so such a session starts in the intention
// phase instead of waiting for a tick that would never complete it.
func NewState(openCount, waitSeconds, warningThreshold int) State {
	if warningThreshold <= 0 {
		warningThreshold = DefaultWarningThreshold
	}
	s := State{
		Phase:            PhaseWaiting,
		OpenCount:        openCount,
		WarningThreshold: warningThreshold,
		WaitSeconds:      waitSeconds,
		Remaining:        waitSeconds,
	}
	if waitSeconds <= 0 {
		s.WaitSeconds = 0
		s.Remaining = 0
		s.Phase = PhaseIntention
	}
	return s
}

// Transition applies e to s. It returns the next state and whether the event
// was accepted; rejected events return s unchanged.
func Transition(s State, e Event) (State, bool) {
	switch s.Phase {
	case PhaseWaiting:
		return s.onWaiting(e)
	case PhaseIntention:
		return s.onIntention(e)
	case PhaseConfirm:
		return s.onConfirm(e)
	}
	return s, false
}

func (s State) onWaiting(e Event) (State, bool) {
	if _, ok := e.(TickEvent); !ok {
		return s, false
	}
	if s.Remaining > 0 {
		s.Remaining--
	}
	if s.Remaining == 0 && s.WaitSeconds > 0 {
		s.Phase = PhaseIntention
	}
	return s, true
}

func (s State) onIntention(e Event) (State, bool) {
	switch ev := e.(type) {
	case SelectIntentionEvent:
		if !ev.ID.Valid() {
			return s, false
		}
		s.Intention = ev.ID
		if ev.ID == IntentionOther {
			s.AwaitingText = true
			return s, true
		}
		s.AwaitingText = false
		s.CustomText = ""
		s.Phase = PhaseConfirm
		return s, true

	case CustomTextEvent:
		if !s.AwaitingText {
			return s, false
		}
		s.CustomText = truncateRunes(ev.Text, MaxCustomTextLength)
		return s, true

	case SubmitCustomEvent:
		if !s.CanSubmitCustom() {
			return s, false
		}
		s.CustomText = NormalizeCustomText(s.CustomText)
		s.AwaitingText = false
		s.Phase = PhaseConfirm
		return s, true
	}
	return s, false
}

func (s State) onConfirm(e Event) (State, bool) {
	switch e.(type) {
	case ProceedEvent:
		s.Proceeded = true
	case DismissEvent:
		s.Proceeded = false
	default:
		return s, false
	}
	s.Phase = PhaseDone
	return s, true
}

// CanSubmitCustom reports whether the free-text confirm action is enabled.
func (s State) CanSubmitCustom() bool {
	return s.Phase == PhaseIntention && s.AwaitingText && NormalizeCustomText(s.CustomText) != ""
}

// HighUsageWarning reports whether the confirm phase should warn about the
// day's open count. It is informational and never blocks a decision.
func (s State) HighUsageWarning() bool {
	threshold := s.WarningThreshold
	if threshold <= 0 {
		threshold = DefaultWarningThreshold
	}
	return s.OpenCount >= threshold
}

// Terminal reports whether the session has reached its decision.
func (s State) Terminal() bool {
	return s.Phase == PhaseDone
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
