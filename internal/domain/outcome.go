package domain

import "time"

// InterventionOutcome is the terminal record of one intervention session.
type InterventionOutcome struct {
	SessionID   string
	Intention   IntentionID // empty if the session never reached the intention phase
	CustomText  string
	Proceeded   bool
	AppName     string
	AppPackage  string
	OpenCount   int
	WaitSeconds int
	DecidedAt   time.Time
}

// OutcomeRecord is the proceed/dismiss event handed to statistics.
type OutcomeRecord struct {
	SessionID   string
	Proceeded   bool
	IntentionID IntentionID
	AppName     string
	AppPackage  string
	OpenCount   int
	WaitSeconds int
	RecordedAt  time.Time
}

// IntentionLog is the declared intention handed to statistics.
type IntentionLog struct {
	SessionID   string
	IntentionID IntentionID
	Proceeded   bool
	CustomText  string
	AppPackage  string
	RecordedAt  time.Time
}

// NewInterventionOutcome builds the outcome for a terminal state.
func NewInterventionOutcome(sessionID, appName, appPackage string, s State, decidedAt time.Time) InterventionOutcome {
	return InterventionOutcome{
		SessionID:   sessionID,
		Intention:   s.Intention,
		CustomText:  s.CustomText,
		Proceeded:   s.Proceeded,
		AppName:     appName,
		AppPackage:  appPackage,
		OpenCount:   s.OpenCount,
		WaitSeconds: s.WaitSeconds,
		DecidedAt:   decidedAt,
	}
}

// OutcomeRecord projects the outcome to the statistics outcome event.
func (o InterventionOutcome) OutcomeRecord() OutcomeRecord {
	return OutcomeRecord{
		SessionID:   o.SessionID,
		Proceeded:   o.Proceeded,
		IntentionID: o.Intention,
		AppName:     o.AppName,
		AppPackage:  o.AppPackage,
		OpenCount:   o.OpenCount,
		WaitSeconds: o.WaitSeconds,
		RecordedAt:  o.DecidedAt,
	}
}

// IntentionLog projects the outcome to the intention log. ok is false when no
// intention was declared.
func (o InterventionOutcome) IntentionLog() (IntentionLog, bool) {
	if o.Intention == "" {
		return IntentionLog{}, false
	}
	log := IntentionLog{
		SessionID:   o.SessionID,
		IntentionID: o.Intention,
		Proceeded:   o.Proceeded,
		AppPackage:  o.AppPackage,
		RecordedAt:  o.DecidedAt,
	}
	if o.Intention == IntentionOther {
		log.CustomText = o.CustomText
	}
	return log, true
}

// Decision is the string form of the terminal choice.
func (o InterventionOutcome) Decision() string {
	if o.Proceeded {
		return "proceed"
	}
	return "dismiss"
}
