package domain

// InterventionStats holds summary statistics across recorded sessions.
type InterventionStats struct {
	SessionCount     int64
	ProceededCount   int64
	DismissedCount   int64
	TotalWaitSeconds int64
	MaxOpenCount     int64
}

// IntentionStats holds how often one intention was declared.
type IntentionStats struct {
	IntentionID    IntentionID
	Count          int64
	ProceededCount int64
}

// AppStats holds outcomes for one monitored app.
type AppStats struct {
	AppPackage     string
	SessionCount   int64
	ProceededCount int64
}

// DerivedStats holds rates derived from InterventionStats.
type DerivedStats struct {
	ProceedRate    float64
	AvgWaitSeconds float64
}

// ComputeDerived derives rates from the aggregate counts.
// All divisions are zero-safe: returns 0 when the divisor is zero.
func (s *InterventionStats) ComputeDerived() DerivedStats {
	var d DerivedStats
	if s.SessionCount > 0 {
		d.ProceedRate = float64(s.ProceededCount) / float64(s.SessionCount)
		d.AvgWaitSeconds = float64(s.TotalWaitSeconds) / float64(s.SessionCount)
	}
	return d
}

// ProceedRate returns the share of sessions for the intention that ended in
// the user opening the app.
func (s IntentionStats) ProceedRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.ProceededCount) / float64(s.Count)
}
