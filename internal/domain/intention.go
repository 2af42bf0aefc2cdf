package domain

import (
	"strings"
	"unicode/utf8"
)

// IntentionID identifies why the user wants to open a monitored app.
type IntentionID string

const (
	IntentionDirectMessage   IntentionID = "direct_message"
	IntentionSpecificContent IntentionID = "specific_content"
	IntentionBored           IntentionID = "bored"
	IntentionNoReason        IntentionID = "no_reason"
	IntentionOther           IntentionID = "other"
)

// MaxCustomTextLength bounds the free text attached to IntentionOther, in runes.
const MaxCustomTextLength = 200

// Intention is one option shown in the intention phase.
type Intention struct {
	ID       IntentionID
	LabelKey string // translation key
}

// Intentions returns the options in display order.
func Intentions() []Intention {
	return []Intention{
		{ID: IntentionDirectMessage, LabelKey: "intention.direct_message"},
		{ID: IntentionSpecificContent, LabelKey: "intention.specific_content"},
		{ID: IntentionBored, LabelKey: "intention.bored"},
		{ID: IntentionNoReason, LabelKey: "intention.no_reason"},
		{ID: IntentionOther, LabelKey: "intention.other"},
	}
}

// Valid reports whether id belongs to the closed intention set.
func (id IntentionID) Valid() bool {
	switch id {
	case IntentionDirectMessage, IntentionSpecificContent, IntentionBored, IntentionNoReason, IntentionOther:
		return true
	}
	return false
}

// ParseIntentionID validates a raw identifier.
func ParseIntentionID(s string) (IntentionID, bool) {
	id := IntentionID(strings.TrimSpace(s))
	return id, id.Valid()
}

// NormalizeCustomText trims surrounding whitespace and truncates to
// MaxCustomTextLength runes.
func NormalizeCustomText(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxCustomTextLength {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:MaxCustomTextLength]))
}
