// Package payment implements the member payment state machine: how inbound
// chat replies and admin calls move a member between unpaid and paid.
package payment

import "strings"

// Signal is the class of an inbound chat message.
type Signal int

const (
	// SignalUnknown is any text that is not a recognised command.
	SignalUnknown Signal = iota
	// SignalAffirmative means the member reports having paid.
	SignalAffirmative
	// SignalStatus asks for the member's current payment status.
	SignalStatus
)

var (
	affirmativeWords = map[string]bool{"paid": true, "done": true, "complete": true, "yes": true}
	statusWords      = map[string]bool{"status": true, "check": true}
)

// Classify normalizes body (trimmed, case-insensitive) and returns its signal.
func Classify(body string) Signal {
	word := strings.ToLower(strings.TrimSpace(body))
	switch {
	case affirmativeWords[word]:
		return SignalAffirmative
	case statusWords[word]:
		return SignalStatus
	default:
		return SignalUnknown
	}
}

// String returns the metrics label for the signal.
func (s Signal) String() string {
	switch s {
	case SignalAffirmative:
		return "affirmative"
	case SignalStatus:
		return "status"
	default:
		return "unknown"
	}
}
