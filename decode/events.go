// SPDX-License-Identifier: EPL-2.0

package decode

// Event is the sum of decode-side lifecycle notifications.
type Event interface {
	decodeEvent()
}

// ErrorEvent reports a structured decode failure. The owning session
// has terminated; other sessions are unaffected.
type ErrorEvent struct {
	CueID string
	Path  string
	Err   error
}

func (ErrorEvent) decodeEvent() {}

// RestartEvent is a diagnostic: a session died unexpectedly and was
// restarted from its last-known parameters.
type RestartEvent struct {
	CueID   string
	Attempt int
	Reason  error
}

func (RestartEvent) decodeEvent() {}
