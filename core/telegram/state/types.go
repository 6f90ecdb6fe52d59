package state

import (
	"time"

	tele "gopkg.in/telebot.v4"
)

// Flow identifies a multi-step dialog (e.g. "add_gift").
type Flow string

// Step identifies the field currently being collected within a flow.
type Step string

// FlowNone indicates there is no active dialog with the user.
const FlowNone Flow = ""

// Session stores the dialog position and the partial data collected so far
// for a single user. One session per user; starting a new flow replaces it.
type Session struct {
	Flow      Flow
	Step      Step
	Data      map[string]string
	UpdatedAt time.Time
}

// Manager orchestrates user sessions and dialog transitions. Implementations
// must be safe for concurrent use by handlers serving different users.
type Manager interface {
	// Get returns a copy of the user's session, if one is active.
	Get(userID int64) (Session, bool)
	// Start begins a flow at the given step, replacing any active session.
	Start(userID int64, flow Flow, step Step)
	// Advance moves the user's session to the next step.
	Advance(userID int64, step Step)
	// SetData records a collected field value in the user's session.
	SetData(userID int64, key, value string)
	// Data reads a collected field value from the user's session.
	Data(userID int64, key string) (string, bool)
	// DataInt64 reads a collected field value and parses it as int64.
	DataInt64(userID int64, key string) (int64, bool)
	// Clear removes the user's session entirely.
	Clear(userID int64)
	// InProgress reports whether the user currently has an active session.
	InProgress(userID int64) bool

	// Handle associates a step with its reply handler.
	Handle(step Step, h tele.HandlerFunc)
	// Dispatch executes the handler registered for the sender's current step.
	Dispatch(c tele.Context) error
}
