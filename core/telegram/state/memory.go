package state

import (
	"strconv"
	"sync"
	"time"

	"github.com/m3rciful/wishbot/core/logger"
	tghelpers "github.com/m3rciful/wishbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	handlers map[Step]tele.HandlerFunc
	idleTTL  time.Duration
	now      func() time.Time
}

// NewMemoryManager constructs an in-memory Manager. Sessions idle for longer
// than idleTTL are dropped lazily on access; ttl <= 0 disables expiry.
func NewMemoryManager(idleTTL time.Duration) Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
		handlers: make(map[Step]tele.HandlerFunc),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// expired reports whether a session passed the idle deadline.
// Callers must hold at least a read lock.
func (m *memoryManager) expired(s *Session) bool {
	return m.idleTTL > 0 && m.now().Sub(s.UpdatedAt) > m.idleTTL
}

// live returns the user's session, evicting it first when expired.
// Callers must hold the write lock.
func (m *memoryManager) live(userID int64) (*Session, bool) {
	s, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	if m.expired(s) {
		delete(m.sessions, userID)
		return nil, false
	}
	return s, true
}

// Get returns a copy of the user's session, if one is active.
func (m *memoryManager) Get(userID int64) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.live(userID)
	if !ok {
		return Session{}, false
	}
	out := *s
	out.Data = make(map[string]string, len(s.Data))
	for k, v := range s.Data {
		out.Data[k] = v
	}
	return out, true
}

// Start begins a flow at the given step, replacing any active session.
func (m *memoryManager) Start(userID int64, flow Flow, step Step) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = &Session{
		Flow:      flow,
		Step:      step,
		Data:      make(map[string]string),
		UpdatedAt: m.now(),
	}
}

// Advance moves the user's session to the next step.
func (m *memoryManager) Advance(userID int64, step Step) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.live(userID); ok {
		s.Step = step
		s.UpdatedAt = m.now()
	}
}

// SetData records a collected field value in the user's session.
func (m *memoryManager) SetData(userID int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.live(userID); ok {
		s.Data[key] = value
		s.UpdatedAt = m.now()
	}
}

// Data reads a collected field value from the user's session.
func (m *memoryManager) Data(userID int64, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.live(userID)
	if !ok {
		return "", false
	}
	v, ok := s.Data[key]
	return v, ok
}

// DataInt64 reads a collected field value and parses it as int64.
func (m *memoryManager) DataInt64(userID int64, key string) (int64, bool) {
	raw, ok := m.Data(userID, key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Clear removes the user's session entirely.
func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

// InProgress reports whether the user currently has an active session.
func (m *memoryManager) InProgress(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.live(userID)
	return ok
}

// Handle associates a step with its reply handler.
func (m *memoryManager) Handle(step Step, h tele.HandlerFunc) {
	if step == "" || h == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[step] = h
}

// Dispatch executes the handler registered for the sender's current step, if any.
func (m *memoryManager) Dispatch(c tele.Context) error {
	userID := c.Sender().ID
	session, ok := m.Get(userID)
	if !ok {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.dispatch",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("flow", string(session.Flow)),
		slog.String("step", string(session.Step)),
	)

	m.mu.RLock()
	handler := m.handlers[session.Step]
	m.mu.RUnlock()
	if handler == nil {
		return nil
	}
	return handler(c)
}
