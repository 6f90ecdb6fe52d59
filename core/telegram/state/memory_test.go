package state

import (
	"sync"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

const (
	testFlow  Flow = "add_gift"
	testStep1 Step = "add_gift.waiting_title"
	testStep2 Step = "add_gift.waiting_description"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewMemoryManager(0)
	const user int64 = 100

	if m.InProgress(user) {
		t.Fatal("fresh manager reports session in progress")
	}

	m.Start(user, testFlow, testStep1)
	s, ok := m.Get(user)
	if !ok {
		t.Fatal("session not found after Start")
	}
	if s.Flow != testFlow || s.Step != testStep1 {
		t.Fatalf("session = %+v, want flow %q step %q", s, testFlow, testStep1)
	}

	m.SetData(user, "title", "Socks")
	m.Advance(user, testStep2)

	if v, ok := m.Data(user, "title"); !ok || v != "Socks" {
		t.Errorf("Data(title) = %q, %v", v, ok)
	}
	s, _ = m.Get(user)
	if s.Step != testStep2 {
		t.Errorf("step = %q, want %q", s.Step, testStep2)
	}

	m.Clear(user)
	if m.InProgress(user) {
		t.Fatal("session survives Clear")
	}
}

func TestStartReplacesActiveSession(t *testing.T) {
	m := NewMemoryManager(0)
	const user int64 = 100

	m.Start(user, testFlow, testStep1)
	m.SetData(user, "title", "Socks")

	m.Start(user, "reserve", "reserve.waiting_id")
	s, ok := m.Get(user)
	if !ok {
		t.Fatal("session missing after restart")
	}
	if s.Flow != "reserve" {
		t.Errorf("flow = %q, want reserve", s.Flow)
	}
	if _, ok := m.Data(user, "title"); ok {
		t.Error("data from the replaced flow leaked into the new session")
	}
}

func TestDataInt64(t *testing.T) {
	m := NewMemoryManager(0)
	const user int64 = 100
	m.Start(user, testFlow, testStep1)

	m.SetData(user, "gift_id", "42")
	if v, ok := m.DataInt64(user, "gift_id"); !ok || v != 42 {
		t.Errorf("DataInt64 = %d, %v; want 42, true", v, ok)
	}

	m.SetData(user, "gift_id", "abc")
	if _, ok := m.DataInt64(user, "gift_id"); ok {
		t.Error("DataInt64 parsed non-numeric value")
	}
}

func TestSessionsIsolatedPerUser(t *testing.T) {
	m := NewMemoryManager(0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		user := int64(i + 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Start(user, testFlow, testStep1)
			m.SetData(user, "title", "gift")
			m.Advance(user, testStep2)
		}()
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		user := int64(i + 1)
		s, ok := m.Get(user)
		if !ok || s.Step != testStep2 {
			t.Fatalf("user %d session = %+v, ok=%v", user, s, ok)
		}
	}

	m.Clear(5)
	if m.InProgress(5) {
		t.Error("cleared session still in progress")
	}
	if !m.InProgress(6) {
		t.Error("clearing one user affected another")
	}
}

func TestIdleSessionsExpireLazily(t *testing.T) {
	mgr := NewMemoryManager(30 * time.Minute).(*memoryManager)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return now }

	const user int64 = 100
	mgr.Start(user, testFlow, testStep1)

	now = now.Add(29 * time.Minute)
	if !mgr.InProgress(user) {
		t.Fatal("session expired before the idle deadline")
	}

	// activity refreshes the deadline
	mgr.SetData(user, "title", "Socks")
	now = now.Add(29 * time.Minute)
	if !mgr.InProgress(user) {
		t.Fatal("session expired despite recent activity")
	}

	now = now.Add(2 * time.Minute)
	if mgr.InProgress(user) {
		t.Fatal("session survived past the idle deadline")
	}
	if _, ok := mgr.Get(user); ok {
		t.Fatal("expired session still readable")
	}
}

func TestZeroTTLDisablesExpiry(t *testing.T) {
	mgr := NewMemoryManager(0).(*memoryManager)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mgr.now = func() time.Time { return now }

	mgr.Start(100, testFlow, testStep1)
	now = now.Add(1000 * time.Hour)
	if !mgr.InProgress(100) {
		t.Fatal("session expired with ttl disabled")
	}
}

// fakeContext implements the handful of tele.Context methods Dispatch touches.
type fakeContext struct {
	tele.Context
	sender *tele.User
	text   string
	vals   map[string]any
}

func newFakeContext(userID int64, text string) *fakeContext {
	return &fakeContext{
		sender: &tele.User{ID: userID},
		text:   text,
		vals:   make(map[string]any),
	}
}

func (f *fakeContext) Sender() *tele.User  { return f.sender }
func (f *fakeContext) Chat() *tele.Chat    { return nil }
func (f *fakeContext) Update() tele.Update { return tele.Update{} }
func (f *fakeContext) Text() string        { return f.text }

func (f *fakeContext) Set(key string, v any) { f.vals[key] = v }
func (f *fakeContext) Get(key string) any    { return f.vals[key] }

func TestDispatchRunsCurrentStepHandler(t *testing.T) {
	m := NewMemoryManager(0)
	const user int64 = 100

	var got []Step
	m.Handle(testStep1, func(c tele.Context) error {
		got = append(got, testStep1)
		return nil
	})
	m.Handle(testStep2, func(c tele.Context) error {
		got = append(got, testStep2)
		return nil
	})

	c := newFakeContext(user, "Socks")

	// no session: dispatch is a no-op
	if err := m.Dispatch(c); err != nil {
		t.Fatalf("Dispatch without session: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("handler ran without a session: %v", got)
	}

	m.Start(user, testFlow, testStep1)
	if err := m.Dispatch(c); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	m.Advance(user, testStep2)
	if err := m.Dispatch(c); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(got) != 2 || got[0] != testStep1 || got[1] != testStep2 {
		t.Fatalf("dispatched steps = %v, want [%s %s]", got, testStep1, testStep2)
	}
}
