package router

import (
	"testing"

	tg "github.com/m3rciful/wishbot/core/telegram"
	"github.com/m3rciful/wishbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

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

type fakeFSM struct {
	inProgress bool
	dispatched int
}

func (f *fakeFSM) InProgress(int64) bool { return f.inProgress }
func (f *fakeFSM) Dispatch(tele.Context) error {
	f.dispatched++
	return nil
}

func TestTextRouteCommandOverridesActiveDialog(t *testing.T) {
	reg := tg.NewRegistry()
	var commandRuns int
	reg.RegisterCommand("/add", commands.Command{
		Description: "Add a new gift",
		Handler: func(c tele.Context) error {
			commandRuns++
			return nil
		},
	})
	fsm := &fakeFSM{inProgress: true}

	route := TextRoute(fsm, reg, TextOptions{})
	if err := route.Handler(newFakeContext(1, "/add")); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if commandRuns != 1 {
		t.Errorf("command runs = %d, want 1", commandRuns)
	}
	if fsm.dispatched != 0 {
		t.Errorf("dialog dispatched %d times, want 0", fsm.dispatched)
	}
}

func TestTextRoutePlainTextGoesToActiveDialog(t *testing.T) {
	reg := tg.NewRegistry()
	reg.RegisterCommand("/add", commands.Command{
		Description: "Add a new gift",
		Handler:     func(c tele.Context) error { return nil },
	})
	fsm := &fakeFSM{inProgress: true}

	route := TextRoute(fsm, reg, TextOptions{})
	if err := route.Handler(newFakeContext(1, "Socks")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if fsm.dispatched != 1 {
		t.Errorf("dialog dispatched %d times, want 1", fsm.dispatched)
	}
}

func TestTextRouteUnknownCommandFallsThroughToDialog(t *testing.T) {
	reg := tg.NewRegistry()
	fsm := &fakeFSM{inProgress: true}

	route := TextRoute(fsm, reg, TextOptions{})
	if err := route.Handler(newFakeContext(1, "/bogus")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if fsm.dispatched != 1 {
		t.Errorf("dialog dispatched %d times, want 1", fsm.dispatched)
	}
}

func TestTextRouteIgnoresTextWithoutDialog(t *testing.T) {
	reg := tg.NewRegistry()
	fsm := &fakeFSM{inProgress: false}

	var unknownRuns int
	route := TextRoute(fsm, reg, TextOptions{
		UnknownText: func(c tele.Context) error {
			unknownRuns++
			return nil
		},
	})
	if err := route.Handler(newFakeContext(1, "hello?")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if fsm.dispatched != 0 {
		t.Errorf("dialog dispatched %d times, want 0", fsm.dispatched)
	}
	if unknownRuns != 1 {
		t.Errorf("unknown-text handler runs = %d, want 1", unknownRuns)
	}
}
