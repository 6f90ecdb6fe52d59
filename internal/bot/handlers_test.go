package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/m3rciful/wishbot/core/telegram/state"
	"github.com/m3rciful/wishbot/internal/wishlist"

	tele "gopkg.in/telebot.v4"
)

// fakeContext implements the slice of tele.Context the handlers touch.
type fakeContext struct {
	tele.Context
	sender *tele.User
	text   string
	vals   map[string]any
	sent   []string
}

func newFakeContext(user *tele.User, text string) *fakeContext {
	return &fakeContext{
		sender: user,
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

func (f *fakeContext) Send(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		f.sent = append(f.sent, s)
	}
	return nil
}

func (f *fakeContext) lastSent() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fixture struct {
	store *wishlist.MemoryStore
	svc   *wishlist.Service
	fsm   state.Manager
	h     *Handlers
}

func newFixture() *fixture {
	store := wishlist.NewMemoryStore()
	svc := wishlist.NewService(store)
	fsm := state.NewMemoryManager(0)
	return &fixture{
		store: store,
		svc:   svc,
		fsm:   fsm,
		h:     NewHandlers(svc, fsm),
	}
}

var (
	alice = &tele.User{ID: 1, Username: "alice"}
	bob   = &tele.User{ID: 2, Username: "bob"}
)

// reply simulates one text message inside the user's active flow.
func (fx *fixture) reply(t *testing.T, user *tele.User, text string) *fakeContext {
	t.Helper()
	c := newFakeContext(user, text)
	if err := fx.fsm.Dispatch(c); err != nil {
		t.Fatalf("dispatch %q: %v", text, err)
	}
	return c
}

func TestAddGiftFlowWithoutDescription(t *testing.T) {
	fx := newFixture()

	c := newFakeContext(alice, "/add")
	if err := fx.h.AddStart(c); err != nil {
		t.Fatalf("AddStart: %v", err)
	}
	if !fx.fsm.InProgress(alice.ID) {
		t.Fatal("no session after AddStart")
	}

	fx.reply(t, alice, "Socks")
	done := fx.reply(t, alice, "-")

	gifts, _ := fx.store.ListGifts(context.Background())
	if len(gifts) != 1 {
		t.Fatalf("len(gifts) = %d, want 1", len(gifts))
	}
	if gifts[0].Title != "Socks" {
		t.Errorf("title = %q, want Socks", gifts[0].Title)
	}
	if gifts[0].Description != nil {
		t.Errorf("description = %q, want nil", *gifts[0].Description)
	}
	if fx.fsm.InProgress(alice.ID) {
		t.Error("session not cleared after commit")
	}
	if !strings.Contains(done.lastSent(), "Gift added") {
		t.Errorf("confirmation = %q", done.lastSent())
	}
}

func TestAddGiftFlowKeepsDescription(t *testing.T) {
	fx := newFixture()

	_ = fx.h.AddStart(newFakeContext(alice, "/add"))
	fx.reply(t, alice, "Socks")
	fx.reply(t, alice, "warm wool ones")

	gifts, _ := fx.store.ListGifts(context.Background())
	if len(gifts) != 1 || gifts[0].Description == nil || *gifts[0].Description != "warm wool ones" {
		t.Fatalf("gifts = %+v, want one with description", gifts)
	}
}

func TestReserveFlowRejectsNonNumericID(t *testing.T) {
	fx := newFixture()
	_, _ = fx.svc.AddGift(context.Background(), "Lego", nil, "@alice")

	_ = fx.h.ReserveStart(newFakeContext(alice, "/reserve"))
	c := fx.reply(t, alice, "abc")

	if !fx.fsm.InProgress(alice.ID) {
		t.Fatal("session cleared by invalid input")
	}
	if !strings.Contains(c.lastSent(), "Number") {
		t.Errorf("re-prompt = %q", c.lastSent())
	}
	gifts, _ := fx.store.ListGifts(context.Background())
	if gifts[0].Status != wishlist.StatusAvailable {
		t.Errorf("status mutated by invalid input: %q", gifts[0].Status)
	}
}

func TestReserveFlowReservesGift(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	for _, title := range []string{"One", "Two", "Three"} {
		_, _ = fx.svc.AddGift(ctx, title, nil, "@alice")
	}

	_ = fx.h.ReserveStart(newFakeContext(bob, "/reserve"))
	fx.reply(t, bob, "3")

	owner, err := fx.store.ReservationOwner(ctx, 3)
	if err != nil {
		t.Fatalf("ReservationOwner: %v", err)
	}
	if owner == nil || *owner != "@bob" {
		t.Errorf("owner = %v, want @bob", owner)
	}
	if fx.fsm.InProgress(bob.ID) {
		t.Error("session not cleared after reserve")
	}
}

func TestReserveFlowUnknownGift(t *testing.T) {
	fx := newFixture()

	_ = fx.h.ReserveStart(newFakeContext(bob, "/reserve"))
	c := newFakeContext(bob, "9")
	_ = fx.fsm.Dispatch(c)

	if !strings.Contains(c.lastSent(), "not found") {
		t.Errorf("reply = %q, want not-found message", c.lastSent())
	}
	if fx.fsm.InProgress(bob.ID) {
		t.Error("session not cleared after not-found")
	}
}

func TestUnreserveFlowOwnerChecks(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	g, _ := fx.svc.AddGift(ctx, "Lego", nil, "@alice")
	_ = fx.svc.Reserve(ctx, g.ID, "@alice")

	// bob cannot release alice's reservation
	_ = fx.h.UnreserveStart(newFakeContext(bob, "/unreserve"))
	c := newFakeContext(bob, "1")
	_ = fx.fsm.Dispatch(c)
	if !strings.Contains(c.lastSent(), "only unreserve") {
		t.Errorf("reply = %q, want denial", c.lastSent())
	}
	owner, _ := fx.store.ReservationOwner(ctx, g.ID)
	if owner == nil || *owner != "@alice" {
		t.Fatalf("reservation changed by denied unreserve: %v", owner)
	}

	// alice can
	_ = fx.h.UnreserveStart(newFakeContext(alice, "/unreserve"))
	c = newFakeContext(alice, "1")
	_ = fx.fsm.Dispatch(c)
	if !strings.Contains(c.lastSent(), "free again") {
		t.Errorf("reply = %q, want success", c.lastSent())
	}
	owner, _ = fx.store.ReservationOwner(ctx, g.ID)
	if owner != nil {
		t.Errorf("owner = %q, want nil", *owner)
	}
}

func TestUnreserveFlowUnknownGift(t *testing.T) {
	fx := newFixture()

	_ = fx.h.UnreserveStart(newFakeContext(alice, "/unreserve"))
	c := newFakeContext(alice, "77")
	_ = fx.fsm.Dispatch(c)

	if !strings.Contains(c.lastSent(), "not found") {
		t.Errorf("reply = %q, want not-found message", c.lastSent())
	}
}

func TestCommentFlow(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	g, _ := fx.svc.AddGift(ctx, "Book", nil, "@alice")

	_ = fx.h.CommentStart(newFakeContext(bob, "/comment"))
	fx.reply(t, bob, "1")
	fx.reply(t, bob, "I can chip in")

	comments, _ := fx.store.ListComments(ctx, g.ID)
	if len(comments) != 1 {
		t.Fatalf("len(comments) = %d, want 1", len(comments))
	}
	if comments[0].Author != "@bob" || comments[0].Text != "I can chip in" {
		t.Errorf("comment = %+v", comments[0])
	}
	gifts, _ := fx.store.ListGifts(ctx)
	if gifts[0].Status != wishlist.StatusCommented {
		t.Errorf("status = %q, want commented", gifts[0].Status)
	}
}

func TestCommentFlowUnknownGift(t *testing.T) {
	fx := newFixture()

	_ = fx.h.CommentStart(newFakeContext(bob, "/comment"))
	fx.reply(t, bob, "5")
	c := newFakeContext(bob, "anyone home?")
	_ = fx.fsm.Dispatch(c)

	if !strings.Contains(c.lastSent(), "not found") {
		t.Errorf("reply = %q, want not-found message", c.lastSent())
	}
	if fx.fsm.InProgress(bob.ID) {
		t.Error("session not cleared after not-found")
	}
}

func TestUncommentFlow(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	g, _ := fx.svc.AddGift(ctx, "Book", nil, "@alice")
	c1, _ := fx.svc.AddComment(ctx, g.ID, "@bob", "mine")

	// non-numeric input re-prompts and keeps the dialog open
	_ = fx.h.UncommentStart(newFakeContext(bob, "/uncomment"))
	c := fx.reply(t, bob, "first one")
	if !fx.fsm.InProgress(bob.ID) {
		t.Fatal("session cleared by invalid input")
	}
	if !strings.Contains(c.lastSent(), "number") {
		t.Errorf("re-prompt = %q", c.lastSent())
	}

	// alice cannot remove bob's comment
	_ = fx.h.UncommentStart(newFakeContext(alice, "/uncomment"))
	c = newFakeContext(alice, "1")
	_ = fx.fsm.Dispatch(c)
	if !strings.Contains(c.lastSent(), "own comments") {
		t.Errorf("reply = %q, want denial", c.lastSent())
	}
	comments, _ := fx.store.ListComments(ctx, g.ID)
	if len(comments) != 1 {
		t.Fatal("comment removed by non-author")
	}

	// bob can
	_ = fx.h.UncommentStart(newFakeContext(bob, "/uncomment"))
	fx.reply(t, bob, "1")
	comments, _ = fx.store.ListComments(ctx, g.ID)
	if len(comments) != 0 {
		t.Fatalf("comment %d not removed by author", c1.ID)
	}
}

func TestUsersRunIndependentFlows(t *testing.T) {
	fx := newFixture()

	// alice is mid add-gift
	_ = fx.h.AddStart(newFakeContext(alice, "/add"))
	fx.reply(t, alice, "Socks")

	// bob lists gifts and starts his own flow
	if err := fx.h.List(newFakeContext(bob, "/list")); err != nil {
		t.Fatalf("List: %v", err)
	}
	_ = fx.h.ReserveStart(newFakeContext(bob, "/reserve"))

	// alice's session is untouched and completes normally
	s, ok := fx.fsm.Get(alice.ID)
	if !ok || s.Flow != FlowAddGift || s.Step != StepAddGiftDescription {
		t.Fatalf("alice session = %+v, ok=%v", s, ok)
	}
	fx.reply(t, alice, "-")

	gifts, _ := fx.store.ListGifts(context.Background())
	if len(gifts) != 1 || gifts[0].Title != "Socks" {
		t.Fatalf("gifts = %+v", gifts)
	}
	if s, _ := fx.fsm.Get(bob.ID); s.Flow != FlowReserveGift {
		t.Errorf("bob session = %+v, want reserve flow", s)
	}
}

func TestListEmptyWishlist(t *testing.T) {
	fx := newFixture()
	c := newFakeContext(alice, "/list")
	if err := fx.h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !strings.Contains(c.lastSent(), "empty") {
		t.Errorf("reply = %q, want empty-list message", c.lastSent())
	}
}

func TestMissingSenderIsGatewayError(t *testing.T) {
	fx := newFixture()
	c := newFakeContext(nil, "/add")
	err := fx.h.AddStart(c)
	if err == nil {
		t.Fatal("AddStart with no sender: want error")
	}
	type coder interface{ Code() string }
	ce, ok := err.(coder)
	if !ok || ce.Code() != "no_sender" {
		t.Errorf("err = %v, want no_sender code", err)
	}
}
