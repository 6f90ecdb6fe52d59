package wishlist

import (
	"context"
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestAddGiftStartsAvailable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	g, err := store.AddGift(ctx, "Socks", nil)
	if err != nil {
		t.Fatalf("AddGift: %v", err)
	}
	if g.Status != StatusAvailable {
		t.Errorf("status = %q, want %q", g.Status, StatusAvailable)
	}
	if g.ReservedBy != nil {
		t.Errorf("reserved_by = %v, want nil", *g.ReservedBy)
	}

	gifts, err := store.ListGifts(ctx)
	if err != nil {
		t.Fatalf("ListGifts: %v", err)
	}
	if len(gifts) != 1 {
		t.Fatalf("len(gifts) = %d, want 1", len(gifts))
	}
	if gifts[0].Title != "Socks" {
		t.Errorf("title = %q, want %q", gifts[0].Title, "Socks")
	}
}

func TestListGiftsOrderedByID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, title := range []string{"a", "b", "c"} {
		if _, err := store.AddGift(ctx, title, nil); err != nil {
			t.Fatalf("AddGift(%q): %v", title, err)
		}
	}

	gifts, err := store.ListGifts(ctx)
	if err != nil {
		t.Fatalf("ListGifts: %v", err)
	}
	for i := 1; i < len(gifts); i++ {
		if gifts[i-1].ID >= gifts[i].ID {
			t.Fatalf("ids not ascending: %v then %v", gifts[i-1].ID, gifts[i].ID)
		}
	}
}

func TestAddCommentTransitionsStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g, _ := store.AddGift(ctx, "Book", strPtr("hardcover"))

	if _, err := store.AddComment(ctx, g.ID, "@alice", "nice"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	gifts, _ := store.ListGifts(ctx)
	if gifts[0].Status != StatusCommented {
		t.Errorf("status after comment = %q, want %q", gifts[0].Status, StatusCommented)
	}

	// repeated comments keep the gift commented
	if _, err := store.AddComment(ctx, g.ID, "@bob", "agreed"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	gifts, _ = store.ListGifts(ctx)
	if gifts[0].Status != StatusCommented {
		t.Errorf("status after second comment = %q, want %q", gifts[0].Status, StatusCommented)
	}
}

func TestAddCommentNeverOverridesReservation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g, _ := store.AddGift(ctx, "Book", nil)

	if err := store.Reserve(ctx, g.ID, "@alice"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := store.AddComment(ctx, g.ID, "@bob", "too late"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	gifts, _ := store.ListGifts(ctx)
	if gifts[0].Status != StatusReserved {
		t.Errorf("status = %q, want %q", gifts[0].Status, StatusReserved)
	}
	if gifts[0].ReservedBy == nil || *gifts[0].ReservedBy != "@alice" {
		t.Errorf("reserved_by = %v, want @alice", gifts[0].ReservedBy)
	}
}

func TestAddCommentUnknownGift(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.AddComment(context.Background(), 42, "@alice", "?"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReserveLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g, _ := store.AddGift(ctx, "Lego", nil)

	if err := store.Reserve(ctx, g.ID, "@alice"); err != nil {
		t.Fatalf("Reserve alice: %v", err)
	}
	if err := store.Reserve(ctx, g.ID, "@bob"); err != nil {
		t.Fatalf("Reserve bob: %v", err)
	}

	owner, err := store.ReservationOwner(ctx, g.ID)
	if err != nil {
		t.Fatalf("ReservationOwner: %v", err)
	}
	if owner == nil || *owner != "@bob" {
		t.Errorf("owner = %v, want @bob", owner)
	}
}

func TestReserveUnknownGift(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Reserve(context.Background(), 7, "@alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUnreserveRecomputesStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	plain, _ := store.AddGift(ctx, "Plain", nil)
	discussed, _ := store.AddGift(ctx, "Discussed", nil)
	if _, err := store.AddComment(ctx, discussed.ID, "@bob", "cool"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	for _, id := range []int64{plain.ID, discussed.ID} {
		if err := store.Reserve(ctx, id, "@alice"); err != nil {
			t.Fatalf("Reserve(%d): %v", id, err)
		}
	}

	status, err := store.Unreserve(ctx, plain.ID)
	if err != nil {
		t.Fatalf("Unreserve plain: %v", err)
	}
	if status != StatusAvailable {
		t.Errorf("plain status = %q, want %q", status, StatusAvailable)
	}

	status, err = store.Unreserve(ctx, discussed.ID)
	if err != nil {
		t.Fatalf("Unreserve discussed: %v", err)
	}
	if status != StatusCommented {
		t.Errorf("discussed status = %q, want %q", status, StatusCommented)
	}

	gifts, _ := store.ListGifts(ctx)
	for _, g := range gifts {
		if g.ReservedBy != nil {
			t.Errorf("gift %d reserved_by = %q, want nil", g.ID, *g.ReservedBy)
		}
	}
}

func TestDeleteCommentAuthorization(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g, _ := store.AddGift(ctx, "Book", nil)
	c, _ := store.AddComment(ctx, g.ID, "@alice", "mine")

	if err := store.DeleteComment(ctx, c.ID, "@bob"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("delete by non-author: err = %v, want ErrForbidden", err)
	}
	comments, _ := store.ListComments(ctx, g.ID)
	if len(comments) != 1 {
		t.Fatalf("comment removed by non-author")
	}

	if err := store.DeleteComment(ctx, c.ID, "@alice"); err != nil {
		t.Fatalf("delete by author: %v", err)
	}
	comments, _ = store.ListComments(ctx, g.ID)
	if len(comments) != 0 {
		t.Fatalf("comment not removed by author")
	}

	if err := store.DeleteComment(ctx, c.ID, "@alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete unknown: err = %v, want ErrNotFound", err)
	}
}

func TestReservationOwner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g, _ := store.AddGift(ctx, "Book", nil)

	owner, err := store.ReservationOwner(ctx, g.ID)
	if err != nil {
		t.Fatalf("ReservationOwner: %v", err)
	}
	if owner != nil {
		t.Errorf("owner = %q, want nil", *owner)
	}

	if _, err := store.ReservationOwner(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown gift: err = %v, want ErrNotFound", err)
	}
}
