package wishlist

import (
	"context"
	"errors"
	"testing"
)

func TestServiceAddGiftRejectsEmptyTitle(t *testing.T) {
	svc := NewService(NewMemoryStore())
	if _, err := svc.AddGift(context.Background(), "   ", nil, "@alice"); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestServiceUnreserveOwnerOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)

	g, err := svc.AddGift(ctx, "Lego", nil, "@alice")
	if err != nil {
		t.Fatalf("AddGift: %v", err)
	}
	if err := svc.Reserve(ctx, g.ID, "@alice"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if _, err := svc.Unreserve(ctx, g.ID, "@bob"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unreserve by non-owner: err = %v, want ErrForbidden", err)
	}
	// rejection leaves storage untouched
	owner, err := store.ReservationOwner(ctx, g.ID)
	if err != nil {
		t.Fatalf("ReservationOwner: %v", err)
	}
	if owner == nil || *owner != "@alice" {
		t.Fatalf("owner after rejection = %v, want @alice", owner)
	}

	status, err := svc.Unreserve(ctx, g.ID, "@alice")
	if err != nil {
		t.Fatalf("unreserve by owner: %v", err)
	}
	if status != StatusAvailable {
		t.Errorf("status = %q, want %q", status, StatusAvailable)
	}
}

func TestServiceUnreserveWithoutReservation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	g, _ := svc.AddGift(ctx, "Book", nil, "@alice")
	if _, err := svc.Unreserve(ctx, g.ID, "@alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unreserve unreserved gift: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Unreserve(ctx, 404, "@alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unreserve unknown gift: err = %v, want ErrNotFound", err)
	}
}

func TestServiceOverview(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	first, _ := svc.AddGift(ctx, "First", nil, "@alice")
	second, _ := svc.AddGift(ctx, "Second", nil, "@alice")
	if _, err := svc.AddComment(ctx, second.ID, "@bob", "want it"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	overview, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(overview) != 2 {
		t.Fatalf("len(overview) = %d, want 2", len(overview))
	}
	if overview[0].Gift.ID != first.ID || overview[1].Gift.ID != second.ID {
		t.Errorf("overview not ordered by gift id")
	}
	if len(overview[0].Comments) != 0 {
		t.Errorf("first gift comments = %d, want 0", len(overview[0].Comments))
	}
	if len(overview[1].Comments) != 1 || overview[1].Comments[0].Author != "@bob" {
		t.Errorf("second gift comments = %+v, want one by @bob", overview[1].Comments)
	}
}
