package wishlist

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and the dev profile.
// A single mutex keeps every read-then-write transition atomic.
type MemoryStore struct {
	mu sync.Mutex

	gifts    map[int64]*Gift
	comments map[int64]*Comment

	nextGiftID    int64
	nextCommentID int64

	now func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		gifts:         make(map[int64]*Gift),
		comments:      make(map[int64]*Comment),
		nextGiftID:    1,
		nextCommentID: 1,
		now:           time.Now,
	}
}

func (s *MemoryStore) AddGift(_ context.Context, title string, description *string) (Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := &Gift{
		ID:          s.nextGiftID,
		Title:       title,
		Description: cloneString(description),
		Status:      StatusAvailable,
	}
	s.nextGiftID++
	s.gifts[g.ID] = g
	return *g, nil
}

func (s *MemoryStore) ListGifts(_ context.Context) ([]Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Gift, 0, len(s.gifts))
	for _, g := range s.gifts {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) AddComment(_ context.Context, giftID int64, author, text string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gifts[giftID]
	if !ok {
		return Comment{}, ErrNotFound
	}

	c := &Comment{
		ID:        s.nextCommentID,
		GiftID:    giftID,
		Author:    author,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	s.nextCommentID++
	s.comments[c.ID] = c

	if g.Status != StatusReserved {
		g.Status = StatusCommented
	}
	return *c, nil
}

func (s *MemoryStore) ListComments(_ context.Context, giftID int64) ([]Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commentsForLocked(giftID), nil
}

func (s *MemoryStore) ReservationOwner(_ context.Context, giftID int64) (*string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gifts[giftID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneString(g.ReservedBy), nil
}

func (s *MemoryStore) Reserve(_ context.Context, giftID int64, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gifts[giftID]
	if !ok {
		return ErrNotFound
	}
	g.Status = StatusReserved
	g.ReservedBy = &user
	return nil
}

func (s *MemoryStore) Unreserve(_ context.Context, giftID int64) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.gifts[giftID]
	if !ok {
		return "", ErrNotFound
	}

	status := StatusAvailable
	if len(s.commentsForLocked(giftID)) > 0 {
		status = StatusCommented
	}
	g.Status = status
	g.ReservedBy = nil
	return status, nil
}

func (s *MemoryStore) DeleteComment(_ context.Context, commentID int64, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return ErrNotFound
	}
	if c.Author != author {
		return ErrForbidden
	}
	delete(s.comments, commentID)
	return nil
}

func (s *MemoryStore) commentsForLocked(giftID int64) []Comment {
	var out []Comment
	for _, c := range s.comments {
		if c.GiftID == giftID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
