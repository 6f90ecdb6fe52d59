package wishlist

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/wishbot/core/logger"
)

// Service applies the authorization rules that sit above raw storage and
// emits a structured log line per operation.
type Service struct {
	store Store
}

// NewService wraps a Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// AddGift validates the title and persists a new gift. The actor is the
// user running the add flow; it is recorded in logs only.
func (s *Service) AddGift(ctx context.Context, title string, description *string, actor string) (Gift, error) {
	start := time.Now()
	if strings.TrimSpace(title) == "" {
		return Gift{}, ErrValidation
	}
	g, err := s.store.AddGift(ctx, title, description)
	s.logOp(ctx, "gift.add", start, err,
		slog.Int64("gift_id", g.ID),
		slog.String("actor", actor),
	)
	return g, err
}

// Overview returns every gift with its comments, ordered by gift id.
func (s *Service) Overview(ctx context.Context) ([]GiftOverview, error) {
	start := time.Now()
	gifts, err := s.store.ListGifts(ctx)
	if err != nil {
		s.logOp(ctx, "gift.list", start, err)
		return nil, err
	}

	out := make([]GiftOverview, 0, len(gifts))
	for _, g := range gifts {
		comments, err := s.store.ListComments(ctx, g.ID)
		if err != nil {
			s.logOp(ctx, "gift.list", start, err, slog.Int64("gift_id", g.ID))
			return nil, err
		}
		out = append(out, GiftOverview{Gift: g, Comments: comments})
	}
	s.logOp(ctx, "gift.list", start, nil, slog.Int("gifts", len(out)))
	return out, nil
}

// AddComment records a comment on an existing gift. The gift moves to
// commented unless it is currently reserved.
func (s *Service) AddComment(ctx context.Context, giftID int64, author, text string) (Comment, error) {
	start := time.Now()
	c, err := s.store.AddComment(ctx, giftID, author, text)
	s.logOp(ctx, "comment.add", start, err,
		slog.Int64("gift_id", giftID),
		slog.Int64("comment_id", c.ID),
		slog.String("actor", author),
	)
	return c, err
}

// Reserve marks the gift as reserved by user, regardless of prior status.
func (s *Service) Reserve(ctx context.Context, giftID int64, user string) error {
	start := time.Now()
	err := s.store.Reserve(ctx, giftID, user)
	s.logOp(ctx, "gift.reserve", start, err,
		slog.Int64("gift_id", giftID),
		slog.String("actor", user),
	)
	return err
}

// Unreserve releases a reservation held by user. An unknown gift or a
// gift without a reservation is ErrNotFound; a reservation held by a
// different user is ErrForbidden. Storage is untouched on rejection.
func (s *Service) Unreserve(ctx context.Context, giftID int64, user string) (Status, error) {
	start := time.Now()

	owner, err := s.store.ReservationOwner(ctx, giftID)
	if err == nil && owner == nil {
		err = ErrNotFound
	}
	if err == nil && *owner != user {
		err = ErrForbidden
	}
	if err != nil {
		s.logOp(ctx, "gift.unreserve", start, err,
			slog.Int64("gift_id", giftID),
			slog.String("actor", user),
		)
		return "", err
	}

	status, err := s.store.Unreserve(ctx, giftID)
	s.logOp(ctx, "gift.unreserve", start, err,
		slog.Int64("gift_id", giftID),
		slog.String("gift_status", string(status)),
		slog.String("actor", user),
	)
	return status, err
}

// RemoveComment deletes a comment authored by the requesting user.
func (s *Service) RemoveComment(ctx context.Context, commentID int64, author string) error {
	start := time.Now()
	err := s.store.DeleteComment(ctx, commentID, author)
	s.logOp(ctx, "comment.remove", start, err,
		slog.Int64("comment_id", commentID),
		slog.String("actor", author),
	)
	return err
}

func (s *Service) logOp(ctx context.Context, event string, start time.Time, err error, attrs ...slog.Attr) {
	base := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		base = append(base, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	}
	logger.LogEvent(ctx, logger.SVCGifts, slog.LevelInfo, event, append(base, attrs...)...)
}
