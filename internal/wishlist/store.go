package wishlist

import "context"

// Store is the persistence boundary for gifts and comments. Status
// transition rules are enforced here, at the call boundary:
//
//   - AddComment moves a gift to commented unless it is reserved;
//     a reservation is never overwritten by a comment.
//   - Reserve is last-writer-wins regardless of prior status.
//   - Unreserve re-derives status from current comment existence and
//     clears the reserver. Caller authorization happens above the store.
//
// Implementations must keep each read-then-write rule atomic per gift.
type Store interface {
	AddGift(ctx context.Context, title string, description *string) (Gift, error)
	ListGifts(ctx context.Context) ([]Gift, error)

	AddComment(ctx context.Context, giftID int64, author, text string) (Comment, error)
	ListComments(ctx context.Context, giftID int64) ([]Comment, error)

	// ReservationOwner returns nil for an existing gift that is not
	// reserved and ErrNotFound for an unknown gift id.
	ReservationOwner(ctx context.Context, giftID int64) (*string, error)
	Reserve(ctx context.Context, giftID int64, user string) error
	Unreserve(ctx context.Context, giftID int64) (Status, error)

	// DeleteComment removes the comment only when author matches the
	// stored author exactly; a mismatch is ErrForbidden, an unknown
	// comment id is ErrNotFound.
	DeleteComment(ctx context.Context, commentID int64, author string) error
}
