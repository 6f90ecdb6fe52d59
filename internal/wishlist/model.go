package wishlist

import "time"

// Status is the lifecycle state of a gift.
type Status string

const (
	StatusAvailable Status = "available"
	StatusCommented Status = "commented"
	StatusReserved  Status = "reserved"
)

// Gift is a single wishlist entry.
// ReservedBy is set if and only if Status is StatusReserved.
type Gift struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Description *string `db:"description"`
	Status      Status  `db:"status"`
	ReservedBy  *string `db:"reserved_by"`
}

// Comment belongs to exactly one gift; ordering is insertion order per gift.
type Comment struct {
	ID        int64     `db:"id"`
	GiftID    int64     `db:"gift_id"`
	Author    string    `db:"author"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}

// GiftOverview pairs a gift with its comments for rendering.
type GiftOverview struct {
	Gift     Gift
	Comments []Comment
}
