package wishlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists gifts and comments in PostgreSQL via sqlx.
// The read-then-write transition rules run inside a transaction holding
// a row lock on the gift, so concurrent writers cannot leave status
// inconsistent with the comment or reservation data.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) AddGift(ctx context.Context, title string, description *string) (Gift, error) {
	var g Gift
	err := s.db.GetContext(ctx, &g, `
		INSERT INTO gifts (title, description)
		VALUES ($1, $2)
		RETURNING id, title, description, status, reserved_by`,
		title, description,
	)
	if err != nil {
		return Gift{}, fmt.Errorf("wishlist: add gift: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) ListGifts(ctx context.Context) ([]Gift, error) {
	gifts := []Gift{}
	err := s.db.SelectContext(ctx, &gifts, `
		SELECT id, title, description, status, reserved_by
		FROM gifts
		ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("wishlist: list gifts: %w", err)
	}
	return gifts, nil
}

func (s *PostgresStore) AddComment(ctx context.Context, giftID int64, author, text string) (Comment, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Comment{}, fmt.Errorf("wishlist: add comment: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var status Status
	err = tx.GetContext(ctx, &status, `SELECT status FROM gifts WHERE id = $1 FOR UPDATE`, giftID)
	if errors.Is(err, sql.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	if err != nil {
		return Comment{}, fmt.Errorf("wishlist: add comment: lock gift: %w", err)
	}

	var c Comment
	err = tx.GetContext(ctx, &c, `
		INSERT INTO comments (gift_id, author, text)
		VALUES ($1, $2, $3)
		RETURNING id, gift_id, author, text, created_at`,
		giftID, author, text,
	)
	if err != nil {
		return Comment{}, fmt.Errorf("wishlist: add comment: insert: %w", err)
	}

	if status != StatusReserved {
		if _, err := tx.ExecContext(ctx, `UPDATE gifts SET status = $1 WHERE id = $2`, StatusCommented, giftID); err != nil {
			return Comment{}, fmt.Errorf("wishlist: add comment: update status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Comment{}, fmt.Errorf("wishlist: add comment: commit: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListComments(ctx context.Context, giftID int64) ([]Comment, error) {
	comments := []Comment{}
	err := s.db.SelectContext(ctx, &comments, `
		SELECT id, gift_id, author, text, created_at
		FROM comments
		WHERE gift_id = $1
		ORDER BY id`,
		giftID,
	)
	if err != nil {
		return nil, fmt.Errorf("wishlist: list comments: %w", err)
	}
	return comments, nil
}

func (s *PostgresStore) ReservationOwner(ctx context.Context, giftID int64) (*string, error) {
	var owner sql.NullString
	err := s.db.GetContext(ctx, &owner, `SELECT reserved_by FROM gifts WHERE id = $1`, giftID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("wishlist: reservation owner: %w", err)
	}
	if !owner.Valid {
		return nil, nil
	}
	return &owner.String, nil
}

func (s *PostgresStore) Reserve(ctx context.Context, giftID int64, user string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE gifts SET status = $1, reserved_by = $2 WHERE id = $3`,
		StatusReserved, user, giftID,
	)
	if err != nil {
		return fmt.Errorf("wishlist: reserve: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("wishlist: reserve: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Unreserve(ctx context.Context, giftID int64) (Status, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("wishlist: unreserve: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.GetContext(ctx, &id, `SELECT id FROM gifts WHERE id = $1 FOR UPDATE`, giftID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("wishlist: unreserve: lock gift: %w", err)
	}

	var hasComments bool
	err = tx.GetContext(ctx, &hasComments, `SELECT EXISTS (SELECT 1 FROM comments WHERE gift_id = $1)`, giftID)
	if err != nil {
		return "", fmt.Errorf("wishlist: unreserve: check comments: %w", err)
	}

	status := StatusAvailable
	if hasComments {
		status = StatusCommented
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE gifts SET status = $1, reserved_by = NULL WHERE id = $2`,
		status, giftID,
	); err != nil {
		return "", fmt.Errorf("wishlist: unreserve: update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("wishlist: unreserve: commit: %w", err)
	}
	return status, nil
}

func (s *PostgresStore) DeleteComment(ctx context.Context, commentID int64, author string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("wishlist: delete comment: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored string
	err = tx.GetContext(ctx, &stored, `SELECT author FROM comments WHERE id = $1 FOR UPDATE`, commentID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("wishlist: delete comment: lock: %w", err)
	}
	if stored != author {
		return ErrForbidden
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return fmt.Errorf("wishlist: delete comment: delete: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("wishlist: delete comment: commit: %w", err)
	}
	return nil
}
