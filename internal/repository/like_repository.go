package repository

import (
	"context"
	"database/sql"
)

const (
	queryLikeDelete    = "DELETE FROM likes WHERE user_id=? AND post_id=?"
	queryLikeInsert    = "INSERT INTO likes (user_id, post_id) VALUES (?,?)"
	queryLikeDecrement = "UPDATE posts SET likes_count = likes_count - 1 WHERE id=?"
	queryLikeIncrement = "UPDATE posts SET likes_count = likes_count + 1 WHERE id=?"
	queryLikeExists    = "SELECT EXISTS(SELECT 1 FROM likes WHERE user_id=? AND post_id=?)"
)

// LikeRepo persists the likes join table.  The toggle keeps the like row
// and posts.likes_count in step by mutating both inside one transaction,
// so two racing toggles cannot drift the counter: the second delete
// affects zero rows and the second insert trips the unique
// (user_id, post_id) key.
type LikeRepo struct{ DB *sql.DB }

func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{DB: db} }

// Toggle removes an existing like or creates a missing one and adjusts the
// post's counter in the same transaction.  It returns the resulting state:
// true when the post is now liked by the user.  A racing duplicate insert
// surfaces as ErrConflict.
func (r *LikeRepo) Toggle(ctx context.Context, userID, postID uint64) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, queryLikeDelete, userID, postID)
	if err != nil {
		return false, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if deleted > 0 {
		if _, err := tx.ExecContext(ctx, queryLikeDecrement, postID); err != nil {
			return false, err
		}
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, queryLikeInsert, userID, postID); err != nil {
		if isDuplicateKey(err) {
			return false, ErrConflict
		}
		return false, err
	}
	if _, err := tx.ExecContext(ctx, queryLikeIncrement, postID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// Exists reports whether the user currently likes the post.
func (r *LikeRepo) Exists(ctx context.Context, userID, postID uint64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, queryLikeExists, userID, postID).Scan(&exists)
	return exists, err
}
