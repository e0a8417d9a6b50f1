package repository

import (
	"context"
	"database/sql"
	"time"
)

// anonViewWindow is how long an anonymous view from the same IP counts as
// a duplicate.  Keyed on IP it is inherently approximate (shared IPs,
// NAT); an accepted trade-off, not something to tighten silently.
const anonViewWindow = time.Hour

const (
	queryViewByUser      = "SELECT EXISTS(SELECT 1 FROM views WHERE user_id=? AND post_id=?)"
	queryViewByIP        = "SELECT EXISTS(SELECT 1 FROM views WHERE post_id=? AND ip_address=? AND user_id IS NULL AND created_at >= ?)"
	queryViewInsert      = "INSERT INTO views (user_id, post_id, ip_address) VALUES (?,?,?)"
	queryViewIncrement   = "UPDATE posts SET views_count = views_count + 1 WHERE id=?"
)

// ViewRepo persists deduplicated view events.  Authenticated viewers are
// deduplicated forever via the unique (user_id, post_id) key; anonymous
// viewers by IP within anonViewWindow.  The row insert and the
// posts.views_count increment run in one transaction so the counter moves
// exactly once per non-duplicate view.
type ViewRepo struct{ DB *sql.DB }

func NewViewRepo(db *sql.DB) *ViewRepo { return &ViewRepo{DB: db} }

// Record stores a view event unless it is a duplicate.  userID is nil for
// anonymous requests, in which case ip keys the dedup window.  It returns
// whether the view was counted.  A racing duplicate insert by the same
// user loses against the unique key and is reported as not counted rather
// than as an error.
func (r *ViewRepo) Record(ctx context.Context, postID uint64, userID *uint64, ip string) (bool, error) {
	var exists bool
	var err error
	if userID != nil {
		err = r.DB.QueryRowContext(ctx, queryViewByUser, *userID, postID).Scan(&exists)
	} else {
		since := time.Now().UTC().Add(-anonViewWindow)
		err = r.DB.QueryRowContext(ctx, queryViewByIP, postID, ip, since).Scan(&exists)
	}
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var ipArg *string
	if userID == nil {
		ipArg = &ip
	}
	if _, err := tx.ExecContext(ctx, queryViewInsert, userID, postID, ipArg); err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	if _, err := tx.ExecContext(ctx, queryViewIncrement, postID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}
