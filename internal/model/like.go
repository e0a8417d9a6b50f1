package model

import "time"

// Like represents a row in the `likes` table.  The (user_id, post_id)
// pair carries a unique key; its presence or absence must always agree
// with posts.likes_count, which is why the toggle runs as a single
// transaction in the repository.
type Like struct {
    ID        uint64    // likes.id
    UserID    uint64    // likes.user_id
    PostID    uint64    // likes.post_id
    CreatedAt time.Time // likes.created_at
}
