package model

import "time"

// Comment represents a row in the `comments` table.  Comments are
// append-only: there is no edit operation.  They disappear only through
// the cascades that run when their post or their author is deleted.
//
// Fields:
//  ID      – primary key identifier.
//  Content – comment body (minimum 3 characters).
//  UserID  – commenting user.
//  PostID  – commented post.
type Comment struct {
    ID        uint64    // comments.id
    Content   string    // comments.content
    UserID    uint64    // comments.user_id
    PostID    uint64    // comments.post_id
    CreatedAt time.Time // comments.created_at
}
