package model

import "time"

// Moderation states stored in posts.status.  Every new post starts as
// 'pending'; only an admin moves it to 'approved' or 'rejected', and those
// two states are reversible into each other.  Nothing ever transitions a
// post back to 'pending'.
const (
    PostStatusPending  = "pending"
    PostStatusApproved = "approved"
    PostStatusRejected = "rejected"
)

// Post represents a content unit in the `posts` table.  The slug is
// assigned once at creation and never changes afterwards.  ViewsCount and
// LikesCount are aggregates maintained transactionally alongside the view
// and like rows; they are never recomputed from scratch.
//
// Fields:
//  ID         – primary key identifier.
//  Slug       – globally unique URL-safe identifier derived from the title.
//  Title      – post title (minimum 5 characters).
//  Content    – post body (minimum 50 characters).
//  UserID     – owning author.
//  CategoryID – optional taxonomy reference (nullable).
//  Status     – moderation state: pending, approved or rejected.
//  ViewsCount – deduplicated view counter.
//  LikesCount – like counter, kept in step with the likes table.
type Post struct {
    ID         uint64    // posts.id
    Slug       string    // posts.slug
    Title      string    // posts.title
    Content    string    // posts.content
    UserID     uint64    // posts.user_id
    CategoryID *uint64   // posts.category_id (nullable)
    Status     string    // posts.status
    ViewsCount uint64    // posts.views_count
    LikesCount uint64    // posts.likes_count
    CreatedAt  time.Time // posts.created_at
    UpdatedAt  time.Time // posts.updated_at
}
