package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/emre-dev/blog-platform/internal/model"
)

// ErrSlugExists is returned when a post insert loses the slug race: the
// uniqueness check passed but a concurrent insert claimed the slug first.
// The unique key on posts.slug is the final arbiter.
var ErrSlugExists = errors.New("slug already exists")

const postColumns = "p.id, p.slug, p.title, p.content, p.user_id, p.category_id, p.status, p.views_count, p.likes_count, p.created_at, p.updated_at"

const postJoined = "SELECT " + postColumns + ", u.name, u.image, c.name" +
	" FROM posts p JOIN users u ON u.id=p.user_id LEFT JOIN categories c ON c.id=p.category_id"

const (
	queryPostInsert     = "INSERT INTO posts (slug, title, content, user_id, category_id, status) VALUES (?,?,?,?,?,?)"
	queryPostTimestamps = "SELECT created_at, updated_at FROM posts WHERE id=?"
	queryPostSlugExists = "SELECT EXISTS(SELECT 1 FROM posts WHERE slug=?)"
	queryPostByID       = postJoined + " WHERE p.id=? LIMIT 1"
	queryPostBySlug     = postJoined + " WHERE p.slug=? AND p.status='approved' LIMIT 1"
	queryPostSetStatus  = "UPDATE posts SET status=? WHERE id=?"
	queryPopularTopics  = "SELECT p.id, p.slug, p.title, p.views_count, p.likes_count," +
		" (SELECT COUNT(*) FROM comments cm WHERE cm.post_id=p.id), c.name, u.name" +
		" FROM posts p JOIN users u ON u.id=p.user_id LEFT JOIN categories c ON c.id=p.category_id" +
		" WHERE p.status='approved' ORDER BY p.views_count DESC, p.likes_count DESC LIMIT ?"
)

// PostRepo provides persistence for the posts table and the moderation
// transitions on post status.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// PostWithAuthor is a post row joined with its author's public fields and
// the category name, the shape every listing and detail endpoint returns.
type PostWithAuthor struct {
	model.Post
	AuthorName   string
	AuthorImage  *string
	CategoryName *string
}

// PostFilter narrows List. Status and CategoryID/UserID are optional;
// an empty Status means all moderation states (admin listing).
type PostFilter struct {
	Status     string
	CategoryID *uint64
	UserID     *uint64
	Limit      int
	Offset     int
}

// PopularTopic is the compact row shape for the popular-topics endpoint.
type PopularTopic struct {
	ID       uint64
	Slug     string
	Title    string
	Views    uint64
	Likes    uint64
	Replies  uint64
	Category *string
	Author   string
}

// Create inserts a post and reads back its generated id and timestamps.
// New posts always enter with whatever status the caller set; handlers
// pass 'pending' at creation time. A duplicate slug maps to ErrSlugExists.
func (r *PostRepo) Create(ctx context.Context, post *model.Post) error {
	res, err := r.DB.ExecContext(ctx, queryPostInsert,
		post.Slug, post.Title, post.Content, post.UserID, post.CategoryID, post.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSlugExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = uint64(id)
	return r.DB.QueryRowContext(ctx, queryPostTimestamps, post.ID).
		Scan(&post.CreatedAt, &post.UpdatedAt)
}

// SlugExists reports whether a post already claims the slug.
func (r *PostRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, queryPostSlugExists, slug).Scan(&exists)
	return exists, err
}

// GetByID fetches a post in any moderation state together with its author.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (PostWithAuthor, error) {
	return scanPost(r.DB.QueryRowContext(ctx, queryPostByID, id))
}

// GetBySlug fetches an approved post by slug. Pending and rejected posts
// are invisible through this path regardless of who asks.
func (r *PostRepo) GetBySlug(ctx context.Context, slug string) (PostWithAuthor, error) {
	return scanPost(r.DB.QueryRowContext(ctx, queryPostBySlug, slug))
}

// List returns a page of posts matching the filter, newest first, plus the
// total match count for pagination.
func (r *PostRepo) List(ctx context.Context, f PostFilter) ([]PostWithAuthor, int, error) {
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "p.status=?")
		args = append(args, f.Status)
	}
	if f.CategoryID != nil {
		where = append(where, "p.category_id=?")
		args = append(args, *f.CategoryID)
	}
	if f.UserID != nil {
		where = append(where, "p.user_id=?")
		args = append(args, *f.UserID)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	listQ := postJoined + cond + " ORDER BY p.created_at DESC LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, listQ, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []PostWithAuthor{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	countQ := "SELECT COUNT(*) FROM posts p" + cond
	if err := r.DB.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// SetStatus applies a moderation transition unconditionally: approving an
// already-approved post or flipping rejected to approved both succeed, so
// the operation is idempotent and reversible. There is no path back to
// 'pending'. Affected rows are deliberately not checked: MySQL reports
// zero for a no-op status write, which is the idempotent case. Callers
// verify existence first.
func (r *PostRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.DB.ExecContext(ctx, queryPostSetStatus, status, id)
	return err
}

// Delete removes a post and its comments, likes and views in one
// transaction.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		"DELETE FROM comments WHERE post_id=?",
		"DELETE FROM likes WHERE post_id=?",
		"DELETE FROM views WHERE post_id=?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// PopularTopics returns the top approved posts ordered by views, then
// likes.
func (r *PostRepo) PopularTopics(ctx context.Context, limit int) ([]PopularTopic, error) {
	rows, err := r.DB.QueryContext(ctx, queryPopularTopics, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []PopularTopic{}
	for rows.Next() {
		var t PopularTopic
		var category sql.NullString
		if err := rows.Scan(&t.ID, &t.Slug, &t.Title, &t.Views, &t.Likes, &t.Replies, &category, &t.Author); err != nil {
			return nil, err
		}
		t.Category = nullStringPtr(category)
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func scanPost(row rowScanner) (PostWithAuthor, error) {
	var p PostWithAuthor
	var categoryID sql.NullInt64
	var authorImage sql.NullString
	var categoryName sql.NullString
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Content, &p.UserID, &categoryID,
		&p.Status, &p.ViewsCount, &p.LikesCount, &p.CreatedAt, &p.UpdatedAt,
		&p.AuthorName, &authorImage, &categoryName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PostWithAuthor{}, ErrNotFound
		}
		return PostWithAuthor{}, err
	}
	if categoryID.Valid {
		id := uint64(categoryID.Int64)
		p.CategoryID = &id
	}
	p.AuthorImage = nullStringPtr(authorImage)
	p.CategoryName = nullStringPtr(categoryName)
	return p, nil
}
