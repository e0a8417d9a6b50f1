package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emre-dev/blog-platform/internal/model"
)

const commentJoined = "SELECT cm.id, cm.content, cm.user_id, cm.post_id, cm.created_at, u.name, u.image, u.role" +
	" FROM comments cm JOIN users u ON u.id=cm.user_id"

const (
	queryCommentInsert = "INSERT INTO comments (content, user_id, post_id) VALUES (?,?,?)"
	queryCommentByID   = commentJoined + " WHERE cm.id=? LIMIT 1"
	queryCommentList   = commentJoined + " WHERE cm.post_id=? ORDER BY cm.created_at DESC LIMIT ? OFFSET ?"
	queryCommentCount  = "SELECT COUNT(*) FROM comments WHERE post_id=?"
)

// CommentRepo persists the append-only comments table.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// CommentWithAuthor is a comment row joined with the commenting user's
// public fields.
type CommentWithAuthor struct {
	model.Comment
	AuthorName  string
	AuthorImage *string
	AuthorRole  string
}

// Create inserts a comment and returns it joined with its author.
func (r *CommentRepo) Create(ctx context.Context, content string, userID, postID uint64) (CommentWithAuthor, error) {
	res, err := r.DB.ExecContext(ctx, queryCommentInsert, content, userID, postID)
	if err != nil {
		return CommentWithAuthor{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return CommentWithAuthor{}, err
	}
	return scanComment(r.DB.QueryRowContext(ctx, queryCommentByID, uint64(id)))
}

// ListByPost returns a page of a post's comments, newest first, plus the
// total count.
func (r *CommentRepo) ListByPost(ctx context.Context, postID uint64, limit, offset int) ([]CommentWithAuthor, int, error) {
	rows, err := r.DB.QueryContext(ctx, queryCommentList, postID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comments := []CommentWithAuthor{}
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, queryCommentCount, postID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func scanComment(row rowScanner) (CommentWithAuthor, error) {
	var cm CommentWithAuthor
	var image sql.NullString
	err := row.Scan(&cm.ID, &cm.Content, &cm.UserID, &cm.PostID, &cm.CreatedAt,
		&cm.AuthorName, &image, &cm.AuthorRole)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CommentWithAuthor{}, ErrNotFound
		}
		return CommentWithAuthor{}, err
	}
	cm.AuthorImage = nullStringPtr(image)
	return cm, nil
}
