package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emre-dev/blog-platform/internal/model"
)

// ErrCategoryInUse is returned when deleting a category that still has
// posts attached.  Handlers translate it into a 409.
var ErrCategoryInUse = errors.New("category has posts")

// ErrNameExists is returned when another category already claims the name
// (case-insensitively).
var ErrNameExists = errors.New("category name already exists")

const categoryColumns = "id, name, slug, description, created_at, updated_at"

const (
	queryCategoryInsert       = "INSERT INTO categories (name, slug, description) VALUES (?,?,?)"
	queryCategoryByID         = "SELECT " + categoryColumns + " FROM categories WHERE id=? LIMIT 1"
	queryCategoryBySlug       = "SELECT " + categoryColumns + " FROM categories WHERE slug=? LIMIT 1"
	queryCategoryUpdate       = "UPDATE categories SET name=?, description=? WHERE id=?"
	queryCategoryDelete       = "DELETE FROM categories WHERE id=?"
	queryCategoryNameTaken    = "SELECT EXISTS(SELECT 1 FROM categories WHERE LOWER(name)=LOWER(?) AND id<>?)"
	queryCategorySlugExists   = "SELECT EXISTS(SELECT 1 FROM categories WHERE slug=?)"
	queryCategoryPostCount    = "SELECT COUNT(*) FROM posts WHERE category_id=?"
	queryCategoryListAll      = "SELECT " + categoryColumns + ", (SELECT COUNT(*) FROM posts p WHERE p.category_id=categories.id) FROM categories ORDER BY name ASC"
	queryCategoryListApproved = "SELECT " + categoryColumns + ", (SELECT COUNT(*) FROM posts p WHERE p.category_id=categories.id AND p.status='approved') FROM categories ORDER BY name ASC"
)

// CategoryRepo persists the categories taxonomy.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// CategoryWithCount is a category row joined with its post count.  The
// public listing counts only approved posts; the admin listing counts all.
type CategoryWithCount struct {
	model.Category
	PostsCount uint64
}

// Create inserts a category.  The slug was checked for uniqueness by the
// caller; a losing race against the unique key maps to ErrConflict.
func (r *CategoryRepo) Create(ctx context.Context, cat *model.Category) error {
	res, err := r.DB.ExecContext(ctx, queryCategoryInsert, cat.Name, cat.Slug, cat.Description)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cat.ID = uint64(id)
	return nil
}

// GetByID fetches a category by id.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	return scanCategory(r.DB.QueryRowContext(ctx, queryCategoryByID, id))
}

// GetBySlug fetches a category by slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (model.Category, error) {
	return scanCategory(r.DB.QueryRowContext(ctx, queryCategoryBySlug, slug))
}

// List returns all categories ordered by name with a post count per
// category; approvedOnly restricts the count to approved posts for the
// public listing.
func (r *CategoryRepo) List(ctx context.Context, approvedOnly bool) ([]CategoryWithCount, error) {
	q := queryCategoryListAll
	if approvedOnly {
		q = queryCategoryListApproved
	}
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []CategoryWithCount{}
	for rows.Next() {
		var c CategoryWithCount
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &desc, &c.CreatedAt, &c.UpdatedAt, &c.PostsCount); err != nil {
			return nil, err
		}
		c.Description = nullStringPtr(desc)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// NameTaken reports whether another category (excluding excludeID) already
// uses the name, compared case-insensitively.
func (r *CategoryRepo) NameTaken(ctx context.Context, name string, excludeID uint64) (bool, error) {
	var taken bool
	err := r.DB.QueryRowContext(ctx, queryCategoryNameTaken, name, excludeID).Scan(&taken)
	return taken, err
}

// SlugExists reports whether a category already claims the slug.
func (r *CategoryRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, queryCategorySlugExists, slug).Scan(&exists)
	return exists, err
}

// Update rewrites a category's name and description.  The slug is
// immutable once assigned, matching post slugs.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, name string, description *string) error {
	res, err := r.DB.ExecContext(ctx, queryCategoryUpdate, name, description, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a category only when no posts reference it; otherwise it
// returns ErrCategoryInUse.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	var count int
	if err := r.DB.QueryRowContext(ctx, queryCategoryPostCount, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	res, err := r.DB.ExecContext(ctx, queryCategoryDelete, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanCategory(row rowScanner) (model.Category, error) {
	var c model.Category
	var desc sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &desc, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, err
	}
	c.Description = nullStringPtr(desc)
	return c, nil
}
