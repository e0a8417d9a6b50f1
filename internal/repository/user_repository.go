package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/emre-dev/blog-platform/internal/model"
	"github.com/emre-dev/blog-platform/internal/utils"
)

// ErrEmailExists signals a duplicate registration attempt; the email
// column carries a unique key over its lower-cased value.
var ErrEmailExists = errors.New("email already exists")

const userColumns = "id, name, email, password_hash, role, status, timeout_until, banned_at, banned_reason, bio, image, title, location, website, twitter, linkedin, github, likes_count, last_login_at, created_at, updated_at"

const (
	queryUserInsert      = "INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)"
	queryUserByEmail     = "SELECT " + userColumns + " FROM users WHERE email=? LIMIT 1"
	queryUserByID        = "SELECT " + userColumns + " FROM users WHERE id=? LIMIT 1"
	queryUserList        = "SELECT " + userColumns + ", (SELECT COUNT(*) FROM posts p WHERE p.user_id=users.id) AS posts_count FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?"
	queryUserCount       = "SELECT COUNT(*) FROM users"
	queryUserBan         = "UPDATE users SET status='banned', banned_at=?, banned_reason=?, timeout_until=NULL WHERE id=?"
	queryUserTimeout     = "UPDATE users SET status='suspended', timeout_until=?, banned_reason=? WHERE id=?"
	queryUserUnban       = "UPDATE users SET status='active', banned_at=NULL, banned_reason=NULL, timeout_until=NULL WHERE id=?"
	queryUserSetRole     = "UPDATE users SET role=? WHERE id=?"
	queryUserTouchLogin  = "UPDATE users SET last_login_at=? WHERE id=?"
	queryUserStats       = "SELECT (SELECT COUNT(*) FROM posts WHERE user_id=?), (SELECT COUNT(*) FROM likes WHERE user_id=?)"
	queryUserProfileEdit = "UPDATE users SET name=?, bio=?, title=?, location=?, website=?, twitter=?, linkedin=?, github=? WHERE id=?"
)

// UserRepo provides persistence for the users table, including the
// moderation transitions (ban, timeout, unban, role change) and the
// cascading delete.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// UserWithStats is a user row joined with its post count, used by the
// admin user listing.
type UserWithStats struct {
	model.User
	PostsCount uint64
}

// UserStats aggregates the counters shown on a profile page.
type UserStats struct {
	PostsCount uint64 // approved and pending posts authored
	LikesGiven uint64 // like rows created by the user
}

// ProfileUpdate carries the self-editable profile fields.  Name is
// required; the rest are nullable free-text columns.
type ProfileUpdate struct {
	Name     string
	Bio      *string
	Title    *string
	Location *string
	Website  *string
	Twitter  *string
	Linkedin *string
	Github   *string
}

// Create hashes the password and inserts a user with role 'user' and
// status 'active'. The normalized email's unique key turns a duplicate
// registration into ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx, queryUserInsert, name, email, hash, model.RoleUser)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx, queryUserByEmail, email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, queryUserByID, id))
}

// List returns a page of users with their post counts, newest first,
// plus the total number of users.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]UserWithStats, int, error) {
	rows, err := r.DB.QueryContext(ctx, queryUserList, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []UserWithStats{}
	for rows.Next() {
		var u UserWithStats
		if err := scanUserFields(rows, &u.User, &u.PostsCount); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, queryUserCount).Scan(&total); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateProfile writes the self-editable fields of a user's own profile.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, p ProfileUpdate) error {
	res, err := r.DB.ExecContext(ctx, queryUserProfileEdit,
		p.Name, p.Bio, p.Title, p.Location, p.Website, p.Twitter, p.Linkedin, p.Github, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// TouchLastLogin records a successful login timestamp. Failures are
// non-fatal for the login flow; callers may ignore the error.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, queryUserTouchLogin, time.Now().UTC(), id)
	return err
}

// Ban marks a user permanently banned. Any pending timeout is cleared:
// a ban overrides a suspension. Callers verify the target exists and is
// not an admin before calling.
func (r *UserRepo) Ban(ctx context.Context, id uint64, reason string) error {
	_, err := r.DB.ExecContext(ctx, queryUserBan, time.Now().UTC(), reason, id)
	return err
}

// Timeout suspends a user until the given instant.
func (r *UserRepo) Timeout(ctx context.Context, id uint64, until time.Time, reason string) error {
	_, err := r.DB.ExecContext(ctx, queryUserTimeout, until, reason, id)
	return err
}

// Unban resets a user to active and clears every ban and timeout field.
func (r *UserRepo) Unban(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, queryUserUnban, id)
	return err
}

// SetRole updates a user's role. The self-change and valid-role checks
// happen at the handler boundary.
func (r *UserRepo) SetRole(ctx context.Context, id uint64, role string) error {
	_, err := r.DB.ExecContext(ctx, queryUserSetRole, role, id)
	return err
}

// Stats returns the aggregate counters for a profile page.
func (r *UserRepo) Stats(ctx context.Context, id uint64) (UserStats, error) {
	var s UserStats
	err := r.DB.QueryRowContext(ctx, queryUserStats, id, id).Scan(&s.PostsCount, &s.LikesGiven)
	return s, err
}

// Delete removes a user and every row that belongs to them (comments,
// likes, views, their posts and those posts' dependents) in a single
// transaction so no orphans survive a partial failure. Likes the
// user gave to other posts are reflected back into those posts' counters
// before the rows go away.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	steps := []string{
		"UPDATE posts SET likes_count = likes_count - 1 WHERE id IN (SELECT post_id FROM likes WHERE user_id=?)",
		"DELETE FROM likes WHERE user_id=?",
		"DELETE FROM comments WHERE user_id=?",
		"DELETE FROM views WHERE user_id=?",
		"DELETE c FROM comments c JOIN posts p ON c.post_id=p.id WHERE p.user_id=?",
		"DELETE l FROM likes l JOIN posts p ON l.post_id=p.id WHERE p.user_id=?",
		"DELETE v FROM views v JOIN posts p ON v.post_id=p.id WHERE p.user_id=?",
		"DELETE FROM posts WHERE user_id=?",
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// requireAffected maps a zero-row write to ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	err := scanUserFields(row, &u)
	return u, err
}

// scanUserFields scans the userColumns list into u, plus any extra
// destinations appended to the select (e.g. the list query's post count).
func scanUserFields(row rowScanner, u *model.User, extra ...any) error {
	var (
		timeoutUntil sql.NullTime
		bannedAt     sql.NullTime
		bannedReason sql.NullString
		bio          sql.NullString
		image        sql.NullString
		title        sql.NullString
		location     sql.NullString
		website      sql.NullString
		twitter      sql.NullString
		linkedin     sql.NullString
		github       sql.NullString
		lastLoginAt  sql.NullTime
	)
	dest := []any{
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&timeoutUntil, &bannedAt, &bannedReason,
		&bio, &image, &title, &location, &website, &twitter, &linkedin, &github,
		&u.LikesCount, &lastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	u.TimeoutUntil = nullTimePtr(timeoutUntil)
	u.BannedAt = nullTimePtr(bannedAt)
	u.BannedReason = nullStringPtr(bannedReason)
	u.Bio = nullStringPtr(bio)
	u.Image = nullStringPtr(image)
	u.Title = nullStringPtr(title)
	u.Location = nullStringPtr(location)
	u.Website = nullStringPtr(website)
	u.Twitter = nullStringPtr(twitter)
	u.Linkedin = nullStringPtr(linkedin)
	u.Github = nullStringPtr(github)
	u.LastLoginAt = nullTimePtr(lastLoginAt)
	return nil
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
