package model

import "time"

// Role names stored in users.role and carried inside JWT claims.
const (
    RoleUser      = "user"
    RoleModerator = "moderator"
    RoleAdmin     = "admin"
)

// Moderation states stored in users.status.  The stored value alone is not
// authoritative for access decisions: a suspension lapses when timeout_until
// passes without any write reconciling the column.  Always go through
// IsActive.
const (
    StatusActive    = "active"
    StatusSuspended = "suspended"
    StatusBanned    = "banned"
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  The json tags are omitted
// here because these structs are used by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Role         – access tier: user, moderator or admin.
//  Status       – moderation state: active, suspended or banned.
//  TimeoutUntil – end of a temporary suspension (null unless suspended).
//  BannedAt     – when a permanent ban was applied (null otherwise).
//  BannedReason – reason recorded by the banning or suspending admin.
//  LikesCount   – aggregate count of likes received on the user's posts.
//  LastLoginAt  – timestamp of the most recent successful login.
type User struct {
    ID           uint64     // users.id
    Name         string     // users.name
    Email        string     // users.email
    PasswordHash string     // users.password_hash
    Role         string     // users.role
    Status       string     // users.status
    TimeoutUntil *time.Time // users.timeout_until (nullable)
    BannedAt     *time.Time // users.banned_at (nullable)
    BannedReason *string    // users.banned_reason (nullable)
    Bio          *string    // users.bio (nullable)
    Image        *string    // users.image (nullable)
    Title        *string    // users.title (nullable)
    Location     *string    // users.location (nullable)
    Website      *string    // users.website (nullable)
    Twitter      *string    // users.twitter (nullable)
    Linkedin     *string    // users.linkedin (nullable)
    Github       *string    // users.github (nullable)
    LikesCount   uint64     // users.likes_count
    LastLoginAt  *time.Time // users.last_login_at (nullable)
    CreatedAt    time.Time  // users.created_at
    UpdatedAt    time.Time  // users.updated_at
}

// IsActive derives the authoritative access-control state at the given
// instant.  Banned users are never active.  Suspended users become active
// again once timeout_until has passed; the stored status column stays
// 'suspended' until the next admin write, so callers must use this
// predicate rather than comparing Status against StatusActive.
func (u *User) IsActive(now time.Time) bool {
    switch u.Status {
    case StatusBanned:
        return false
    case StatusSuspended:
        return u.TimeoutUntil == nil || !u.TimeoutUntil.After(now)
    }
    return true
}
