package model

import "time"

// View records one deduplicated view event in the `views` table.
// Authenticated views carry a UserID and a null IPAddress; the
// (user_id, post_id) pair is unique.  Anonymous views carry the client IP
// instead and are deduplicated against a one-hour window at insert time,
// an accepted approximation given shared IPs and NAT.
type View struct {
    ID        uint64    // views.id
    UserID    *uint64   // views.user_id (null for anonymous views)
    PostID    uint64    // views.post_id
    IPAddress *string   // views.ip_address (null for authenticated views)
    CreatedAt time.Time // views.created_at
}
