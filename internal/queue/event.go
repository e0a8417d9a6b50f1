// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// Moderation actions carried in ModerationEvent.Action.
const (
    ActionPostApproved    = "post.approved"
    ActionPostRejected    = "post.rejected"
    ActionPostDeleted     = "post.deleted"
    ActionUserBanned      = "user.banned"
    ActionUserTimedOut    = "user.timed_out"
    ActionUserUnbanned    = "user.unbanned"
    ActionUserRoleChanged = "user.role_changed"
    ActionUserDeleted     = "user.deleted"
)

// ModerationEvent is published whenever an admin applies a moderation
// transition.  It contains enough information for downstream consumers to
// build an audit trail or notify the affected user without querying the
// primary database.
type ModerationEvent struct {
    Action     string `json:"action"`
    ActorID    uint64 `json:"actor_id"`
    ActorEmail string `json:"actor_email"`
    TargetID   uint64 `json:"target_id"`
    Detail     string `json:"detail,omitempty"`
    OccurredAt string `json:"occurred_at"`
}

// NewModerationEvent stamps an event with the current time.  The actor
// fields are filled in by the caller.
func NewModerationEvent(action string, targetID uint64, detail string) ModerationEvent {
    return ModerationEvent{
        Action:     action,
        TargetID:   targetID,
        Detail:     detail,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
}
