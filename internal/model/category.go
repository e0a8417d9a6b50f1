package model

import "time"

// Category represents a taxonomy node in the `categories` table.  Both the
// name (case-insensitively) and the slug are unique.  A category can only
// be deleted while no posts reference it.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique display name (minimum 2 characters).
//  Slug        – unique URL-safe identifier derived from the name.
//  Description – optional free text (nullable).
type Category struct {
    ID          uint64    // categories.id
    Name        string    // categories.name
    Slug        string    // categories.slug
    Description *string   // categories.description (nullable)
    CreatedAt   time.Time // categories.created_at
    UpdatedAt   time.Time // categories.updated_at
}
