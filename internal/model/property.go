package model

import "time"

// Property is a named, addressed physical location that owns a set of
// room types.
type Property struct {
    ID          uint64    // properties.id
    Name        string    // properties.name
    Address     string    // properties.address
    Description *string   // properties.description (nullable)
    CreatedAt   time.Time // properties.created_at
    UpdatedAt   time.Time // properties.updated_at
}
