package user

import "github.com/google/uuid"

// User represents a user entity in the system.
type User struct {
	ID    uuid.UUID // ID is assigned on insert and never reassigned
	Name  string    // Name is the display name of the user
	Email string    // Email is the contact address of the user
}

// Patch lists the fields of a partial update. Nil fields are left unchanged.
type Patch struct {
	Name  *string
	Email *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}
