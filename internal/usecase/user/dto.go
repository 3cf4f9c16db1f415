package user

import "github.com/google/uuid"

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Name  string
	Email string
}

// CreateUserResponse carries the identifier generated for the new user.
type CreateUserResponse struct {
	ID uuid.UUID
}

// UpdateUserRequest represents a partial update of an existing user.
// A nil field is left unchanged.
type UpdateUserRequest struct {
	ID    uuid.UUID
	Name  *string
	Email *string
}

// UpdateUserResponse carries the user as stored after the update.
type UpdateUserResponse struct {
	User User
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID uuid.UUID
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	ID uuid.UUID
}

// ListUsersResponse holds every stored user.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID    uuid.UUID
	Name  string
	Email string
}
