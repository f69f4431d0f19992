package models

import "time"

// User is the directory's sole entity. Only id, first_name, last_name
// and email cross the wire; the password hash and timestamps stay
// server-side.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never exposed in API responses
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// CreateUserRequest is the decoded body of POST /users.
type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UpdateUserRequest is the decoded body of PUT /users/{id}. Pointer
// fields distinguish "absent" from "present but empty"; absent fields
// leave the stored attribute unchanged. Password is decoded so clients
// that send it don't fail, but it is ignored on update.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}
