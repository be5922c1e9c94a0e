package domain

import "strings"

type Role string

const (
	RoleReader  Role = "READER"
	RoleBlogger Role = "BLOGGER"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole maps s to one of the known roles, ignoring case and surrounding spaces.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleReader, RoleBlogger, RoleAdmin:
		return r, true
	}
	return "", false
}

// Is reports whether r and other name the same role. Comparison is case-insensitive.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Author is the public view of a user attached to posts, comments and likes.
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=READER BLOGGER"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleAuthRequest struct {
	IDToken string `json:"idToken" validate:"required"`
	Role    Role   `json:"role" validate:"required,oneof=READER BLOGGER"`
}

// UpdateProfileRequest only carries the fields being changed; nil fields are left alone by the backend.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=64"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}
