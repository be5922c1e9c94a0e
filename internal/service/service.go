// Package service binds the backend's authentication endpoints to a session.
package service

//go:generate mockgen -destination=../mocks/service.go -package=mocks . AuthAPI

import (
	"context"
	"errors"

	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/validate"
)

var (
	ErrInvalidInput = validate.ErrInvalidInput
	ErrNotSignedIn  = errors.New("not signed in")
)

// AuthAPI is the part of the backend client the service calls.
type AuthAPI interface {
	Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
	GoogleLogin(ctx context.Context, req domain.GoogleAuthRequest) (domain.AuthResponse, error)
	UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (domain.AuthResponse, error)
	Me(ctx context.Context) (domain.User, error)
}

// Session is the session store the service writes to.
type Session interface {
	Set(token string, user domain.User) error
	Token() string
	Clear(returnTo string)
}

type Service interface {
	// Register creates an account and signs it in. Input is validated before any request is made.
	Register(ctx context.Context, s Session, req domain.RegisterRequest) (domain.User, error)
	// Login signs in with an email address and password.
	Login(ctx context.Context, s Session, req domain.LoginRequest) (domain.User, error)
	// GoogleLogin signs in with a Google ID token, creating the account with req.Role if needed.
	GoogleLogin(ctx context.Context, s Session, req domain.GoogleAuthRequest) (domain.User, error)
	// UpdateProfile changes the signed-in user's profile, storing the token the backend reissues.
	UpdateProfile(ctx context.Context, s Session, req domain.UpdateProfileRequest) (domain.User, error)
	// Refresh reloads the signed-in user from the backend.
	Refresh(ctx context.Context, s Session) (domain.User, error)
	Logout(s Session)
}
