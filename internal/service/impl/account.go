package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/service"
	"github.com/sidereusnuntius/blogfront/internal/validate"
)

func (s *AppService) Register(ctx context.Context, sess service.Session, req domain.RegisterRequest) (domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if role, ok := domain.ParseRole(string(req.Role)); ok {
		req.Role = role
	}

	if err := validate.Struct(req); err != nil {
		return domain.User{}, err
	}

	res, err := s.API.Register(ctx, req)
	if err != nil {
		return domain.User{}, err
	}
	return s.start(sess, res)
}

// Login signs in with an email address and password.
func (s *AppService) Login(ctx context.Context, sess service.Session, req domain.LoginRequest) (domain.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return domain.User{}, err
	}

	res, err := s.API.Login(ctx, req)
	if err != nil {
		return domain.User{}, err
	}
	return s.start(sess, res)
}

func (s *AppService) GoogleLogin(ctx context.Context, sess service.Session, req domain.GoogleAuthRequest) (domain.User, error) {
	if role, ok := domain.ParseRole(string(req.Role)); ok {
		req.Role = role
	}
	if err := validate.Struct(req); err != nil {
		return domain.User{}, err
	}

	res, err := s.API.GoogleLogin(ctx, req)
	if err != nil {
		return domain.User{}, err
	}
	return s.start(sess, res)
}

func (s *AppService) start(sess service.Session, res domain.AuthResponse) (domain.User, error) {
	if err := sess.Set(res.Token, *res.User); err != nil {
		return domain.User{}, err
	}
	log.Info().Int64("user", res.User.ID).Str("role", string(res.User.Role)).Msg("signed in")
	return *res.User, nil
}

func (s *AppService) UpdateProfile(ctx context.Context, sess service.Session, req domain.UpdateProfileRequest) (domain.User, error) {
	token := sess.Token()
	if token == "" {
		return domain.User{}, service.ErrNotSignedIn
	}
	if err := validate.Struct(req); err != nil {
		return domain.User{}, err
	}

	res, err := s.API.UpdateProfile(ctx, req)
	if err != nil {
		return domain.User{}, err
	}
	if res.Token != "" {
		token = res.Token
	}
	if err := sess.Set(token, *res.User); err != nil {
		return domain.User{}, err
	}
	return *res.User, nil
}

func (s *AppService) Refresh(ctx context.Context, sess service.Session) (domain.User, error) {
	token := sess.Token()
	if token == "" {
		return domain.User{}, service.ErrNotSignedIn
	}

	u, err := s.API.Me(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if sess.Token() != token {
		// Signed out or in again meanwhile.
		return u, nil
	}
	if err := sess.Set(token, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *AppService) Logout(sess service.Session) {
	sess.Clear("")
}
