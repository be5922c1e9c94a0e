// Package session owns the client's authentication state: the bearer token and the user it
// belongs to. The pair is persisted through a storage.KV and published through observables.
// Only Set, Clear and Invalidate change it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/observe"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/sidereusnuntius/blogfront/internal/storage"
)

// Keys under which the session is persisted.
const (
	TokenKey = "auth_token"
	UserKey  = "current_user"
)

var ErrIncomplete = errors.New("token and user are both required")

// Navigator performs the redirect that follows a forced sign-out.
type Navigator interface {
	Redirect(target string)
}

type NavigatorFunc func(target string)

func (f NavigatorFunc) Redirect(target string) { f(target) }

// Snapshot is an immutable view of the session. Token and User are either both set or both empty.
type Snapshot struct {
	Token string
	User  *domain.User
}

func (s Snapshot) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

type Store struct {
	mu    sync.Mutex
	kv    storage.KV
	nav   Navigator
	now   func() time.Time
	state *observe.Value[Snapshot]
	auth  observe.Observable[bool]
	user  observe.Observable[*domain.User]
}

type Option func(*Store)

// WithClock replaces the clock used to check token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an anonymous store. A nil kv means no durable storage is available; a nil nav
// means forced sign-outs do not navigate.
func New(kv storage.KV, nav Navigator, opts ...Option) *Store {
	if kv == nil {
		kv = storage.Nop{}
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	s := &Store{
		kv:    kv,
		nav:   nav,
		now:   time.Now,
		state: observe.NewValue(Snapshot{}),
	}
	s.auth = observe.Map[Snapshot](s.state, Snapshot.Authenticated)
	s.user = observe.Map[Snapshot](s.state, func(snap Snapshot) *domain.User { return snap.User })
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the persisted session. Anything missing, unreadable, malformed or expired
// leaves the store anonymous and removes the leftovers.
func (s *Store) Initialize() {
	s.mu.Lock()
	snap, err := s.read()
	if err != nil {
		if !errors.Is(err, storage.ErrNotExist) {
			log.Warn().Err(err).Msg("discarding persisted session")
		}
		s.purge()
		snap = Snapshot{}
	}
	notify := s.publish(snap)
	s.mu.Unlock()
	notify()
}

func (s *Store) read() (Snapshot, error) {
	token, err := s.kv.Get(TokenKey)
	if err != nil {
		return Snapshot{}, err
	}
	raw, err := s.kv.Get(UserKey)
	if err != nil {
		return Snapshot{}, err
	}
	if token == "" {
		return Snapshot{}, storage.ErrNotExist
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return Snapshot{}, fmt.Errorf("malformed user: %w", err)
	}
	role, ok := domain.ParseRole(string(u.Role))
	if !ok {
		return Snapshot{}, fmt.Errorf("unknown role %q", u.Role)
	}
	u.Role = role

	if s.expired(token) {
		return Snapshot{}, errors.New("token expired")
	}
	return Snapshot{Token: token, User: &u}, nil
}

// expired reports whether token is a JWT whose exp claim has passed. Opaque tokens never expire
// locally; the backend decides.
func (s *Store) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}

// Set persists and publishes a new session. If persisting fails nothing changes.
func (s *Store) Set(token string, user domain.User) error {
	if token == "" {
		return ErrIncomplete
	}
	role, ok := domain.ParseRole(string(user.Role))
	if !ok {
		return fmt.Errorf("unknown role %q", user.Role)
	}
	user.Role = role

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	err = s.kv.Set(TokenKey, token)
	if err == nil {
		err = s.kv.Set(UserKey, string(raw))
	}
	if err != nil {
		s.purge()
		// Storage now matches neither session; restore the one still in memory.
		if prev := s.state.Get(); prev.Authenticated() {
			s.persist(prev)
		}
		s.mu.Unlock()
		log.Error().Err(err).Msg("failed to persist session")
		return err
	}
	notify := s.publish(Snapshot{Token: token, User: &user})
	s.mu.Unlock()
	notify()
	return nil
}

// Clear signs out and sends the navigator to the login view, remembering returnTo. It does
// nothing when no one is signed in.
func (s *Store) Clear(returnTo string) {
	s.mu.Lock()
	if !s.state.Get().Authenticated() {
		s.mu.Unlock()
		return
	}
	s.purge()
	notify := s.publish(Snapshot{})
	s.mu.Unlock()
	notify()

	s.nav.Redirect(route.LoginURL(returnTo))
}

// Invalidate clears the session only if it still holds token, so that a rejection of an old
// token cannot sign out a newer login. It reports whether the session was cleared.
func (s *Store) Invalidate(token, returnTo string) bool {
	s.mu.Lock()
	current := s.state.Get()
	if token == "" || current.Token != token {
		s.mu.Unlock()
		return false
	}
	s.purge()
	notify := s.publish(Snapshot{})
	s.mu.Unlock()
	notify()

	s.nav.Redirect(route.LoginURL(returnTo))
	return true
}

// publish swaps the snapshot under s.mu and returns the notification, which runs once s.mu is
// released. Authenticated and User are both read from the snapshot, so they never disagree.
func (s *Store) publish(snap Snapshot) (notify func()) {
	return s.state.Put(snap)
}

func (s *Store) persist(snap Snapshot) {
	raw, err := json.Marshal(snap.User)
	if err != nil {
		s.purge()
		return
	}
	if err := errors.Join(s.kv.Set(TokenKey, snap.Token), s.kv.Set(UserKey, string(raw))); err != nil {
		log.Error().Err(err).Msg("failed to restore session")
		s.purge()
	}
}

func (s *Store) purge() {
	if err := errors.Join(s.kv.Delete(TokenKey), s.kv.Delete(UserKey)); err != nil {
		log.Warn().Err(err).Msg("failed to remove persisted session")
	}
}

func (s *Store) Snapshot() Snapshot {
	return s.state.Get()
}

func (s *Store) Token() string {
	return s.state.Get().Token
}

func (s *Store) CurrentUser() (domain.User, bool) {
	snap := s.state.Get()
	if snap.User == nil {
		return domain.User{}, false
	}
	return *snap.User, true
}

func (s *Store) IsLoggedIn() bool {
	return s.state.Get().Authenticated()
}

// HasRole reports whether the signed-in user has any of roles.
func (s *Store) HasRole(roles ...domain.Role) bool {
	u, ok := s.CurrentUser()
	if !ok {
		return false
	}
	for _, r := range roles {
		if u.Role.Is(r) {
			return true
		}
	}
	return false
}

// Authenticated publishes whether someone is signed in.
func (s *Store) Authenticated() observe.Observable[bool] {
	return s.auth
}

// User publishes the signed-in user, or nil.
func (s *Store) User() observe.Observable[*domain.User] {
	return s.user
}
