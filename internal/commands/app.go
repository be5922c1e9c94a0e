package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/client"
	"github.com/sidereusnuntius/blogfront/internal/config"
	"github.com/sidereusnuntius/blogfront/internal/guard"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/sidereusnuntius/blogfront/internal/service"
	core "github.com/sidereusnuntius/blogfront/internal/service/impl"
	"github.com/sidereusnuntius/blogfront/internal/session"
	"github.com/sidereusnuntius/blogfront/internal/storage"
	"github.com/sidereusnuntius/blogfront/internal/storage/filestore"
	"github.com/sidereusnuntius/blogfront/internal/storage/sqlitekv"
	"github.com/sidereusnuntius/blogfront/internal/store"
)

var (
	ErrNotSignedIn = errors.New("not signed in; run `blogfront login` first")
	ErrWrongRole   = errors.New("not available to your account")
)

// App holds what the terminal commands share: one session persisted on disk and the caches
// built on it.
type App struct {
	Config config.Configuration

	Session   *session.Store
	Client    *client.Client
	Service   service.Service
	Workspace *store.Workspace

	close func() error
	nav   *terminal
}

// terminal tells the user when a rejected token signed them out.
type terminal struct {
	w io.Writer
	// quiet is set while signing out on purpose.
	quiet bool
}

func (t *terminal) Redirect(target string) {
	if t.quiet {
		return
	}
	fmt.Fprintln(t.w, "Your session has expired. Run `blogfront login` to sign in again.")
}

func openStorage(c config.Configuration) (storage.KV, func() error, error) {
	switch c.Storage {
	case config.StorageFile:
		fs, err := filestore.New(c.StoragePath)
		return fs, func() error { return nil }, err
	default:
		kv, err := sqlitekv.Open(c.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil
	}
}

// open loads the persisted session and wires the client to it.
func (a *App) open(errOut io.Writer) error {
	if a.Session != nil {
		return nil
	}

	kv, closer, err := openStorage(a.Config)
	if err != nil {
		return fmt.Errorf("opening session storage: %w", err)
	}
	a.close = closer

	a.nav = &terminal{w: errOut}
	a.Session = session.New(kv, a.nav)
	a.Session.Initialize()

	a.Client = client.New(a.Config.APIURL, &http.Client{
		Timeout:   a.Config.RequestTimeout,
		Transport: client.NewAuthorizer(http.DefaultTransport, client.Static(a.Session)),
	})
	a.Service = core.New(a.Client)
	a.Workspace = store.NewWorkspace(a.Client)
	return nil
}

func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

// require checks g against the view a command stands for.
func (a *App) require(g guard.Guard, view string) error {
	d := g(a.Session, view)
	if d.Allowed {
		return nil
	}
	if strings.HasPrefix(d.Redirect, route.Login) {
		return ErrNotSignedIn
	}
	return fmt.Errorf("%w (your home is %s)", ErrWrongRole, d.Redirect)
}

func (a *App) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.Config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.Config.RequestTimeout)
}

func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Debug().Msg("debug logging enabled")
}
