package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/client"
	"github.com/sidereusnuntius/blogfront/internal/oauth"
	core "github.com/sidereusnuntius/blogfront/internal/service/impl"
	"github.com/sidereusnuntius/blogfront/internal/web"
	"github.com/spf13/cobra"
)

func newServeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Serve the web front",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &app.Config
			if err := c.CheckSessionKey(); err != nil {
				return err
			}

			// Each request resolves the session of the browser it serves.
			api := client.New(c.APIURL, &http.Client{
				Timeout:   c.RequestTimeout,
				Transport: client.NewAuthorizer(http.DefaultTransport, client.FromContext),
			})
			google := oauth.NewGoogle(c.Google.ClientID, c.Google.ClientSecret, c.Google.RedirectURL)

			handler := web.New(c, api, core.New(api), web.NewManager(c), google)
			router := chi.NewRouter()
			handler.Mount(router)

			s := &http.Server{
				Addr:              c.Listen,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				log.Info().Str("addr", c.Listen).Str("api", c.APIURL.String()).Msg("started server")
				errc <- s.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.Shutdown(shutdown); err != nil {
				return err
			}
			if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
