package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/guard"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/spf13/cobra"
)

// readPassword takes the password from the flag, or else from the first line of in.
func readPassword(flag string, in io.Reader) (string, error) {
	if flag != "" {
		return flag, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCommand(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Args:  cobra.NoArgs,
		Short: "Sign in with an email address and password",
		Long:  "Sign in. Without --password the password is read from standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := app.require(guard.Guest, route.Login); err != nil {
				return fmt.Errorf("already signed in; run `blogfront logout` first")
			}

			password, err := readPassword(password, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, cancel := app.context(cmd.Context())
			defer cancel()
			u, err := app.Service.Login(ctx, app.Session, domain.LoginRequest{Email: email, Password: password})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s).\n", u.Username, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCommand(app *App) *cobra.Command {
	var username, email, password, role string

	cmd := &cobra.Command{
		Use:   "register",
		Args:  cobra.NoArgs,
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := app.require(guard.Guest, route.Register); err != nil {
				return fmt.Errorf("already signed in; run `blogfront logout` first")
			}

			password, err := readPassword(password, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, cancel := app.context(cmd.Context())
			defer cancel()
			u, err := app.Service.Register(ctx, app.Session, domain.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
				Role:     domain.Role(role),
			})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are registered as %s.\n", u.Username, u.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "user name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleReader), "READER or BLOGGER")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Args:  cobra.NoArgs,
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if !app.Session.IsLoggedIn() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}
			app.nav.quiet = true
			app.Service.Logout(app.Session)
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Args:  cobra.NoArgs,
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := app.require(guard.Auth, route.Home); err != nil {
				return err
			}

			u, _ := app.Session.CurrentUser()
			if refresh {
				ctx, cancel := app.context(cmd.Context())
				defer cancel()
				var err error
				if u, err = app.Service.Refresh(ctx, app.Session); err != nil {
					return describe(err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", u.Username, u.Email)
			fmt.Fprintf(out, "role: %s\nhome: %s\n", u.Role, route.HomeFor(u.Role))
			if u.Bio != "" {
				fmt.Fprintf(out, "bio: %s\n", u.Bio)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the user from the backend")
	return cmd
}

func newProfileCommand(app *App) *cobra.Command {
	var username, avatar, bio string

	cmd := &cobra.Command{
		Use:   "profile",
		Args:  cobra.NoArgs,
		Short: "Update the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := app.require(guard.Auth, route.Profile); err != nil {
				return err
			}

			var req domain.UpdateProfileRequest
			flags := cmd.Flags()
			if flags.Changed("username") {
				req.Username = &username
			}
			if flags.Changed("avatar") {
				req.Avatar = &avatar
			}
			if flags.Changed("bio") {
				req.Bio = &bio
			}

			ctx, cancel := app.context(cmd.Context())
			defer cancel()
			u, err := app.Service.UpdateProfile(ctx, app.Session, req)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile of %s updated.\n", u.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "new user name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	cmd.Flags().StringVar(&bio, "bio", "", "biography")
	return cmd
}
