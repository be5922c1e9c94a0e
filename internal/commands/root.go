// Package commands is the blogfront command tree: the web front and a terminal front sharing
// one persisted session.
package commands

import (
	"github.com/sidereusnuntius/blogfront/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	app := &App{}
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "blogfront",
		Short:         "Web and terminal client for the blog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.ReadConfig(config.New(configPath))
			if err != nil {
				return err
			}
			app.Config = c
			setupLogging(c.Debug)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default ./blogfront.yaml)")

	rootCmd.AddCommand(
		newServeCommand(app),
		newLoginCommand(app),
		newRegisterCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newProfileCommand(app),
		newPostsCommand(app),
		newCommentsCommand(app),
	)

	return rootCmd
}
