package commands

import (
	"fmt"
	"strings"

	"github.com/sidereusnuntius/blogfront/internal/guard"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/spf13/cobra"
)

func newCommentsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Args:    cobra.NoArgs,
		Aliases: []string{"c"},
		Short:   "Read and write comments",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list POST",
			Args:  cobra.ExactArgs(1),
			Short: "List the comments of a post",
			RunE: func(cmd *cobra.Command, args []string) error {
				postID, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := app.open(cmd.ErrOrStderr()); err != nil {
					return err
				}

				ctx, cancel := app.context(cmd.Context())
				defer cancel()
				if err := app.Workspace.Comments.Load(ctx, postID); err != nil {
					return describe(err)
				}
				for _, c := range app.Workspace.Comments.Comments().Get().Comments {
					fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s: %s\n", c.ID, c.Author.Username, c.Content)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add POST TEXT...",
			Args:  cobra.MinimumNArgs(2),
			Short: "Comment on a post",
			RunE: func(cmd *cobra.Command, args []string) error {
				postID, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := app.open(cmd.ErrOrStderr()); err != nil {
					return err
				}
				if err := app.require(guard.Auth, route.Post(postID)); err != nil {
					return err
				}

				ctx, cancel := app.context(cmd.Context())
				defer cancel()
				c, err := app.Workspace.Comments.Add(ctx, postID, strings.Join(args[1:], " "))
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Comment %d added.\n", c.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete POST COMMENT",
			Args:  cobra.ExactArgs(2),
			Short: "Delete one of your comments",
			RunE: func(cmd *cobra.Command, args []string) error {
				postID, err := parseID(args[0])
				if err != nil {
					return err
				}
				commentID, err := parseID(args[1])
				if err != nil {
					return err
				}
				if err := app.open(cmd.ErrOrStderr()); err != nil {
					return err
				}
				if err := app.require(guard.Auth, route.Post(postID)); err != nil {
					return err
				}

				ctx, cancel := app.context(cmd.Context())
				defer cancel()
				if err := app.Workspace.Comments.Delete(ctx, postID, commentID); err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Comment %d deleted.\n", commentID)
				return nil
			},
		},
	)
	return cmd
}
