package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/guard"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/spf13/cobra"
)

func newPostsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "posts",
		Args:    cobra.NoArgs,
		Aliases: []string{"p"},
		Short:   "Read, write and like posts",
	}

	cmd.AddCommand(
		newPostsListCommand(app),
		newPostsShowCommand(app),
		newPostsCreateCommand(app),
		newPostsLikeCommand(app),
	)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printPosts(w io.Writer, posts []domain.Post) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tAUTHOR\tLIKES\tCOMMENTS")
	for _, p := range posts {
		liked := ""
		if p.LikedByCurrentUser {
			liked = " *"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d%s\t%d\n", p.ID, p.Title, p.Category, p.Author.Username, p.Likes, liked, p.Comments)
	}
	tw.Flush()
}

func newPostsListCommand(app *App) *cobra.Command {
	var category, query string
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Args:  cobra.NoArgs,
		Short: "List posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.ErrOrStderr()); err != nil {
				return err
			}

			ctx, cancel := app.context(cmd.Context())
			defer cancel()

			if mine {
				if err := app.require(guard.Blogger, route.BloggerHome); err != nil {
					return err
				}
				posts, err := app.Client.MyPosts(ctx)
				if err != nil {
					return describe(err)
				}
				printPosts(cmd.OutOrStdout(), posts)
				return nil
			}

			if err := app.require(guard.Auth, route.Home); err != nil {
				return err
			}
			if err := app.Workspace.Posts.Load(ctx); err != nil {
				return describe(err)
			}
			printPosts(cmd.OutOrStdout(), app.Workspace.Posts.Filter(category, query))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only posts of this category")
	cmd.Flags().StringVarP(&query, "query", "q", "", "only posts whose title, content or excerpt contains this")
	cmd.Flags().BoolVar(&mine, "mine", false, "only my own posts")
	return cmd
}

func newPostsShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Args:  cobra.ExactArgs(1),
		Short: "Show a post with its likes and comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.open(cmd.ErrOrStderr()); err != nil {
				return err
			}

			ctx, cancel := app.context(cmd.Context())
			defer cancel()
			ws := app.Workspace
			post, err := ws.Posts.Fetch(ctx, id)
			if err != nil {
				return describe(err)
			}
			if err := ws.Comments.Load(ctx, id); err != nil {
				return describe(err)
			}
			likers, err := app.Client.Likes(ctx, id)
			if err != nil {
				return describe(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s · %s", post.Title, post.Category, post.Author.Username)
			if !post.Date.IsZero() {
				fmt.Fprintf(out, " · %s", post.Date.Format("2006-01-02"))
			}
			fmt.Fprintf(out, "\n\n%s\n\n", post.Content)
			if len(post.Tags) > 0 {
				fmt.Fprintf(out, "tags: %s\n", strings.Join(post.Tags, ", "))
			}

			names := make([]string, len(likers))
			for i, l := range likers {
				names[i] = l.Username
			}
			fmt.Fprintf(out, "%d likes", post.Likes)
			if len(names) > 0 {
				fmt.Fprintf(out, ": %s", strings.Join(names, ", "))
			}
			fmt.Fprintln(out)

			comments := ws.Comments.Comments().Get().Comments
			fmt.Fprintf(out, "%d comments\n", len(comments))
			for _, c := range comments {
				fmt.Fprintf(out, "  [%d] %s: %s\n", c.ID, c.Author.Username, c.Content)
			}
			return nil
		},
	}
}

func newPostsCreateCommand(app *App) *cobra.Command {
	var req domain.PostRequest
	var tags, contentFile string

	cmd := &cobra.Command{
		Use:   "create",
		Args:  cobra.NoArgs,
		Short: "Publish a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := app.require(guard.Blogger, route.PostForm); err != nil {
				return err
			}

			if contentFile != "" {
				var content []byte
				var err error
				if contentFile == "-" {
					content, err = io.ReadAll(cmd.InOrStdin())
				} else {
					content, err = os.ReadFile(contentFile)
				}
				if err != nil {
					return err
				}
				req.Content = string(content)
			}
			for _, t := range strings.Split(tags, ",") {
				if t = strings.TrimSpace(t); t != "" {
					req.Tags = append(req.Tags, t)
				}
			}

			ctx, cancel := app.context(cmd.Context())
			defer cancel()
			post, err := app.Workspace.Posts.Create(ctx, req)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published post %d: %s\n", post.ID, route.Post(post.ID))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Title, "title", "", "title")
	f.StringVar(&req.Excerpt, "excerpt", "", "short summary shown in listings")
	f.StringVar(&req.Category, "category", "", "category")
	f.StringVar(&req.Image, "image", "", "cover image URL")
	f.StringVar(&req.Content, "content", "", "content, HTML allowed")
	f.StringVar(&contentFile, "content-file", "", "read the content from a file, or - for standard input")
	f.StringVar(&tags, "tags", "", "comma-separated tags")
	return cmd
}

func newPostsLikeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "like ID",
		Args:  cobra.ExactArgs(1),
		Short: "Like a post, or take the like back",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.open(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := app.require(guard.Auth, route.Post(id)); err != nil {
				return err
			}

			ctx, cancel := app.context(cmd.Context())
			defer cancel()
			res, err := app.Workspace.Posts.ToggleLike(ctx, id)
			if err != nil {
				return describe(err)
			}
			if res.Liked {
				fmt.Fprintf(cmd.OutOrStdout(), "You like post %d.\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "You no longer like post %d.\n", id)
			}
			return nil
		},
	}
}
