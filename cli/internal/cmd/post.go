package cmd

import (
	"strings"

	"github.com/courtside-app/courtside/cli/pkg/auth"
	"github.com/courtside-app/courtside/cli/pkg/service"
	"github.com/spf13/cobra"
)

var postOpts service.CreatePostOptions

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post management commands",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		_, err := auth.RequireSession()
		return err
	},
}

var postCreateCmd = &cobra.Command{
	Use:   "create <content>",
	Short: "Publish a post",
	Long:  "Publish a post. Types: general, match, looking_for_partner, tip.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService().Create(cmd.Context(), strings.Join(args, " "), postOpts)
	},
}

var postShowCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "Show a post and its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService().Show(cmd.Context(), args[0])
	},
}

var postLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService().Like(cmd.Context(), args[0], true)
	},
}

var postUnlikeCmd = &cobra.Command{
	Use:   "unlike <post-id>",
	Short: "Remove your like from a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService().Like(cmd.Context(), args[0], false)
	},
}

var postCommentCmd = &cobra.Command{
	Use:   "comment <post-id> <content>",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService().Comment(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewPostService().Delete(cmd.Context(), args[0])
	},
}

func init() {
	postCreateCmd.Flags().StringVar(&postOpts.PostType, "type", "general", "Post type")
	postCreateCmd.Flags().StringVar(&postOpts.ImagePath, "image", "", "Attach an image (jpeg, png, gif or webp)")

	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postLikeCmd)
	postCmd.AddCommand(postUnlikeCmd)
	postCmd.AddCommand(postCommentCmd)
	postCmd.AddCommand(postDeleteCmd)
}
