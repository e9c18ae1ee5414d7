package cmd

import (
	"github.com/courtside-app/courtside/cli/pkg/auth"
	"github.com/courtside-app/courtside/cli/pkg/config"
	"github.com/courtside-app/courtside/cli/pkg/service"
	"github.com/courtside-app/courtside/cli/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	feedPage     int
	feedPageSize int
	feedMaxPages int
	feedUser     string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Feed commands",
	Long:  "Read the Courtside feed, newest posts first",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		if cmd.Flags().Changed("page-size") {
			config.Set("feed.page_size", feedPageSize)
		}
		if cmd.Flags().Changed("max-pages") {
			config.Set("feed.max_pages", feedMaxPages)
		}
		_, err := auth.RequireSession()
		return err
	},
}

// newFeedService reads the home feed, or one player's posts with --user
func newFeedService() *service.FeedService {
	if feedUser != "" {
		return service.NewUserPostsService(feedUser)
	}
	return service.NewFeedService()
}

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show one page of the feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newFeedService().ViewPage(cmd.Context(), feedPage)
	},
}

var feedAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Load every page of the feed",
	Long:  "Load pages until the feed is exhausted or --max-pages is reached, dropping duplicates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newFeedService().ViewAll(cmd.Context())
	},
}

var feedBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the feed interactively",
	Long:  "Scroll with j/k, more posts load as you reach the end. r refreshes, q quits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context(), newFeedService().NewController())
	},
}

func init() {
	for _, c := range []*cobra.Command{feedListCmd, feedAllCmd, feedBrowseCmd} {
		c.Flags().IntVar(&feedPageSize, "page-size", 10, "Posts per page")
		c.Flags().StringVar(&feedUser, "user", "", "Only show posts by this user ID")
	}
	feedListCmd.Flags().IntVar(&feedPage, "page", 1, "Page number")
	feedAllCmd.Flags().IntVar(&feedMaxPages, "max-pages", 50, "Stop after this many pages")
	feedBrowseCmd.Flags().IntVar(&feedMaxPages, "max-pages", 50, "Stop after this many pages")

	feedCmd.AddCommand(feedListCmd)
	feedCmd.AddCommand(feedAllCmd)
	feedCmd.AddCommand(feedBrowseCmd)
}
