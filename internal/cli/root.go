// Package cli holds the storyshelf command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/5w1tchy/storyshelf/internal/config"
	"github.com/5w1tchy/storyshelf/internal/logger"
	"github.com/5w1tchy/storyshelf/internal/validate"
)

var (
	envFile string
	cfg     *config.Config
)

var RootCmd = &cobra.Command{
	Use:   "storyshelf",
	Short: "Catalog and serve a directory of StoryWeaver books",
	Long: "storyshelf scans a books directory, derives metadata from attribution files,\n" +
		"renders cover thumbnails and serves the catalog over HTTP.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if dir, _ := cmd.Flags().GetString("books-dir"); dir != "" {
			c.BooksDir = dir
		}
		logger.Configure(c.LogLevel, c.LogFormat, os.Stderr)

		log := logger.For(cmd.Context())
		for _, w := range validate.HardeningWarnings(c) {
			log.Warn(w)
		}
		cfg = c
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")
	RootCmd.PersistentFlags().String("books-dir", "", "books root (overrides SHELF_BOOKS_DIR)")
}
