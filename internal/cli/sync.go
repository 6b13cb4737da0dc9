package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/5w1tchy/storyshelf/internal/store/catalog"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one catalog sync and print the result",
	Long: "Scans the books directory once, fills in metadata for new books, renders\n" +
		"missing thumbnails and writes the metadata document when something changed.",
	RunE: runSync,
}

func init() {
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	a := newApp(cmd.Context(), cfg)
	defer a.Close()

	doc, err := a.store.Sync(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tPDF")
	for _, s := range catalog.Summaries(doc) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Title, s.Metadata.Author, s.EpubPath)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d books in %s\n", len(doc), a.store.MetadataPath())
	return nil
}
