package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the vector index from the local document cache",
	Long: `Rebuilds the vector index from scratch: every cached document is
re-extracted, re-chunked and re-embedded, and the new index atomically
replaces the old one. Use after changing the embedding provider.`,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	rebuilder, err := a.rebuilder()
	if err != nil {
		return err
	}

	cmd.Println("Rebuilding index...")
	if err := rebuilder.Rebuild(cmd.Context()); err != nil {
		if errors.Is(err, domain.ErrEmptyCorpus) {
			cmd.Println("No documents in the local cache; index cleared. Run 'deptchat sync' first.")
			return nil
		}
		return fmt.Errorf("rebuild failed: %w", err)
	}

	cmd.Println("Index rebuilt.")
	return nil
}
