package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and sync status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	cmd.Printf("Config:    %s\n", a.configPath)
	cmd.Printf("Data dir:  %s\n", a.cfg.Paths.DataDir)

	index, err := a.indexes.Load(cmd.Context())
	switch {
	case errors.Is(err, domain.ErrIndexNotFound):
		cmd.Println("Index:     not built (run 'deptchat sync')")
	case err != nil:
		return fmt.Errorf("loading index: %w", err)
	default:
		m := index.Manifest()
		cmd.Printf("Index:     %d chunks, %s/%s (%dd), built %s\n",
			m.ChunkCount, m.Provider, m.Model, m.Dimensions,
			m.BuiltAt.Local().Format(time.RFC1123))
	}

	runs, err := a.store.CatalogStore().RecentSyncRuns(cmd.Context(), 5)
	if err != nil {
		return fmt.Errorf("reading sync history: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("Syncs:     none recorded")
		return nil
	}

	cmd.Println("Recent syncs:")
	for _, run := range runs {
		line := fmt.Sprintf("  %s  +%d -%d",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Downloaded, run.Removed)
		if run.Failed > 0 {
			line += fmt.Sprintf("  (%d failed)", run.Failed)
		}
		if run.RebuildError != "" {
			line += "  rebuild error: " + run.RebuildError
		}
		cmd.Println(line)
	}
	return nil
}
