package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise documents from the remote bucket",
	Long: `Reconciles the local document cache against the remote bucket:
new and changed files are downloaded, files deleted remotely are
removed locally, and the index is rebuilt when anything changed.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	mirror, err := a.mirror()
	if err != nil {
		return err
	}

	cmd.Println("Synchronising documents...")
	report, err := mirror.Sync(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Downloaded: %d, removed: %d, failed: %d\n",
		len(report.Downloaded), len(report.Removed), len(report.Failed))
	for _, name := range report.Failed {
		cmd.Printf("  failed: %s\n", name)
	}

	switch {
	case report.RebuildError != nil:
		return fmt.Errorf("sync completed but rebuild failed: %w", report.RebuildError)
	case report.Changed:
		cmd.Println("Index rebuilt.")
	default:
		cmd.Println("No changes, index is up to date.")
	}
	return nil
}
