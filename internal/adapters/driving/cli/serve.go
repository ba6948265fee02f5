package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/campus-labs/deptchat/internal/core/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the background sync scheduler",
	Long: `Runs the scheduler in the foreground: the document sync task executes
on its configured interval until interrupted. Questions can be asked
from another terminal while this runs; answering only reads the index.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	mirror, err := a.mirror()
	if err != nil {
		return err
	}

	scheduler := services.NewScheduler(
		a.cfg.SchedulerSettings(),
		a.store.SchedulerStore(),
		mirror,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Scheduler running, sync interval %s. Ctrl-C to stop.\n", a.cfg.SyncInterval())
	err = scheduler.Start(ctx)
	if errors.Is(err, context.Canceled) {
		cmd.Println("\nStopping...")
		return scheduler.Stop()
	}
	return err
}
