package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campus-labs/deptchat/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the department's documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	answerer, err := a.answerer()
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	answer, err := answerer.Answer(cmd.Context(), question)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) {
			return errors.New("no index found; run 'deptchat sync' first")
		}
		return fmt.Errorf("answering failed: %w", err)
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println("\nSources:")
		for _, src := range answer.Sources {
			cmd.Printf("  - %s\n", src)
		}
	}
	return nil
}
