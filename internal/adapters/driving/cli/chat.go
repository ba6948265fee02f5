package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/campus-labs/deptchat/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat session",
	Long: `Opens a terminal chat session against the indexed documents.

Controls:
  Enter  - Send question
  ↑/↓    - Scroll the transcript
  Esc    - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	answerer, err := a.answerer()
	if err != nil {
		return err
	}

	chat, err := tui.NewApp(answerer)
	if err != nil {
		return fmt.Errorf("creating chat interface: %w", err)
	}
	chat.WithContext(cmd.Context())

	p := tea.NewProgram(chat, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface: %w", err)
	}
	return nil
}
