// Package tui provides the interactive chat interface built on Bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campus-labs/deptchat/internal/adapters/driving/tui/messages"
	"github.com/campus-labs/deptchat/internal/adapters/driving/tui/styles"
	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driving"
)

// ErrNoAnswerService is returned when the app is created without an
// answering service.
var ErrNoAnswerService = errors.New("no answer service configured")

// exchange is one question and its (possibly pending) answer.
type exchange struct {
	question string
	answer   string
	sources  []string
	pending  bool
	err      error
}

// App is the chat application model. It implements tea.Model.
type App struct {
	answerer driving.AnswerService
	ctx      context.Context
	styles   *styles.Styles

	input    textinput.Model
	viewport viewport.Model

	history []exchange
	asking  bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat application around an answering service.
func NewApp(answerer driving.AnswerService) (*App, error) {
	if answerer == nil {
		return nil, ErrNoAnswerService
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about the department's documents..."
	ti.Focus()
	ti.CharLimit = 512

	return &App{
		answerer: answerer,
		ctx:      context.Background(),
		styles:   styles.DefaultStyles(),
		input:    ti,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}, nil
}

// WithContext sets the context used for answering.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setDimensions(msg.Width, msg.Height)
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		a.handleAnswerCompleted(msg)
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return a, tea.Quit

	case tea.KeyEnter:
		question := strings.TrimSpace(a.input.Value())
		if question == "" || a.asking {
			return a, nil
		}
		a.input.SetValue("")
		a.asking = true
		a.history = append(a.history, exchange{question: question, pending: true})
		a.refreshTranscript()
		return a, a.ask(question)

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	default:
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
}

// ask runs the answering service off the update loop.
func (a *App) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.answerer.Answer(a.ctx, question)
		return messages.AnswerCompleted{Answer: answer, Err: err}
	}
}

func (a *App) handleAnswerCompleted(msg messages.AnswerCompleted) {
	a.asking = false
	if len(a.history) == 0 {
		return
	}

	last := &a.history[len(a.history)-1]
	last.pending = false
	if msg.Err != nil {
		last.err = msg.Err
	} else if msg.Answer != nil {
		last.answer = msg.Answer.Text
		last.sources = msg.Answer.Sources
	}
	a.refreshTranscript()
}

func (a *App) setDimensions(width, height int) {
	a.width = width
	a.height = height

	// Title, input box (3 rows with border), help line, spacers.
	viewportHeight := height - 7
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	a.viewport.Width = width
	a.viewport.Height = viewportHeight

	inputWidth := width - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	a.input.Width = inputWidth

	a.refreshTranscript()
}

// refreshTranscript re-renders the chat history into the viewport and
// scrolls to the latest entry.
func (a *App) refreshTranscript() {
	a.viewport.SetContent(a.renderTranscript())
	a.viewport.GotoBottom()
}

func (a *App) renderTranscript() string {
	if len(a.history) == 0 {
		return a.styles.Muted.Render("Ask a question to get started.")
	}

	var b strings.Builder
	for i, ex := range a.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(a.styles.Question.Render("You: "))
		b.WriteString(ex.question)
		b.WriteString("\n")

		switch {
		case ex.pending:
			b.WriteString(a.styles.Muted.Render("Thinking..."))
		case ex.err != nil:
			b.WriteString(a.styles.Error.Render(a.describeError(ex.err)))
		default:
			b.WriteString(a.styles.Answer.Render(ex.answer))
			if len(ex.sources) > 0 {
				b.WriteString("\n")
				b.WriteString(a.styles.Sources.Render("Sources: " + strings.Join(ex.sources, "; ")))
			}
		}
	}
	return b.String()
}

// describeError turns known domain errors into actionable messages.
func (a *App) describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrIndexNotFound):
		return "No index found. Run 'deptchat sync' first."
	case errors.Is(err, domain.ErrEmbeddingMismatch):
		return "The index was built with a different embedding model. Run 'deptchat rebuild'."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	title := a.styles.Title.Render("deptchat")

	help := a.styles.Help.Render("enter send · ↑/↓ scroll · esc quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		"",
		a.styles.InputField.Render(a.input.View()),
		help,
	)
}
