package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeanim"
	"github.com/SeamusWaldron/cubeanim/internal/recorder"
	"github.com/SeamusWaldron/cubeanim/internal/render"
	"github.com/SeamusWaldron/cubeanim/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive puzzle mode",
	Long: `Start an interactive TUI that turns the puzzle as you type.

Keyboard shortcuts:
  u d l r f b m e s   - Clockwise turn of that layer
  U D L R F B M E S   - Counter-clockwise turn
  /                   - Type a move sequence, Enter to run it
  space               - Scramble
  enter               - Solve (requires solver.command)
  x                   - Drop queued moves after an error
  q/Esc               - Quit

Every completed move is journaled to the current session.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Messages
type tickMsg time.Time
type moveDoneMsg struct{ move cubeanim.Move }
type solutionMsg struct {
	label    string
	sequence string
	err      error
}

const recentMoves = 12

type playModel struct {
	session  *recorder.Session
	puzzle   *cubeanim.Puzzle
	renderer *render.Renderer
	moveChan chan cubeanim.Move

	recent  []cubeanim.Move
	status  string
	err     error
	solving bool
	solved  bool

	typing bool
	input  string

	quitting bool
}

func newPlayModel(session *recorder.Session) *playModel {
	m := &playModel{
		session:  session,
		puzzle:   session.Puzzle(),
		renderer: render.New(),
		moveChan: make(chan cubeanim.Move, 64),
	}
	m.puzzle.OnMove(func(mv cubeanim.Move) {
		select {
		case m.moveChan <- mv:
		default:
			// Channel full, the view catches up on the next tick
		}
	})
	return m
}

func runPlay(cmd *cobra.Command, args []string) error {
	session, cleanup, err := openSession(cmd.Context(), storage.KindManual)
	if err != nil {
		return err
	}
	defer cleanup()

	model := newPlayModel(session)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func (m *playModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.listenForMoves(),
	)
}

func (m *playModel) listenForMoves() tea.Cmd {
	return func() tea.Msg {
		return moveDoneMsg{move: <-m.moveChan}
	}
}

func (m *playModel) tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m, m.handleInput(msg)
		}

		switch key := msg.String(); key {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "/":
			m.typing = true
			m.input = ""

		case " ":
			m.submit(m.puzzle.ScrambleMoves())

		case "enter":
			if !m.solving {
				m.solving = true
				m.status = "solving..."
				return m, m.solve()
			}

		case "x":
			dropped, err := m.puzzle.Recover()
			if err != nil {
				m.err = err
			} else {
				m.err = nil
				m.status = fmt.Sprintf("dropped %d queued moves", len(dropped))
			}

		default:
			if len(key) == 1 && strings.ContainsAny(strings.ToUpper(key), "UDLRFBMES") {
				token := strings.ToUpper(key)
				if key != token {
					m.queue(token)
				} else {
					m.queue(token + "'")
				}
			}
		}

	case tickMsg:
		if m.puzzle.Len() == 0 && m.status == "scrambling" {
			m.status = ""
		}
		return m, m.tickCmd()

	case moveDoneMsg:
		m.recent = append(m.recent, msg.move)
		if len(m.recent) > recentMoves {
			m.recent = m.recent[len(m.recent)-recentMoves:]
		}
		m.solved = msg.move.Facelets == cubeanim.Solved
		return m, m.listenForMoves()

	case solutionMsg:
		m.solving = false
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
		} else {
			m.err = nil
			m.status = fmt.Sprintf("%s: %s", msg.label, msg.sequence)
		}
	}

	return m, nil
}

func (m *playModel) handleInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.typing = false
		m.queue(m.input)
		m.input = ""
	case tea.KeyEsc:
		m.typing = false
		m.input = ""
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return nil
}

func (m *playModel) queue(notation string) {
	diags, err := m.puzzle.Move(notation)
	switch {
	case err != nil:
		m.err = err
	case len(diags) > 0:
		m.err = diags[0]
	default:
		m.err = nil
	}
}

func (m *playModel) submit(_ string, err error) {
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = "scrambling"
}

func (m *playModel) solve() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		solution, err := m.puzzle.Solve(ctx)
		return solutionMsg{label: "solution", sequence: solution, err: solverHint(err)}
	}
}

func (m *playModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("cubeanim"))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  session %s", shortID(m.session.ID()))))
	b.WriteString("\n\n")

	if net, err := m.renderer.Net(m.puzzle.FaceletString()); err == nil {
		b.WriteString(net)
	}
	b.WriteString("\n")

	if m.solved {
		b.WriteString(moveStyle.Render("Solved!"))
		b.WriteString("\n")
	}

	var done []string
	for _, mv := range m.recent {
		done = append(done, mv.Notation)
	}
	b.WriteString(fmt.Sprintf("Moves:   %s\n", moveStyle.Render(strings.Join(done, " "))))
	b.WriteString(fmt.Sprintf("Queued:  %s\n", pendingStyle.Render(summarize(m.puzzle.Pending(), recentMoves))))

	if m.typing {
		b.WriteString(fmt.Sprintf("Notation> %s_\n", m.input))
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("udlrfbmes: turn  shift: prime  /: type  space: scramble  enter: solve  x: recover  q: quit"))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func summarize(tokens []string, max int) string {
	if len(tokens) <= max {
		return strings.Join(tokens, " ")
	}
	return strings.Join(tokens[:max], " ") + fmt.Sprintf(" ... (+%d)", len(tokens)-max)
}
