package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeanim"
	"github.com/SeamusWaldron/cubeanim/internal/recorder"
	"github.com/SeamusWaldron/cubeanim/internal/render"
	"github.com/SeamusWaldron/cubeanim/internal/storage"
)

var (
	scrambleRandom bool
	quiet          bool
)

var moveCmd = &cobra.Command{
	Use:   "move <notation>",
	Short: "Turn the puzzle",
	Long: `Execute a move sequence in standard notation on the current puzzle.

Tokens are U, D, L, R, F, B (outer layers) and M, E, S (slices), each
optionally followed by ' (counter-clockwise) and a repetition digit 1-9.
Invalid tokens are reported and skipped.

Examples:
  cubeanim move "R U R' U'"
  cubeanim move "M2 E2 S2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMove,
}

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Scramble the puzzle",
	Long: `Scramble the puzzle with every layer turn applied twice in random order.

With --random a random state is generated and the configured solver is asked
for a path to it.`,
	Args: cobra.NoArgs,
	RunE: runScramble,
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the puzzle with the configured solver",
	Long: `Ask the configured solver (solver.command) for a solution from the
current state and execute it.`,
	Args: cobra.NoArgs,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(scrambleCmd)
	rootCmd.AddCommand(solveCmd)

	scrambleCmd.Flags().BoolVar(&scrambleRandom, "random", false, "Scramble to a random state using the solver")
	for _, c := range []*cobra.Command{moveCmd, scrambleCmd, solveCmd} {
		c.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print moves as they complete")
	}
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	session, cleanup, err := openSession(ctx, storage.KindManual)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	p := session.Puzzle()
	followMoves(out, p)

	diags, err := p.Move(strings.Join(args, " "))
	for _, d := range diags {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", d)
	}
	if err != nil {
		return err
	}
	return finish(ctx, out, session)
}

func runScramble(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	session, cleanup, err := openSession(ctx, storage.KindScramble)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	p := session.Puzzle()
	followMoves(out, p)

	var seq string
	if scrambleRandom {
		seq, err = p.Scramble(ctx)
	} else {
		seq, err = p.ScrambleMoves()
	}
	if err != nil {
		return solverHint(err)
	}
	fmt.Fprintf(out, "Scramble: %s\n", seq)
	return finish(ctx, out, session)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	session, cleanup, err := openSession(ctx, storage.KindSolve)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	p := session.Puzzle()
	if p.IsSolved() {
		fmt.Fprintln(out, "Already solved")
		return nil
	}
	followMoves(out, p)

	solution, err := p.Solve(ctx)
	if err != nil {
		return solverHint(err)
	}
	fmt.Fprintf(out, "Solution: %s\n", solution)
	return finish(ctx, out, session)
}

func followMoves(out io.Writer, p *cubeanim.Puzzle) {
	if quiet {
		return
	}
	p.OnMove(func(m cubeanim.Move) {
		fmt.Fprintf(out, "%4d  %-3s  %s\n", m.Seq, m.Notation, m.Duration.Round(time.Millisecond))
	})
}

// finish waits for queued moves and prints the resulting state.
func finish(ctx context.Context, out io.Writer, session *recorder.Session) error {
	p := session.Puzzle()
	if err := p.Wait(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out)
	printNet(out, p.FaceletString())
	if p.IsSolved() {
		fmt.Fprintln(out, "Solved!")
	}
	return nil
}

func printNet(out io.Writer, facelets string) {
	net, err := render.New().Net(facelets)
	if err != nil {
		fmt.Fprintf(out, "invalid state %q: %v\n", facelets, err)
		return
	}
	fmt.Fprint(out, net)
}

func solverHint(err error) error {
	if errors.Is(err, cubeanim.ErrSolverNotReady) {
		return fmt.Errorf("%w: set solver.command in cubeanim.yaml or CUBEANIM_SOLVER_COMMAND", err)
	}
	return err
}
