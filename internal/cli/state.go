package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeanim/internal/recorder"
	"github.com/SeamusWaldron/cubeanim/internal/storage"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the current puzzle state",
	Long:  `Display the current session, its move count and the unfolded puzzle net.`,
	Args:  cobra.NoArgs,
	RunE:  runState,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "End the current session",
	Long:  `End the current session. The next command starts a new session from the solved state.`,
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(resetCmd)
}

func runState(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	session, cleanup, err := openSession(cmd.Context(), storage.KindManual)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintln(out, "cubeanim state")
	fmt.Fprintln(out, "==============")
	fmt.Fprintf(out, "Database: %s\n", session.DBPath())
	fmt.Fprintf(out, "Session:  %s\n", session.ID())
	fmt.Fprintf(out, "Moves:    %d\n", session.Resumed())

	p := session.Puzzle()
	if s := configuredSolver(); s != nil {
		fmt.Fprintf(out, "Solver:   %s\n", cfg.Solver.Command)
	} else {
		fmt.Fprintln(out, "Solver:   not configured")
	}
	fmt.Fprintf(out, "Facelets: %s\n", p.FaceletString())
	fmt.Fprintln(out)
	printNet(out, p.FaceletString())
	if p.IsSolved() {
		fmt.Fprintln(out, "Solved")
	}
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	active, ok := stateFile.Active(db.Path())
	if !ok {
		fmt.Fprintln(out, "No active session")
		return nil
	}

	id := active.SessionID
	sessions := storage.NewSessionRepository(db)
	s, err := sessions.Get(id)
	if err != nil {
		return err
	}
	if s != nil && s.EndedAt == nil {
		if err := sessions.End(id); err != nil {
			return err
		}
	}
	if err := stateFile.ClearActive(db.Path()); err != nil {
		return err
	}

	if s != nil {
		fmt.Fprintf(out, "Ended session %s (%d moves, started %s)\n", id, s.MoveCount, s.StartedAt.Local().Format(time.DateTime))
	} else {
		fmt.Fprintf(out, "Cleared unknown session %s\n", id)
	}
	return nil
}
