package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeanim/internal/analysis"
	"github.com/SeamusWaldron/cubeanim/internal/notation"
	"github.com/SeamusWaldron/cubeanim/internal/storage"
)

var (
	historyLimit int
	historyLast  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List sessions or show the moves of one",
	Long: `Without arguments, list recent sessions. With a session ID, or --last,
show every move journaled in that session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of sessions to display")
	historyCmd.Flags().BoolVar(&historyLast, "last", false, "Show the most recent session")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	sessions := storage.NewSessionRepository(db)

	var session *storage.Session
	switch {
	case len(args) == 1:
		session, err = sessions.Get(args[0])
	case historyLast:
		session, err = sessions.GetLast()
	default:
		return listSessions(out, sessions)
	}
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session not found")
	}
	return showSession(out, session, storage.NewMoveRepository(db))
}

func listSessions(out io.Writer, sessions *storage.SessionRepository) error {
	list, err := sessions.List(historyLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No sessions recorded. Start one with: cubeanim move \"R U R' U'\"")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-19s  %-8s  %5s  %s\n", "SESSION", "STARTED", "KIND", "MOVES", "STATUS")
	for _, s := range list {
		status := "active"
		if s.EndedAt != nil {
			status = "ended"
		}
		fmt.Fprintf(out, "%-36s  %-19s  %-8s  %5d  %s\n",
			s.SessionID, s.StartedAt.Local().Format(time.DateTime), s.Kind, s.MoveCount, status)
	}
	return nil
}

func showSession(out io.Writer, s *storage.Session, moves *storage.MoveRepository) error {
	records, err := moves.GetBySession(s.SessionID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Session: %s\n", s.SessionID)
	fmt.Fprintf(out, "Kind:    %s\n", s.Kind)
	fmt.Fprintf(out, "Started: %s\n", s.StartedAt.Local().Format(time.DateTime))
	if s.EndedAt != nil {
		fmt.Fprintf(out, "Ended:   %s\n", s.EndedAt.Local().Format(time.DateTime))
	}
	if s.Notes != nil {
		fmt.Fprintf(out, "Notes:   %s\n", *s.Notes)
	}
	fmt.Fprintf(out, "Moves:   %d\n\n", len(records))

	for _, r := range records {
		fmt.Fprintf(out, "%4d  %-3s  %-8s  %6dms  %s\n",
			r.MoveIndex+1, r.Notation, r.Tempo, r.DurationMs,
			time.UnixMilli(r.TsMs).Local().Format(time.TimeOnly))
	}

	if len(records) > 0 {
		printAnalysis(out, records)
		fmt.Fprintln(out)
		printNet(out, records[len(records)-1].Facelets)
	}
	return nil
}

func printAnalysis(out io.Writer, records []storage.MoveRecord) {
	tokens := make([]string, len(records))
	for i, r := range records {
		tokens[i] = r.Notation
	}
	moves := notation.Compile(strings.Join(tokens, " ")).Instances

	report := analysis.AnalyzeRepetitions(moves)
	optimized := analysis.OptimizeMoves(moves)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Cancellations:       %d\n", len(report.ImmediateCancellations))
	fmt.Fprintf(out, "Merge opportunities: %d\n", len(report.MergeOpportunities))
	fmt.Fprintf(out, "Back-and-forth:      %d\n", len(report.BackAndForthPatterns))
	fmt.Fprintf(out, "Optimized length:    %d (%.0f%%)\n", len(optimized), 100*analysis.CalculateEfficiency(moves, optimized))
}
