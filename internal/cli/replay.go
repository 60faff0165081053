package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeanim"
	"github.com/SeamusWaldron/cubeanim/internal/storage"
	"github.com/SeamusWaldron/cubeanim/internal/tween"
)

var (
	replaySpeed float64
	replayLast  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [session-id]",
	Short: "Re-animate a recorded session",
	Long: `Replay the moves of a recorded session on a fresh puzzle, at the tempo
each move was originally made. Nothing is journaled.

Usage:
  cubeanim replay --last
  cubeanim replay <session-id> --speed 2.0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent session")
}

func runReplay(cmd *cobra.Command, args []string) error {
	if replaySpeed <= 0 {
		return fmt.Errorf("--speed must be positive")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions := storage.NewSessionRepository(db)
	var session *storage.Session
	switch {
	case len(args) == 1:
		session, err = sessions.Get(args[0])
	case replayLast:
		session, err = sessions.GetLast()
	default:
		return fmt.Errorf("specify a session ID or --last")
	}
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session not found")
	}

	records, err := storage.NewMoveRepository(db).GetBySession(session.SessionID)
	if err != nil {
		return err
	}

	opts, err := puzzleOptions()
	if err != nil {
		return err
	}
	presets := tween.DefaultPresets()
	if cfg != nil {
		if presets, err = cfg.Presets(); err != nil {
			return err
		}
	}
	opts = append(opts,
		cubeanim.WithLogger(logger),
		cubeanim.WithAnimator(liveAnimator()),
		cubeanim.WithPresets(scalePresets(presets, replaySpeed)),
	)

	p, err := cubeanim.New(opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Replaying session %s (%d moves)\n\n", session.SessionID, len(records))
	followMoves(out, p)

	ctx := cmd.Context()
	for _, r := range records {
		tempo, err := tween.ParseTempo(r.Tempo)
		if err != nil {
			tempo = cubeanim.TempoNormal
		}
		if _, err := p.MoveTempo(r.Notation, tempo); err != nil {
			return err
		}
	}
	if err := p.Close(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out)
	printNet(out, p.FaceletString())
	if len(records) > 0 && p.FaceletString() != records[len(records)-1].Facelets {
		fmt.Fprintln(out, "warning: replayed state differs from the recorded state")
	}
	return nil
}

// scalePresets divides every tempo's durations by speed.
func scalePresets(presets tween.Presets, speed float64) tween.Presets {
	scaled := make(tween.Presets, len(presets))
	for t, p := range presets {
		p.Base = time.Duration(float64(p.Base) / speed)
		p.PerRep = time.Duration(float64(p.PerRep) / speed)
		scaled[t] = p
	}
	return scaled
}
