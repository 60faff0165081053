// Package cli implements the command-line interface for cubeanim.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeanim"
	"github.com/SeamusWaldron/cubeanim/internal/config"
	"github.com/SeamusWaldron/cubeanim/internal/logging"
	"github.com/SeamusWaldron/cubeanim/internal/recorder"
	"github.com/SeamusWaldron/cubeanim/internal/solver"
	"github.com/SeamusWaldron/cubeanim/internal/storage"
	"github.com/SeamusWaldron/cubeanim/internal/tween"
)

const version = "0.1.0"

var (
	// Global flags
	cfgFile string
	dbPath  string
	verbose bool
	instant bool

	cfg    *config.Config
	logger zerolog.Logger
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubeanim",
	Short: "3x3x3 puzzle manipulation engine",
	Long: `cubeanim turns a 3x3x3 puzzle from standard move notation.

Moves are executed one layer turn at a time against a 3D scene graph and
journaled to a local database, so the puzzle state carries over between
invocations until the session is reset.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./cubeanim.yaml or ~/.cubeanim/cubeanim.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.cubeanim/cubeanim.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&instant, "instant", false, "Complete turns immediately instead of animating them")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger = logging.New(os.Stderr, level)
	if cfg.File != "" {
		logger.Debug().Str("file", cfg.File).Msg("config loaded")
	}
	return nil
}

// getDBPath returns the database path from flag, config or default.
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg != nil && cfg.DB.Path != "" {
		return cfg.DB.Path, nil
	}
	return storage.DefaultDBPath()
}

// openDB opens the database, migrating it if needed.
func openDB() (*storage.DB, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// configuredSolver returns the solver named in the config, or nil.
func configuredSolver() solver.Solver {
	if cfg == nil || cfg.Solver.Command == "" {
		return nil
	}
	return solver.Exec{Command: cfg.Solver.Command, Args: cfg.Solver.Args}
}

// puzzleOptions translates the config into puzzle options.
func puzzleOptions() ([]cubeanim.Option, error) {
	opts := []cubeanim.Option{}
	if cfg == nil {
		return opts, nil
	}

	presets, err := cfg.Presets()
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		cubeanim.WithPresets(presets),
		cubeanim.WithAnimateTimeout(cfg.Engine.AnimateTimeout),
		cubeanim.WithScrambleLength(cfg.Scramble.Length),
	)
	if s := configuredSolver(); s != nil {
		opts = append(opts, cubeanim.WithSolver(s))
	}
	return opts, nil
}

// liveAnimator returns the animator for moves made by this invocation.
func liveAnimator() tween.Animator {
	if instant {
		return tween.Instant{}
	}
	return tween.Clock{}
}

// openSession opens the database and resumes the active session. The
// returned cleanup closes both.
func openSession(ctx context.Context, kind string) (*recorder.Session, func(), error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}

	stateFile, err := recorder.NewDefaultStateFile()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load state: %w", err)
	}

	opts, err := puzzleOptions()
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	session, err := recorder.Open(ctx, db, stateFile, recorder.Options{
		Kind:       kind,
		Animator:   liveAnimator(),
		AppVersion: version,
		Logger:     logger,
		Puzzle:     opts,
	})
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := session.Close(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("closing session")
		}
		db.Close()
	}
	return session, cleanup, nil
}
