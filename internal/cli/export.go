package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubeanim/internal/storage"
)

var (
	exportSessionID string
	exportFormat    string
	exportOutput    string
	exportLast      bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the moves of a session",
	Long: `Export the move sequence of a session as notation text or JSON.

Examples:
  cubeanim export --last
  cubeanim export --id <session_id> --format json
  cubeanim export --id <session_id> -o moves.txt`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportSessionID, "id", "", "Session ID to export")
	exportCmd.Flags().BoolVar(&exportLast, "last", false, "Export the most recent session")
	exportCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

type exportedMove struct {
	MoveIndex   int     `json:"move_index"`
	TsMs        int64   `json:"ts_ms"`
	Notation    string  `json:"notation"`
	Code        string  `json:"code"`
	Repetitions int     `json:"repetitions"`
	Axis        string  `json:"axis"`
	Angle       float64 `json:"angle"`
	Tempo       string  `json:"tempo"`
	DurationMs  int64   `json:"duration_ms"`
	Facelets    string  `json:"facelets"`
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportSessionID == "" && !exportLast {
		return fmt.Errorf("specify --id or --last")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessionID := exportSessionID
	if exportLast {
		s, err := storage.NewSessionRepository(db).GetLast()
		if err != nil {
			return fmt.Errorf("failed to get last session: %w", err)
		}
		if s == nil {
			return fmt.Errorf("no sessions found")
		}
		sessionID = s.SessionID
	}

	moves, err := storage.NewMoveRepository(db).GetBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	if len(moves) == 0 {
		return fmt.Errorf("no moves found for session %s", sessionID)
	}

	output, err := formatMoves(moves, exportFormat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if exportOutput == "" {
		fmt.Fprintln(out, output)
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(out, "Exported %d moves to %s\n", len(moves), exportOutput)
	return nil
}

func formatMoves(moves []storage.MoveRecord, format string) (string, error) {
	switch strings.ToLower(format) {
	case "txt":
		notations := make([]string, len(moves))
		for i, m := range moves {
			notations[i] = m.Notation
		}
		return strings.Join(notations, " "), nil

	case "json":
		exported := make([]exportedMove, len(moves))
		for i, m := range moves {
			exported[i] = exportedMove{
				MoveIndex:   m.MoveIndex,
				TsMs:        m.TsMs,
				Notation:    m.Notation,
				Code:        m.Code,
				Repetitions: m.Repetitions,
				Axis:        m.Axis,
				Angle:       m.Angle,
				Tempo:       m.Tempo,
				DurationMs:  m.DurationMs,
				Facelets:    m.Facelets,
			}
		}
		data, err := json.MarshalIndent(exported, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unknown format: %s (use txt or json)", format)
}
