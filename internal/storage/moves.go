package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubeanim"
)

// MoveRecord represents a committed move in the database.
type MoveRecord struct {
	MoveID      int64
	SessionID   string
	MoveIndex   int
	TsMs        int64
	Notation    string
	Code        string
	Repetitions int
	Axis        string
	Angle       float64
	Tempo       string
	Facelets    string
	DurationMs  int64
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

const insertMove = `
	INSERT INTO moves (session_id, move_index, ts_ms, notation, code, repetitions, axis, angle, tempo, facelets, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertMoveRow(ex execer, sessionID string, moveIndex int, move cubeanim.Move) (int64, error) {
	result, err := ex.Exec(insertMove,
		sessionID, moveIndex, move.Time.UnixMilli(),
		move.Notation, move.Code, move.Repetitions, move.Axis, move.Angle,
		move.Tempo.String(), move.Facelets, move.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create move %d: %w", moveIndex, err)
	}
	return result.LastInsertId()
}

// Create records a move at moveIndex and returns its ID.
func (r *MoveRepository) Create(sessionID string, moveIndex int, move cubeanim.Move) (int64, error) {
	return insertMoveRow(r.db, sessionID, moveIndex, move)
}

// GetBySession retrieves all moves for a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, session_id, move_index, ts_ms, notation, code, repetitions, axis, angle, tempo, facelets, duration_ms
		FROM moves
		WHERE session_id = ?
		ORDER BY move_index
	`, sessionID)

	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.SessionID, &m.MoveIndex, &m.TsMs,
			&m.Notation, &m.Code, &m.Repetitions, &m.Axis, &m.Angle,
			&m.Tempo, &m.Facelets, &m.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}

	return moves, rows.Err()
}

const nextIndexQuery = "SELECT COALESCE(MAX(move_index) + 1, 0) FROM moves WHERE session_id = ?"

// NextIndex returns the index the next move of a session should get.
func (r *MoveRepository) NextIndex(sessionID string) (int, error) {
	var next int
	err := r.db.QueryRow(nextIndexQuery, sessionID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next move index: %w", err)
	}
	return next, nil
}

// LastState returns the facelet string after the most recent move of a
// session, or "" if it has none.
func (r *MoveRepository) LastState(sessionID string) (string, error) {
	var facelets string
	err := r.db.QueryRow(`
		SELECT facelets FROM moves
		WHERE session_id = ?
		ORDER BY move_index DESC
		LIMIT 1
	`, sessionID).Scan(&facelets)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last state: %w", err)
	}
	return facelets, nil
}

// Journal appends a puzzle's committed moves to one session. Each index
// is read in the same transaction as its insert, so a second journal on the
// session continues the numbering instead of reusing an index.
type Journal struct {
	repo      *MoveRepository
	sessionID string
}

// NewJournal appends to sessionID after any moves it already has.
func NewJournal(repo *MoveRepository, sessionID string) *Journal {
	return &Journal{repo: repo, sessionID: sessionID}
}

// Record implements cubeanim.Journal.
func (j *Journal) Record(m cubeanim.Move) error {
	if m.Time.IsZero() {
		m.Time = time.Now()
	}
	return j.repo.db.Transaction(func(tx *sql.Tx) error {
		var next int
		if err := tx.QueryRow(nextIndexQuery, j.sessionID).Scan(&next); err != nil {
			return fmt.Errorf("failed to get next move index: %w", err)
		}
		_, err := insertMoveRow(tx, j.sessionID, next, m)
		return err
	})
}

// SessionID returns the session being recorded.
func (j *Journal) SessionID() string {
	return j.sessionID
}
