package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubeanim"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenMigratesToLatest(t *testing.T) {
	db := openTestDB(t)
	assert.Equal(t, 2, LatestVersion())
	v, err := db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), v)
	assert.True(t, filepath.IsAbs(db.Path()))

	require.NoError(t, db.MigrateUp())
	v, err = db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), v)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	require.NoError(t, err)
	id, err := NewSessionRepository(db).Create(cubeanim.Solved, "", "", "")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()
	s, err := NewSessionRepository(again).Get(id)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, KindManual, s.Kind)
}

func TestLoadMigrationsOrdered(t *testing.T) {
	ms, err := loadMigrations()
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, 1, ms[0].version)
	assert.Equal(t, "002_session_kind.sql", ms[1].name)
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)

	first, err := sessions.Create(cubeanim.Solved, "", "warmup", "dev")
	require.NoError(t, err)
	second, err := sessions.Create(cubeanim.Solved, KindScramble, "", "")
	require.NoError(t, err)

	s, err := sessions.Get(first)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, KindManual, s.Kind)
	assert.Equal(t, "warmup", *s.Notes)
	assert.Nil(t, s.EndedAt)

	last, err := sessions.GetLast()
	require.NoError(t, err)
	assert.Equal(t, second, last.SessionID)
	assert.Nil(t, last.Notes)

	require.NoError(t, sessions.End(first))
	s, _ = sessions.Get(first)
	assert.NotNil(t, s.EndedAt)
	assert.Error(t, sessions.End("missing"))

	list, err := sessions.List(10)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	missing, err := sessions.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestJournalRecordsPuzzleMovesInOrder(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	moves := NewMoveRepository(db)

	id, err := sessions.Create(cubeanim.Solved, "", "", "")
	require.NoError(t, err)
	journal := NewJournal(moves, id)

	p, err := cubeanim.New(cubeanim.WithInstant(), cubeanim.WithJournal(journal))
	require.NoError(t, err)
	_, err = p.Move("R U2 M'")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Close(ctx))

	records, err := moves.GetBySession(id)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, i, r.MoveIndex)
	}
	assert.Equal(t, "R", records[0].Notation)
	assert.Equal(t, "U2", records[1].Notation)
	assert.Equal(t, 2, records[1].Repetitions)
	assert.Equal(t, "M'", records[2].Code)
	assert.Equal(t, "x", records[2].Axis)
	assert.Equal(t, "normal", records[2].Tempo)

	state, err := moves.LastState(id)
	require.NoError(t, err)
	assert.Equal(t, p.FaceletString(), state)

	s, _ := sessions.Get(id)
	assert.Equal(t, 3, s.MoveCount)

	// A second journal on the same session continues the numbering.
	again := NewJournal(moves, id)
	require.NoError(t, again.Record(cubeanim.Move{Notation: "F", Code: "F", Repetitions: 1, Axis: "z", Facelets: cubeanim.Solved}))
	next, err := moves.NextIndex(id)
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}

func TestDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	moves := NewMoveRepository(db)

	id, err := sessions.Create(cubeanim.Solved, "", "", "")
	require.NoError(t, err)
	_, err = moves.Create(id, 0, cubeanim.Move{Notation: "R", Code: "R", Repetitions: 1, Axis: "x", Facelets: cubeanim.Solved, Time: time.Now()})
	require.NoError(t, err)
	_, err = moves.Create(id, 0, cubeanim.Move{Notation: "U", Code: "U", Repetitions: 1, Axis: "y", Facelets: cubeanim.Solved, Time: time.Now()})
	assert.Error(t, err, "move index is unique per session")

	require.NoError(t, sessions.Delete(id))
	records, err := moves.GetBySession(id)
	require.NoError(t, err)
	assert.Empty(t, records)
	state, err := moves.LastState(id)
	require.NoError(t, err)
	assert.Empty(t, state)
}

func TestMoveRequiresSession(t *testing.T) {
	db := openTestDB(t)
	moves := NewMoveRepository(db)
	_, err := moves.Create("missing", 0, cubeanim.Move{Notation: "R"})
	assert.Error(t, err)
}
