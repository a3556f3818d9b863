package history

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizpack/internal/db"
	"github.com/mind-engage/quizpack/internal/quiz"
)

func newStore(t *testing.T) *SQLStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := db.Open(context.Background(), db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	return NewSQLStore(conn)
}

func TestAppendAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var warns quiz.Warnings
	warns.AddRow(3, quiz.WarnInvalidPoints, "Invalid points value '%s'. Defaulting to 0.", "x")

	saved, err := s.Append(ctx, Entry{
		Direction:   "csv_to_qti",
		SourceName:  "week1.csv",
		Title:       "week1",
		Questions:   4,
		TotalPoints: 7.5,
		Warnings:    warns,
		Digest:      "abc",
		OutputKey:   "conversions/x.zip",
		CreatedBy:   "admin",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.NotZero(t, saved.CreatedAt)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, "admin", got.CreatedBy)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, 3, got.Warnings[0].Row)

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for i, dir := range []string{"csv_to_qti", "qti_to_csv", "csv_to_qti"} {
		_, err := s.Append(ctx, Entry{
			ID:        string(rune('a' + i)),
			Direction: dir,
			CreatedAt: int64(100 + i),
		})
		require.NoError(t, err)
	}

	all, err := s.List(ctx, ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.NotNil(t, all[0].Warnings)

	csv, err := s.List(ctx, ListOpts{Direction: "csv_to_qti"})
	require.NoError(t, err)
	require.Len(t, csv, 2)
	assert.Equal(t, "c", csv[0].ID)

	page, err := s.List(ctx, ListOpts{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)

	none, err := s.List(ctx, ListOpts{Direction: "other"})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}
