package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/quizpack/internal/quiz"
)

var ErrNotFound = errors.New("conversion not found")

// Entry records one finished conversion.
type Entry struct {
	ID          string        `json:"id"`
	Direction   string        `json:"direction"`
	SourceName  string        `json:"source_name"`
	Title       string        `json:"title"`
	Questions   int           `json:"questions"`
	Skipped     int           `json:"skipped"`
	TotalPoints float64       `json:"total_points"`
	Warnings    quiz.Warnings `json:"warnings"`
	Digest      string        `json:"digest"`
	OutputKey   string        `json:"output_key,omitempty"`
	CreatedBy   string        `json:"created_by,omitempty"`
	CreatedAt   int64         `json:"created_at"`
}

type ListOpts struct {
	Direction string
	Limit     int
	Offset    int
}

type Store interface {
	Append(ctx context.Context, e Entry) (Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	List(ctx context.Context, opts ListOpts) ([]Entry, error)
}

type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Append stores e, assigning an id and timestamp when missing.
func (s *SQLStore) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	if e.Warnings == nil {
		e.Warnings = quiz.Warnings{}
	}
	wj, err := json.Marshal(e.Warnings)
	if err != nil {
		return Entry{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO conversions
		(id,direction,source_name,title,questions,skipped,total_points,warnings_json,digest,output_key,created_by,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		e.ID, e.Direction, e.SourceName, e.Title, e.Questions, e.Skipped, e.TotalPoints,
		string(wj), e.Digest, e.OutputKey, e.CreatedBy, e.CreatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("insert conversion: %w", err)
	}
	return e, nil
}

const selectCols = `SELECT id,direction,source_name,title,questions,skipped,total_points,warnings_json,digest,output_key,created_by,created_at FROM conversions`

type scanner interface{ Scan(dest ...any) error }

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var wj string
	if err := row.Scan(&e.ID, &e.Direction, &e.SourceName, &e.Title, &e.Questions, &e.Skipped,
		&e.TotalPoints, &wj, &e.Digest, &e.OutputKey, &e.CreatedBy, &e.CreatedAt); err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal([]byte(wj), &e.Warnings); err != nil {
		e.Warnings = quiz.Warnings{}
	}
	return e, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Entry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectCols+` WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

// List returns entries newest first.
func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	var (
		rows *sql.Rows
		err  error
	)
	if opts.Direction != "" {
		rows, err = s.db.QueryContext(ctx, selectCols+` WHERE direction=$1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
			opts.Direction, limit, offset)
	} else {
		rows, err = s.db.QueryContext(ctx, selectCols+` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
