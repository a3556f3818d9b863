// Package convert runs the CSV→QTI and QTI→CSV pipelines. Every call keeps
// its own identifiers, warnings and totals; nothing is shared between
// conversions.
package convert

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/mind-engage/quizpack/internal/archive"
	"github.com/mind-engage/quizpack/internal/qti/export"
	"github.com/mind-engage/quizpack/internal/qti/parser"
	"github.com/mind-engage/quizpack/internal/quiz"
	"github.com/mind-engage/quizpack/internal/tabular"
)

type Direction string

const (
	CSVToQTI Direction = "csv_to_qti"
	QTIToCSV Direction = "qti_to_csv"
)

// Result is a successful conversion, possibly with warnings.
type Result struct {
	Direction    Direction
	Output       []byte
	Quiz         quiz.Quiz
	Warnings     quiz.Warnings
	Skipped      int
	AssessmentID string
	Digest       string // BLAKE3 of Output, hex
}

func (r *Result) TotalPoints() float64 { return r.Quiz.TotalPoints() }

type EncodeOptions struct {
	// Title overrides the quiz title derived from the source name.
	Title string
	// NewID mints identifiers; export.NewID when nil.
	NewID func() string
}

type DecodeOptions = parser.Options

func DefaultDecodeOptions() DecodeOptions { return parser.DefaultOptions() }

// TitleFromSource returns the base name of a source path without extension.
func TitleFromSource(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// EncodeCSV converts CSV quiz rows into a zipped QTI 1.2 package.
func EncodeCSV(r io.Reader, sourceName string, opts EncodeOptions) (*Result, error) {
	rows, err := tabular.ReadRows(r)
	if err != nil {
		return nil, err
	}
	title := opts.Title
	if title == "" {
		title = TitleFromSource(sourceName)
	}
	q, warns := tabular.ParseQuiz(rows, title)

	pkg, err := export.BuildPackage(q, export.Options{NewID: opts.NewID})
	if err != nil {
		return nil, fmt.Errorf("build package: %w", err)
	}
	var buf bytes.Buffer
	zw := archive.NewWriter(&buf)
	if err := pkg.Write(zw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	return &Result{
		Direction:    CSVToQTI,
		Output:       buf.Bytes(),
		Quiz:         q,
		Warnings:     warns,
		AssessmentID: pkg.AssessmentID,
		Digest:       digest(buf.Bytes()),
	}, nil
}

// DecodePackage converts a zipped QTI package into CSV rows.
func DecodePackage(ra io.ReaderAt, size int64, opts DecodeOptions) (*Result, error) {
	zr, err := archive.NewReader(ra, size)
	if err != nil {
		return nil, err
	}
	return DecodeEntries(zr, opts)
}

// DecodeEntries converts an already-opened package into CSV rows.
func DecodeEntries(src parser.EntrySource, opts DecodeOptions) (*Result, error) {
	dec, err := parser.Decode(src, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tabular.WriteAll(&buf, tabular.Header, tabular.QuizRows(dec.Quiz)); err != nil {
		return nil, fmt.Errorf("write CSV: %w", err)
	}
	return &Result{
		Direction: QTIToCSV,
		Output:    buf.Bytes(),
		Quiz:      dec.Quiz,
		Warnings:  dec.Warnings,
		Skipped:   dec.Skipped,
		Digest:    digest(buf.Bytes()),
	}, nil
}

func digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}
