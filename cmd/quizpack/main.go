// Command quizpack converts quizzes between CSV and QTI 1.2 zip packages.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/mind-engage/quizpack/internal/archive"
	"github.com/mind-engage/quizpack/internal/convert"
	"github.com/mind-engage/quizpack/internal/logging"
	"github.com/mind-engage/quizpack/internal/storage"
)

const version = "0.1.0"

// CLI defines the command-line interface for quizpack.
var CLI struct {
	Verbose bool `short:"v" help:"Log conversion details"`

	Encode  EncodeCmd  `cmd:"" help:"Convert a CSV quiz into a QTI zip package"`
	Decode  DecodeCmd  `cmd:"" help:"Convert a QTI zip package into a CSV quiz"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// EncodeCmd converts CSV rows into a QTI package.
type EncodeCmd struct {
	Input  string `arg:"" help:"Path to input CSV" type:"existingfile"`
	Output string `arg:"" optional:"" default:"qti_import.zip" help:"Output zip path" type:"path"`
	Title  string `help:"Quiz title (defaults to the CSV file name)"`
}

func (c *EncodeCmd) Run(ctx *kong.Context, logger *zerolog.Logger) error {
	f, err := os.Open(c.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	res, err := convert.EncodeCSV(f, c.Input, convert.EncodeOptions{Title: c.Title})
	if err != nil {
		return fmt.Errorf("convert %s: %w", c.Input, err)
	}

	out := ctx.Stdout
	if len(res.Warnings) > 0 {
		fmt.Fprintln(out, "\nVALIDATION WARNINGS:")
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
		fmt.Fprintln(out, "\nProceeding with export, but please check the quiz in your LMS after import.")
		fmt.Fprintln(out)
	} else {
		fmt.Fprintln(out, "Validation passed: no errors found in CSV.")
	}

	if err := storage.WriteFileAtomic(c.Output, bytes.NewReader(res.Output)); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}
	logger.Debug().Str("assessment", res.AssessmentID).Str("blake3", res.Digest).Msg("package written")

	fmt.Fprintf(out, "Successfully created QTI zip: %s\n", c.Output)
	fmt.Fprintf(out, "Total Questions: %d\n", len(res.Quiz.Questions))
	fmt.Fprintf(out, "Total Points: %.2f\n", res.TotalPoints())
	return nil
}

// DecodeCmd converts a QTI package into CSV rows.
type DecodeCmd struct {
	Input         string `arg:"" help:"Path to QTI zip file" type:"existingfile"`
	Output        string `arg:"" optional:"" default:"quiz_export.csv" help:"Output CSV path" type:"path"`
	NoTFHeuristic bool   `name:"no-tf-heuristic" help:"Trust the question_type field instead of detecting True/False options"`
}

func (c *DecodeCmd) Run(ctx *kong.Context, logger *zerolog.Logger) error {
	zr, err := archive.OpenReader(c.Input)
	if err != nil {
		return err
	}
	defer zr.Close()

	opts := convert.DefaultDecodeOptions()
	opts.TrueFalseHeuristic = !c.NoTFHeuristic
	res, err := convert.DecodeEntries(zr, opts)
	if err != nil {
		return fmt.Errorf("convert %s: %w", c.Input, err)
	}
	for _, w := range res.Warnings {
		logger.Debug().Str("code", string(w.Code)).Msg(w.String())
	}

	if err := storage.WriteFileAtomic(c.Output, bytes.NewReader(res.Output)); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}

	out := ctx.Stdout
	fmt.Fprintf(out, "Success! Extracted %d questions to: %s\n", len(res.Quiz.Questions), c.Output)
	if res.Skipped > 0 {
		fmt.Fprintf(out, "Warning: %d items were skipped because they were not Multiple Choice or True/False.\n", res.Skipped)
	}
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Fprintf(ctx.Stdout, "quizpack %s\n", version)
	return nil
}

func newLogger(w io.Writer, verbose bool) *zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	l := logging.NewWithWriter(w, "quizpack", "cli").Level(level)
	return &l
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("quizpack"),
		kong.Description("Convert quizzes between CSV and QTI 1.2 packages"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(newLogger(os.Stderr, CLI.Verbose))
	ctx.FatalIfErrorf(err)
}
