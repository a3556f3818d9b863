package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	auth "github.com/mind-engage/quizpack/internal/auth/middleware"
	"github.com/mind-engage/quizpack/internal/convert"
	"github.com/mind-engage/quizpack/internal/history"
	"github.com/mind-engage/quizpack/internal/logging"
	"github.com/mind-engage/quizpack/internal/metrics"
	"github.com/mind-engage/quizpack/internal/quiz"
	"github.com/mind-engage/quizpack/internal/storage"
)

const (
	HeaderConversion = "X-Quizpack-Conversion"
	HeaderWarnings   = "X-Quizpack-Warnings"
	HeaderSkipped    = "X-Quizpack-Skipped"
)

// POST /convert/csv (multipart: file=quiz.csv, title=optional)
func ConvertCSVHandler(hist history.Store, bs storage.BlobStore, m *metrics.Recorder, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, ok := uploadedFile(w, r, maxUpload)
		if !ok {
			return
		}
		defer f.Close()

		res, err := convert.EncodeCSV(f, hdr.Filename, convert.EncodeOptions{
			Title: strings.TrimSpace(r.FormValue("title")),
		})
		if err != nil {
			m.Failed(convert.CSVToQTI)
			writeConvertError(w, r, err)
			return
		}
		m.Converted(res)
		entry, err := record(r.Context(), hist, bs, res, hdr.Filename, ".zip")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		serveResult(w, r, entry, res, "application/zip", downloadName(res.Quiz.Title, "qti_import")+".zip")
	}
}

// POST /convert/qti (multipart: file=package.zip, tf_heuristic=true|false)
func ConvertQTIHandler(hist history.Store, bs storage.BlobStore, m *metrics.Recorder, maxUpload int64, tfHeuristic bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, ok := uploadedFile(w, r, maxUpload)
		if !ok {
			return
		}
		defer f.Close()

		opts := convert.DefaultDecodeOptions()
		opts.TrueFalseHeuristic = tfHeuristic
		if v := r.FormValue("tf_heuristic"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "tf_heuristic must be a boolean", http.StatusBadRequest)
				return
			}
			opts.TrueFalseHeuristic = b
		}

		res, err := convert.DecodePackage(f, hdr.Size, opts)
		if err != nil {
			m.Failed(convert.QTIToCSV)
			writeConvertError(w, r, err)
			return
		}
		m.Converted(res)
		entry, err := record(r.Context(), hist, bs, res, hdr.Filename, ".csv")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		serveResult(w, r, entry, res, "text/csv; charset=utf-8", downloadName(res.Quiz.Title, "quiz_export")+".csv")
	}
}

func uploadedFile(w http.ResponseWriter, r *http.Request, maxUpload int64) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return nil, nil, false
		}
		http.Error(w, "file required", http.StatusBadRequest)
		return nil, nil, false
	}
	return f, hdr, true
}

func record(ctx context.Context, hist history.Store, bs storage.BlobStore, res *convert.Result, source, ext string) (history.Entry, error) {
	id := uuid.NewString()
	key, err := bs.Put("conversions/"+id+ext, bytes.NewReader(res.Output))
	if err != nil {
		return history.Entry{}, fmt.Errorf("store output: %w", err)
	}
	entry, err := hist.Append(ctx, history.Entry{
		ID:          id,
		Direction:   string(res.Direction),
		SourceName:  source,
		Title:       res.Quiz.Title,
		Questions:   len(res.Quiz.Questions),
		Skipped:     res.Skipped,
		TotalPoints: res.TotalPoints(),
		Warnings:    res.Warnings,
		Digest:      res.Digest,
		OutputKey:   key,
		CreatedBy:   auth.SubjectFromContext(ctx),
	})
	if err != nil {
		return history.Entry{}, err
	}

	logger := logging.FromContext(ctx)
	for _, wn := range res.Warnings {
		logger.Warn().Str("conversion", id).Str("code", string(wn.Code)).Msg(wn.String())
	}
	logger.Info().
		Str("conversion", id).
		Str("direction", entry.Direction).
		Str("by", entry.CreatedBy).
		Int("questions", entry.Questions).
		Int("skipped", entry.Skipped).
		Float64("total_points", entry.TotalPoints).
		Msg("conversion finished")
	return entry, nil
}

func serveResult(w http.ResponseWriter, r *http.Request, entry history.Entry, res *convert.Result, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.Header().Set("ETag", `"`+res.Digest+`"`)
	w.Header().Set(HeaderConversion, entry.ID)
	w.Header().Set(HeaderWarnings, strconv.Itoa(len(res.Warnings)))
	w.Header().Set(HeaderSkipped, strconv.Itoa(res.Skipped))
	http.ServeContent(w, r, filename, time.Unix(entry.CreatedAt, 0), bytes.NewReader(res.Output))
}

func writeConvertError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, quiz.ErrInvalidSource) ||
		errors.Is(err, quiz.ErrNoAssessment) ||
		errors.Is(err, quiz.ErrMalformedXML) {
		status = http.StatusBadRequest
	}
	logger := logging.FromContext(r.Context())
	logger.Error().Err(err).Int("status", status).Msg("conversion failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// downloadName keeps a title usable as a file name.
func downloadName(title, def string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, title)
	if name == "" {
		return def
	}
	return name
}
