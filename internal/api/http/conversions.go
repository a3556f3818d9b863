package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizpack/internal/history"
	"github.com/mind-engage/quizpack/internal/metrics"
	"github.com/mind-engage/quizpack/internal/storage"
)

// GET /conversions?direction=&limit=&offset=
func ListConversionsHandler(hist history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := hist.List(r.Context(), history.ListOpts{
			Direction: strings.TrimSpace(r.URL.Query().Get("direction")),
			Limit:     parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:    parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}

// GET /conversions/{id}
func GetConversionHandler(hist history.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := lookup(w, r, hist)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(e)
	}
}

// GET /conversions/{id}/output
func DownloadConversionHandler(hist history.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := lookup(w, r, hist)
		if !ok {
			return
		}
		if e.OutputKey == "" {
			http.Error(w, "output not stored", http.StatusNotFound)
			return
		}
		rc, err := bs.Get(e.OutputKey)
		if err != nil {
			http.Error(w, "output not found", http.StatusNotFound)
			return
		}
		defer rc.Close()

		ct := "application/zip"
		if strings.HasSuffix(e.OutputKey, ".csv") {
			ct = "text/csv; charset=utf-8"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Content-Disposition", "attachment; filename=\""+path.Base(e.OutputKey)+"\"")
		w.Header().Set("ETag", `"`+e.Digest+`"`)
		_, _ = io.Copy(w, rc)
	}
}

func lookup(w http.ResponseWriter, r *http.Request, hist history.Store) (history.Entry, bool) {
	e, err := hist.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, history.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return history.Entry{}, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return history.Entry{}, false
	}
	return e, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

// Routes mounts the conversion API on r.
func Routes(r chi.Router, hist history.Store, bs storage.BlobStore, m *metrics.Recorder, maxUpload int64, tfHeuristic bool) {
	r.Post("/convert/csv", ConvertCSVHandler(hist, bs, m, maxUpload))
	r.Post("/convert/qti", ConvertQTIHandler(hist, bs, m, maxUpload, tfHeuristic))
	r.Get("/conversions", ListConversionsHandler(hist))
	r.Get("/conversions/{id}", GetConversionHandler(hist))
	r.Get("/conversions/{id}/output", DownloadConversionHandler(hist, bs))
}
