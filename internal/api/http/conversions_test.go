package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/mind-engage/quizpack/internal/auth/middleware"
	"github.com/mind-engage/quizpack/internal/history"
	"github.com/mind-engage/quizpack/internal/metrics"
	"github.com/mind-engage/quizpack/internal/storage"
)

type memHistory struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (m *memHistory) Append(_ context.Context, e history.Entry) (history.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.CreatedAt = int64(1000 + len(m.entries))
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memHistory) Get(_ context.Context, id string) (history.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return history.Entry{}, history.ErrNotFound
}

func (m *memHistory) List(_ context.Context, opts history.ListOpts) ([]history.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []history.Entry{}
	for _, e := range m.entries {
		if opts.Direction == "" || e.Direction == opts.Direction {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

const sampleCSV = "Type,Title,Points,Question Body,Correct Answer,Option 1,Option 2,Option 3\n" +
	"MC,Q1,5,2+2=?,2,3,4,5\n" +
	"TF,Q2,1,Sky is blue,1,,,\n" +
	"MC,Q3,oops,Broken points,1,a,,\n"

func newServer(t *testing.T, maxUpload int64) (http.Handler, *memHistory) {
	t.Helper()
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	hist := &memHistory{}
	r := chi.NewRouter()
	Routes(r, hist, bs, metrics.New(prometheus.NewRegistry()), maxUpload, true)
	return r, hist
}

func upload(t *testing.T, h http.Handler, path, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestConvertCSVThenQTI(t *testing.T) {
	h, hist := newServer(t, 1<<20)

	rec := upload(t, h, "/convert/csv", "Week 1.csv", []byte(sampleCSV), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Week_1.zip"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", rec.Header().Get(HeaderWarnings))
	assert.Equal(t, "0", rec.Header().Get(HeaderSkipped))
	id := rec.Header().Get(HeaderConversion)
	require.NotEmpty(t, id)
	zipped := rec.Body.Bytes()
	assert.True(t, bytes.HasPrefix(zipped, []byte("PK")))

	require.Len(t, hist.entries, 1)
	e := hist.entries[0]
	assert.Equal(t, "csv_to_qti", e.Direction)
	assert.Equal(t, "Week 1", e.Title)
	assert.Equal(t, 3, e.Questions)
	assert.Equal(t, 6.0, e.TotalPoints)
	assert.Equal(t, "conversions/"+id+".zip", e.OutputKey)
	assert.Empty(t, e.CreatedBy)

	rec = upload(t, h, "/convert/qti", "pkg.zip", zipped, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Week_1.csv"`, rec.Header().Get("Content-Disposition"))
	out := strings.TrimPrefix(rec.Body.String(), "\xef\xbb\xbf")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "MC,Q1,5.00,2+2=?,2,3,4,5,"))
	assert.True(t, strings.HasPrefix(lines[2], "TF,Q2,1.00,Sky is blue,1,True,False,"))
	assert.True(t, strings.HasPrefix(lines[3], "MC,Q3,0.00,Broken points,1,a,"))

	rec = get(h, "/conversions?direction=qti_to_csv")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []history.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "qti_to_csv", list[0].Direction)

	rec = get(h, "/conversions/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	var got history.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, 4, got.Warnings[0].Row)

	rec = get(h, "/conversions/"+id+"/output")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, zipped, rec.Body.Bytes())
	assert.Equal(t, `"`+e.Digest+`"`, rec.Header().Get("ETag"))

	assert.Equal(t, http.StatusNotFound, get(h, "/conversions/missing").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/conversions/missing/output").Code)
}

func TestConvertRecordsSubject(t *testing.T) {
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	hist := &memHistory{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithSubject(req.Context(), "admin")))
		})
	})
	Routes(r, hist, bs, metrics.New(prometheus.NewRegistry()), 1<<20, true)

	rec := upload(t, r, "/convert/csv", "q.csv", []byte(sampleCSV), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, hist.entries, 1)
	assert.Equal(t, "admin", hist.entries[0].CreatedBy)
}

func TestConvertQTIHeuristicOverride(t *testing.T) {
	h, _ := newServer(t, 1<<20)
	rec := upload(t, h, "/convert/csv", "q.csv", []byte(sampleCSV), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	zipped := rec.Body.Bytes()

	rec = upload(t, h, "/convert/qti", "q.zip", zipped, map[string]string{"tf_heuristic": "false"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "\nTF,Q2,")

	rec = upload(t, h, "/convert/qti", "q.zip", zipped, map[string]string{"tf_heuristic": "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertRejectsBadUploads(t *testing.T) {
	h, hist := newServer(t, 1<<20)

	rec := upload(t, h, "/convert/csv", "", nil, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, h, "/convert/qti", "notes.zip", []byte("plain text"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "invalid source")

	rec = upload(t, h, "/convert/csv", "empty.csv", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, hist.entries)
}

func TestConvertUploadTooLarge(t *testing.T) {
	h, _ := newServer(t, 64)
	rec := upload(t, h, "/convert/csv", "big.csv", bytes.Repeat([]byte("x"), 4096), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestConvertCSVTitleOverride(t *testing.T) {
	h, hist := newServer(t, 1<<20)
	rec := upload(t, h, "/convert/csv", "q.csv", []byte(sampleCSV), map[string]string{"title": "Final Exam"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="Final_Exam.zip"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Final Exam", hist.entries[0].Title)
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "Week_1", downloadName("Week 1", "x"))
	assert.Equal(t, "x", downloadName("???", "x"))
	assert.Equal(t, "a-b_c", downloadName("a-b_c/", "x"))
}
