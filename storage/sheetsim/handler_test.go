package sheetsim

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/huda/core/sheet"
)

func newBackends(t *testing.T) map[string]Backend {
	t.Helper()
	bolt, err := OpenBoltBackend(filepath.Join(t.TempDir(), "sheets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })
	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"bolt":   bolt,
	}
}

func TestBackends(t *testing.T) {
	for name, b := range newBackends(t) {
		b := b
		t.Run(name, func(t *testing.T) {
			_, _, err := b.Rows("3_tasks_master")
			assert.Equal(t, ErrSheetNotFound, err)

			require.NoError(t, Seed(b, "3_tasks_master", nil,
				[]string{"T1", "Algebra", "", "Math", "2024-05-10"},
				[]string{"T2", "Essay", "", "English", "2024-05-12"},
			))
			assert.Equal(t, ErrSheetExists, b.Create("3_tasks_master", nil))

			header, rows, err := b.Rows("3_tasks_master")
			require.NoError(t, err)
			assert.Equal(t, sheet.DefaultHeader("3_tasks_master"), header)
			require.Len(t, rows, 2)
			assert.Equal(t, "T1", rows[0][0])
			assert.Equal(t, "T2", rows[1][0])

			// conventional sheets are created on first write
			require.NoError(t, b.Append("alice_progress", []string{"T1", "task", "complete", "2024-05-10", "100"}))
			header, rows, err = b.Rows("alice_progress")
			require.NoError(t, err)
			assert.Equal(t, "item_id", header[0])
			assert.Len(t, rows, 1)

			assert.Equal(t, ErrSheetNotFound, b.Append("whatever", []string{"x"}))

			names, err := b.Sheets()
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"3_tasks_master", "alice_progress"}, names)
		})
	}
}

func TestBoltBackend_persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheets.db")
	b, err := OpenBoltBackend(path)
	require.NoError(t, err)
	require.NoError(t, SeedRecords(b, sheet.Events, nil, sheet.Row{"event_id": "1", "title": "Eid"}))
	require.NoError(t, b.Close())

	b, err = OpenBoltBackend(path)
	require.NoError(t, err)
	defer b.Close()
	_, rows, err := b.Rows(sheet.Events)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"1", "Eid", "", "", "", ""}, rows[0])
}

func TestHandler(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, SeedRecords(backend, sheet.Credentials, nil,
		sheet.Row{"username": "alice", "password": "pw", "full_name": "Alice", "role": "student", "class": "3"},
	))
	h := NewHandler(backend, Options{})

	get := func(query string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exec?"+query, nil))
		return rec
	}
	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/exec", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	tests := []struct {
		name     string
		do       func() *httptest.ResponseRecorder
		wantCode int
		wantBody string
	}{
		{
			name:     "read rows",
			do:       func() *httptest.ResponseRecorder { return get("sheet=user_credentials&cachebust=1") },
			wantCode: http.StatusOK,
			wantBody: `[{"username":"alice","password":"pw","full_name":"Alice","role":"student","class":"3","subjects":""}]`,
		},
		{
			name: "read on the root path",
			do: func() *httptest.ResponseRecorder {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?sheet=nope", nil))
				return rec
			},
			wantCode: http.StatusOK,
			wantBody: `{"error":"Sheet not found: nope"}`,
		},
		{
			name:     "missing sheet param",
			do:       func() *httptest.ResponseRecorder { return get("cachebust=1") },
			wantCode: http.StatusOK,
			wantBody: `{"error":"Missing sheet parameter"}`,
		},
		{
			name:     "unknown sheet",
			do:       func() *httptest.ResponseRecorder { return get("sheet=nope") },
			wantCode: http.StatusOK,
			wantBody: `{"error":"Sheet not found: nope"}`,
		},
		{
			name: "append",
			do: func() *httptest.ResponseRecorder {
				return post(url.Values{"sheet": {"alice_progress"}, "data": {`["T1","task","complete","2024-05-10",100]`}})
			},
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"message":"Row added successfully"}`,
		},
		{
			name: "append bad data",
			do: func() *httptest.ResponseRecorder {
				return post(url.Values{"sheet": {"alice_progress"}, "data": {`T1`}})
			},
			wantCode: http.StatusOK,
			wantBody: `{"success":false,"error":"Invalid data: expected a JSON array"}`,
		},
		{
			name: "append unknown sheet",
			do: func() *httptest.ResponseRecorder {
				return post(url.Values{"sheet": {"nope"}, "data": {`["x"]`}})
			},
			wantCode: http.StatusOK,
			wantBody: `{"success":false,"error":"Sheet not found: nope"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.do()
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}

	_, rows, err := backend.Rows("alice_progress")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"T1", "task", "complete", "2024-05-10", "100"}}, rows)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/exec", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	assert.Equal(t, 4, h.Reads())
	assert.Equal(t, 3, h.Writes())
}

func TestHandler_legacyAck(t *testing.T) {
	h := NewHandler(NewMemoryBackend(), Options{LegacyAck: true})
	form := url.Values{"sheet": {"bob_progress"}, "data": {`["C1","course","complete","2024-05-10","100"]`}}
	req := httptest.NewRequest(http.MethodPost, "/exec", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "Success: row added to bob_progress", rec.Body.String())
}

type brokenBackend struct{ MemoryBackend }

func (brokenBackend) Rows(string) ([]string, [][]string, error) { return nil, nil, errors.New("disk I/O error") }

func (brokenBackend) Append(string, []string) error { return errors.New("disk I/O error") }

func TestHandler_backendFailure(t *testing.T) {
	h := NewHandler(&brokenBackend{}, Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exec?sheet=user_credentials", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), rec.Body.String())

	form := url.Values{"sheet": {"bob_progress"}, "data": {`["C1"]`}}
	req := httptest.NewRequest(http.MethodPost, "/exec", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_readOnly(t *testing.T) {
	backend := NewMemoryBackend()
	h := NewHandler(backend, Options{ReadOnly: true})
	form := url.Values{"sheet": {"bob_progress"}, "data": {`["C1","course","complete","2024-05-10","100"]`}}
	req := httptest.NewRequest(http.MethodPost, "/exec", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Sheet is protected: bob_progress"}`, rec.Body.String())
	_, _, err := backend.Rows("bob_progress")
	assert.Equal(t, ErrSheetNotFound, err)
}
