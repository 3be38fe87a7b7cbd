package testutil

import (
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
	logsvc "github.com/trezcool/huda/services/logger"
	"github.com/trezcool/huda/storage/sheets"
	"github.com/trezcool/huda/storage/sheetsim"
)

// SheetServer is an emulated sheet endpoint with a store pointed at it.
type SheetServer struct {
	URL     string
	Store   *sheets.Store
	Handler *sheetsim.Handler
	Backend *sheetsim.MemoryBackend

	srv *httptest.Server
}

// NewSheetServer starts an in-memory sheet endpoint for the duration of the test.
func NewSheetServer(t *testing.T, opts ...sheetsim.Options) *SheetServer {
	t.Helper()
	var o sheetsim.Options
	if len(opts) > 0 {
		o = opts[0]
	}
	backend := sheetsim.NewMemoryBackend()
	handler := sheetsim.NewHandler(backend, o)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &SheetServer{
		URL:     srv.URL,
		Store:   sheets.NewStore(sheets.Options{URL: srv.URL, CacheTTL: 2 * time.Minute, Timeout: 5 * time.Second}),
		Handler: handler,
		Backend: backend,
		srv:     srv,
	}
}

// Close shuts the endpoint down, making every further request fail.
func (s *SheetServer) Close() { s.srv.Close() }

// Seed appends rows (in conventional column order) to name.
func (s *SheetServer) Seed(t *testing.T, name string, rows ...[]string) {
	t.Helper()
	if err := sheetsim.Seed(s.Backend, name, nil, rows...); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
}

func (s *SheetServer) SeedUser(t *testing.T, username, password, fullName, role, class, subjects string) {
	t.Helper()
	s.Seed(t, sheet.Credentials, []string{username, password, fullName, role, class, subjects})
}

// Rows returns what the endpoint currently holds for name, bypassing any cache.
func (s *SheetServer) Rows(t *testing.T, name string) [][]string {
	t.Helper()
	_, rows, err := s.Backend.Rows(name)
	if err != nil && err != sheetsim.ErrSheetNotFound {
		t.Fatalf("Rows() failed: %v", err)
	}
	return rows
}

// NewConfig returns the default configuration in test mode.
func NewConfig(t *testing.T) *core.Config {
	t.Helper()
	conf := core.NewConfig()
	conf.TestMode = true
	conf.Debug = true
	return conf
}

func NewValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate, translator
}

// NewLogger returns a silent logger with rollbar disabled.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "TEST : ", 0), conf)
	logger.Enable(false)
	return logger
}
