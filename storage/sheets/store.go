// Package sheets implements sheet.Store over the remote spreadsheet HTTP endpoint.
package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/sheet"
)

var (
	nowFunc   = time.Now     // mockable
	nonceFunc = defaultNonce // mockable

	errUnexpectedBody = errors.New("unexpected response body")
)

func defaultNonce() string { return uuid.NewString() }

// maxBody bounds how much of a response is read.
const maxBody = 32 << 20

type (
	// Options configures a Store.
	Options struct {
		URL      string
		CacheTTL time.Duration
		Timeout  time.Duration
		Client   *http.Client // optional; Timeout is ignored when set
		Logger   core.Logger
	}

	cacheEntry struct {
		rows      []sheet.Row
		fetchedAt time.Time
	}

	// Store fetches sheets over HTTP and caches them per name for CacheTTL.
	Store struct {
		url    string
		ttl    time.Duration
		client *http.Client
		logger core.Logger

		// unusable is set when url cannot reach any endpoint; every call fails with it.
		unusable error

		mu    sync.RWMutex
		cache map[string]cacheEntry
	}
)

var _ sheet.Store = (*Store)(nil)

func NewStore(opts Options) *Store {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	s := &Store{
		url:    opts.URL,
		ttl:    opts.CacheTTL,
		client: client,
		logger: opts.Logger,
		cache:  make(map[string]cacheEntry),
	}
	if u, err := url.Parse(opts.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		s.unusable = core.NewShutdownError(fmt.Sprintf("sheets endpoint %q is not an http(s) URL, set sheets.url", opts.URL))
	}
	return s
}

// NewStoreFromConfig builds a Store from the app configuration.
func NewStoreFromConfig(conf *core.Config, logger core.Logger) *Store {
	return NewStore(Options{
		URL:      conf.Sheets.URL,
		CacheTTL: conf.Sheets.CacheTTL,
		Timeout:  conf.Sheets.Timeout,
		Logger:   logger,
	})
}

func (s *Store) cached(name string) ([]sheet.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[name]
	if !ok || nowFunc().Sub(entry.fetchedAt) >= s.ttl {
		return nil, false
	}
	return entry.rows, true
}

func (s *Store) FetchSheet(ctx context.Context, name string, useCache ...bool) ([]sheet.Row, error) {
	if s.unusable != nil {
		return nil, s.unusable
	}
	withCache := len(useCache) == 0 || useCache[0]
	if withCache {
		if rows, ok := s.cached(name); ok {
			s.debug(fmt.Sprintf("sheet %q: cache hit", name))
			return rows, nil
		}
	}

	rows, err := s.fetch(ctx, name)
	if err != nil {
		s.warn(fmt.Sprintf("sheet %q: fetch failed", name), err)
		return nil, err
	}

	if withCache {
		s.mu.Lock()
		s.cache[name] = cacheEntry{rows: rows, fetchedAt: nowFunc()}
		s.mu.Unlock()
	}
	return rows, nil
}

func (s *Store) fetch(ctx context.Context, name string) ([]sheet.Row, error) {
	q := url.Values{}
	q.Set("sheet", name)
	q.Set("cachebust", nonceFunc())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(q), nil)
	if err != nil {
		return nil, &sheet.FetchError{Sheet: name, Err: errors.Wrap(err, "building request")}
	}
	req.Header.Set("Accept", "application/json")

	body, err := s.do(req)
	if err != nil {
		return nil, &sheet.FetchError{Sheet: name, Err: err}
	}
	return decodeRows(name, body)
}

func (s *Store) AppendRow(ctx context.Context, name string, row []string) (sheet.Ack, error) {
	if s.unusable != nil {
		return sheet.Ack{}, s.unusable
	}
	// the next read of name must hit the network, whatever happens to this write
	defer s.Invalidate(name)

	if row == nil {
		row = []string{}
	}
	data, err := sonic.Marshal(row)
	if err != nil {
		return sheet.Ack{}, &sheet.WriteError{Sheet: name, Err: errors.Wrap(err, "encoding row")}
	}
	form := url.Values{}
	form.Set("sheet", name)
	form.Set("data", string(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, strings.NewReader(form.Encode()))
	if err != nil {
		return sheet.Ack{}, &sheet.WriteError{Sheet: name, Err: errors.Wrap(err, "building request")}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := s.do(req)
	if err != nil {
		s.warn(fmt.Sprintf("sheet %q: write failed", name), err)
		return sheet.Ack{}, &sheet.WriteError{Sheet: name, Err: err}
	}

	ack := ParseAck(body)
	if ack.Kind != sheet.AckSuccess {
		s.warn(fmt.Sprintf("sheet %q: write acknowledged as %s", name, ack))
	}
	return ack, nil
}

func (s *Store) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

func (s *Store) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.mu.Unlock()
}

// Prune drops expired cache entries and returns how many were dropped.
func (s *Store) Prune() int {
	now := nowFunc()
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for name, entry := range s.cache {
		if now.Sub(entry.fetchedAt) >= s.ttl {
			delete(s.cache, name)
			n++
		}
	}
	return n
}

func (s *Store) endpoint(q url.Values) string {
	sep := "?"
	if strings.Contains(s.url, "?") {
		sep = "&"
	}
	return s.url + sep + q.Encode()
}

func (s *Store) do(req *http.Request) ([]byte, error) {
	res, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "sending request")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, errors.Errorf("unexpected status %d: %s", res.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func (s *Store) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Store) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
