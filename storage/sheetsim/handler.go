package sheetsim

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/huda/core"
)

type (
	// Options tunes the emulated endpoint.
	Options struct {
		// LegacyAck answers writes with a bare text body instead of `{"success": true}`,
		// like older deployments of the endpoint script.
		LegacyAck bool
		// ReadOnly refuses every write with a failure ack, like a protected spreadsheet.
		ReadOnly    bool
		LogRequests bool
		Logger      core.Logger
	}

	// Handler serves the endpoint contract on any path:
	//   GET  ?sheet=<name>&cachebust=<nonce> -> [{col: value}, ...] | {"error": "..."}
	//   POST sheet=<name>&data=<JSON array>  -> {"success": true, ...} | {"success": false, "error": "..."}
	// Like the real endpoint, reported errors come with a 200 status.
	Handler struct {
		app     *echo.Echo
		backend Backend
		opts    Options

		reads  int64
		writes int64
	}
)

func NewHandler(backend Backend, opts Options) *Handler {
	h := &Handler{app: echo.New(), backend: backend, opts: opts}
	h.setup()
	return h
}

func (h *Handler) setup() {
	h.app.HideBanner = true
	h.app.HidePort = true
	h.app.HTTPErrorHandler = h.handleError

	if h.opts.LogRequests {
		h.app.Use(middleware.Logger())
	}
	h.app.Use(middleware.Recover())

	h.app.GET("/*", h.read)
	h.app.POST("/*", h.write)
}

// Start listens on address until Shutdown or Close is called.
func (h *Handler) Start(address string) error {
	if err := h.app.Start(address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (h *Handler) Shutdown(ctx context.Context) error {
	return h.app.Shutdown(ctx)
}

func (h *Handler) Close() error {
	return h.app.Close()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.app.ServeHTTP(w, r)
}

// Reads returns the number of GET requests served.
func (h *Handler) Reads() int { return int(atomic.LoadInt64(&h.reads)) }

// Writes returns the number of POST requests served.
func (h *Handler) Writes() int { return int(atomic.LoadInt64(&h.writes)) }

func (h *Handler) read(ctx echo.Context) error {
	atomic.AddInt64(&h.reads, 1)

	name := strings.TrimSpace(ctx.QueryParam("sheet"))
	if name == "" {
		return ctx.JSON(http.StatusOK, echo.Map{"error": "Missing sheet parameter"})
	}

	header, rows, err := h.backend.Rows(name)
	if err == ErrSheetNotFound {
		return ctx.JSON(http.StatusOK, echo.Map{"error": "Sheet not found: " + name})
	} else if err != nil {
		return err
	}

	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return ctx.JSON(http.StatusOK, records)
}

func (h *Handler) write(ctx echo.Context) error {
	atomic.AddInt64(&h.writes, 1)

	name := strings.TrimSpace(ctx.FormValue("sheet"))
	if name == "" {
		return ctx.JSON(http.StatusOK, echo.Map{"success": false, "error": "Missing sheet parameter"})
	}

	if h.opts.ReadOnly {
		return ctx.JSON(http.StatusOK, echo.Map{"success": false, "error": "Sheet is protected: " + name})
	}

	var cells []interface{}
	if err := sonic.UnmarshalString(ctx.FormValue("data"), &cells); err != nil {
		return ctx.JSON(http.StatusOK, echo.Map{"success": false, "error": "Invalid data: expected a JSON array"})
	}
	row := make([]string, len(cells))
	for i, cell := range cells {
		if s, ok := cell.(string); ok {
			row[i] = s
		} else if cell != nil {
			row[i] = fmt.Sprint(cell)
		}
	}

	if err := h.backend.Append(name, row); err == ErrSheetNotFound {
		return ctx.JSON(http.StatusOK, echo.Map{"success": false, "error": "Sheet not found: " + name})
	} else if err != nil {
		return err
	}

	if h.opts.LegacyAck {
		return ctx.String(http.StatusOK, "Success: row added to "+name)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Row added successfully"})
}

// handleError answers routing errors as echo does and backend failures with a bare 500.
func (h *Handler) handleError(err error, ctx echo.Context) {
	code, msg := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	if he, ok := err.(*echo.HTTPError); ok {
		code, msg = he.Code, fmt.Sprint(he.Message)
	} else if h.opts.Logger != nil {
		h.opts.Logger.Error(fmt.Sprintf("sheetsim: %v", err), err)
	}

	if ctx.Response().Committed {
		return
	}
	if ctx.Request().Method == http.MethodHead {
		_ = ctx.NoContent(code)
	} else {
		_ = ctx.String(code, msg)
	}
}
