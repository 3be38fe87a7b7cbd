package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/progress"
	"github.com/trezcool/huda/core/sheet"
	"github.com/trezcool/huda/core/user"
)

var (
	errUnauthorized    = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errRefreshExpired  = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden   = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errNoClass         = echo.NewHTTPError(http.StatusForbidden, "no class assigned to this account")
	errUnavailableText = "could not reach data source"

	// sentinels are the domain errors answered with their own text.
	sentinels = []struct {
		err  error
		code int
	}{
		{user.ErrInvalidCredentials, http.StatusBadRequest},
		{user.ErrNotFound, http.StatusNotFound},
		{sheet.ErrInvalidClass, http.StatusBadRequest},
		{sheet.ErrInvalidUsername, http.StatusBadRequest},
		{core.ErrInvalidDate, http.StatusBadRequest},
		{progress.ErrAlreadyCompleted, http.StatusConflict},
		{progress.ErrOverdue, http.StatusBadRequest},
		{progress.ErrUnknownItem, http.StatusNotFound},
	}
)

func sentinelCode(err error) (int, bool) {
	for _, s := range sentinels {
		if err == s.err {
			return s.code, true
		}
	}
	return 0, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if c, ok := sentinelCode(cause); ok {
			code, message = c, cause.Error()
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					message = origErr.Message
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if fldErrs := origErr.FieldMap(); fldErrs != nil {
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			case *sheet.FetchError, *sheet.WriteError:
				code = http.StatusBadGateway
				message = errUnavailableText
				logger.Warn(errUnavailableText, err)
			case *sheet.RemoteError:
				if origErr.Write {
					code = http.StatusUnprocessableEntity
				} else {
					code = http.StatusBadGateway
				}
				message = origErr.Message
				logger.Warn("data source error", err)
			case *sheet.AmbiguousAckError:
				// the row may have been written
				code = http.StatusAccepted
				message = echo.Map{"ack": sheet.AckUnrecognized.String(), "error": origErr.Error()}
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr = claims.User()
				}
				logger.Error(msg, errors.Wrap(err, msg), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// respondWritten answers a single-row write: data on success, otherwise the error of the ack.
func respondWritten(ctx echo.Context, code int, ack sheet.Ack, sheetName string, data interface{}) error {
	if err := ack.Err(sheetName); err != nil {
		return err
	}
	return ctx.JSON(code, data)
}
