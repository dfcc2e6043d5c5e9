package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/storage/inmem"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "incorrect email or password")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows
// how to handle our errors. Bodies use the production backend's `detail`
// shape so the client parses both the same way.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var detail interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				detail = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			detail = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			detail = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				detail = fldErrs
			} else {
				detail = origErr.Error()
			}
			code = http.StatusBadRequest
		default:
			switch origErr {
			case inmem.ErrNotFound:
				code = http.StatusNotFound
				detail = origErr.Error()
			case inmem.ErrEmailExists, inmem.ErrAlreadyEnrolled, inmem.ErrNotEnrolled:
				code = http.StatusBadRequest
				detail = origErr.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				detail = http.StatusText(http.StatusInternalServerError)
				logger.Error(http.StatusText(code), errors.Wrap(err, "unhandled error"))
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			detail = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, echo.Map{"detail": detail})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
