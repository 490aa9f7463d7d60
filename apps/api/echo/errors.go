package echoapi

import (
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core"
	"github.com/tricitytutors/backend/core/message"
	"github.com/tricitytutors/backend/core/otp"
	"github.com/tricitytutors/backend/core/requirement"
	"github.com/tricitytutors/backend/core/tutor"
	"github.com/tricitytutors/backend/core/user"
	"github.com/tricitytutors/backend/core/wallet"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// sentinelCodes maps known service errors to HTTP status codes; anything
// not listed here is a server error.
var sentinelCodes = map[error]int{
	user.ErrNotFound:    http.StatusNotFound,
	user.ErrEmailExists: http.StatusBadRequest,

	otp.ErrNotFound: http.StatusBadRequest,
	otp.ErrExpired:  http.StatusBadRequest,
	otp.ErrMismatch: http.StatusBadRequest,

	tutor.ErrNotFound: http.StatusNotFound,

	requirement.ErrNotFound:         http.StatusNotFound,
	requirement.ErrEmailNotVerified: http.StatusForbidden,
	requirement.ErrNotOwner:         http.StatusForbidden,

	message.ErrNotFound:    http.StatusNotFound,
	message.ErrSelfMessage: http.StatusBadRequest,

	wallet.ErrInsufficientFunds:    http.StatusPaymentRequired,
	wallet.ErrInvalidPackage:       http.StatusBadRequest,
	wallet.ErrInvalidSignature:     http.StatusBadRequest,
	wallet.ErrAlreadyCompleted:     http.StatusBadRequest,
	wallet.ErrTransactionNotFound:  http.StatusNotFound,
	wallet.ErrGatewayNotConfigured: http.StatusBadRequest,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(deps *Deps, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		var sentinelCode int
		var isSentinel bool
		// map lookup panics on unhashable error types (e.g. validator.ValidationErrors)
		if cause != nil && reflect.TypeOf(cause).Comparable() {
			sentinelCode, isSentinel = sentinelCodes[cause]
		}
		if isSentinel {
			code = sentinelCode
			message = cause.Error()
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
					fldErrs[vErr.Field()] = vErr.Translate(deps.Translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if origErr.Fields != nil {
					fldErrs := make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Email = claims.Email
					usr.Name = claims.Name
				}
				deps.Logger.Error(msg, errors.Wrap(err, msg), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && code >= http.StatusInternalServerError {
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
