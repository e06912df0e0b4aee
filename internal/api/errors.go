package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/logging"
)

var badRequestErrors = []error{
	event.ErrMissingField,
	event.ErrInvalidDate,
	event.ErrInvalidTimeFormat,
	event.ErrEndBeforeStart,
	event.ErrInvalidType,
	event.ErrInvalidUrgency,
	event.ErrInvalidWindow,
	dateutil.ErrInvalidDateFormat,
	dateutil.ErrEndDateBeforeStart,
	dateutil.ErrRangeTooLong,
	dateutil.ErrNoDates,
	dateutil.ErrInvalidViewMode,
}

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, event.ErrLocked):
		return http.StatusConflict
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// customErrorHandler renders every error as {"message": "..."}.
func customErrorHandler(logger *logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := statusFor(err)

		var msg string
		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			msg = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		case code == http.StatusInternalServerError:
			msg = http.StatusText(code)
		case code == http.StatusNotFound:
			msg = "Schedule not found"
		default:
			msg = err.Error()
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, messageResponse{Message: msg})
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
