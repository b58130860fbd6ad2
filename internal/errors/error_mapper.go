package errors

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"rex-crm-client/pkg/rex"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()

	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewAppError(technicalMessage, MsgUpstreamTimeout, ErrCodeUpstreamTimeout, http.StatusGatewayTimeout, err)
	}

	var rexErr *rex.Error
	if !stderrors.As(err, &rexErr) {
		return NewAppError(technicalMessage, MsgInternalError, ErrCodeInternal, http.StatusInternalServerError, err)
	}

	switch {
	case rexErr.Kind == rex.KindAuthentication:
		return NewAppError(technicalMessage, MsgUnauthenticated, ErrCodeUnauthenticated, http.StatusUnauthorized, err)
	case rexErr.StatusCode == http.StatusUnauthorized:
		return NewAppError(technicalMessage, MsgNoSession, ErrCodeNoSession, http.StatusUnauthorized, err)
	case rexErr.StatusCode == http.StatusNotFound || strings.Contains(rexErr.Type, "NotFound"):
		return NewAppError(technicalMessage, MsgRecordNotFound, ErrCodeRecordNotFound, http.StatusNotFound, err)
	case rexErr.StatusCode == http.StatusBadRequest || rexErr.StatusCode == http.StatusUnprocessableEntity:
		return NewAppError(technicalMessage, MsgInvalidParameters, ErrCodeInvalidParameters, http.StatusBadRequest, err)
	case rexErr.StatusCode == 0 && rexErr.Err == nil:
		// rejected locally before anything was sent
		return NewAppError(technicalMessage, MsgInvalidParameters, ErrCodeInvalidParameters, http.StatusBadRequest, err)
	case rexErr.StatusCode == 0:
		return NewAppError(technicalMessage, MsgServiceUnavailable, ErrCodeServiceUnavailable, http.StatusBadGateway, err)
	default:
		return NewAppError(technicalMessage, MsgUpstreamError, ErrCodeUpstreamError, http.StatusBadGateway, err)
	}
}
