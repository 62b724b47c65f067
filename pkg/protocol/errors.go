package protocol

import "net/http"

type ErrorCode string

const (
	ErrNoDataLoaded ErrorCode = "E_NO_DATA_LOADED"
	ErrNotFound     ErrorCode = "E_NOT_FOUND"
	ErrServerError  ErrorCode = "E_SERVER_ERROR"
	ErrUnhandled    ErrorCode = "E_UNHANDLED"
)

// CodeForStatus maps an HTTP status onto the error taxonomy. Statuses other
// than 400, 404 and 500 are Unhandled.
func CodeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return ErrNoDataLoaded
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusInternalServerError:
		return ErrServerError
	default:
		return ErrUnhandled
	}
}
