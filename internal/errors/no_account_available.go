package errors

import "net/http"

var ErrNoAccountAvailable = &Exception{
	Message:    "no account number available",
	StatusCode: http.StatusServiceUnavailable,
}
