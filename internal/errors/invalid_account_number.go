package errors

import "net/http"

var ErrInvalidAccountNumber = &Exception{
	Message:    "account number has an invalid format",
	StatusCode: http.StatusBadRequest,
}
