package errors

import "net/http"

var ErrAccountNumberRequired = &Exception{
	Message:    "account number is required",
	StatusCode: http.StatusBadRequest,
}
