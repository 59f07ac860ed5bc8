package errors

import (
	"errors"
	"net/http"

	repository "account-pool-system.com/account-pool-system/internal/repositories"
)

type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// FromDomain maps store errors onto their HTTP facing exception. Errors with
// no mapping are returned unchanged.
func FromDomain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrAccountNotFound):
		return ErrAccountNotFound
	}
	return err
}
