package db

import (
	"fmt"
	"net/url"
)

// StoreUnavailableError means the document store could not be reached or could not
// accept the insert.
type StoreUnavailableError struct {
	URL     string
	Message string
	Cause   error
}

func (e *StoreUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document store %s unavailable: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("document store %s unavailable: %s", e.URL, e.Message)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Cause
}

func unavailable(dsn, message string, cause error) error {
	return &StoreUnavailableError{URL: Redact(dsn), Message: message, Cause: cause}
}

// Redact hides the password of a connection URL so it can be logged.
func Redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
