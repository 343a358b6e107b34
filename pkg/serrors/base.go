package serrors

import "fmt"

// BaseError is a coded error shared across packages that need stable,
// machine-readable failure identifiers (event bus, outbox relay, CLI).
type BaseError struct {
	Code    string
	Message string
}

func NewError(code, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

func (e *BaseError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches by code so wrapped instances compare equal to their sentinel.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return other.Code == e.Code
}
