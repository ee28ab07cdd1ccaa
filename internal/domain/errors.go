package domain

import "fmt"

// ErrorCode classifies domain errors so callers can map them without string
// matching.
type ErrorCode string

const (
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeNameTaken        ErrorCode = "NAME_TAKEN"
	CodeAlreadyPublished ErrorCode = "ALREADY_PUBLISHED"
	CodeNotPublished     ErrorCode = "NOT_PUBLISHED"
	CodeInvalidField     ErrorCode = "INVALID_FIELD"
	CodeAccessDenied     ErrorCode = "ACCESS_DENIED"
)

// Error is a typed domain error carrying the offending field and value.
type Error struct {
	Field   string
	Value   string
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is matches any *Error with the same code, so errors.Is works against the
// code sentinels below regardless of field/value payload.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Code sentinels for errors.Is checks.
var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrNameTaken        = &Error{Code: CodeNameTaken, Message: "name already taken"}
	ErrAlreadyPublished = &Error{Code: CodeAlreadyPublished, Message: "already published"}
	ErrNotPublished     = &Error{Code: CodeNotPublished, Message: "not published"}
	ErrAccessDenied     = &Error{Code: CodeAccessDenied, Message: "access denied"}
)
