package function

// ErrorCode classifies why an evaluation could not produce a value. Every
// algorithm reports through these codes; nothing in this package panics or
// returns an untagged error to the caller.
type ErrorCode string

const (
	ErrMissingInput       ErrorCode = "missingInput"
	ErrTagNotFound        ErrorCode = "tagNotFound"
	ErrInvalidValue       ErrorCode = "invalidValue"
	ErrMultipleValues     ErrorCode = "multipleValuesNotAllowed"
	ErrInvalidInterval    ErrorCode = "invalidInterval"
	ErrNoData             ErrorCode = "noData"
	ErrNoMatch            ErrorCode = "noMatch"
	ErrInvalidComputation ErrorCode = "invalidComputation"
	ErrUnknownFunction    ErrorCode = "unknownFunctionKind"
)

// Error is a tagged evaluation failure. Detail carries the operator-facing
// specifics appended to the code's base message.
type Error struct {
	Code   ErrorCode
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Detail
}

func newError(code ErrorCode, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}
