package apperror

import (
	"errors"
	"fmt"
)

// Kind จัดกลุ่ม error ตามผลลัพธ์ที่ caller ต้องได้รับ
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidOrExpired
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidOrExpired:
		return "invalid_or_expired"
	default:
		return "internal"
	}
}

// Error is the application error carried from services to handlers.
// Message is safe to show to clients; Err keeps the underlying diagnostic.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithDetails แนบรายละเอียดเพิ่มเติม (เช่น validation errors)
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// ========== Constructors ==========

func Validation(message string) *Error { return New(KindValidation, message) }

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

func InvalidOrExpired(message string) *Error { return New(KindInvalidOrExpired, message) }

func Internal(message string, err error) *Error { return Wrap(KindInternal, message, err) }

// KindOf returns the Kind of the first *Error in err's chain.
// Errors that are not application errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
