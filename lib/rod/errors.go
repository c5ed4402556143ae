package rod

import "fmt"

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps an error code (of type ErrCode)
// and an error message.
// Two errors match with errors.Is if their codes are equal, the message is ignored.
type Error struct {
	Code ErrCode // The error code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("RodMapError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

type ErrCode uint64

const (
	CodeKeyOccupied    ErrCode = iota + 1 // 1: Insert on a key that still has live handles.
	CodeHandleReleased                    // 2: Operation on a handle that was already released.
	CodeUnsupported                       // 3: Operation is not supported by the underlying index.
	CodeInvalidKey                        // 4: Key is not equal to itself (e.g. NaN) and can never be found again.
)

func (c ErrCode) String() string {
	switch c {
	case CodeKeyOccupied:
		return "KeyOccupied"
	case CodeHandleReleased:
		return "HandleReleased"
	case CodeUnsupported:
		return "Unsupported"
	case CodeInvalidKey:
		return "InvalidKey"
	default:
		return "Unknown"
	}
}

var (
	ErrKeyOccupied    = NewError(CodeKeyOccupied, "key already has live handles")
	ErrHandleReleased = NewError(CodeHandleReleased, "handle was already released")
	ErrUnsupported    = NewError(CodeUnsupported, "operation is not supported by the index")
	ErrInvalidKey     = NewError(CodeInvalidKey, "key is not equal to itself")
)
