package wishlist

// Error is a coded domain error. The code feeds err_code derivation in
// handler summary logs.
type Error struct {
	code string
	text string
}

func (e *Error) Error() string { return e.text }

// Code returns the stable machine-readable error code.
func (e *Error) Code() string { return e.code }

var (
	// ErrNotFound signals that a referenced gift or comment does not exist
	// (or, for unreserve, that the gift carries no reservation).
	ErrNotFound = &Error{code: "not_found", text: "record not found"}

	// ErrForbidden signals an operation on a record owned by another user.
	ErrForbidden = &Error{code: "forbidden", text: "operation not permitted"}

	// ErrValidation signals malformed input rejected before reaching storage.
	ErrValidation = &Error{code: "validation", text: "invalid input"}
)
