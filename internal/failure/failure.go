package failure

import (
	"errors"
	"fmt"
)

// Kind classifies request-level failures. Every kind is surfaced to the caller as is.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindUnavailable
	KindRestaurantMismatch
	KindEmptyCart
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindUnavailable:
		return "UNAVAILABLE"
	case KindRestaurantMismatch:
		return "RESTAURANT_MISMATCH"
	case KindEmptyCart:
		return "EMPTY_CART"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}

var (
	ErrInvalidArgument    error = &Error{Kind: KindInvalidArgument}
	ErrNotFound           error = &Error{Kind: KindNotFound}
	ErrUnavailable        error = &Error{Kind: KindUnavailable}
	ErrRestaurantMismatch error = &Error{Kind: KindRestaurantMismatch}
	ErrEmptyCart          error = &Error{Kind: KindEmptyCart}
	ErrConflict           error = &Error{Kind: KindConflict}
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches any failure of the same kind, so errors.Is(err, ErrNotFound) works for every not found failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, format string, args ...interface{}) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func InvalidArgument(format string, args ...interface{}) error {
	return New(KindInvalidArgument, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return New(KindNotFound, format, args...)
}

func Unavailable(format string, args ...interface{}) error {
	return New(KindUnavailable, format, args...)
}

func RestaurantMismatch(format string, args ...interface{}) error {
	return New(KindRestaurantMismatch, format, args...)
}

func EmptyCart(format string, args ...interface{}) error {
	return New(KindEmptyCart, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return New(KindConflict, format, args...)
}

// KindOf returns the kind of the first failure in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var fErr *Error
	if errors.As(err, &fErr) {
		return fErr.Kind
	}
	return KindUnknown
}
