package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these,
// so callers can branch with errors.Is on the kind or on the specific error.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotEditable        = errors.New("not editable")
	ErrPreconditionFailed = errors.New("precondition failed")
)

// NotFound
var (
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound   = fmt.Errorf("product %w", ErrNotFound)
	ErrCategoryNotFound  = fmt.Errorf("category %w", ErrNotFound)
	ErrNoMatch           = fmt.Errorf("no products matched: %w", ErrNotFound)
	ErrPromotionNotFound = fmt.Errorf("promotion %w", ErrNotFound)
	ErrTicketNotFound    = fmt.Errorf("ticket %w", ErrNotFound)
)

// InvalidInput
var (
	ErrDuplicateEmail  = fmt.Errorf("%w: email already in use", ErrInvalidInput)
	ErrInvalidQuantity = fmt.Errorf("%w: quantity out of range", ErrInvalidInput)
	ErrInvalidHour     = fmt.Errorf("%w: hour must be between %d and %d", ErrInvalidInput, MinHour, MaxHour)
	ErrEmptyCart       = fmt.Errorf("%w: cart is empty", ErrInvalidInput)
	ErrInvalidScope    = fmt.Errorf("%w: unknown stock scope", ErrInvalidInput)
	ErrInvalidPrice    = fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	ErrInvalidRole     = fmt.Errorf("%w: role must be ADMIN or SELLER", ErrInvalidInput)
	ErrMissingField    = fmt.Errorf("%w: required field missing", ErrInvalidInput)
)

var ErrPromotionNotEditable = fmt.Errorf("promotion is %w outside its scheduled date", ErrNotEditable)

var ErrOutsideSalesHours = fmt.Errorf("%w: sales are closed at this hour", ErrPreconditionFailed)
