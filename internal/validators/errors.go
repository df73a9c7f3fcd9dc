package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyName        = errors.New("list name is required")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrEmptyTitle       = errors.New("item title is required")
	ErrInvalidPrice     = errors.New("price must be a finite non-negative number")
	ErrEmptyChildID     = errors.New("item id is required")
	ErrDuplicateChildID = errors.New("duplicate item id")
	ErrInvalidUserID    = errors.New("invalid user ID")
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided for update")
)
