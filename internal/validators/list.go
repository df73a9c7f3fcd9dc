package validators

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/MKhiriev/go-list-keeper/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldName targets the display name of a list.
	FieldName = "name"

	// FieldQuantity targets the default count of a list.
	FieldQuantity = "quantity"

	// FieldChildItems targets every line item of a list.
	FieldChildItems = "child_items"

	// FieldTitle targets the title of a line item.
	FieldTitle = "title"

	// FieldPrice targets the price of a line item.
	FieldPrice = "price"

	// FieldChildID targets the identifier of a line item.
	FieldChildID = "child_id"

	// FieldUserID targets the owner of a document.
	FieldUserID = "user_id"
)

// ListValidator checks lists, list updates, line items and documents.
type ListValidator struct{}

// NewListValidator returns a [Validator] for list-domain values.
func NewListValidator() Validator {
	return &ListValidator{}
}

// Validate implements [Validator]. Without fields every rule of the value's
// type is applied.
func (v *ListValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.List:
		return v.validateList(ctx, value, fields...)
	case *models.List:
		return v.validateList(ctx, *value, fields...)

	case models.ListUpdate:
		return v.validateListUpdate(ctx, value)
	case *models.ListUpdate:
		return v.validateListUpdate(ctx, *value)

	case models.LineItem:
		return v.validateLineItem(ctx, value, fields...)
	case *models.LineItem:
		return v.validateLineItem(ctx, *value, fields...)

	case models.Document:
		return v.validateDocument(ctx, value, fields...)
	case *models.Document:
		return v.validateDocument(ctx, *value, fields...)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *ListValidator) validateList(ctx context.Context, l models.List, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldQuantity, FieldChildItems}
	}

	for _, field := range fields {
		switch field {
		case FieldName:
			if strings.TrimSpace(l.Name) == "" {
				return ErrEmptyName
			}
		case FieldQuantity:
			if l.Quantity < 0 {
				return ErrNegativeQuantity
			}
		case FieldChildItems:
			if err := v.validateChildItems(ctx, l.ChildItems); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *ListValidator) validateListUpdate(ctx context.Context, u models.ListUpdate) error {
	if u.IsEmpty() {
		return ErrNoFieldsToUpdate
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrEmptyName
	}
	if u.Quantity != nil && *u.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if u.ChildItems != nil {
		return v.validateChildItems(ctx, *u.ChildItems)
	}

	return nil
}

func (v *ListValidator) validateChildItems(ctx context.Context, items []models.LineItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := v.validateLineItem(ctx, item); err != nil {
			return err
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateChildID, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func (v *ListValidator) validateLineItem(_ context.Context, item models.LineItem, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldChildID, FieldTitle, FieldPrice}
	}

	for _, field := range fields {
		switch field {
		case FieldChildID:
			if strings.TrimSpace(item.ID) == "" {
				return ErrEmptyChildID
			}
		case FieldTitle:
			if strings.TrimSpace(item.Title) == "" {
				return ErrEmptyTitle
			}
		case FieldPrice:
			if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
				return ErrInvalidPrice
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *ListValidator) validateDocument(ctx context.Context, d models.Document, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldName, FieldQuantity, FieldChildItems}
	}

	listFields := make([]string, 0, len(fields))
	for _, field := range fields {
		if field == FieldUserID {
			if strings.TrimSpace(d.UserID) == "" {
				return ErrInvalidUserID
			}
			continue
		}
		listFields = append(listFields, field)
	}
	if len(listFields) == 0 {
		return nil
	}

	return v.validateList(ctx, d.ToList(), listFields...)
}
