package services

import (
	"errors"
	"fmt"
	"strings"
)

// Scoped lookups conflate "does not exist" with "belongs to another owner"
// so the API never confirms foreign records exist.
var (
	ErrTableNotFound   = errors.New("table not found")
	ErrTableInactive   = errors.New("table is not active")
	ErrQRDisabled      = errors.New("QR ordering is disabled for this table")
	ErrSessionNotFound = errors.New("session not found or expired")
	ErrNoActiveSession = errors.New("no active session on this table")
	ErrOrderNotFound   = errors.New("order not found")
	ErrItemNotFound    = errors.New("order item not found")
	ErrMenuNotFound    = errors.New("menu item not found")
	ErrTableOccupied   = errors.New("table is already occupied")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrMissingReason   = errors.New("cancellation reason is required")
	ErrDuplicateNumber = errors.New("table number already in use")
)

// InvalidStateError reports an operation attempted outside its allowed
// lifecycle states. The message enumerates the allowed statuses so staff
// clients can surface something actionable.
type InvalidStateError struct {
	Op      string
	Current string
	Allowed []string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s while status is %q, allowed: %s",
		e.Op, e.Current, strings.Join(e.Allowed, ", "))
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}
