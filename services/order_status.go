package services

import (
	"fmt"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/models"
)

// ValidateStatus rejects anything outside the six persistable statuses.
func ValidateStatus(status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return nil
}

// Transition moves order to target. Ordering between non-terminal states is
// not enforced: pending may go straight to delivered. A terminal order can
// only be set to its current status again, which still updates notes.
// notes replaces the admin notes when non-nil.
func Transition(order *models.Order, target models.OrderStatus, notes *string, now time.Time) error {
	if err := ValidateStatus(target); err != nil {
		return err
	}
	if order.Status.Terminal() && target != order.Status {
		return fmt.Errorf("%w: %s -> %s", ErrTerminalStatus, order.Status, target)
	}

	order.Status = target
	if notes != nil {
		order.AdminNotes = *notes
	}
	order.UpdatedAt = now
	return nil
}
