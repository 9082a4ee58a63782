package services

import (
	"context"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Inbox remembers which bridge events were already applied. A nil Inbox or
// one without a database accepts every event.
type Inbox struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInbox(db *gorm.DB) *Inbox {
	return &Inbox{db: db, now: time.Now}
}

// Claim records eventID and reports whether this call recorded it. Only the
// caller that claimed an event may apply it.
func (i *Inbox) Claim(ctx context.Context, eventID, action string) (bool, error) {
	if i == nil || i.db == nil || eventID == "" {
		return true, nil
	}
	rec := models.ProcessedEvent{EventID: eventID, Action: action, ReceivedAt: i.now()}
	res := i.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Release forgets a claimed event so a redelivery can apply it.
func (i *Inbox) Release(ctx context.Context, eventID string) error {
	if i == nil || i.db == nil || eventID == "" {
		return nil
	}
	return i.db.WithContext(context.WithoutCancel(ctx)).
		Where("event_id = ?", eventID).
		Delete(&models.ProcessedEvent{}).Error
}
