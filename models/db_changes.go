package models

import (
	"time"
)

// OutboxEvent is a bridge notification waiting to be acknowledged by the
// peer service. Rows of one peer are delivered in ID order.
type OutboxEvent struct {
	ID            uint       `gorm:"primaryKey"`
	EventID       string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	Peer          string     `gorm:"type:varchar(255);not null;default:'';index"`
	Target        string     `gorm:"type:varchar(255);not null"`
	Action        string     `gorm:"type:varchar(50);not null"`
	Payload       string     `gorm:"type:text;not null"`
	Attempts      int        `gorm:"not null;default:0"`
	LastError     string     `gorm:"type:text"`
	NextAttemptAt time.Time  `gorm:"not null;index:idx_outbox_pending"`
	DeliveredAt   *time.Time `gorm:"index:idx_outbox_pending"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

func (OutboxEvent) TableName() string { return "outbox_events" }

// ProcessedEvent marks an inbound bridge event as applied.
type ProcessedEvent struct {
	EventID    string    `gorm:"type:varchar(64);primaryKey"`
	Action     string    `gorm:"type:varchar(50);not null"`
	ReceivedAt time.Time `gorm:"not null"`
}

func (ProcessedEvent) TableName() string { return "processed_events" }
