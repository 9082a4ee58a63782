package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	HeaderWebhookSecret = "X-Webhook-Secret"
	HeaderEventID       = "X-Event-ID"

	DefaultBridgeTimeout = 5 * time.Second
	MaxRetryDelay        = time.Minute
)

type BridgeOptions struct {
	// Name shows up in logs, e.g. "admin->customer".
	Name    string
	BaseURL string
	Secret  string
	Timeout time.Duration

	// Outbox enables durable delivery. Nil means a single direct attempt.
	Outbox     *gorm.DB
	RetryDelay time.Duration

	Client *http.Client
}

// Bridge posts events to the peer service. In direct mode a failed call is
// lost. In outbox mode every event is recorded first and redelivered by an
// OutboxDispatcher until the peer answers 2xx.
type Bridge struct {
	name       string
	baseURL    string
	secret     string
	client     *http.Client
	db         *gorm.DB
	retryDelay time.Duration
	now        func() time.Time
}

func NewBridge(opts BridgeOptions) *Bridge {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultBridgeTimeout
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	retry := opts.RetryDelay
	if retry <= 0 {
		retry = 2 * time.Second
	}
	return &Bridge{
		name:       opts.Name,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		secret:     opts.Secret,
		client:     client,
		db:         opts.Outbox,
		retryDelay: retry,
		now:        time.Now,
	}
}

func (b *Bridge) Durable() bool { return b.db != nil }

// Publish sends event to route on the peer. The event gets an eventId when
// it has none.
func (b *Bridge) Publish(ctx context.Context, route string, event any) error {
	eventID, payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	target := b.baseURL + route
	log := utils.InfoLogger.WithFields(logrus.Fields{
		"bridge":   b.name,
		"event_id": eventID,
		"target":   target,
	})

	if b.db == nil {
		if err := b.send(ctx, target, eventID, payload); err != nil {
			return fmt.Errorf("deliver %s: %w", eventID, err)
		}
		log.Info("bridge event delivered")
		return nil
	}

	now := b.now()
	row := models.OutboxEvent{
		EventID:       eventID,
		Peer:          b.baseURL,
		Target:        target,
		Action:        route,
		Payload:       string(payload),
		NextAttemptAt: now.Add(b.retryDelay),
	}
	if err := b.db.WithContext(ctx).Create(&row).Error; err != nil {
		utils.ErrorLogger.WithError(err).WithField("event_id", eventID).Error("failed to queue bridge event")
		return fmt.Errorf("queue bridge event: %w", err)
	}

	// Older undelivered events go first; this one waits for the dispatcher.
	var older int64
	err = b.db.WithContext(ctx).Model(&models.OutboxEvent{}).
		Where("peer = ? AND delivered_at IS NULL AND id < ?", b.baseURL, row.ID).
		Count(&older).Error
	if err != nil || older > 0 {
		b.db.WithContext(context.WithoutCancel(ctx)).Model(&row).Update("next_attempt_at", now)
		log.WithField("behind", older).Info("bridge event queued behind undelivered events")
		return nil
	}

	// First attempt inline; the dispatcher takes over on failure.
	_ = b.attempt(ctx, &row)
	return nil
}

// attempt delivers one outbox row and records the outcome.
func (b *Bridge) attempt(ctx context.Context, row *models.OutboxEvent) error {
	sendErr := b.send(ctx, row.Target, row.EventID, []byte(row.Payload))
	row.Attempts++
	now := b.now()

	fields := logrus.Fields{
		"bridge":   b.name,
		"event_id": row.EventID,
		"target":   row.Target,
		"attempt":  row.Attempts,
	}
	if sendErr == nil {
		row.DeliveredAt = &now
		row.LastError = ""
		utils.InfoLogger.WithFields(fields).Info("bridge event delivered")
	} else {
		row.LastError = sendErr.Error()
		row.NextAttemptAt = now.Add(Backoff(b.retryDelay, row.Attempts))
		utils.ErrorLogger.WithFields(fields).WithError(sendErr).Warn("bridge delivery failed, will retry")
	}

	// The row must be saved even if the request context is gone.
	if err := b.db.WithContext(context.WithoutCancel(ctx)).Save(row).Error; err != nil {
		utils.ErrorLogger.WithFields(fields).WithError(err).Error("failed to update outbox event")
		return errors.Join(sendErr, err)
	}
	return sendErr
}

// DispatchPending delivers undelivered outbox events of this peer in the
// order they were queued and returns how many were delivered. It stops at
// the first event that is not due yet or fails again, so the peer never
// sees an event before the ones queued ahead of it.
func (b *Bridge) DispatchPending(ctx context.Context, limit int) (int, error) {
	if b.db == nil {
		return 0, nil
	}
	if limit <= 0 {
		limit = 100
	}

	var queued []models.OutboxEvent
	err := b.db.WithContext(ctx).
		Where("peer = ? AND delivered_at IS NULL", b.baseURL).
		Order("id ASC").
		Limit(limit).
		Find(&queued).Error
	if err != nil {
		return 0, fmt.Errorf("fetch pending outbox events: %w", err)
	}

	delivered := 0
	for i := range queued {
		if ctx.Err() != nil || queued[i].NextAttemptAt.After(b.now()) {
			break
		}
		if b.attempt(ctx, &queued[i]) != nil {
			break
		}
		delivered++
	}
	return delivered, nil
}

// Pending counts undelivered outbox events of this peer.
func (b *Bridge) Pending(ctx context.Context) (int64, error) {
	if b.db == nil {
		return 0, nil
	}
	var n int64
	err := b.db.WithContext(ctx).Model(&models.OutboxEvent{}).Where("peer = ? AND delivered_at IS NULL", b.baseURL).Count(&n).Error
	return n, err
}

func (b *Bridge) send(ctx context.Context, target, eventID string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEventID, eventID)
	if b.secret != "" {
		req.Header.Set(HeaderWebhookSecret, b.secret)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s responded %d", target, resp.StatusCode)
	}
	return nil
}

// Backoff doubles base per failed attempt, capped at MaxRetryDelay.
func Backoff(base time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := base
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= MaxRetryDelay {
			return MaxRetryDelay
		}
	}
	if delay > MaxRetryDelay {
		return MaxRetryDelay
	}
	return delay
}

func encodeEvent(event any) (string, []byte, error) {
	rec, err := database.ToRecord(event)
	if err != nil {
		return "", nil, err
	}
	id, _ := rec["eventId"].(string)
	if id == "" {
		id = uuid.NewString()
		rec["eventId"] = id
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", nil, fmt.Errorf("encode bridge event: %w", err)
	}
	return id, payload, nil
}
