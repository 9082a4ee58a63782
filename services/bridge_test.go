package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path    string
	Secret  string
	EventID string
	Body    map[string]any
}

type peerServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []capturedRequest
	status   atomic.Int32
}

func newPeerServer(t *testing.T) *peerServer {
	p := &peerServer{}
	p.status.Store(http.StatusOK)
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		p.mu.Lock()
		p.requests = append(p.requests, capturedRequest{
			Path:    r.URL.Path,
			Secret:  r.Header.Get(HeaderWebhookSecret),
			EventID: r.Header.Get(HeaderEventID),
			Body:    body,
		})
		p.mu.Unlock()
		w.WriteHeader(int(p.status.Load()))
	}))
	t.Cleanup(p.Close)
	return p
}

func (p *peerServer) received() []capturedRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]capturedRequest(nil), p.requests...)
}

func TestBridgeDirectDelivery(t *testing.T) {
	peer := newPeerServer(t)
	bridge := NewBridge(BridgeOptions{Name: "admin->customer", BaseURL: peer.URL + "/", Secret: "s3cret"})

	err := bridge.Publish(context.Background(), RouteMenuUpdate, MenuEvent{Action: "deleted", ItemID: "m1"})
	require.NoError(t, err)

	reqs := peer.received()
	require.Len(t, reqs, 1)
	assert.Equal(t, RouteMenuUpdate, reqs[0].Path)
	assert.Equal(t, "s3cret", reqs[0].Secret)
	assert.NotEmpty(t, reqs[0].EventID)
	assert.Equal(t, reqs[0].EventID, reqs[0].Body["eventId"])
	assert.Equal(t, "deleted", reqs[0].Body["action"])
	assert.Equal(t, "m1", reqs[0].Body["itemId"])
}

func TestBridgeDirectKeepsCallerEventID(t *testing.T) {
	peer := newPeerServer(t)
	bridge := NewBridge(BridgeOptions{BaseURL: peer.URL})

	require.NoError(t, bridge.Publish(context.Background(), RouteOrderStatusUpdate, OrderStatusEvent{
		EventID: "evt-1", OrderID: "o1", Status: models.StatusPreparing,
	}))
	assert.Equal(t, "evt-1", peer.received()[0].EventID)
}

func TestBridgeDirectFailures(t *testing.T) {
	peer := newPeerServer(t)
	peer.status.Store(http.StatusInternalServerError)
	bridge := NewBridge(BridgeOptions{BaseURL: peer.URL})

	err := bridge.Publish(context.Background(), RouteMenuUpdate, MenuEvent{Action: "deleted", ItemID: "m1"})
	assert.ErrorContains(t, err, "responded 500")

	down := NewBridge(BridgeOptions{BaseURL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond})
	assert.Error(t, down.Publish(context.Background(), RouteMenuUpdate, MenuEvent{Action: "deleted", ItemID: "m1"}))

	pending, err := down.Pending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestBridgeOutboxRedeliversAfterFailure(t *testing.T) {
	peer := newPeerServer(t)
	peer.status.Store(http.StatusServiceUnavailable)
	db := newSyncDB(t)

	bridge := NewBridge(BridgeOptions{BaseURL: peer.URL, Outbox: db, RetryDelay: time.Second})
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	bridge.now = func() time.Time { return clock }

	err := bridge.Publish(context.Background(), RouteOrderStatusUpdate, OrderStatusEvent{
		OrderID: "o1", Status: models.StatusPreparing,
	})
	require.NoError(t, err, "a queued event is not a failure")

	pending, err := bridge.Pending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	var row models.OutboxEvent
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, 1, row.Attempts)
	assert.Contains(t, row.LastError, "503")
	assert.True(t, row.NextAttemptAt.Equal(clock.Add(time.Second)))

	// Not due yet.
	delivered, err := bridge.DispatchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Len(t, peer.received(), 1)

	peer.status.Store(http.StatusOK)
	clock = clock.Add(2 * time.Second)
	delivered, err = bridge.DispatchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	pending, err = bridge.Pending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)

	reqs := peer.received()
	require.Len(t, reqs, 2)
	assert.Equal(t, reqs[0].EventID, reqs[1].EventID, "redelivery keeps the event id")
}

func TestBridgeOutboxImmediateSuccess(t *testing.T) {
	peer := newPeerServer(t)
	db := newSyncDB(t)
	bridge := NewBridge(BridgeOptions{BaseURL: peer.URL, Outbox: db})

	require.NoError(t, bridge.Publish(context.Background(), RouteMenuUpdate, MenuEvent{Action: "deleted", ItemID: "m1"}))

	var row models.OutboxEvent
	require.NoError(t, db.First(&row).Error)
	assert.NotNil(t, row.DeliveredAt)
	assert.Equal(t, 1, row.Attempts)
	assert.Len(t, peer.received(), 1)
}

func TestBridgeOutboxKeepsOrderPerPeer(t *testing.T) {
	peer := newPeerServer(t)
	peer.status.Store(http.StatusServiceUnavailable)
	db := newSyncDB(t)
	ctx := context.Background()

	bridge := NewBridge(BridgeOptions{BaseURL: peer.URL, Outbox: db, RetryDelay: time.Second})
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	bridge.now = func() time.Time { return clock }

	require.NoError(t, bridge.Publish(ctx, RouteOrderStatusUpdate, OrderStatusEvent{
		EventID: "evt-1", OrderID: "o1", Status: models.StatusPreparing,
	}))

	// The peer is back, but the newer event must not overtake the queued one.
	peer.status.Store(http.StatusOK)
	require.NoError(t, bridge.Publish(ctx, RouteOrderStatusUpdate, OrderStatusEvent{
		EventID: "evt-2", OrderID: "o1", Status: models.StatusOutForDelivery,
	}))
	assert.Len(t, peer.received(), 1)

	pending, err := bridge.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	other := NewBridge(BridgeOptions{BaseURL: peer.URL + "/other", Outbox: db})
	n, err := other.Pending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "rows of another peer are not counted")

	clock = clock.Add(2 * time.Second)
	delivered, err := bridge.DispatchPending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	reqs := peer.received()
	require.Len(t, reqs, 3)
	assert.Equal(t, "evt-1", reqs[1].EventID)
	assert.Equal(t, "evt-2", reqs[2].EventID)
}

func TestBridgeDispatchStopsAtFirstFailure(t *testing.T) {
	peer := newPeerServer(t)
	peer.status.Store(http.StatusServiceUnavailable)
	db := newSyncDB(t)
	ctx := context.Background()

	bridge := NewBridge(BridgeOptions{BaseURL: peer.URL, Outbox: db, RetryDelay: time.Second})
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	bridge.now = func() time.Time { return clock }

	for _, id := range []string{"evt-1", "evt-2", "evt-3"} {
		require.NoError(t, bridge.Publish(ctx, RouteMenuUpdate, MenuEvent{EventID: id, Action: "deleted", ItemID: "m1"}))
	}
	require.Len(t, peer.received(), 1, "only the first event is tried inline")

	clock = clock.Add(2 * time.Second)
	delivered, err := bridge.DispatchPending(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Len(t, peer.received(), 2, "dispatch stops after the head fails")
}

func TestOutboxDispatcherRun(t *testing.T) {
	peer := newPeerServer(t)
	peer.status.Store(http.StatusBadGateway)
	db := newSyncDB(t)
	bridge := NewBridge(BridgeOptions{BaseURL: peer.URL, Outbox: db, RetryDelay: 10 * time.Millisecond})

	require.NoError(t, bridge.Publish(context.Background(), RouteMenuUpdate, MenuEvent{Action: "deleted", ItemID: "m1"}))
	peer.status.Store(http.StatusOK)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewOutboxDispatcher(bridge, 20*time.Millisecond).Run(ctx) }()

	assert.Eventually(t, func() bool {
		n, err := bridge.Pending(context.Background())
		return err == nil && n == 0
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestBackoff(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, Backoff(base, 0))
	assert.Equal(t, 2*time.Second, Backoff(base, 1))
	assert.Equal(t, 4*time.Second, Backoff(base, 2))
	assert.Equal(t, 16*time.Second, Backoff(base, 4))
	assert.Equal(t, MaxRetryDelay, Backoff(base, 6))
	assert.Equal(t, MaxRetryDelay, Backoff(base, 60))
	assert.Equal(t, MaxRetryDelay, Backoff(2*time.Minute, 1))
}
