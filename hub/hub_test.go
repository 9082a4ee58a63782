package hub

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastRespectsScope(t *testing.T) {
	h := New("test")

	admin, cancelAdmin := h.Subscribe("", 4)
	defer cancelAdmin()
	alice, cancelAlice := h.Subscribe("9990001111", 4)
	defer cancelAlice()
	bob, cancelBob := h.Subscribe("8880002222", 4)
	defer cancelBob()

	order := models.Order{ID: "o1", Phone: "+91 99900-01111", Status: models.StatusPreparing}
	delivered := h.BroadcastOrderStatusUpdated(order)
	assert.Equal(t, 2, delivered)

	assert.Len(t, admin, 1)
	assert.Len(t, alice, 1)
	assert.Len(t, bob, 0)

	msg := <-alice
	assert.Equal(t, EventOrderStatusUpdated, msg.Event)
	payload, ok := msg.Data.(OrderStatusUpdate)
	require.True(t, ok)
	assert.Equal(t, "o1", payload.OrderID)
	assert.Equal(t, models.StatusPreparing, payload.Status)
}

func TestBroadcastUnscopedReachesEveryone(t *testing.T) {
	h := New("test")
	a, cancelA := h.Subscribe("", 1)
	defer cancelA()
	b, cancelB := h.Subscribe("123", 1)
	defer cancelB()

	item := models.MenuItem{ID: "m1", Name: "Naan"}
	assert.Equal(t, 2, h.BroadcastMenuUpdated(ActionAdded, &item, item.ID))
	assert.Len(t, a, 1)
	assert.Len(t, b, 1)
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	h := New("test")
	ch, cancel := h.Subscribe("", 1)
	defer cancel()

	assert.Equal(t, 1, h.Broadcast(Message{Event: EventMenuUpdated}))
	assert.Equal(t, 0, h.Broadcast(Message{Event: EventMenuUpdated}))
	assert.Equal(t, int64(1), h.Dropped())
	assert.Len(t, ch, 1)
}

func TestCancelIsIdempotent(t *testing.T) {
	h := New("test")
	ch, cancel := h.Subscribe("", 0)
	assert.Equal(t, 1, h.Count())

	cancel()
	cancel()
	assert.Equal(t, 0, h.Count())

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.Broadcast(Message{Event: EventNewOrder}))
}

func TestServeWSStreamsEvents(t *testing.T) {
	h := New("test")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.ServeWS(w, r, r.URL.Query().Get("phone"))
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?phone=9990001111"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 10*time.Millisecond)

	h.BroadcastOrderStatusUpdated(models.Order{ID: "other", Phone: "1112223333", Status: models.StatusDelivered})
	h.BroadcastOrderStatusUpdated(models.Order{ID: "mine", Phone: "9990001111", Status: models.StatusPreparing, AdminNotes: "extra spicy"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got struct {
		Event string `json:"event"`
		Data  struct {
			OrderID    string `json:"orderId"`
			Status     string `json:"status"`
			AdminNotes string `json:"adminNotes"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventOrderStatusUpdated, got.Event)
	assert.Equal(t, "mine", got.Data.OrderID)
	assert.Equal(t, "preparing", got.Data.Status)
	assert.Equal(t, "extra spicy", got.Data.AdminNotes)

	conn.Close()
	assert.Eventually(t, func() bool { return h.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
