package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultResyncInterval = 30 * time.Second
	DefaultReconnectDelay = time.Second
)

// Syncer mirrors one customer's view of the Customer Service: it loads
// orders and menu over REST, then merges pushed events from /ws. Unknown
// records, the resync ticker and every reconnect trigger a full reload.
type Syncer struct {
	BaseURL        string
	Phone          string
	ResyncInterval time.Duration
	ReconnectDelay time.Duration

	Client *http.Client
	Dialer *websocket.Dialer

	Orders *OrderBook
	Menu   *MenuBook

	// OnChange, when set, is called after every resync and applied event.
	OnChange func(reason string)
}

func NewSyncer(baseURL, phone string) *Syncer {
	return &Syncer{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		Phone:          phone,
		ResyncInterval: DefaultResyncInterval,
		ReconnectDelay: DefaultReconnectDelay,
		Client:         &http.Client{Timeout: services.DefaultBridgeTimeout},
		Dialer:         websocket.DefaultDialer,
		Orders:         NewOrderBook(),
		Menu:           NewMenuBook(),
	}
}

// Resync replaces both books with the server copy.
func (s *Syncer) Resync(ctx context.Context) error {
	var orders []models.Order
	path := "/api/orders"
	if s.Phone != "" {
		path += "?phone=" + url.QueryEscape(s.Phone)
	}
	if err := s.fetch(ctx, path, &orders); err != nil {
		return err
	}
	var menu []models.MenuItem
	if err := s.fetch(ctx, "/api/menu-items", &menu); err != nil {
		return err
	}

	s.Orders.Load(orders)
	s.Menu.Load(menu)
	s.changed("resync")
	return nil
}

// Apply merges one pushed event and reloads when the event cannot be
// merged.
func (s *Syncer) Apply(ctx context.Context, evt Event) Outcome {
	outcome := s.Orders.ApplyEvent(evt)
	if outcome == Ignored {
		outcome = s.Menu.ApplyEvent(evt)
	}

	switch outcome {
	case Applied:
		s.changed(evt.Event)
	case NeedsResync:
		if err := s.Resync(ctx); err != nil {
			utils.ErrorLogger.WithError(err).WithField("event", evt.Event).Warn("resync after unknown record failed")
		}
	}
	return outcome
}

// Run keeps the subscription alive until ctx is cancelled.
func (s *Syncer) Run(ctx context.Context) error {
	failures := 0
	for {
		connected, err := s.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			failures = 0
		}
		failures++
		delay := services.Backoff(s.ReconnectDelay, failures)
		utils.ErrorLogger.WithFields(logrus.Fields{
			"url":   s.wsURL(),
			"retry": delay.String(),
		}).WithError(err).Warn("push connection lost")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (s *Syncer) session(ctx context.Context) (bool, error) {
	conn, _, err := s.Dialer.DialContext(ctx, s.wsURL(), nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	// Events pushed before the socket opened are only visible through a reload.
	if err := s.Resync(ctx); err != nil {
		return true, err
	}

	g, gctx := errgroup.WithContext(ctx)
	events := make(chan Event)

	g.Go(func() error {
		for {
			var evt Event
			if err := conn.ReadJSON(&evt); err != nil {
				return err
			}
			select {
			case events <- evt:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})
	g.Go(func() error {
		ticker := time.NewTicker(s.resyncInterval())
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := s.Resync(gctx); err != nil {
					utils.ErrorLogger.WithError(err).Warn("periodic resync failed")
				}
			case evt := <-events:
				s.Apply(gctx, evt)
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		_ = conn.Close()
		return nil
	})

	return true, g.Wait()
}

func (s *Syncer) fetch(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
	}

	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if len(body.Data) == 0 {
		return nil
	}
	return json.Unmarshal(body.Data, dst)
}

func (s *Syncer) wsURL() string {
	u := s.BaseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	u += "/ws"
	if s.Phone != "" {
		u += "?phone=" + url.QueryEscape(s.Phone)
	}
	return u
}

func (s *Syncer) resyncInterval() time.Duration {
	if s.ResyncInterval <= 0 {
		return DefaultResyncInterval
	}
	return s.ResyncInterval
}

func (s *Syncer) changed(reason string) {
	if s.OnChange != nil {
		s.OnChange(reason)
	}
}
