package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/raxitsanghani/grill-food-web-sub000/config"
	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/hub"
	"github.com/raxitsanghani/grill-food-web-sub000/router"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// service is one running process: its store, hub, bridge to the peer and
// the dispatcher retrying that bridge's outbox.
type service struct {
	name       string
	deps       router.Deps
	bridge     *services.Bridge
	dispatcher *services.OutboxDispatcher
}

func newService(cfg *config.Config, name, peerName, peerURL string) (*service, error) {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := database.Open(filepath.Join(cfg.Storage.DataDir, name), database.DefaultMenuSeed())
	if err != nil {
		return nil, err
	}

	syncDB, err := config.InitDB(cfg.SyncDB, cfg.Storage.DataDir, name)
	if err != nil {
		return nil, err
	}
	if err := database.MigrateSyncTables(syncDB); err != nil {
		return nil, err
	}

	opts := services.BridgeOptions{
		Name:       name + "->" + peerName,
		BaseURL:    peerURL,
		Secret:     cfg.Bridge.WebhookSecret,
		Timeout:    cfg.Bridge.Timeout,
		RetryDelay: cfg.Bridge.DispatchInterval,
	}
	if cfg.Bridge.Outbox {
		opts.Outbox = syncDB
	}
	bridge := services.NewBridge(opts)

	utils.InfoLogger.WithFields(logrus.Fields{
		"service":  name,
		"data_dir": store.Dir(),
		"peer":     peerURL,
		"outbox":   bridge.Durable(),
	}).Info("service initialised")

	return &service{
		name: name,
		deps: router.Deps{
			Store:          store,
			Hub:            hub.New(name),
			Peer:           bridge,
			Inbox:          services.NewInbox(syncDB),
			WebhookSecret:  cfg.Bridge.WebhookSecret,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
		bridge:     bridge,
		dispatcher: services.NewOutboxDispatcher(bridge, cfg.Bridge.DispatchInterval),
	}, nil
}

// run serves handler on addr and runs the outbox dispatcher until ctx is
// cancelled, then shuts the server down gracefully.
func (s *service) run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.InfoLogger.WithField("service", s.name).WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server: %w", s.name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		utils.InfoLogger.WithField("service", s.name).Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return s.dispatcher.Run(gctx)
	})
	return g.Wait()
}
