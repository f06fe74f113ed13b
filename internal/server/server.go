// Package server provides the HTTP API of assetmap: reconciliation uploads,
// snapshot browsing and real-time snapshot notifications.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/assetmap"
	"github.com/agentstation/assetmap/internal/appcontext"
	"github.com/agentstation/assetmap/internal/server/cache"
	"github.com/agentstation/assetmap/internal/server/events"
	"github.com/agentstation/assetmap/internal/server/events/adapters"
	"github.com/agentstation/assetmap/internal/server/sse"
	ws "github.com/agentstation/assetmap/internal/server/websocket"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            appcontext.Interface
	assetmap       assetmap.Assetmap
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	startTime      time.Time
}

// New creates a new server instance with the given configuration.
func New(app appcontext.Interface, cfg Config) (*Server, error) {
	logger := app.Logger()

	am, err := app.Assetmap()
	if err != nil {
		return nil, err
	}

	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}
	if cfg.AuthHeader == "" {
		cfg.AuthHeader = DefaultConfig().AuthHeader
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))
	logger.Debug().Int("subscribers", broker.SubscriberCount()).Msg("Transports subscribed to event broker")

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		app:            app,
		assetmap:       am,
		cache:          cache.New(cfg.NarrativeTTL),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	server.connectHooks()
	return server, nil
}

// connectHooks publishes snapshot lifecycle events to the broker.
func (s *Server) connectHooks() {
	s.assetmap.OnSnapshotCreated(func(snap *inventory.Snapshot) {
		s.broker.Publish(events.SnapshotCreated, events.SnapshotData{
			Snapshot: snap.Summary(),
		})
		s.logger.Debug().
			Str("snapshot_id", snap.ID).
			Msg("Snapshot created event published")
	})

	s.assetmap.OnSnapshotPromoted(func(draft, promoted *inventory.Snapshot) {
		s.cache.Forget(draft.ID)
		s.broker.Publish(events.SnapshotPromoted, events.SnapshotData{
			Snapshot: promoted.Summary(),
			DraftID:  draft.ID,
		})
		s.logger.Debug().
			Str("draft_id", draft.ID).
			Str("snapshot_id", promoted.ID).
			Msg("Snapshot promoted event published")
	})
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services. Open streams end once their
// transport notices the cancellation.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	return nil
}

// Config returns the effective server configuration.
func (s *Server) Config() Config {
	return s.config
}

// Cache returns the narrative cache.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// SSEBroadcaster returns the SSE broadcaster.
func (s *Server) SSEBroadcaster() *sse.Broadcaster {
	return s.sseBroadcaster
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
