package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"overspeed/internal/config"
	"overspeed/internal/logger"
	"overspeed/internal/metrics"
	"overspeed/internal/route"
	"overspeed/internal/service"
	"overspeed/internal/service/ai"
	"overspeed/internal/service/camera"
	"overspeed/internal/service/camera/webcam"
	"overspeed/internal/service/websocket"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config     *config.Config
	logger     *logger.Logger
	metrics    *metrics.Metrics
	hubService *websocket.HubService
	manager    *service.Manager
	server     *http.Server
}

// NewApp wires the application from cfg.
func NewApp(cfg *config.Config, logger *logger.Logger) *App {
	m := metrics.New()
	hub := websocket.NewHubService(logger)

	mng := service.NewManager(cfg, newOpener(cfg, logger), ai.NewRandomSource(time.Now().UnixNano()), hub, m, logger)

	hub.SetGreeting(mng.SnapshotJSON)
	hub.OnClientCount(func(n int) { m.Viewers.Set(float64(n)) })

	return &App{
		config:     cfg,
		logger:     logger,
		metrics:    m,
		hubService: hub,
		manager:    mng,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           route.SetupRoutes(mng, hub, m, cfg, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func newOpener(cfg *config.Config, logger *logger.Logger) camera.Opener {
	switch cfg.CameraSource {
	case config.SourceWebcam:
		return webcam.Opener{Device: cfg.CameraDevice, Logger: logger}
	case config.SourceSynthetic:
		return camera.SyntheticOpener{}
	default:
		logger.Warning("Unknown camera source %q, using %s", cfg.CameraSource, config.SourceSynthetic)
		return camera.SyntheticOpener{}
	}
}

// Manager exposes the session controller.
func (a *App) Manager() *service.Manager {
	return a.manager
}

// Run serves until ctx is cancelled, then shuts the server down and tears down the session.
func (a *App) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	return a.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	// streaming requests end with the server context
	a.server.BaseContext = func(net.Listener) context.Context { return ctx }

	g.Go(func() error {
		a.hubService.Run(ctx)
		return nil
	})

	g.Go(func() error {
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("🛑 Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := a.server.Shutdown(shutdownCtx)
		a.manager.Close()
		return err
	})

	a.manager.InitializeModel()

	a.logger.Info("🚀 Overspeed Detection Server")
	a.logger.Info("📍 URL: http://localhost%s", a.server.Addr)
	a.logger.Info("📷 Camera source: %s (%dx%d)", a.config.CameraSource, a.config.FrameWidth, a.config.FrameHeight)
	a.logger.Info("🚦 Speed limit: %d km/h", a.config.SpeedLimit)
	if a.config.Password == "" {
		a.logger.Warning("PASSWORD not set - authentication disabled")
	}

	return g.Wait()
}
