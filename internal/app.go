package internal

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"os"
	"os/signal"
	"pilot/internal/controllers"
	"pilot/internal/providers"
	"pilot/internal/scheduler"
	"pilot/internal/services"
	"pilot/internal/storage"
	"pilot/internal/structures"
	"strconv"
	"syscall"
	"time"
)

type App struct {
	WebServer *http.Server

	session   services.SessionServiceInterface
	store     storage.RecordStoreInterface
	scheduler scheduler.SchedulerInterface
	logger    providers.Logger
	conf      *structures.Config
}

func NewApp(healthController *controllers.HealthController, session services.SessionServiceInterface, store storage.RecordStoreInterface, rollover scheduler.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if err := session.Initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("initialize session: %w", err)
	}
	session.SetMilestoneNotifier(func(streak int, message string) {
		logger.Infof(providers.TypeSession, "milestone reached at %d days: %s", streak, message)
	})

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      NewHandler(healthController, conf, logger, router, metrics),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 2 * conf.AI.Timeout,
			IdleTimeout:  60 * time.Second,
		},
		session:   session,
		store:     store,
		scheduler: rollover,
		logger:    logger,
		conf:      conf,
	}, nil
}

// NewHandler mounts the API routes behind the metrics middleware, next to /health and /metrics.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)
	return mux
}

// Run serves until SIGINT/SIGTERM, then drains connections and closes the store.
func (a *App) Run() error {
	a.scheduler.Init()
	defer a.scheduler.Stop()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		a.Close()
		return fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := a.WebServer.Shutdown(ctx)
	if err == nil {
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	a.Close()
	return err
}

// Close releases the record store and flushes the log files. The app must not be used afterwards.
func (a *App) Close() {
	a.store.Close()
	a.logger.Close()
}

func (a *App) Session() services.SessionServiceInterface {
	return a.session
}
