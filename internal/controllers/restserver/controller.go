package restserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/climatequery/internal/database"
	"github.com/chrissnell/climatequery/internal/log"
	"github.com/chrissnell/climatequery/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// ClimateStore is the read side of the climate dataset used by the handlers
type ClimateStore interface {
	Precipitation(ctx context.Context) ([]database.PrecipitationReading, error)
	StationIDs(ctx context.Context) ([]string, error)
	TemperatureObservations(ctx context.Context) ([]database.TemperatureObservation, error)
	TemperatureSummary(ctx context.Context, r database.DateRange) (database.TemperatureSummary, error)
}

// Controller represents the REST server controller
type Controller struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	restConfig  config.ServerData
	queryConfig config.QueryData
	debug       bool
	Server      http.Server
	Store       ClimateStore
	listener    net.Listener
	logger      *zap.SugaredLogger
	handlers    *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, store ClimateStore, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("REST server requires a configuration")
	}
	if store == nil {
		return nil, errors.New("REST server requires a climate store")
	}

	ctrl := &Controller{
		ctx:         ctx,
		wg:          wg,
		restConfig:  cfg.Server,
		queryConfig: cfg.Query,
		debug:       cfg.Logging.Debug,
		Store:       store,
		logger:      logger,
	}

	if ctrl.restConfig.ListenAddr == "" {
		logger.Infof("server.listen-addr not provided; defaulting to %v (all interfaces)", config.DefaultListenAddr)
		ctrl.restConfig.ListenAddr = config.DefaultListenAddr
	}

	if ctrl.restConfig.HTTPPort == 0 {
		logger.Infof("server.http-port not provided; defaulting to %v", config.DefaultHTTPPort)
		ctrl.restConfig.HTTPPort = config.DefaultHTTPPort
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = ctrl.restConfig.Addr()
	ctrl.Server.Handler = ctrl.handler()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController binds the listen address and serves requests until the
// controller's context is cancelled. Bind errors are returned to the caller.
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")

	ln, err := net.Listen("tcp", c.Server.Addr)
	if err != nil {
		return fmt.Errorf("REST server could not listen on %v: %w", c.Server.Addr, err)
	}
	c.listener = ln
	log.Infof("REST server listening on %v", ln.Addr())

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		var err error
		if c.restConfig.TLSCertPath != "" && c.restConfig.TLSKeyPath != "" {
			err = c.Server.ServeTLS(ln, c.restConfig.TLSCertPath, c.restConfig.TLSKeyPath)
		} else {
			err = c.Server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("REST server error: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()

		log.Info("Shutting down the REST server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.Server.Shutdown(ctx); err != nil {
			log.Errorf("REST server shutdown error: %v", err)
		}
	}()

	return nil
}

// ListenAddr returns the bound address once StartController has succeeded
func (c *Controller) ListenAddr() net.Addr {
	if c.listener == nil {
		return nil
	}
	return c.listener.Addr()
}

// handler wraps the router so that unmatched routes are logged and tagged too
func (c *Controller) handler() http.Handler {
	return requestIDMiddleware(loggingMiddleware(recoveryMiddleware(c.setupRouter(), c.debug)))
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", c.handlers.ServeWelcome).Methods("GET")

	router.HandleFunc("/api/v1.0/precipitation", c.handlers.GetPrecipitation).Methods("GET")
	router.HandleFunc("/api/v1.0/stations", c.handlers.GetStations).Methods("GET")
	router.HandleFunc("/api/v1.0/tobs", c.handlers.GetTemperatureObservations).Methods("GET")
	router.HandleFunc("/api/v1.0/start/{start}", c.handlers.GetTemperatureSummary).Methods("GET")
	router.HandleFunc("/api/v1.0/start/{start}/end/{end}", c.handlers.GetTemperatureSummary).Methods("GET")

	return router
}
