package gateway

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/TykTechnologies/kvrouter/cli"
	"github.com/TykTechnologies/kvrouter/config"
	"github.com/TykTechnologies/kvrouter/internal/build"
	"github.com/TykTechnologies/kvrouter/internal/healthcheck"
	"github.com/TykTechnologies/kvrouter/internal/kv"
	"github.com/TykTechnologies/kvrouter/internal/search"
	logger "github.com/TykTechnologies/kvrouter/log"
	"github.com/TykTechnologies/kvrouter/storage"
)

var (
	log     = logger.Get()
	mainLog = log.WithField("prefix", "main")
	gwLog   = log.WithField("prefix", "gateway")

	// confPaths is the series of paths to try to use as config files. The
	// first one to exist will be used. If none exists, the defaults and
	// the environment are used.
	//
	// When --conf=foo is used, this will be replaced by []string{"foo"}.
	confPaths = []string{
		"kvrouter.conf",
		"/etc/kvrouter/kvrouter.conf",
	}
)

const (
	defReadTimeout  = 120 * time.Second
	defWriteTimeout = 120 * time.Second

	// startupTimeout bounds the initial backend pings, retries included.
	startupTimeout = 2 * time.Minute
	// shutdownTimeout is the grace period for in-flight requests.
	shutdownTimeout = 10 * time.Second
)

// Gateway is the HTTP front of the key-value store. Its handlers hold no
// per-request state.
type Gateway struct {
	config   *config.Config
	backends *storage.Backends
	kv       *kv.Executor
	searcher search.Searcher
	queryLog *logrus.Entry
	health   *healthcheck.Runner
	metrics  *PrometheusMetrics
	router   *mux.Router
}

// NewGateway wires the executors, health checks and metrics over backends
// and builds the router.
func NewGateway(conf *config.Config, backends *storage.Backends) *Gateway {
	searchLog := log.WithField("prefix", "search")
	gw := &Gateway{
		config:   conf,
		backends: backends,
		kv:       kv.NewExecutor(backends, conf.BackendCallTimeout(), log.WithField("prefix", "kv")),
		searcher: search.NewScanSearcher(backends.Read, conf.SearchTimeout(), searchLog),
		queryLog: searchLog,
		health:   newHealthRunner(backends),
	}

	if conf.Prometheus.Enabled {
		gw.metrics = NewPrometheusMetrics(conf.Prometheus.MetricPrefix, backends.Read, conf.BackendCallTimeout())
		gw.metrics.RegisterGoCollectors()
	}

	gw.loadAPIEndpoints()
	return gw
}

func (gw *Gateway) loadAPIEndpoints() {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	r.Handle("/set", gw.chain("/set", gw.limitBody).ThenFunc(gw.setHandler)).Methods(http.MethodPost)
	r.Handle("/get/{key}", gw.chain("/get/{key}").ThenFunc(gw.getHandler)).Methods(http.MethodGet)
	r.Handle("/search", gw.chain("/search").ThenFunc(gw.searchHandler)).Methods(http.MethodGet)
	r.Handle("/healthz/live", gw.chain("/healthz/live").ThenFunc(liveCheckHandler)).Methods(http.MethodGet)
	r.Handle("/healthz/ready", gw.chain("/healthz/ready").ThenFunc(gw.readyCheckHandler)).Methods(http.MethodGet)

	if gw.metrics != nil {
		mainLog.Debug("Exposing Prometheus metrics on ", gw.config.Prometheus.Path)
		r.Handle(gw.config.Prometheus.Path, gw.metrics.Handler()).Methods(http.MethodGet)
	}

	gw.router = r
}

// Handler returns the root handler of the router, wrapped with CORS when
// enabled.
func (gw *Gateway) Handler() http.Handler {
	c := gw.config.CORS
	if !c.Enable {
		return gw.router
	}

	return cors.New(cors.Options{
		AllowedOrigins: c.AllowedOrigins,
		AllowedMethods: c.AllowedMethods,
		MaxAge:         c.MaxAge,
	}).Handler(gw.router)
}

// Server builds the http.Server for the gateway.
func (gw *Gateway) Server() *http.Server {
	readTimeout := defReadTimeout
	if t := gw.config.HttpServerOptions.ReadTimeout; t > 0 {
		readTimeout = time.Duration(t) * time.Second
	}
	writeTimeout := defWriteTimeout
	if t := gw.config.HttpServerOptions.WriteTimeout; t > 0 {
		writeTimeout = time.Duration(t) * time.Second
	}

	return &http.Server{
		Addr:         gw.config.ListenAddr(),
		Handler:      gw.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}

// initialiseSystem loads and validates the configuration and sets up
// logging.
func initialiseSystem() (*config.Config, error) {
	paths := confPaths
	if *cli.Conf != "" {
		mainLog.Debugf("Using %s for configuration", *cli.Conf)
		paths = []string{*cli.Conf}
	} else {
		mainLog.Debug("No configuration file defined, will try to use default (kvrouter.conf)")
	}

	conf, err := config.New(paths...)
	if err != nil {
		return nil, err
	}

	if *cli.Port != 0 {
		conf.ListenPort = *cli.Port
	}
	if *cli.DebugMode {
		conf.LogLevel = "debug"
	}

	logger.Setup(conf.LogLevel, conf.LogFormat)
	if *cli.DebugMode {
		mainLog.Debug("Enabling debug-level output")
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Start parses the command line and runs the router until SIGINT or
// SIGTERM.
func Start() {
	cli.Init(build.VERSION, confPaths)
	if err := cli.Parse(os.Args[1:]); err != nil {
		mainLog.Fatal(err)
	}
	// Stop process if not running in "start" mode:
	if !cli.DefaultMode {
		os.Exit(0)
	}

	conf, err := initialiseSystem()
	if err != nil {
		mainLog.Fatalf("Error initialising system: %v", err)
	}

	backends, err := storage.ResolveBackends(conf, nil)
	if err != nil {
		mainLog.WithError(err).Fatal("Could not create backend connections")
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	err = backends.Connect(ctx, conf.Storage.ConnectRetries)
	cancel()
	if err != nil {
		mainLog.WithError(err).Fatal("Backend is not reachable. Exiting...")
	}
	if backends.Shared() {
		mainLog.Info("Reads and writes share one backend connection")
	}

	gw := NewGateway(conf, backends)
	srv := gw.Server()

	go func() {
		mainLog.Infof("kvrouter %s listening on %s", build.Info(), srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLog.WithError(err).Fatal("Server stopped")
		}
	}()

	// Block the main goroutine awaiting signals.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	mainLog.Info("Stop signal received.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		mainLog.WithError(err).Error("Graceful shutdown failed")
	}
	if err := backends.Close(); err != nil {
		mainLog.WithError(err).Error("Closing backend connections failed")
	}

	mainLog.Info("Terminating.")
}
