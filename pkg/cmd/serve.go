package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	gabi "github.com/app-sre/gabi-console/pkg"
	"github.com/app-sre/gabi-console/pkg/audit"
	"github.com/app-sre/gabi-console/pkg/client"
	"github.com/app-sre/gabi-console/pkg/config"
	"github.com/app-sre/gabi-console/pkg/handlers"
	"github.com/app-sre/gabi-console/pkg/middleware"
	"github.com/app-sre/gabi-console/pkg/version"
)

const (
	readTimeout       = 1 * time.Minute
	readHeaderTimeout = 20 * time.Second
	writeTimeout      = 2 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the query endpoint and the browser console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Serve(cmd.Context(), a.cfg, a.logger)
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "HTTP server port")
	cmd.Flags().Bool("allow-write", false, "commit data changes instead of rolling them back")

	return cmd
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, conf *config.Config, logger *zap.SugaredLogger) error {
	logger.Infof("Starting GABI Console version: %s", version.Version())
	logger.Infof("Production: %t", conf.Production)

	dbe := &conf.DB
	if err := dbe.Validate(); err != nil {
		return fmt.Errorf("unable to configure database: %w", err)
	}
	logger.Infof("Using database driver: %s (write access: %t)", dbe.Driver, dbe.AllowWrite)

	db, err := sql.Open(dbe.Driver.Name(), dbe.ConnectionDSN())
	if err != nil {
		return fmt.Errorf("unable to open database connection: %w", err)
	}
	defer func() { _ = db.Close() }()
	logger.Debugf("Connected to database host: %s (port: %d)", dbe.Host, dbe.Port)

	cfg := &gabi.Config{
		DB:          db,
		DBEnv:       dbe,
		LoggerAudit: audit.NewLoggerAudit(logger),
		Logger:      logger,
	}

	server := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(conf.Server.Port)),
		Handler:           NewRouter(cfg, conf),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("HTTP server starting on port: %d", conf.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to start HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Infof("HTTP server shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(sctx)
	})

	return g.Wait()
}

// NewRouter wires the query endpoint, the health check and the browser
// console. The console submits its queries to the configured endpoint.
func NewRouter(cfg *gabi.Config, conf *config.Config) http.Handler {
	// Temp workaround for easy to access io.Writer.
	defaultLogOutput := log.Default().Writer()

	healthLogOutput := io.Discard
	if !conf.Production {
		healthLogOutput = defaultLogOutput
	}
	logHandler := gorillaHandlers.LoggingHandler

	queryChain := alice.New(
		alice.Constructor(middleware.Recovery(cfg)),
		alice.Constructor(middleware.Timeout(conf.Server.Timeout)),
		alice.Constructor(middleware.Audit(cfg)),
	).Then(handlers.Query(cfg))

	submitter := client.New(conf.Endpoint,
		client.WithTimeout(conf.Timeout),
		client.WithLogger(cfg.Logger),
	)
	consoleChain := alice.New(
		alice.Constructor(middleware.Recovery(cfg)),
	).Then(handlers.Console(cfg, submitter))

	r := mux.NewRouter()
	r.Handle("/healthcheck", logHandler(healthLogOutput, handlers.Healthcheck(cfg))).Methods(http.MethodGet)
	r.Handle("/query", logHandler(defaultLogOutput, queryChain)).Methods(http.MethodPost)
	r.Handle("/console", logHandler(defaultLogOutput, consoleChain)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/", http.RedirectHandler("/console", http.StatusFound)).Methods(http.MethodGet)

	return r
}
