package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"embedhttp/internal/config"
	"embedhttp/internal/logging"
	"embedhttp/internal/metrics"
	"embedhttp/internal/transport"
	"embedhttp/internal/version"
	"embedhttp/servlet"
	"embedhttp/session"
)

type Bootstrap struct {
	Config     config.Config
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Sessions   *session.Directory
	Handler    servlet.Handler
	ErrChan    chan error
	SignalChan chan os.Signal
}

// New wires the server. A nil handler serves the request inspector.
func New(conf config.Config, handler servlet.Handler) (*Bootstrap, error) {
	if conf.SessionSweepInterval() <= 0 {
		return nil, fmt.Errorf("invalid session sweep interval %s", conf.SessionSweepInterval())
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(conf.LogLevel()),
		Format: logging.ParseFormat(conf.LogFormat()),
		Output: os.Stdout,
	})
	for _, w := range conf.Warnings() {
		logger.Warn("config setting replaced by default", "detail", w)
	}

	var m *metrics.Metrics
	if conf.MetricsEnabled() {
		m = metrics.New()
	}

	sessions := session.NewDirectory(
		session.WithMaxInactive(conf.SessionTTL()),
		session.WithLogger(logger.With("component", "sessions")),
		session.WithMetrics(m),
	)

	if handler == nil {
		handler = NewInspector()
	}

	return &Bootstrap{
		Config:     conf,
		Logger:     logger,
		Metrics:    m,
		Sessions:   sessions,
		Handler:    handler,
		ErrChan:    make(chan error, 5),
		SignalChan: make(chan os.Signal, 1),
	}, nil
}

func (b *Bootstrap) startHTTPServer(ctx context.Context, errChan chan<- error) {
	httpserver := transport.NewHTTPServer(transport.Options{
		ListenAddr:     b.Config.ListenAddr(),
		Port:           b.Config.HTTPPort(),
		ServerName:     b.Config.ServerName(),
		TempDir:        b.Config.TempDir(),
		MaxPostSize:    b.Config.MaxPostSize(),
		ReadTimeout:    b.Config.ReadTimeout(),
		TrustedProxies: b.Config.TrustedProxies(),
		Sessions:       b.Sessions,
		Metrics:        b.Metrics,
		Logger:         b.Logger.With("component", "http"),
	}, b.Handler)

	ln, err := httpserver.Listen()
	if err != nil {
		errChan <- fmt.Errorf("failed to start http server: %w", err)
		return
	}
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	if err = httpserver.Serve(ln); err != nil && ctx.Err() == nil {
		errChan <- fmt.Errorf("error when serving http server: %w", err)
	}
}

func (b *Bootstrap) startMetricsServer(ctx context.Context, errChan chan<- error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", b.Metrics.Handler())

	srv := &http.Server{
		Addr:              net.JoinHostPort(b.Config.ListenAddr(), b.Config.MetricsPort()),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	b.Logger.Info("starting metrics server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errChan <- fmt.Errorf("metrics server error: %w", err)
	}
}

func (b *Bootstrap) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signal.Notify(b.SignalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(b.SignalChan)

	go b.Sessions.Run(ctx, b.Config.SessionSweepInterval())
	go b.startHTTPServer(ctx, b.ErrChan)

	if b.Config.MetricsEnabled() {
		go b.startMetricsServer(ctx, b.ErrChan)
	}

	b.Logger.Info("all services started", "version", version.GetVersion())

	select {
	case err := <-b.ErrChan:
		return fmt.Errorf("service error: %w", err)
	case sig := <-b.SignalChan:
		b.Logger.Info("received signal, shutting down", "signal", sig.String())
		return nil
	}
}
