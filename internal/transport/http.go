package transport

import (
	"errors"
	"log/slog"
	"net"
	"time"

	"embedhttp/internal/logging"
	"embedhttp/internal/metrics"
	"embedhttp/servlet"
)

// Options carries everything the HTTP transport needs besides the handler.
type Options struct {
	ListenAddr     string
	Port           string
	ServerName     string
	TempDir        string
	MaxPostSize    int64
	ReadTimeout    time.Duration
	TrustedProxies []string
	Sessions       servlet.SessionDirectory
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

type httpServer struct {
	handler *httpHandler
	addr    string
	logger  *slog.Logger
}

func NewHTTPServer(opts Options, handler servlet.Handler) Transport {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &httpServer{
		handler: newHTTPHandler(opts, handler),
		addr:    net.JoinHostPort(opts.ListenAddr, opts.Port),
		logger:  opts.Logger,
	}
}

func (ht *httpServer) Listen() (net.Listener, error) {
	return net.Listen("tcp", ht.addr)
}

func (ht *httpServer) Serve(listener net.Listener) error {
	ht.logger.Info("http server is starting", "addr", listener.Addr().String())
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			ht.logger.Warn("error accepting connection", "error", err)
			continue
		}

		go ht.handler.handler(conn)
	}
}
