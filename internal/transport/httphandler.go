package transport

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"
	"time"

	"embedhttp/internal/http/cookie"
	"embedhttp/internal/http/header"
	"embedhttp/internal/http/multipart"
	"embedhttp/internal/http/param"
	"embedhttp/internal/http/status"
	"embedhttp/internal/metrics"
	"embedhttp/internal/middleware"
	"embedhttp/servlet"
	"embedhttp/session"
	"embedhttp/types"
)

const formURLEncoded = "application/x-www-form-urlencoded"

var errBodyTooLarge = errors.New("request body too large")

type httpHandler struct {
	serverName     string
	tempDir        string
	maxPostSize    int64
	readTimeout    time.Duration
	trustedProxies []string
	sessions       servlet.SessionDirectory
	app            servlet.Handler
	metrics        *metrics.Metrics
	logger         *slog.Logger
	fingerprint    middleware.ResponseMiddleware
}

func newHTTPHandler(opts Options, handler servlet.Handler) *httpHandler {
	return &httpHandler{
		serverName:     opts.ServerName,
		tempDir:        opts.TempDir,
		maxPostSize:    opts.MaxPostSize,
		readTimeout:    opts.ReadTimeout,
		trustedProxies: opts.TrustedProxies,
		sessions:       opts.Sessions,
		app:            handler,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		fingerprint:    middleware.NewServerFingerprint(),
	}
}

func (hh *httpHandler) reject(conn net.Conn, code int, canned []byte) {
	hh.metrics.Response(code)
	if _, err := conn.Write(canned); err != nil {
		hh.logger.Debug("failed to write error response", "status", code, "error", err)
	}
}

// rejectFor maps a request assembly error onto its canned response.
func (hh *httpHandler) rejectFor(conn net.Conn, err error) {
	switch {
	case errors.Is(err, errors.ErrUnsupported):
		hh.reject(conn, http.StatusNotImplemented, types.NotImplementedResponse)
	case errors.Is(err, errBodyTooLarge),
		errors.Is(err, multipart.ErrFileTooLarge),
		errors.Is(err, multipart.ErrValueTooLarge):
		hh.reject(conn, http.StatusRequestEntityTooLarge, types.PayloadTooLargeResponse)
	default:
		hh.reject(conn, http.StatusBadRequest, types.BadRequestResponse)
	}
}

func (hh *httpHandler) handler(conn net.Conn) {
	defer hh.closeConnection(conn)

	if hh.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(hh.readTimeout)); err != nil {
			hh.logger.Debug("failed to set read deadline", "error", err)
			return
		}
	}

	br := bufio.NewReader(conn)
	st, headers, err := header.ReadHead(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			hh.logger.Debug("request head timed out", "remote", conn.RemoteAddr().String())
			return
		}
		hh.logger.Debug("malformed request head", "remote", conn.RemoteAddr().String(), "error", err)
		hh.reject(conn, http.StatusBadRequest, types.BadRequestResponse)
		return
	}
	hh.metrics.RequestHandled()

	b, err := hh.assemble(conn, br, st, headers)
	defer destroyUploads(hh.logger, b.uploads)
	if err != nil {
		hh.logger.Debug("rejecting request", "method", st.Method(), "uri", st.URI(), "error", err)
		hh.rejectFor(conn, err)
		return
	}

	req, err := b.builder.Build()
	if err != nil {
		hh.logger.Error("failed to build request", "error", err)
		hh.reject(conn, http.StatusBadRequest, types.BadRequestResponse)
		return
	}

	w := newResponseWriter(st.Protocol())
	hh.serve(w, req)

	if created, ok := req.CreatedSession(); ok {
		c := cookie.Cookie{Name: session.CookieName, Value: created.ID()}
		w.Headers().Set(header.SetCookie, c.Header("/", true))
	}
	if err = hh.fingerprint.HandleResponse(w.Headers(), w.body.Bytes()); err != nil {
		hh.logger.Warn("response middleware failed", "error", err)
	}

	hh.metrics.Response(w.code)
	if _, err = w.flush(conn); err != nil {
		hh.logger.Debug("failed to write response", "error", err)
	}
	hh.logger.Debug("request served", "method", req.Method(), "uri", req.RequestURI(), "status", w.code)
}

// serve runs the handler, turning a panic into a 500 when nothing useful
// was produced yet.
func (hh *httpHandler) serve(w *responseWriter, req servlet.Request) {
	defer func() {
		if r := recover(); r != nil {
			hh.logger.Error("handler panicked", "method", req.Method(), "uri", req.RequestURI(), "panic", r)
			w.reset(http.StatusInternalServerError)
		}
	}()
	hh.app.ServeHTTP(w, req)
}

type assembled struct {
	builder *servlet.Builder
	uploads []multipart.UploadedFile
}

func (hh *httpHandler) assemble(conn net.Conn, br *bufio.Reader, st status.Status, headers header.Headers) (assembled, error) {
	ff := middleware.NewForwardedFor(conn.RemoteAddr(), hh.trustedProxies)
	if err := ff.HandleRequest(headers); err != nil {
		hh.logger.Debug("forwarded-for skipped", "error", err)
	}

	b := servlet.NewBuilder().
		SetStatus(st).
		SetHeaders(headers).
		SetScheme(types.SchemeHTTP).
		SetServerName(hh.serverName).
		SetSessionDirectory(hh.sessions)
	out := assembled{builder: b}
	hh.setAddresses(b, conn)

	if raw, ok := headers.Value(header.Cookie); ok {
		b.SetCookies(cookie.Parse(raw))
	}

	query, err := param.Parse(st.QueryString())
	if err != nil {
		return out, err
	}
	b.SetGetParameters(query)

	if !types.HasBody(strings.ToUpper(st.Method())) {
		return out, nil
	}

	body, err := hh.bodyReader(br, headers)
	if err != nil {
		return out, err
	}

	contentType, _ := headers.Value(header.ContentType)
	switch {
	case multipart.IsMultipart(contentType):
		boundary, err := multipart.Boundary(contentType)
		if err != nil {
			return out, err
		}
		res, err := multipart.Decode(body, boundary, multipart.Options{
			TempDir:      hh.tempDir,
			MaxValueSize: hh.maxPostSize,
			MaxFileSize:  hh.maxPostSize,
		})
		if err != nil {
			return out, err
		}
		out.uploads = res.Files
		b.SetMultipart(true).SetPostParameters(res.Params).SetUploadedFiles(res.Files)
	case strings.HasPrefix(strings.ToLower(contentType), formURLEncoded):
		raw, err := io.ReadAll(io.LimitReader(body, hh.maxPostSize+1))
		if err != nil {
			return out, err
		}
		if int64(len(raw)) > hh.maxPostSize {
			return out, errBodyTooLarge
		}
		post, err := param.Parse(string(raw))
		if err != nil {
			return out, err
		}
		b.SetPostParameters(post)
	default:
		b.SetInputStream(body)
	}
	return out, nil
}

// bodyReader bounds the body by Content-Length. A chunked body is decoded
// up front so that one over the post size limit is refused before the
// handler runs. A request with neither header has no body.
func (hh *httpHandler) bodyReader(br *bufio.Reader, headers header.Headers) (io.Reader, error) {
	if te, ok := headers.Value(header.TransferEncoding); ok {
		if !strings.EqualFold(strings.TrimSpace(te), "chunked") {
			return nil, fmt.Errorf("transfer encoding %q: %w", te, errors.ErrUnsupported)
		}
		raw, err := io.ReadAll(io.LimitReader(httputil.NewChunkedReader(br), hh.maxPostSize+1))
		if err != nil {
			return nil, fmt.Errorf("read chunked body: %w", err)
		}
		if int64(len(raw)) > hh.maxPostSize {
			return nil, fmt.Errorf("%w: chunked body over %d bytes", errBodyTooLarge, hh.maxPostSize)
		}
		return bytes.NewReader(raw), nil
	}

	raw, ok := headers.Value(header.ContentLength)
	if !ok {
		return strings.NewReader(""), nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid Content-Length %q", raw)
	}
	if n > hh.maxPostSize {
		return nil, fmt.Errorf("%w: %d bytes", errBodyTooLarge, n)
	}
	return io.LimitReader(br, n), nil
}

func (hh *httpHandler) setAddresses(b *servlet.Builder, conn net.Conn) {
	if host, port, ok := splitAddr(conn.RemoteAddr()); ok {
		b.SetRemoteAddr(host).SetRemoteHost(host).SetRemotePort(port)
	}
	if host, port, ok := splitAddr(conn.LocalAddr()); ok {
		b.SetLocalAddr(host).SetLocalName(host).SetLocalPort(port).SetServerPort(port)
	}
}

func splitAddr(addr net.Addr) (string, int, bool) {
	if addr == nil {
		return "", 0, false
	}
	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "", 0, false
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, false
	}
	return host, port, true
}

func destroyUploads(logger *slog.Logger, files []multipart.UploadedFile) {
	for _, f := range files {
		if err := f.Destroy(); err != nil {
			logger.Warn("failed to remove uploaded file", "path", f.Path, "error", err)
		}
	}
}

func (hh *httpHandler) closeConnection(conn net.Conn) {
	err := conn.Close()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		hh.logger.Debug("error closing connection", "error", err)
	}
}
