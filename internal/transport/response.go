package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"embedhttp/internal/http/header"
	"embedhttp/servlet"
)

// responseWriter buffers the whole response so the head can be completed
// after the handler returns. Every connection carries a single exchange.
type responseWriter struct {
	protocol string
	code     int
	written  bool
	headers  header.Headers
	body     bytes.Buffer
}

func newResponseWriter(protocol string) *responseWriter {
	if protocol == "" {
		protocol = "HTTP/1.1"
	}
	return &responseWriter{
		protocol: protocol,
		code:     http.StatusOK,
		headers:  header.New(),
	}
}

var _ servlet.ResponseWriter = (*responseWriter)(nil)

func (w *responseWriter) Headers() servlet.Headers { return w.headers }

// WriteHeader sets the status code. Only the first call counts.
func (w *responseWriter) WriteHeader(code int) {
	if w.written {
		return
	}
	w.code = code
	w.written = true
}

func (w *responseWriter) Write(p []byte) (int, error) {
	w.written = true
	return w.body.Write(p)
}

func (w *responseWriter) reset(code int) {
	w.code = code
	w.written = true
	w.headers = header.New()
	w.body.Reset()
}

func (w *responseWriter) statusLine() []byte {
	text := http.StatusText(w.code)
	if text == "" {
		text = "Status " + strconv.Itoa(w.code)
	}
	return fmt.Appendf(nil, "%s %d %s", w.protocol, w.code, text)
}

func (w *responseWriter) flush(dst io.Writer) (int64, error) {
	w.headers.Set(header.ContentLength, strconv.Itoa(w.body.Len()))
	w.headers.Set(header.Connection, "close")

	n, err := dst.Write(header.Finalize(w.statusLine(), w.headers))
	if err != nil {
		return int64(n), err
	}
	m, err := w.body.WriteTo(dst)
	return int64(n) + m, err
}
