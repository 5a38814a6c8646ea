package header

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"embedhttp/internal/http/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadersCaseInsensitive(t *testing.T) {
	h := New()
	h.Set("Content-Type", "text/html")

	for _, name := range []string{"Content-Type", "content-type", "CONTENT-TYPE", "cOnTeNt-TyPe"} {
		v, ok := h.Value(name)
		assert.True(t, ok, name)
		assert.Equal(t, "text/html", v, name)
		assert.True(t, h.Contains(name), name)
	}

	_, ok := h.Value("Content-Length")
	assert.False(t, ok)
	assert.False(t, h.Contains("Content-Length"))
}

func TestHeadersLastWriteWins(t *testing.T) {
	h := New()
	h.Set("Host", "a.example")
	h.Set("Accept", "*/*")
	h.Set("host", "b.example")

	v, _ := h.Value("HOST")
	assert.Equal(t, "b.example", v)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []string{"Host", "Accept"}, h.Names())
}

func TestHeadersRemove(t *testing.T) {
	h := New()
	h.Set("A", "1")
	h.Set("B", "2")
	h.Set("C", "3")

	h.Remove("b")
	h.Remove("missing")

	assert.Equal(t, []string{"A", "C"}, h.Names())
	v, ok := h.Value("c")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	h.Set("B", "4")
	assert.Equal(t, []string{"A", "C", "B"}, h.Names())
}

func TestHeadersClone(t *testing.T) {
	h := New()
	h.Set("X-One", "1")

	c := h.Clone()
	c.Set("X-Two", "2")
	c.Set("x-one", "changed")

	v, _ := h.Value("X-One")
	assert.Equal(t, "1", v)
	assert.False(t, h.Contains("X-Two"))
	assert.Equal(t, 2, c.Len())
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name     string
		pairs    [][2]string
		expected string
	}{
		{
			name:     "empty",
			expected: "\r\n",
		},
		{
			name:     "single",
			pairs:    [][2]string{{"Host", "example.com"}},
			expected: "Host: example.com\r\n\r\n",
		},
		{
			name: "insertion order",
			pairs: [][2]string{
				{"Server", "embedhttp"},
				{"Content-Type", "text/plain"},
				{"Content-Length", "5"},
			},
			expected: "Server: embedhttp\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			for _, p := range tt.pairs {
				h.Set(p[0], p[1])
			}
			out := Serialize(h)
			assert.Equal(t, tt.expected, out)
			assert.Equal(t, out, Serialize(h))
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	raw := "Host: example.com\r\nX-Custom: value:with:colons\r\nAccept-Language: pl, en;q=0.5\r\n\r\n"

	_, h, err := ReadHead(bufio.NewReader(strings.NewReader("GET / HTTP/1.1\r\n" + raw)))
	require.NoError(t, err)

	out := Serialize(h)
	assert.Equal(t, raw, out)
	assert.True(t, strings.HasSuffix(out, "\r\n\r\n"))
	assert.False(t, strings.HasSuffix(out, "\r\n\r\n\r\n"))
}

func TestFinalize(t *testing.T) {
	h := New()
	h.Set("Content-Length", "0")

	out := Finalize([]byte("HTTP/1.1 200 OK"), h)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n", string(out))
}

func TestReadHead(t *testing.T) {
	tests := []struct {
		name          string
		data          []byte
		expectErr     bool
		expectEOF     bool
		expectStatus  bool
		method        string
		uri           string
		query         string
		expectHeaders map[string]string
		expectBody    string
	}{
		{
			name:   "success",
			data:   []byte("POST /api?x=1 HTTP/1.1\r\nContent-Type: application/json\r\nContent-Length: 2\r\n\r\n{}"),
			method: "POST",
			uri:    "/api",
			query:  "x=1",
			expectHeaders: map[string]string{
				"content-type":   "application/json",
				"Content-Length": "2",
			},
			expectBody: "{}",
		},
		{
			name:      "read error on start line",
			data:      []byte{},
			expectErr: true,
			expectEOF: true,
		},
		{
			name:         "invalid start line",
			data:         []byte("INVALID\n\n"),
			expectErr:    true,
			expectStatus: true,
		},
		{
			name:      "read error on headers",
			data:      []byte("GET / HTTP/1.1\nHost: example.com"),
			expectErr: true,
			expectEOF: true,
		},
		{
			name:   "bare LF line endings",
			data:   []byte("GET / HTTP/1.1\nHost: example.com\n\n"),
			method: "GET",
			uri:    "/",
			expectHeaders: map[string]string{
				"Host": "example.com",
			},
		},
		{
			name:   "various header formats",
			data:   []byte("GET / HTTP/1.1\r\nK1: V1\r\nK2:V2\r\n K3 : V3 \r\nNoColon\r\n\r\n"),
			method: "GET",
			uri:    "/",
			expectHeaders: map[string]string{
				"K1": "V1",
				"K2": "V2 K3 : V3",
			},
		},
		{
			name:   "invalid names skipped",
			data:   []byte("GET / HTTP/1.1\r\n: value\r\nbad name: x\r\nkey:\r\n\r\n"),
			method: "GET",
			uri:    "/",
			expectHeaders: map[string]string{
				"key": "",
			},
		},
		{
			name:   "folded continuation",
			data:   []byte("GET / HTTP/1.1\r\nX-Long: first\r\n\tsecond\r\n  third\r\n\r\n"),
			method: "GET",
			uri:    "/",
			expectHeaders: map[string]string{
				"X-Long": "first second third",
			},
		},
		{
			name:          "continuation without previous header",
			data:          []byte("GET / HTTP/1.1\r\n orphan\r\n\r\n"),
			method:        "GET",
			uri:           "/",
			expectHeaders: map[string]string{},
		},
		{
			name:   "malformed header line skipped",
			data:   []byte("GET / HTTP/1.1\r\nMalformedLine\r\nK1: V1\r\n\r\n"),
			method: "GET",
			uri:    "/",
			expectHeaders: map[string]string{
				"K1": "V1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := bufio.NewReader(bytes.NewReader(tt.data))
			st, h, err := ReadHead(br)
			if tt.expectErr {
				assert.Error(t, err)
				if tt.expectEOF {
					assert.Equal(t, io.EOF, err)
				}
				if tt.expectStatus {
					assert.True(t, errors.Is(err, status.ErrMalformed))
				}
				assert.Nil(t, h)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.method, st.Method())
			assert.Equal(t, tt.uri, st.URI())
			assert.Equal(t, tt.query, st.QueryString())
			assert.Equal(t, len(tt.expectHeaders), h.Len())
			for k, v := range tt.expectHeaders {
				got, ok := h.Value(k)
				assert.True(t, ok, k)
				assert.Equal(t, v, got)
			}

			rest, _ := io.ReadAll(br)
			assert.Equal(t, tt.expectBody, string(rest))
		})
	}
}

func TestReadHeadTooManyHeaders(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("GET / HTTP/1.1\r\n")
	for i := 0; i < maxHeaderLines+2; i++ {
		sb.WriteString("X-Repeat: 1\r\n")
	}
	sb.WriteString("\r\n")

	_, _, err := ReadHead(bufio.NewReader(strings.NewReader(sb.String())))
	assert.ErrorIs(t, err, ErrTooManyHeaders)
}
