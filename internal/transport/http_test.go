package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"embedhttp/servlet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPServer(t *testing.T) {
	h := servlet.HandlerFunc(func(w servlet.ResponseWriter, r servlet.Request) {})
	srv := NewHTTPServer(Options{
		ListenAddr:  "127.0.0.1",
		Port:        "8080",
		ServerName:  "example.com",
		MaxPostSize: 1024,
		ReadTimeout: time.Second,
	}, h)
	assert.NotNil(t, srv)

	httpSrv, ok := srv.(*httpServer)
	assert.True(t, ok)
	assert.Equal(t, "127.0.0.1:8080", httpSrv.addr)
	assert.Equal(t, "example.com", httpSrv.handler.serverName)
	assert.Equal(t, int64(1024), httpSrv.handler.maxPostSize)
	assert.Equal(t, time.Second, httpSrv.handler.readTimeout)
	assert.NotNil(t, httpSrv.logger)
}

func TestHTTPServer_Listen(t *testing.T) {
	srv := NewHTTPServer(Options{ListenAddr: "127.0.0.1", Port: "0"}, okHandler)

	listener, err := srv.Listen()
	assert.NoError(t, err)
	assert.NotNil(t, listener)
	listener.Close()
}

func TestHTTPServer_Serve(t *testing.T) {
	srv := NewHTTPServer(Options{ListenAddr: "127.0.0.1", Port: "0"}, okHandler)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)

	go func() {
		time.Sleep(100 * time.Millisecond)
		listener.Close()
	}()

	err = srv.Serve(listener)
	assert.True(t, errors.Is(err, net.ErrClosed))
}

func TestHTTPServer_Serve_AcceptError(t *testing.T) {
	srv := NewHTTPServer(Options{Port: "0"}, okHandler)

	ml := new(mockListener)
	ml.On("Addr").Return(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080})
	ml.On("Accept").Return(nil, errors.New("accept error")).Once()
	ml.On("Accept").Return(nil, net.ErrClosed).Once()

	err := srv.Serve(ml)
	assert.True(t, errors.Is(err, net.ErrClosed))
	ml.AssertExpectations(t)
}

func TestHTTPServer_Serve_Success(t *testing.T) {
	srv := NewHTTPServer(Options{ListenAddr: "127.0.0.1", Port: "0", MaxPostSize: 1024}, okHandler)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	go func() {
		_ = srv.Serve(listener)
	}()

	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("GET /hello HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(resp), "HTTP/1.1 200 OK\r\n"))
	assert.True(t, strings.HasSuffix(string(resp), "ok"))
}

func TestHTTPServer_Serve_StalledClient(t *testing.T) {
	srv := NewHTTPServer(Options{ListenAddr: "127.0.0.1", Port: "0", ReadTimeout: 100 * time.Millisecond}, okHandler)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		_ = srv.Serve(listener)
	}()

	conn, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("GET /hello HTTP/1.1\r\nHost: loc"))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Empty(t, resp)
}

var okHandler = servlet.HandlerFunc(func(w servlet.ResponseWriter, r servlet.Request) {
	_, _ = w.Write([]byte("ok"))
})

type mockListener struct {
	mock.Mock
}

func (m *mockListener) Accept() (net.Conn, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(net.Conn), args.Error(1)
}

func (m *mockListener) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockListener) Addr() net.Addr {
	args := m.Called()
	return args.Get(0).(net.Addr)
}
