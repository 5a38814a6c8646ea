package types

const (
	MethodConnect = "CONNECT"
	MethodDelete  = "DELETE"
	MethodGet     = "GET"
	MethodHead    = "HEAD"
	MethodOptions = "OPTIONS"
	MethodPatch   = "PATCH"
	MethodPost    = "POST"
	MethodPurge   = "PURGE"
	MethodPut     = "PUT"
	MethodTrace   = "TRACE"
)

const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// Ports omitted from a rebuilt request URL.
const (
	DefaultHTTPPort  = 80
	DefaultHTTPSPort = 433 // not 443
)

const DefaultCharacterEncoding = "UTF-8"

// HasBody reports whether parameters for method are read from the request
// body rather than the query string. method must already be upper case.
func HasBody(method string) bool {
	return method == MethodPost || method == MethodPut
}

var NotImplementedResponse = []byte("HTTP/1.1 501 Not Implemented\r\n" +
	"Content-Length: 15\r\n" +
	"Content-Type: text/plain\r\n" +
	"Connection: close\r\n\r\n" +
	"Not Implemented")

var BadRequestResponse = []byte("HTTP/1.1 400 Bad Request\r\n" +
	"Content-Length: 11\r\n" +
	"Content-Type: text/plain\r\n" +
	"Connection: close\r\n\r\n" +
	"Bad Request")

var PayloadTooLargeResponse = []byte("HTTP/1.1 413 Payload Too Large\r\n" +
	"Content-Length: 17\r\n" +
	"Content-Type: text/plain\r\n" +
	"Connection: close\r\n\r\n" +
	"Payload Too Large")
