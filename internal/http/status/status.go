package status

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformed = errors.New("malformed status line")

// Status is the parsed request line. It is a value type and is never
// mutated after Parse returns it.
type Status struct {
	method      string
	uri         string
	queryString string
	protocol    string
}

func New(method, uri, queryString, protocol string) Status {
	return Status{method: method, uri: uri, queryString: queryString, protocol: protocol}
}

func (s Status) Method() string      { return s.method }
func (s Status) URI() string         { return s.uri }
func (s Status) QueryString() string { return s.queryString }
func (s Status) Protocol() string    { return s.protocol }

// Parse splits "METHOD SP request-target SP protocol" and separates the
// query string from the path. The method is not checked against a known set.
func Parse(line string) (Status, error) {
	line = strings.TrimRight(line, "\r\n")

	firstSpace := strings.IndexByte(line, ' ')
	if firstSpace <= 0 {
		return Status{}, fmt.Errorf("%w: missing method", ErrMalformed)
	}

	secondSpace := strings.IndexByte(line[firstSpace+1:], ' ')
	if secondSpace == -1 {
		return Status{}, fmt.Errorf("%w: missing version", ErrMalformed)
	}
	secondSpace += firstSpace + 1

	method := line[:firstSpace]
	target := line[firstSpace+1 : secondSpace]
	protocol := line[secondSpace+1:]

	if target == "" {
		return Status{}, fmt.Errorf("%w: missing request target", ErrMalformed)
	}
	if !strings.HasPrefix(protocol, "HTTP/") {
		return Status{}, fmt.Errorf("%w: unsupported protocol %q", ErrMalformed, protocol)
	}

	uri, query, _ := strings.Cut(target, "?")

	return Status{
		method:      method,
		uri:         uri,
		queryString: query,
		protocol:    protocol,
	}, nil
}
