package middleware

import (
	"net"
	"slices"

	"embedhttp/internal/http/header"
)

// ForwardedFor records the peer address in X-Forwarded-For. A chain sent by
// a trusted proxy is extended; anything else a client sent is replaced.
type ForwardedFor struct {
	addr    net.Addr
	trusted []string
}

func NewForwardedFor(addr net.Addr, trusted []string) *ForwardedFor {
	return &ForwardedFor{addr: addr, trusted: trusted}
}

func (ff *ForwardedFor) HandleRequest(header header.Headers) error {
	host, _, err := net.SplitHostPort(ff.addr.String())
	if err != nil {
		return err
	}

	if prev, ok := header.Value("X-Forwarded-For"); ok && prev != "" && slices.Contains(ff.trusted, host) {
		header.Set("X-Forwarded-For", prev+", "+host)
		return nil
	}
	header.Set("X-Forwarded-For", host)
	return nil
}
