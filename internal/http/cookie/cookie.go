package cookie

import (
	"net/url"
	"strings"
)

type Cookie struct {
	Name  string
	Value string
}

// Jar maps cookie name to cookie. It is built once per request and only read
// afterwards.
type Jar map[string]Cookie

// Parse reads a Cookie header value such as "a=1; b=two". Pairs without a
// name are dropped. Values are percent decoded when they decode cleanly;
// a plus sign is kept as is.
func Parse(headerValue string) Jar {
	jar := make(Jar)
	for _, part := range strings.Split(headerValue, ";") {
		name, value, _ := strings.Cut(strings.TrimSpace(part), "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		value = strings.TrimSpace(value)
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		jar[name] = Cookie{Name: name, Value: value}
	}
	return jar
}

// Get returns the cookie stored under name.
func (j Jar) Get(name string) (Cookie, bool) {
	c, ok := j[name]
	return c, ok
}

// Header renders a Set-Cookie value for c.
func (c Cookie) Header(path string, httpOnly bool) string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte('=')
	sb.WriteString(url.QueryEscape(c.Value))
	if path != "" {
		sb.WriteString("; Path=")
		sb.WriteString(path)
	}
	if httpOnly {
		sb.WriteString("; HttpOnly")
	}
	return sb.String()
}
