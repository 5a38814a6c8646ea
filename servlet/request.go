package servlet

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"embedhttp/internal/http/cookie"
	"embedhttp/internal/http/header"
	"embedhttp/internal/http/multipart"
	"embedhttp/internal/http/status"
	"embedhttp/internal/locale"
	"embedhttp/session"
	"embedhttp/types"

	"golang.org/x/text/language"
)

// ErrNotImplemented is returned by accessors for features this server does
// not provide. It is a caller bug to depend on them, not a data problem.
var ErrNotImplemented = fmt.Errorf("servlet: not implemented: %w", errors.ErrUnsupported)

type (
	Headers      = header.Headers
	Cookie       = cookie.Cookie
	UploadedFile = multipart.UploadedFile
	Status       = status.Status
)

// Request is the read side of one assembled HTTP request. Only attributes
// and the character encoding may change once it has been built.
type Request interface {
	Method() string
	RequestURI() string
	RequestURL() string
	QueryString() string
	Protocol() string
	Scheme() string
	IsSecure() bool

	Header(name string) (string, bool)
	Headers() Headers
	HeaderNames() []string
	IntHeader(name string) IntValue
	DateHeader(name string) DateValue
	ContentLength() IntValue
	ContentType() string
	Host() string

	Cookies() []Cookie
	Cookie(name string) (Cookie, bool)

	Parameter(name string) (string, bool)
	PostParameter(name string) (string, bool)
	ParameterMap() map[string]string
	ParameterNames() []string
	ParameterValues(name string) ([]string, error)

	IsMultipart() bool
	UploadedFiles() []UploadedFile
	InputStream() io.Reader
	Reader() (io.Reader, error)
	CharacterEncoding() string
	SetCharacterEncoding(enc string)

	Locale() (language.Tag, bool)
	Locales() LocaleList

	Attribute(name string) any
	AttributeNames() []string
	SetAttribute(name string, value any)
	RemoveAttribute(name string)

	Session(create bool) *session.Session
	SessionState() SessionState
	CreatedSession() (*session.Session, bool)
	RequestedSessionID() (string, bool)
	IsRequestedSessionIDValid() bool
	IsRequestedSessionIDFromCookie() bool
	IsRequestedSessionIDFromURL() bool

	RemoteAddr() string
	RemoteHost() string
	RemotePort() int
	LocalAddr() string
	LocalName() string
	LocalPort() int
	ServerName() string
	ServerPort() int
	ContextPath() string
	PathInfo() string
	PathTranslated() string
}

type request struct {
	status  status.Status
	headers header.Headers
	cookies cookie.Jar

	getParameters  map[string]string
	postParameters map[string]string
	uploadedFiles  []multipart.UploadedFile
	isMultipart    bool
	in             io.Reader

	attributes        map[string]any
	characterEncoding string

	directory      SessionDirectory
	session        *session.Session
	sessionState   SessionState
	sessionCreated bool

	localeParser locale.Parser
	now          func() time.Time

	scheme         string
	secure         bool
	remoteAddr     string
	remoteHost     string
	remotePort     int
	localAddr      string
	localName      string
	localPort      int
	serverName     string
	serverPort     int
	contextPath    string
	pathInfo       string
	pathTranslated string
}

func (r *request) Method() string      { return r.status.Method() }
func (r *request) RequestURI() string  { return r.status.URI() }
func (r *request) QueryString() string { return r.status.QueryString() }
func (r *request) Protocol() string    { return r.status.Protocol() }
func (r *request) Scheme() string      { return r.scheme }
func (r *request) IsSecure() bool      { return r.secure }

// RequestURL rebuilds scheme://host[:port]path. The port is left out when it
// is one of the default ports.
func (r *request) RequestURL() string {
	var sb strings.Builder
	sb.WriteString(r.Scheme())
	sb.WriteString("://")
	sb.WriteString(r.Host())

	port := r.ServerPort()
	if port != types.DefaultHTTPPort && port != types.DefaultHTTPSPort {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(port))
	}
	sb.WriteString(r.status.URI())
	return sb.String()
}

func (r *request) Header(name string) (string, bool) { return r.headers.Value(name) }
func (r *request) Headers() Headers                  { return r.headers }
func (r *request) HeaderNames() []string             { return r.headers.Names() }

func (r *request) IntHeader(name string) IntValue {
	return parseIntValue(r.headers.Value(name))
}

func (r *request) DateHeader(name string) DateValue {
	return parseDateValue(r.headers.Value(name))
}

func (r *request) ContentLength() IntValue {
	return r.IntHeader(header.ContentLength)
}

func (r *request) ContentType() string {
	v, _ := r.headers.Value(header.ContentType)
	return v
}

// Host is the Host header without its port, or the local address when the
// client sent no Host header.
func (r *request) Host() string {
	host, ok := r.headers.Value(header.Host)
	if !ok {
		return r.LocalAddr()
	}
	if strings.HasPrefix(host, "[") {
		if end := strings.IndexByte(host, ']'); end != -1 {
			return host[:end+1]
		}
	}
	if i := strings.IndexByte(host, ':'); i != -1 {
		return host[:i]
	}
	return host
}

func (r *request) Cookies() []Cookie {
	out := make([]Cookie, 0, len(r.cookies))
	for _, c := range r.cookies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *request) Cookie(name string) (Cookie, bool) { return r.cookies.Get(name) }

func (r *request) Parameter(name string) (string, bool) {
	v, ok := r.getParameters[name]
	return v, ok
}

func (r *request) PostParameter(name string) (string, bool) {
	v, ok := r.postParameters[name]
	return v, ok
}

// ParameterMap returns the body parameters for POST and PUT, compared case
// insensitively, and the query parameters for every other method.
func (r *request) ParameterMap() map[string]string {
	if types.HasBody(strings.ToUpper(r.Method())) {
		return r.postParameters
	}
	return r.getParameters
}

func (r *request) ParameterNames() []string {
	params := r.ParameterMap()
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParameterValues would return every value of an array parameter such as
// a[]=1&a[]=2. No encoding for those is defined, so it always fails.
func (r *request) ParameterValues(string) ([]string, error) {
	return nil, ErrNotImplemented
}

func (r *request) IsMultipart() bool             { return r.isMultipart }
func (r *request) UploadedFiles() []UploadedFile { return r.uploadedFiles }
func (r *request) InputStream() io.Reader        { return r.in }

// Reader would return the body decoded with CharacterEncoding. Only the raw
// stream is available.
func (r *request) Reader() (io.Reader, error) {
	return nil, ErrNotImplemented
}

func (r *request) CharacterEncoding() string       { return r.characterEncoding }
func (r *request) SetCharacterEncoding(enc string) { r.characterEncoding = enc }

// Locales negotiates Accept-Language. A missing or empty header is Absent,
// one the parser rejects is Invalid.
func (r *request) Locales() LocaleList {
	raw, ok := r.headers.Value(header.AcceptLanguage)
	if !ok || strings.TrimSpace(raw) == "" {
		return LocaleList{Presence: Absent}
	}

	tags, err := r.localeParser.Parse(raw)
	if err != nil || len(tags) == 0 {
		return LocaleList{Presence: Invalid}
	}
	return LocaleList{Tags: tags, Presence: Valid}
}

func (r *request) Locale() (language.Tag, bool) {
	l := r.Locales()
	if l.Presence != Valid {
		return language.Und, false
	}
	return l.Tags[0], true
}

func (r *request) Attribute(name string) any { return r.attributes[name] }

func (r *request) AttributeNames() []string {
	names := make([]string, 0, len(r.attributes))
	for k := range r.attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r *request) SetAttribute(name string, value any) { r.attributes[name] = value }
func (r *request) RemoveAttribute(name string)         { delete(r.attributes, name) }

func (r *request) RemoteAddr() string     { return r.remoteAddr }
func (r *request) RemoteHost() string     { return r.remoteHost }
func (r *request) RemotePort() int        { return r.remotePort }
func (r *request) LocalAddr() string      { return r.localAddr }
func (r *request) LocalName() string      { return r.localName }
func (r *request) LocalPort() int         { return r.localPort }
func (r *request) ServerName() string     { return r.serverName }
func (r *request) ServerPort() int        { return r.serverPort }
func (r *request) ContextPath() string    { return r.contextPath }
func (r *request) PathInfo() string       { return r.pathInfo }
func (r *request) PathTranslated() string { return r.pathTranslated }
