package servlet

import (
	"bytes"
	"errors"
	"io"
	"time"

	"embedhttp/internal/http/cookie"
	"embedhttp/internal/http/header"
	"embedhttp/internal/http/multipart"
	"embedhttp/internal/http/status"
	"embedhttp/internal/locale"
	"embedhttp/types"
)

var ErrMissingStatus = errors.New("servlet: request built without a status line")

// Builder assembles a Request. It is used by the connection layer only and
// becomes unusable after Build.
type Builder struct {
	req *request
}

func NewBuilder() *Builder {
	return &Builder{req: &request{
		headers:           header.New(),
		cookies:           make(cookie.Jar),
		getParameters:     make(map[string]string),
		postParameters:    make(map[string]string),
		in:                bytes.NewReader(nil),
		attributes:        make(map[string]any),
		characterEncoding: types.DefaultCharacterEncoding,
		localeParser:      locale.New(),
		now:               time.Now,
		scheme:            types.SchemeHTTP,
	}}
}

func (b *Builder) target() *request {
	if b.req == nil {
		panic("servlet: Builder used after Build")
	}
	return b.req
}

func (b *Builder) SetStatus(st status.Status) *Builder {
	b.target().status = st
	return b
}

func (b *Builder) SetHeaders(h header.Headers) *Builder {
	if h == nil {
		h = header.New()
	}
	b.target().headers = h
	return b
}

func (b *Builder) SetCookies(jar cookie.Jar) *Builder {
	if jar == nil {
		jar = make(cookie.Jar)
	}
	b.target().cookies = jar
	return b
}

func (b *Builder) SetGetParameters(params map[string]string) *Builder {
	if params == nil {
		params = make(map[string]string)
	}
	b.target().getParameters = params
	return b
}

func (b *Builder) SetPostParameters(params map[string]string) *Builder {
	if params == nil {
		params = make(map[string]string)
	}
	b.target().postParameters = params
	return b
}

func (b *Builder) SetUploadedFiles(files []multipart.UploadedFile) *Builder {
	b.target().uploadedFiles = files
	return b
}

func (b *Builder) SetMultipart(multipart bool) *Builder {
	b.target().isMultipart = multipart
	return b
}

func (b *Builder) SetInputStream(in io.Reader) *Builder {
	if in == nil {
		in = bytes.NewReader(nil)
	}
	b.target().in = in
	return b
}

func (b *Builder) SetSessionDirectory(d SessionDirectory) *Builder {
	b.target().directory = d
	return b
}

func (b *Builder) SetLocaleParser(p locale.Parser) *Builder {
	if p == nil {
		p = locale.New()
	}
	b.target().localeParser = p
	return b
}

func (b *Builder) SetClock(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	b.target().now = now
	return b
}

func (b *Builder) SetScheme(scheme string) *Builder {
	b.target().scheme = scheme
	return b
}

func (b *Builder) SetSecure(secure bool) *Builder {
	b.target().secure = secure
	return b
}

func (b *Builder) SetRemoteAddr(addr string) *Builder {
	b.target().remoteAddr = addr
	return b
}

func (b *Builder) SetRemoteHost(host string) *Builder {
	b.target().remoteHost = host
	return b
}

func (b *Builder) SetRemotePort(port int) *Builder {
	b.target().remotePort = port
	return b
}

func (b *Builder) SetLocalAddr(addr string) *Builder {
	b.target().localAddr = addr
	return b
}

func (b *Builder) SetLocalName(name string) *Builder {
	b.target().localName = name
	return b
}

func (b *Builder) SetLocalPort(port int) *Builder {
	b.target().localPort = port
	return b
}

func (b *Builder) SetServerName(name string) *Builder {
	b.target().serverName = name
	return b
}

func (b *Builder) SetServerPort(port int) *Builder {
	b.target().serverPort = port
	return b
}

func (b *Builder) SetContextPath(path string) *Builder {
	b.target().contextPath = path
	return b
}

func (b *Builder) SetPathInfo(path string) *Builder {
	b.target().pathInfo = path
	return b
}

func (b *Builder) SetPathTranslated(path string) *Builder {
	b.target().pathTranslated = path
	return b
}

// Headers exposes the header store under construction so middleware can
// adjust it before Build.
func (b *Builder) Headers() header.Headers {
	return b.target().headers
}

func (b *Builder) RemoteAddr() string {
	return b.target().remoteAddr
}

// Build hands the assembled request over. The builder must not be used
// afterwards.
func (b *Builder) Build() (Request, error) {
	req := b.target()
	if req.status.Method() == "" {
		return nil, ErrMissingStatus
	}
	b.req = nil
	return req, nil
}
