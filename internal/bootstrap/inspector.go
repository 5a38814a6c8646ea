package bootstrap

import (
	"fmt"
	"net/http"
	"strings"

	"embedhttp/servlet"
)

const visitsAttribute = "visits"

// NewInspector returns a handler that echoes what the server understood of
// the request as plain text. Every call binds a session and counts visits.
func NewInspector() servlet.Handler {
	return servlet.HandlerFunc(inspect)
}

func inspect(w servlet.ResponseWriter, r servlet.Request) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s %s\n", r.Method(), r.RequestURL(), r.Protocol())
	fmt.Fprintf(&sb, "remote: %s:%d\n", r.RemoteAddr(), r.RemotePort())

	sb.WriteString("\nheaders:\n")
	for _, name := range r.HeaderNames() {
		v, _ := r.Header(name)
		fmt.Fprintf(&sb, "  %s: %s\n", name, v)
	}

	if l := r.ContentLength(); l.Presence != servlet.Absent {
		fmt.Fprintf(&sb, "content-length: %d\n", l.Sentinel())
	}
	if d := r.DateHeader("If-Modified-Since"); d.Presence != servlet.Absent {
		fmt.Fprintf(&sb, "if-modified-since: %d (%s)\n", d.Sentinel(), d.Presence)
	}

	switch tag, ok := r.Locale(); {
	case ok:
		fmt.Fprintf(&sb, "locale: %s\n", tag)
	default:
		fmt.Fprintf(&sb, "locale: %s\n", r.Locales().Presence)
	}

	if cookies := r.Cookies(); len(cookies) > 0 {
		sb.WriteString("\ncookies:\n")
		for _, c := range cookies {
			fmt.Fprintf(&sb, "  %s=%s\n", c.Name, c.Value)
		}
	}

	if names := r.ParameterNames(); len(names) > 0 {
		params := r.ParameterMap()
		sb.WriteString("\nparameters:\n")
		for _, name := range names {
			fmt.Fprintf(&sb, "  %s=%s\n", name, params[name])
		}
	}

	for _, f := range r.UploadedFiles() {
		fmt.Fprintf(&sb, "upload: %s %q (%d bytes)\n", f.FieldName, f.FileName, f.Size)
	}

	if s := r.Session(true); s != nil {
		visits, _ := s.Attribute(visitsAttribute).(int)
		visits++
		s.SetAttribute(visitsAttribute, visits)
		fmt.Fprintf(&sb, "\nsession: %s (%s, visits: %d)\n", s.ID(), r.SessionState(), visits)
	}

	w.Headers().Set("Content-Type", "text/plain; charset="+r.CharacterEncoding())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sb.String()))
}
