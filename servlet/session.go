package servlet

import "embedhttp/session"

// SessionDirectory is the shared session store a request resolves its
// session against.
type SessionDirectory interface {
	Lookup(id string) (*session.Session, bool)
	Create() *session.Session
}

// SessionState tracks session resolution for one request.
//
//	NotRequested -> ResolvedNone | ResolvedBound   first Session call
//	ResolvedNone -> ResolvedBound                  Session(true) only
//	ResolvedBound is terminal
type SessionState uint8

const (
	NotRequested SessionState = iota
	ResolvedNone
	ResolvedBound
)

func (s SessionState) String() string {
	switch s {
	case NotRequested:
		return "not-requested"
	case ResolvedNone:
		return "resolved-none"
	case ResolvedBound:
		return "resolved-bound"
	default:
		return "unknown"
	}
}

// resolveSession runs the directory lookup the first time it is called and
// never again for this request.
func (r *request) resolveSession() {
	if r.sessionState != NotRequested {
		return
	}

	r.sessionState = ResolvedNone
	id, ok := r.RequestedSessionID()
	if !ok || r.directory == nil {
		return
	}
	if s, found := r.directory.Lookup(id); found && s != nil {
		r.session = s
		r.sessionState = ResolvedBound
	}
}

// Session returns the session bound to this request. The cookie lookup runs
// once per request; afterwards only create=true can bind a new session.
// A returned session has its last access time refreshed.
func (r *request) Session(create bool) *session.Session {
	r.resolveSession()

	if r.sessionState == ResolvedNone && create && r.directory != nil {
		r.session = r.directory.Create()
		r.sessionState = ResolvedBound
		r.sessionCreated = true
	}

	if r.session == nil {
		return nil
	}
	r.session.Touch(r.now())
	return r.session
}

func (r *request) SessionState() SessionState {
	return r.sessionState
}

func (r *request) CreatedSession() (*session.Session, bool) {
	if !r.sessionCreated {
		return nil, false
	}
	return r.session, true
}

func (r *request) RequestedSessionID() (string, bool) {
	c, ok := r.cookies.Get(session.CookieName)
	if !ok || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (r *request) IsRequestedSessionIDValid() bool {
	r.resolveSession()
	return r.sessionState == ResolvedBound && !r.sessionCreated
}

func (r *request) IsRequestedSessionIDFromCookie() bool { return true }

func (r *request) IsRequestedSessionIDFromURL() bool { return false }
