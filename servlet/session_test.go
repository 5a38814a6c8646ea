package servlet

import (
	"testing"
	"time"

	"embedhttp/internal/http/cookie"
	"embedhttp/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Lookup(id string) (*session.Session, bool) {
	args := m.Called(id)
	s, _ := args.Get(0).(*session.Session)
	return s, args.Bool(1)
}

func (m *mockDirectory) Create() *session.Session {
	s, _ := m.Called().Get(0).(*session.Session)
	return s
}

func sessionRequest(t *testing.T, dir SessionDirectory, cookieHeader string, now time.Time) Request {
	t.Helper()
	return buildRequest(t, "GET", func(b *Builder) {
		b.SetCookies(cookie.Parse(cookieHeader)).
			SetSessionDirectory(dir).
			SetClock(func() time.Time { return now })
	})
}

func TestSessionLookupRunsOnce(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := session.NewDirectory(session.WithClock(func() time.Time { return start }))
	existing := store.Create()

	dir := new(mockDirectory)
	dir.On("Lookup", existing.ID()).Return(existing, true).Once()

	req := sessionRequest(t, dir, "JSESSIONID="+existing.ID(), start.Add(time.Minute))
	assert.Equal(t, NotRequested, req.SessionState())

	for i := 0; i < 3; i++ {
		s := req.Session(false)
		assert.Same(t, existing, s)
	}
	assert.Same(t, existing, req.Session(true))

	assert.Equal(t, ResolvedBound, req.SessionState())
	assert.True(t, req.IsRequestedSessionIDValid())
	assert.Equal(t, start.Add(time.Minute), existing.LastAccessedTime())

	_, created := req.CreatedSession()
	assert.False(t, created)

	dir.AssertNumberOfCalls(t, "Lookup", 1)
	dir.AssertNotCalled(t, "Create")
}

func TestSessionUnknownIDWithoutCreate(t *testing.T) {
	dir := new(mockDirectory)
	dir.On("Lookup", "stale").Return(nil, false).Once()

	req := sessionRequest(t, dir, "JSESSIONID=stale", time.Now())

	assert.Nil(t, req.Session(false))
	assert.Nil(t, req.Session(false))
	assert.Equal(t, ResolvedNone, req.SessionState())
	assert.False(t, req.IsRequestedSessionIDValid())

	id, ok := req.RequestedSessionID()
	assert.True(t, ok)
	assert.Equal(t, "stale", id)

	dir.AssertNumberOfCalls(t, "Lookup", 1)
	dir.AssertNotCalled(t, "Create")
}

func TestSessionCreate(t *testing.T) {
	store := session.NewDirectory()
	fresh := store.Create()

	dir := new(mockDirectory)
	dir.On("Create").Return(fresh).Once()

	req := sessionRequest(t, dir, "", time.Now())

	assert.Nil(t, req.Session(false))
	assert.Equal(t, ResolvedNone, req.SessionState())

	s := req.Session(true)
	require.NotNil(t, s)
	assert.Same(t, fresh, s)
	assert.Same(t, fresh, req.Session(true))
	assert.Same(t, fresh, req.Session(false))
	assert.Equal(t, ResolvedBound, req.SessionState())

	created, ok := req.CreatedSession()
	assert.True(t, ok)
	assert.Same(t, fresh, created)

	_, requested := req.RequestedSessionID()
	assert.False(t, requested)
	assert.False(t, req.IsRequestedSessionIDValid())

	dir.AssertNotCalled(t, "Lookup", mock.Anything)
	dir.AssertNumberOfCalls(t, "Create", 1)
}

func TestSessionEmptyCookieIsAbsent(t *testing.T) {
	dir := new(mockDirectory)
	req := sessionRequest(t, dir, "JSESSIONID=", time.Now())

	_, ok := req.RequestedSessionID()
	assert.False(t, ok)
	assert.Nil(t, req.Session(false))
	dir.AssertNotCalled(t, "Lookup", mock.Anything)
}

func TestSessionWithoutDirectory(t *testing.T) {
	req := sessionRequest(t, nil, "JSESSIONID=abc", time.Now())

	assert.Nil(t, req.Session(true))
	assert.Equal(t, ResolvedNone, req.SessionState())
}

func TestSessionAgainstDirectory(t *testing.T) {
	dir := session.NewDirectory()

	first := buildRequest(t, "GET", func(b *Builder) { b.SetSessionDirectory(dir) })
	s := first.Session(true)
	require.NotNil(t, s)
	s.SetAttribute("user", "ala")

	second := sessionRequest(t, dir, "JSESSIONID="+s.ID(), time.Now())
	got := second.Session(false)
	require.NotNil(t, got)
	assert.Equal(t, "ala", got.Attribute("user"))
	assert.True(t, second.IsRequestedSessionIDValid())

	s.Invalidate()
	third := sessionRequest(t, dir, "JSESSIONID="+s.ID(), time.Now())
	assert.Nil(t, third.Session(false))
	assert.False(t, third.IsRequestedSessionIDValid())
}

func TestSessionIDSource(t *testing.T) {
	req := buildRequest(t, "GET", nil)
	assert.True(t, req.IsRequestedSessionIDFromCookie())
	assert.False(t, req.IsRequestedSessionIDFromURL())
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "not-requested", NotRequested.String())
	assert.Equal(t, "resolved-none", ResolvedNone.String())
	assert.Equal(t, "resolved-bound", ResolvedBound.String())
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "valid", Valid.String())
}
