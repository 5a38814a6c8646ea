package servlet

// ResponseWriter is the write side handed to a Handler. Headers must be
// complete before the first Write or WriteHeader call.
type ResponseWriter interface {
	Headers() Headers
	WriteHeader(code int)
	Write(p []byte) (int, error)
}

type Handler interface {
	ServeHTTP(w ResponseWriter, r Request)
}

type HandlerFunc func(w ResponseWriter, r Request)

func (f HandlerFunc) ServeHTTP(w ResponseWriter, r Request) {
	f(w, r)
}
