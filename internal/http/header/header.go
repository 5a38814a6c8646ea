package header

import "strings"

const (
	AcceptLanguage   = "Accept-Language"
	Connection       = "Connection"
	ContentLength    = "Content-Length"
	ContentType      = "Content-Type"
	Cookie           = "Cookie"
	Host             = "Host"
	Server           = "Server"
	SetCookie        = "Set-Cookie"
	TransferEncoding = "Transfer-Encoding"
	XForwardedFor    = "X-Forwarded-For"
)

// Headers is an ordered, case-insensitive header map holding one value per
// name. A repeated Set replaces the value but keeps the entry's position and
// the casing it was first stored with.
type Headers interface {
	Set(name string, value string)
	Value(name string) (string, bool)
	Contains(name string) bool
	Remove(name string)
	Names() []string
	Len() int
	Clone() Headers
}

type entry struct {
	name  string
	value string
}

type headers struct {
	entries []entry
	index   map[string]int
}

func New() Headers {
	return &headers{
		entries: make([]entry, 0, 16),
		index:   make(map[string]int, 16),
	}
}

func normalize(name string) string {
	return strings.ToLower(name)
}

func (h *headers) Set(name string, value string) {
	key := normalize(name)
	if i, ok := h.index[key]; ok {
		h.entries[i].value = value
		return
	}
	h.index[key] = len(h.entries)
	h.entries = append(h.entries, entry{name: name, value: value})
}

func (h *headers) Value(name string) (string, bool) {
	i, ok := h.index[normalize(name)]
	if !ok {
		return "", false
	}
	return h.entries[i].value, true
}

func (h *headers) Contains(name string) bool {
	_, ok := h.index[normalize(name)]
	return ok
}

func (h *headers) Remove(name string) {
	key := normalize(name)
	i, ok := h.index[key]
	if !ok {
		return
	}

	h.entries = append(h.entries[:i], h.entries[i+1:]...)
	delete(h.index, key)
	for j := i; j < len(h.entries); j++ {
		h.index[normalize(h.entries[j].name)] = j
	}
}

func (h *headers) Names() []string {
	names := make([]string, len(h.entries))
	for i, e := range h.entries {
		names[i] = e.name
	}
	return names
}

func (h *headers) Len() int {
	return len(h.entries)
}

func (h *headers) Clone() Headers {
	c := &headers{
		entries: make([]entry, len(h.entries)),
		index:   make(map[string]int, len(h.index)),
	}
	copy(c.entries, h.entries)
	for k, v := range h.index {
		c.index[k] = v
	}
	return c
}
