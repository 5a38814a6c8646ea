package random

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Random produces session identifiers.
type Random interface {
	ID() (string, error)
}

type random struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

func New() Random {
	return newWithReader(rand.Reader)
}

func newWithReader(reader io.Reader) *random {
	return &random{
		entropy: ulid.Monotonic(reader, 0),
		now:     time.Now,
	}
}

// ID returns a lower-case ULID. IDs generated within the same millisecond
// are strictly increasing.
func (ran *random) ID() (string, error) {
	ran.mu.Lock()
	defer ran.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(ran.now()), ran.entropy)
	if err != nil {
		return "", err
	}
	return strings.ToLower(id.String()), nil
}
