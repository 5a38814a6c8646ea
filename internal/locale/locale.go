package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

var ErrMalformed = errors.New("malformed Accept-Language value")

// Parser turns an Accept-Language value into locales ordered by preference.
type Parser interface {
	Parse(value string) ([]language.Tag, error)
}

type parser struct{}

func New() Parser {
	return parser{}
}

// Parse orders tags by descending quality, keeping header order for equal
// weights. Entries with q=0 are dropped.
func (parser) Parse(value string) ([]language.Tag, error) {
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}

	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no acceptable language in %q", ErrMalformed, value)
	}
	return tags, nil
}
