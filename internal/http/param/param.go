package param

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrArrayParameter marks "a[]=1" style keys, which have no defined
	// multi-value encoding here.
	ErrArrayParameter = fmt.Errorf("array parameters: %w", errors.ErrUnsupported)
	ErrMalformed      = errors.New("malformed parameter string")
)

// Parse decodes an application/x-www-form-urlencoded string into a single
// valued map. A repeated plain key keeps its last value.
func Parse(raw string) (map[string]string, error) {
	params := make(map[string]string)
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}

		rawKey, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrMalformed, rawKey, err)
		}
		if err := CheckKey(key); err != nil {
			return nil, err
		}

		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("%w: value of %q: %v", ErrMalformed, key, err)
		}
		params[key] = value
	}
	return params, nil
}

// CheckKey rejects array style keys such as "a[]" or "user[name]".
func CheckKey(key string) error {
	if strings.Contains(key, "[") && strings.HasSuffix(key, "]") {
		return fmt.Errorf("%w: %q", ErrArrayParameter, key)
	}
	return nil
}
