package header

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"

	"embedhttp/internal/http/status"

	"golang.org/x/net/http/httpguts"
)

var ErrTooManyHeaders = errors.New("too many header lines")

const maxHeaderLines = 128

// ReadHead reads the request line and header block from br, leaving br
// positioned at the first body byte.
func ReadHead(br *bufio.Reader) (status.Status, Headers, error) {
	startLine, err := br.ReadSlice('\n')
	if err != nil {
		return status.Status{}, nil, err
	}

	st, err := status.Parse(string(bytes.TrimRight(startLine, "\r\n")))
	if err != nil {
		return status.Status{}, nil, err
	}

	h := New()
	var last string
	for lines := 0; ; lines++ {
		if lines > maxHeaderLines {
			return status.Status{}, nil, ErrTooManyHeaders
		}

		lineBytes, err := br.ReadSlice('\n')
		if err != nil {
			return status.Status{}, nil, err
		}

		lineBytes = bytes.TrimRight(lineBytes, "\r\n")
		if len(lineBytes) == 0 {
			break
		}

		last = setLine(h, lineBytes, last)
	}

	return st, h, nil
}

// setLine stores one raw header line and returns the name it was stored
// under. A line starting with SP or HTAB continues the previous header.
func setLine(h Headers, line []byte, last string) string {
	if line[0] == ' ' || line[0] == '\t' {
		if last == "" {
			return last
		}
		prev, _ := h.Value(last)
		h.Set(last, joinFolded(prev, string(bytes.TrimSpace(line))))
		return last
	}

	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return ""
	}

	key := string(bytes.TrimSpace(line[:colonIdx]))
	value := string(bytes.TrimSpace(line[colonIdx+1:]))
	if !httpguts.ValidHeaderFieldName(key) || !httpguts.ValidHeaderFieldValue(value) {
		return ""
	}

	h.Set(key, value)
	return key
}

func joinFolded(prev, next string) string {
	switch {
	case next == "":
		return prev
	case prev == "":
		return next
	default:
		return fmt.Sprintf("%s %s", prev, next)
	}
}
