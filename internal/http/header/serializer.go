package header

import "strings"

const (
	newLine           = "\r\n"
	keyValueSeparator = ": "
)

// Serialize renders every header as "Name: Value\r\n" in insertion order and
// closes the block with one empty line.
func Serialize(h Headers) string {
	var sb strings.Builder
	sb.Grow(serializedSize(h))
	for _, name := range h.Names() {
		value, _ := h.Value(name)
		sb.WriteString(name)
		sb.WriteString(keyValueSeparator)
		sb.WriteString(value)
		sb.WriteString(newLine)
	}
	sb.WriteString(newLine)
	return sb.String()
}

// Finalize prefixes the serialized header block with a start line.
func Finalize(startLine []byte, h Headers) []byte {
	size := len(startLine) + 2 + serializedSize(h)

	buf := make([]byte, 0, size)
	buf = append(buf, startLine...)
	buf = append(buf, '\r', '\n')
	buf = append(buf, Serialize(h)...)
	return buf
}

func serializedSize(h Headers) int {
	size := 2
	for _, name := range h.Names() {
		value, _ := h.Value(name)
		size += len(name) + 2 + len(value) + 2
	}
	return size
}
