package servlet

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Presence tells apart a header the client never sent from one it sent
// with an unusable value.
type Presence uint8

const (
	Absent Presence = iota
	Invalid
	Valid
)

func (p Presence) String() string {
	switch p {
	case Absent:
		return "absent"
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

// IntValue is an integer header lookup result.
type IntValue struct {
	Value    int
	Presence Presence
}

// Sentinel maps the result to the classic servlet encoding: -1 absent,
// 0 invalid, the parsed value otherwise.
func (v IntValue) Sentinel() int {
	switch v.Presence {
	case Valid:
		return v.Value
	case Invalid:
		return 0
	default:
		return -1
	}
}

// DateValue is a date header lookup result.
type DateValue struct {
	Time     time.Time
	Presence Presence
}

// Sentinel maps the result to epoch milliseconds, or -1 when the header is
// absent or unparseable.
func (v DateValue) Sentinel() int64 {
	if v.Presence != Valid {
		return -1
	}
	return v.Time.UnixMilli()
}

// LocaleList is the negotiated Accept-Language result. Tags is only set
// when Presence is Valid.
type LocaleList struct {
	Tags     []language.Tag
	Presence Presence
}

func parseIntValue(raw string, ok bool) IntValue {
	if !ok {
		return IntValue{Presence: Absent}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return IntValue{Presence: Invalid}
	}
	return IntValue{Value: n, Presence: Valid}
}

const httpDateLayout = "Mon, 2 Jan 2006 15:04:05"

// parseHTTPDate reads "<day-name>, <day> <month> <year> <hh>:<mm>:<ss> <tz>".
// The zone token must be present but its text is ignored: the wall clock is
// always taken as GMT.
func parseHTTPDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	i := strings.LastIndexByte(raw, ' ')
	if i <= 0 {
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(httpDateLayout, strings.TrimSpace(raw[:i]), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseDateValue(raw string, ok bool) DateValue {
	if !ok {
		return DateValue{Presence: Absent}
	}
	t, valid := parseHTTPDate(raw)
	if !valid {
		return DateValue{Presence: Invalid}
	}
	return DateValue{Time: t, Presence: Valid}
}
