package uploader

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NullAsZero is an option that can be passed to NewUploader
//
// and determines whether absent/unparsable numeric and boolean values are converted to
// their zero value (0, decimal.Zero, false) rather than nil
type NullAsZero bool

// ValueConverter converts the raw string produced by a ValueProvider into the typed value
// for a field of the given Kind
type ValueConverter struct {
	NullAsZero bool
}

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Convert converts the raw string to a typed value for the kind
//
// Text values are trimmed. Values that are empty or cannot be parsed resolve to nil (or, for numeric
// and boolean kinds with NullAsZero set, the zero value)
func (c ValueConverter) Convert(kind Kind, raw string) any {
	s := strings.TrimSpace(raw)
	switch kind {
	case KindText:
		return s
	case KindInteger:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
		return c.null(kind)
	case KindDecimal:
		if v, ok := parseDecimal(s); ok {
			return v
		}
		return c.null(kind)
	case KindBoolean:
		if v, ok := ParseBool(s); ok {
			return v
		}
		return c.null(kind)
	case KindDate:
		if t, err := time.Parse(dateLayout, s); err == nil {
			return t
		}
	case KindTimestamp:
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		} else if t, err = time.Parse(timestampLayout, s); err == nil {
			return t
		}
	}
	return nil
}

func (c ValueConverter) null(kind Kind) any {
	if !c.NullAsZero {
		return nil
	}
	switch kind {
	case KindInteger:
		return int64(0)
	case KindDecimal:
		return decimal.Zero
	case KindBoolean:
		return false
	}
	return nil
}

// ParseBool parses "true"/"1" as true and "false"/"0" as false (case-insensitive, surrounding whitespace ignored)
//
// second return arg is false for anything else
func ParseBool(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	if len(s) > 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(s)
	return v, err == nil
}
