package environ

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultTimestampLayout = time.RFC3339

// Parsable lists the types Get, Parse and Require know how to build from a
// raw environment string. Anything else goes through GetFunc with a custom
// ParseFunc.
type Parsable interface {
	string | []string | int | []int | int64 | []int64 | float64 | bool |
		time.Duration | []time.Duration | time.Time |
		decimal.Decimal | []decimal.Decimal | uuid.UUID
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	v := make([]string, 0, len(parts))
	for _, p := range parts {
		v = append(v, strings.TrimSpace(p))
	}
	return v
}

func parseSlice[T any](s string, f func(string) (T, error)) ([]T, error) {
	parts := splitList(s)
	v := make([]T, 0, len(parts))
	for _, p := range parts {
		v2, err := f(p)
		if err != nil {
			return nil, err
		}
		v = append(v, v2)
	}
	return v, nil
}

// ParseBool converts the common textual spellings of a boolean. It accepts
// T/Y/1/True/true/TRUE/Yes/yes/YES as true and F/N/0/False/false/FALSE/No/no/NO
// as false. The empty string is false.
func ParseBool(s string) (bool, error) {
	switch s {
	case "T", "Y", "1", "True", "true", "TRUE", "Yes", "yes", "YES":
		return true, nil
	case "F", "N", "0", "False", "false", "FALSE", "No", "no", "NO", "":
		return false, nil
	}
	return false, fmt.Errorf("cannot parse %q as a bool", s)
}

// parseAs converts the raw string to T. Slices split on commas with
// surrounding whitespace trimmed.
func parseAs[T Parsable](s string) (T, error) {
	s = strings.Trim(s, `"`) // in case something comes in as if it were a json string

	var zero T
	var v any
	var err error
	switch any(zero).(type) {
	case string:
		v = s
	case []string:
		v = splitList(s)
	case int:
		v, err = strconv.Atoi(s)
	case []int:
		v, err = parseSlice(s, strconv.Atoi)
	case int64:
		v, err = strconv.ParseInt(s, 0, 64)
	case []int64:
		v, err = parseSlice(s, func(s2 string) (int64, error) {
			return strconv.ParseInt(s2, 0, 64)
		})
	case float64:
		v, err = strconv.ParseFloat(s, 64)
	case bool:
		v, err = ParseBool(s)
	case time.Duration:
		v, err = time.ParseDuration(s)
	case []time.Duration:
		v, err = parseSlice(s, time.ParseDuration)
	case time.Time:
		v, err = time.Parse(defaultTimestampLayout, s)
	case decimal.Decimal:
		v, err = decimal.NewFromString(s)
	case []decimal.Decimal:
		v, err = parseSlice(s, decimal.NewFromString)
	case uuid.UUID:
		v, err = uuid.Parse(s)
	default:
		panic("parseAs got a type we can't handle")
	}
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
