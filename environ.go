// Package environ reads typed values from the process environment.
//
// The core operation looks up the first of one or more keys, converts the
// raw string to the requested type, and falls back to a caller-supplied
// default when no key is set. The environment is only ever read.
//
//	listenAddr := environ.Get(":8080", "LISTEN_ADDR")
//	workers := environ.Get(4, "WORKER_COUNT")
//	timeout, err := environ.Parse(5*time.Second, "REQUEST_TIMEOUT")
//
// Every getter has an In variant taking an explicit Source so tests can run
// against a MapSource instead of mutating the real environment.
package environ

import "sync/atomic"

var strictMode atomic.Bool

// SetStrict toggles process-wide strict mode. When strict, Get panics with
// the *ConversionError on a value that fails to parse instead of falling
// back to the default. Parse and Require are unaffected; they always report
// the error.
func SetStrict(strict bool) {
	strictMode.Store(strict)
}

func lookupIn(src Source, keys []string) (key, value string, ok bool) {
	for _, k := range keys {
		if v, found := src.Lookup(k); found {
			return k, v, true
		}
	}
	return "", "", false
}

// Lookup returns the raw value of the first key set in the process
// environment.
func Lookup(keys ...string) (string, bool) {
	return LookupIn(OS(), keys...)
}

// LookupIn is Lookup against an explicit Source.
func LookupIn(src Source, keys ...string) (string, bool) {
	_, v, ok := lookupIn(src, keys)
	return v, ok
}

// Get returns the value of the first key set in the process environment
// parsed as T, or def when no key is set. The default is returned exactly as
// given, never parsed. A value that fails to parse also yields def, unless
// strict mode is on (see SetStrict).
func Get[T Parsable](def T, keys ...string) T {
	return GetIn(OS(), def, keys...)
}

// GetIn is Get against an explicit Source.
func GetIn[T Parsable](src Source, def T, keys ...string) T {
	v, err := ParseIn(src, def, keys...)
	if err != nil {
		if strictMode.Load() {
			panic(err)
		}
		return def
	}
	return v
}

// Parse is like Get but surfaces conversion failures: a value that fails to
// parse yields def alongside a *ConversionError. A missing key is not an
// error; def is returned.
func Parse[T Parsable](def T, keys ...string) (T, error) {
	return ParseIn(OS(), def, keys...)
}

// ParseIn is Parse against an explicit Source.
func ParseIn[T Parsable](src Source, def T, keys ...string) (T, error) {
	key, raw, ok := lookupIn(src, keys)
	if !ok {
		return def, nil
	}
	v, err := parseAs[T](raw)
	if err != nil {
		return def, &ConversionError{Key: key, Value: raw, Err: err}
	}
	return v, nil
}

// Require returns the value of the first key set in the process environment
// parsed as T. When no key is set it returns a *NotFoundError; a value that
// fails to parse returns a *ConversionError.
func Require[T Parsable](keys ...string) (T, error) {
	return RequireIn[T](OS(), keys...)
}

// RequireIn is Require against an explicit Source.
func RequireIn[T Parsable](src Source, keys ...string) (T, error) {
	var zero T
	key, raw, ok := lookupIn(src, keys)
	if !ok {
		return zero, &NotFoundError{Keys: keys}
	}
	v, err := parseAs[T](raw)
	if err != nil {
		return zero, &ConversionError{Key: key, Value: raw, Err: err}
	}
	return v, nil
}

// ParseFunc converts a raw environment string to T.
type ParseFunc[T any] func(string) (T, error)

// GetFunc is Get with a caller-supplied conversion function, for types
// outside Parsable. A missing key yields def with a nil error; a conversion
// failure yields def alongside a *ConversionError wrapping the parse error.
func GetFunc[T any](parse ParseFunc[T], def T, keys ...string) (T, error) {
	return GetFuncIn(OS(), parse, def, keys...)
}

// GetFuncIn is GetFunc against an explicit Source.
func GetFuncIn[T any](src Source, parse ParseFunc[T], def T, keys ...string) (T, error) {
	key, raw, ok := lookupIn(src, keys)
	if !ok {
		return def, nil
	}
	v, err := parse(raw)
	if err != nil {
		return def, &ConversionError{Key: key, Value: raw, Err: err}
	}
	return v, nil
}
