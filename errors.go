package environ

import (
	"fmt"
	"strings"
)

// ConversionError reports an environment value that could not be converted to
// the requested type. It wraps the underlying parser error.
type ConversionError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("environ: cannot convert %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that none of the requested keys is set. Only the
// Require variants produce it; a lookup that carries a default treats a
// missing key as the normal path.
type NotFoundError struct {
	Keys []string
}

func (e *NotFoundError) Error() string {
	if len(e.Keys) == 1 {
		return fmt.Sprintf("environ: %s is not set", e.Keys[0])
	}
	return fmt.Sprintf("environ: none of [%s] is set", strings.Join(e.Keys, ", "))
}

// Must panics when err is non-nil. It is meant for program init paths:
//
//	var dsn = environ.Must(environ.Require[string]("DATABASE_URL"))
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
