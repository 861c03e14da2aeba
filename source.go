package environ

import (
	"os"

	"github.com/joho/godotenv"
)

// Source supplies raw environment values. The process environment is the
// default; alternate sources exist for tests and dotenv files.
type Source interface {
	Lookup(key string) (value string, ok bool)
}

type osSource struct{}

func (osSource) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// OS returns the Source backed by the process environment.
func OS() Source {
	return osSource{}
}

// MapSource is an in-memory Source, mostly useful as a test double.
type MapSource map[string]string

func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// File reads a dotenv file into a MapSource. The process environment is left
// untouched.
func File(path string) (MapSource, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	return MapSource(values), nil
}
