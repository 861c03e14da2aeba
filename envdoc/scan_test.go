package envdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSrc = `package main

import (
	"time"

	"github.com/scheerer/environ"
)

// Address the HTTP server listens on.
// envdoc:section HTTP Server
var listenAddr = environ.Get(":8080", "LISTEN_ADDR")

// Database connection string.
var dsn = environ.Must(environ.Require[string]("DATABASE_URL"))

// Worker pool size.
var workers = environ.Get(4, "WORKER_COUNT", "WORKERS")

// How long to wait for upstream responses.
// envdoc:section HTTP Server
var timeout = environ.Get(5*time.Second, "REQUEST_TIMEOUT")

var debug = environ.Get(false, "DEBUG")
`

func scanSample(t *testing.T) []Var {
	t.Helper()
	s := NewScanner()
	require.NoError(t, s.ScanSource("sample.go", []byte(sampleSrc)))
	return s.Vars()
}

func TestScanFindsAllVariables(t *testing.T) {
	vars := scanSample(t)

	names := make([]string, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"DATABASE_URL", "DEBUG", "LISTEN_ADDR", "REQUEST_TIMEOUT", "WORKER_COUNT"}, names)
}

func TestScanVariableDetails(t *testing.T) {
	vars := scanSample(t)
	byName := make(map[string]Var, len(vars))
	for _, v := range vars {
		byName[v.Name] = v
	}

	tests := []struct {
		name string
		want Var
	}{
		{
			name: "LISTEN_ADDR",
			want: Var{
				Name:    "LISTEN_ADDR",
				Doc:     "Address the HTTP server listens on.",
				Default: ":8080",
				Type:    "string",
				Section: "HTTP Server",
			},
		},
		{
			name: "DATABASE_URL",
			want: Var{
				Name:     "DATABASE_URL",
				Doc:      "Database connection string.",
				Type:     "string",
				Required: true,
			},
		},
		{
			name: "WORKER_COUNT",
			want: Var{
				Name:    "WORKER_COUNT",
				Aliases: []string{"WORKERS"},
				Doc:     "Worker pool size.",
				Default: "4",
				Type:    "int",
			},
		},
		{
			name: "REQUEST_TIMEOUT",
			want: Var{
				Name:    "REQUEST_TIMEOUT",
				Doc:     "How long to wait for upstream responses.",
				Default: "5 * time.Second",
				Type:    "time.Duration",
				Section: "HTTP Server",
			},
		},
		{
			name: "DEBUG",
			want: Var{
				Name:    "DEBUG",
				Default: "false",
				Type:    "bool",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := byName[tt.name]
			require.True(t, ok)
			tt.want.File = "sample.go"
			tt.want.Line = got.Line // positions checked separately
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanDocDirectivesOverrideInference(t *testing.T) {
	src := `package main

import "github.com/scheerer/environ"

// Upstream endpoints.
// envdoc:type []string
// envdoc:default localhost:9200
var endpoints = environ.Get(defaultEndpoints, "ENDPOINTS")
`
	s := NewScanner()
	require.NoError(t, s.ScanSource("endpoints.go", []byte(src)))

	vars := s.Vars()
	require.Len(t, vars, 1)
	assert.Equal(t, "Upstream endpoints.", vars[0].Doc)
	assert.Equal(t, "[]string", vars[0].Type)
	assert.Equal(t, "localhost:9200", vars[0].Default)
}

func TestScanDefaultDirectiveMakesOptional(t *testing.T) {
	src := `package main

import "github.com/scheerer/environ"

// Database connection string.
// envdoc:default postgres://localhost/app
// envdoc:section Database
var dsn = environ.Must(environ.Require[string]("DATABASE_URL"))
`
	s := NewScanner()
	require.NoError(t, s.ScanSource("dsn.go", []byte(src)))

	vars := s.Vars()
	require.Len(t, vars, 1)
	assert.False(t, vars[0].Required)
	assert.Equal(t, "postgres://localhost/app", vars[0].Default)
	assert.Equal(t, "Database", vars[0].Section)

	out := Render(vars, RenderOptions{})
	assert.Contains(t, out, "## Database")
	assert.NotContains(t, out, "## REQUIRED")
	assert.Contains(t, out, "**default**: `postgres://localhost/app` _(string)_")
}

func TestScanIgnoresTrailingCommentAbove(t *testing.T) {
	src := `package main

import "github.com/scheerer/environ"

var retries = 3 // tuned by hand
var addr = environ.Get(":8080", "LISTEN_ADDR")
`
	s := NewScanner()
	require.NoError(t, s.ScanSource("trailing.go", []byte(src)))

	vars := s.Vars()
	require.Len(t, vars, 1)
	assert.Equal(t, "LISTEN_ADDR", vars[0].Name)
	assert.Equal(t, "", vars[0].Doc)
}

func TestScanRecognizesKnownParseFuncs(t *testing.T) {
	src := `package main

import "github.com/scheerer/environ"

var verbose, _ = environ.GetFunc(environ.ParseBool, defaultVerbose, "VERBOSE")
`
	s := NewScanner()
	require.NoError(t, s.ScanSource("verbose.go", []byte(src)))

	vars := s.Vars()
	require.Len(t, vars, 1)
	assert.Equal(t, "VERBOSE", vars[0].Name)
	assert.Equal(t, "bool", vars[0].Type)
	assert.Equal(t, "defaultVerbose", vars[0].Default)
}

func TestScanInVariantsSkipSourceArgument(t *testing.T) {
	src := `package main

import "github.com/scheerer/environ"

var region = environ.GetIn(src, "us-east-1", "AWS_REGION")
var token, _ = environ.RequireIn[string](src, "API_TOKEN")
`
	s := NewScanner()
	require.NoError(t, s.ScanSource("in.go", []byte(src)))

	vars := s.Vars()
	require.Len(t, vars, 2)
	assert.Equal(t, "API_TOKEN", vars[0].Name)
	assert.True(t, vars[0].Required)
	assert.Equal(t, "AWS_REGION", vars[1].Name)
	assert.Equal(t, "us-east-1", vars[1].Default)
}

func TestScanDuplicateKeyIsAnError(t *testing.T) {
	s := NewScanner()
	require.NoError(t, s.ScanSource("a.go", []byte(sampleSrc)))

	err := s.ScanSource("b.go", []byte(`package other

import "github.com/scheerer/environ"

var addr = environ.Get(":9090", "LISTEN_ADDR")
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate environ call for LISTEN_ADDR")
	assert.Contains(t, err.Error(), "b.go:5")
}

func TestScanIgnoresNonLiteralKeys(t *testing.T) {
	src := `package main

import "github.com/scheerer/environ"

var addr = environ.Get(":8080", addrKey)
`
	s := NewScanner()
	require.NoError(t, s.ScanSource("dynamic.go", []byte(src)))
	assert.Empty(t, s.Vars())
}
