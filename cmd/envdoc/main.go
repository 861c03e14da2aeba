package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/caarlos0/env"
	"github.com/scheerer/environ/envdoc"
	"github.com/scheerer/environ/internal/logging"
)

var logger = logging.New("envdoc")

// Set via ldflags at build time.
var (
	version = "devel"
	commit  = ""
	date    = ""
)

type Config struct {
	Output  string `env:"ENVDOC_OUTPUT" envDefault:"-"`
	Title   string `env:"ENVDOC_TITLE" envDefault:"Environment Variables"`
	Anchors bool   `env:"ENVDOC_ANCHORS" envDefault:"true"`
}

func main() {
	defer logger.Sync()

	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("envdoc version: %s, commit: %s, date: %s\n", version, commit, date)
		return
	}

	var config Config
	if err := env.Parse(&config); err != nil {
		logger.With(zap.Error(err)).Fatal("Failed to parse environment variables")
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	scanner := envdoc.NewScanner()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			logger.With(zap.Error(err)).Fatalf("Failed to read %s", path)
		}
		if info.IsDir() {
			err = scanner.ScanDir(path)
		} else {
			err = scanner.ScanFile(path)
		}
		if err != nil {
			logger.With(zap.Error(err)).Fatalf("Failed to scan %s", path)
		}
	}

	vars := scanner.Vars()
	if len(vars) == 0 {
		logger.Warn("No environ calls found")
	}
	for _, v := range vars {
		if v.Doc == "" {
			logger.Warnf("Missing description for %s (%s:%d)", v.Name, v.File, v.Line)
		}
	}

	out := envdoc.Render(vars, envdoc.RenderOptions{
		Title:   config.Title,
		Source:  strings.Join(paths, ", "),
		Anchors: config.Anchors,
	})

	if config.Output == "-" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(config.Output, []byte(out), 0o644); err != nil {
		logger.With(zap.Error(err)).Fatalf("Failed to write %s", config.Output)
	}
}
