package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/scorecast/internal/smoke"
	"github.com/okian/scorecast/pkg/logger"
)

// Default configuration constants.
const (
	defaultRepeat      = 200
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		workers = flag.Int("workers", runtime.NumCPU(), "Concurrent requests during the load phase")
		repeat  = flag.Int("repeat", defaultRepeat, "Predictions posted during the load phase, 0 to skip")
		verbose = flag.Bool("verbose", false, "Log every scenario")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &smoke.Config{
		BaseURL: *baseURL,
		Timeout: *timeout,
		Workers: *workers,
		Repeat:  *repeat,
		Verbose: *verbose,
	}

	if _, err := smoke.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke test failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
