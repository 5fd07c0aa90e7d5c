package smoke

import "os"

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`scorecast smoke test
====================

Posts the reference match scenarios to a running scorecast server, checks
the derived features, warnings and validation errors, reads the stored
predictions back, then runs a short concurrent load phase.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -timeout duration
        HTTP request timeout (default 10s)
  -workers int
        Concurrent requests during the load phase (default CPU cores)
  -repeat int
        Predictions posted during the load phase, 0 to skip (default 200)
  -verbose
        Log every scenario
  -help
        Show this help message

Examples:
  go run ./cmd/smoke
  go run ./cmd/smoke -url http://localhost:8080 -repeat 5000 -workers 32
`)
}
