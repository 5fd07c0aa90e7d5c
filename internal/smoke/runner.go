package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/scorecast/internal/domain/types"
	"github.com/okian/scorecast/pkg/logger"
)

// Run executes the smoke test. It returns the collected statistics and
// ErrFailed if any check did not pass.
func Run(ctx context.Context, config *Config) (Stats, error) {
	log := logger.Named("smoke")
	stats := Stats{StartTime: time.Now()}
	client := newHTTPClient(config.BaseURL, config.Timeout)

	log.Info(ctx, "starting scorecast smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("workers", config.Workers),
		logger.Int("repeat", config.Repeat),
		logger.Duration("timeout", config.Timeout),
	)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Run the reference scenarios
	var ids []string
	for _, sc := range Scenarios() {
		id, err := runScenario(ctx, client, sc)
		if err != nil {
			stats.ScenariosFailed++
			log.Error(ctx, "scenario failed", logger.String("scenario", sc.Name), logger.Error(err))
			continue
		}
		stats.ScenariosPassed++
		if id != "" {
			ids = append(ids, id)
		}
		if config.Verbose {
			log.Info(ctx, "scenario passed", logger.String("scenario", sc.Name), logger.String("id", id))
		}
	}

	// Step 3: Read the stored predictions back
	for _, id := range ids {
		if err := lookup(ctx, client, id); err != nil {
			stats.LookupsFailed++
			log.Error(ctx, "lookup failed", logger.String("id", id), logger.Error(err))
			continue
		}
		stats.LookupsPassed++
	}

	// Step 4: Concurrent load
	if config.Repeat > 0 {
		stats.LoadRequests, stats.LoadFailed = runLoad(ctx, client, config)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if stats.Failed() {
		return stats, ErrFailed
	}
	log.Info(ctx, "smoke test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz", "application/json")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.status)
	}
	return nil
}

// runScenario posts one scenario and returns the prediction id when one was made.
func runScenario(ctx context.Context, client *HTTPClient, sc Scenario) (string, error) {
	resp, err := client.Post(ctx, "/predict", sc.State)
	if err != nil {
		return "", err
	}
	if resp.status != sc.Status {
		return "", fmt.Errorf("status = %d, want %d: %s", resp.status, sc.Status, resp.body)
	}
	if err := sc.Check(resp.body); err != nil {
		return "", err
	}
	if resp.status != http.StatusOK {
		return "", nil
	}
	var p types.Prediction
	if err := json.Unmarshal(resp.body, &p); err != nil {
		return "", fmt.Errorf("decode prediction: %w", err)
	}
	return p.ID, nil
}

func lookup(ctx context.Context, client *HTTPClient, id string) error {
	resp, err := client.Get(ctx, "/predictions/"+id, "")
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("status = %d", resp.status)
	}
	var p types.Prediction
	if err := json.Unmarshal(resp.body, &p); err != nil {
		return fmt.Errorf("decode prediction: %w", err)
	}
	if p.ID != id {
		return fmt.Errorf("got prediction %q", p.ID)
	}
	return nil
}

// runLoad posts config.Repeat predictions using at most config.Workers
// requests in flight.
func runLoad(ctx context.Context, client *HTTPClient, config *Config) (int, int) {
	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))

	state := baseState()
	for i := 0; i < config.Repeat; i++ {
		s := state
		s.RunsScored = i % (s.TargetScore - 1)
		g.Go(func() error {
			resp, err := client.Post(gctx, "/predict", s)
			if err != nil || resp.status != http.StatusOK {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return config.Repeat, int(failed.Load())
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.LoadRequests) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("scenariosPassed", stats.ScenariosPassed),
		logger.Int("scenariosFailed", stats.ScenariosFailed),
		logger.Int("lookupsPassed", stats.LookupsPassed),
		logger.Int("lookupsFailed", stats.LookupsFailed),
		logger.Int("loadRequests", stats.LoadRequests),
		logger.Int("loadFailed", stats.LoadFailed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", perSecond),
	)
}
