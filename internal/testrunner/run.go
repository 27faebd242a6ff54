package testrunner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zyth-lang/zythc/internal/build"
)

// Options configures one `zythc test` invocation.
type Options struct {
	CacheDir string
	OptLevel int
	Target   string
	NoCache  bool
	Threads  int // 0 means unlimited: SetLimit is applied only for a positive value

	Compiler build.ZigCompiler // nil defaults to build.LocalZigCompiler
	History  *History          // nil disables scenario history
}

// Outcome is one scenario's result.
type Outcome struct {
	Scenario Scenario
	Passed   bool
	Actual   string
	CacheHit bool
	Duration time.Duration
	Err      error
}

// RunAll compiles and runs every scenario, in parallel up to
// opts.Threads, following the errgroup.Group+SetLimit pattern
// `_examples/gooze-dev-gooze/internal/domain/workflow_v2.go`'s
// TestReports uses to bound concurrent mutation runs: each scenario gets
// its own compiler subprocess, so the single-threaded-compile invariant
// holds within a scenario even though scenarios run concurrently.
func RunAll(ctx context.Context, scenarios []Scenario, opts Options) ([]Outcome, error) {
	outcomes := make([]Outcome, len(scenarios))

	var group errgroup.Group
	if opts.Threads > 0 {
		group.SetLimit(opts.Threads)
	}

	var mu sync.Mutex

	for i, scenario := range scenarios {
		i, scenario := i, scenario
		group.Go(func() error {
			outcome := runOne(ctx, scenario, opts)

			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()

			if opts.History != nil {
				_ = opts.History.Append(Record{
					Name:      scenario.Name,
					Passed:    outcome.Passed,
					Timestamp: time.Now(),
				})
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func runOne(ctx context.Context, scenario Scenario, opts Options) Outcome {
	binDir := filepath.Join(opts.CacheDir, "scenarios")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return Outcome{Scenario: scenario, Err: err}
	}

	result, err := build.Build(ctx, build.Options{
		SourcePath: scenario.Path,
		OutputPath: filepath.Join(binDir, scenario.Name),
		CacheDir:   opts.CacheDir,
		OptLevel:   opts.OptLevel,
		Target:     opts.Target,
		NoCache:    opts.NoCache,
		Mode:       build.ModeBuild,
		Compiler:   opts.Compiler,
	})
	if err != nil {
		return Outcome{Scenario: scenario, Err: err}
	}

	actual, err := captureOutput(ctx, result.OutputPath)
	if err != nil {
		return Outcome{Scenario: scenario, CacheHit: result.CacheHit, Duration: result.Duration, Err: err}
	}

	return Outcome{
		Scenario: scenario,
		Passed:   actual == scenario.Expected,
		Actual:   actual,
		CacheHit: result.CacheHit,
		Duration: result.Duration,
	}
}

func captureOutput(ctx context.Context, binaryPath string) (string, error) {
	cmd := exec.CommandContext(ctx, binaryPath)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return stdout.String(), nil
}
