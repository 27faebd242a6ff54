package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zyth-lang/zythc/internal/testrunner"
)

var testParallelFlag int

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().IntVarP(&testParallelFlag, "parallel", "p", 0, "maximum concurrent scenario compiles (0 = unlimited)")
}

var testCmd = &cobra.Command{
	Use:   "test [paths...]",
	Short: "Run golden end-to-end scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			paths = []string{"testdata/scenarios"}
		}
		return runTests(cmd.Context(), paths)
	},
}

func runTests(ctx context.Context, paths []string) error {
	cfg := resolvedConfig()

	scenarios, err := testrunner.Discover(paths)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return err
	}

	hist, err := testrunner.OpenHistory(filepath.Join(cfg.CacheDir, "scenario_history.db"))
	if err != nil {
		return err
	}
	defer hist.Close()

	outcomes, err := testrunner.RunAll(ctx, scenarios, testrunner.Options{
		CacheDir: cfg.CacheDir,
		OptLevel: cfg.OptLevel,
		Target:   cfg.Target,
		NoCache:  cfg.NoCache,
		Threads:  testParallelFlag,
		History:  hist,
	})
	if err != nil {
		return err
	}

	fmt.Print(testrunner.Render(outcomes))

	names := make([]string, len(outcomes))
	for i, o := range outcomes {
		names[i] = o.Scenario.Name
	}
	if flaky, err := hist.Flaky(names); err == nil && len(flaky) > 0 {
		fmt.Printf("flaky: %v\n", flaky)
	}

	if failed := countFailures(outcomes); failed > 0 {
		return fmt.Errorf("testrunner: %d scenario(s) failed", failed)
	}
	return nil
}

func countFailures(outcomes []testrunner.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.Passed {
			n++
		}
	}
	return n
}
