package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	zbuild "github.com/zyth-lang/zythc/internal/build"
)

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build <file> [out]",
	Short: "Compile a Zyth source file to a native binary",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 2 {
			outputFlag = args[1]
		}
		return runBuild(cmd.Context(), args[0], zbuild.ModeBuild)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Compile and run a Zyth source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), args[0], zbuild.ModeRun)
	},
}

// runBuild drives one compile (and, in ModeRun, execute) cycle using the
// resolved config and the history sidecar, per §4.6.
func runBuild(ctx context.Context, sourcePath string, mode zbuild.Mode) error {
	cfg := resolvedConfig()

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return &zbuild.Error{Kind: zbuild.CacheDirFailed, Msg: "creating cache directory", Err: err}
	}

	hist, err := zbuild.OpenHistory(filepath.Join(cfg.CacheDir, "history.db"))
	if err != nil {
		return err
	}
	defer hist.Close()

	result, err := zbuild.Build(ctx, zbuild.Options{
		SourcePath: sourcePath,
		OutputPath: outputFlag,
		CacheDir:   cfg.CacheDir,
		OptLevel:   cfg.OptLevel,
		Target:     cfg.Target,
		NoCache:    cfg.NoCache,
		Mode:       mode,
		History:    hist,
	})
	if err != nil {
		return err
	}

	appLog.Info("build finished", "output", result.OutputPath, "cache_hit", result.CacheHit, "duration", result.Duration)
	if cfg.Verbose {
		fmt.Printf("%s (cache hit: %v, %s)\n", result.OutputPath, result.CacheHit, result.Duration)
	}
	return nil
}
