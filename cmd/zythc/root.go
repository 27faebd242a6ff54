// Command zythc compiles Zyth source to a native binary via Zig, per
// SPEC_FULL.md §6.1: bare `<file>` to compile-and-run, `build`/`run`/`test`
// subcommands, config layered flag > env > zyth.yaml > default the way
// `_examples/gooze-dev-gooze/cmd/root.go` layers its own flags.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zyth-lang/zythc/internal/build"
	"github.com/zyth-lang/zythc/internal/config"
	"github.com/zyth-lang/zythc/internal/logger"
)

var v = viper.New()

var (
	outputFlag   string
	optLevelFlag int
	targetFlag   string
	verboseFlag  bool
	debugFlag    bool
	cacheDirFlag string
	noCacheFlag  bool
)

var appLog *slog.Logger

func init() {
	cobra.CheckErr(config.Init(v))
	configureRootFlags(rootCmd)
}

var rootCmd = &cobra.Command{
	Use:   "zythc [file]",
	Short: "Compile and run Zyth programs",
	Long: `zythc translates a statically typed Python subset ("Zyth source") into Zig
source and invokes the Zig compiler to produce a native binary.

Called with a bare file argument, zythc compiles and immediately runs it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runBuild(cmd.Context(), args[0], build.ModeRun)
	},
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&outputFlag, config.OutputKey, "o", v.GetString(config.OutputKey), "output binary path")
	bindFlag(flags.Lookup(config.OutputKey), config.OutputKey)

	flags.IntVarP(&optLevelFlag, config.OptLevelKey, "O", v.GetInt(config.OptLevelKey), "optimization level (0-3)")
	bindFlag(flags.Lookup(config.OptLevelKey), config.OptLevelKey)

	flags.StringVar(&targetFlag, config.TargetKey, v.GetString(config.TargetKey), "target architecture (amd64, arm64, riscv64)")
	bindFlag(flags.Lookup(config.TargetKey), config.TargetKey)

	flags.BoolVarP(&verboseFlag, config.VerboseKey, "v", v.GetBool(config.VerboseKey), "verbose logging")
	bindFlag(flags.Lookup(config.VerboseKey), config.VerboseKey)

	flags.BoolVar(&debugFlag, config.DebugKey, v.GetBool(config.DebugKey), "emit debug info")
	bindFlag(flags.Lookup(config.DebugKey), config.DebugKey)

	flags.StringVar(&cacheDirFlag, config.CacheDirKey, v.GetString(config.CacheDirKey), "cache directory")
	bindFlag(flags.Lookup(config.CacheDirKey), config.CacheDirKey)

	flags.BoolVar(&noCacheFlag, config.NoCacheKey, v.GetBool(config.NoCacheKey), "disable the build cache")
	bindFlag(flags.Lookup(config.NoCacheKey), config.NoCacheKey)
}

func bindFlag(flag *pflag.Flag, key string) {
	cobra.CheckErr(config.BindFlag(v, flag, key))
}

func resolvedConfig() config.Config {
	cfg := config.Load(v)
	if appLog == nil {
		appLog = logger.New(cfg, cfg.Verbose)
	}
	return cfg
}

// Execute runs the root command. Called by main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
