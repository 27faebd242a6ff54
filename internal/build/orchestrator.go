// Package build implements the orchestrator of spec.md §4.6: resolve the
// output path, check the `.hash` sidecar, run the compiler pipeline on a
// miss, invoke the TL compiler, rewrite the sidecar, and (on `run` mode)
// spawn the produced binary.
package build

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/zyth-lang/zythc/internal/analyzer"
	"github.com/zyth-lang/zythc/internal/emitter"
	"github.com/zyth-lang/zythc/internal/parser"
	"github.com/zyth-lang/zythc/internal/runtime"
)

// Mode selects step 6 of the algorithm.
type Mode int

const (
	ModeBuild Mode = iota
	ModeRun
)

// Options configures one invocation of Build.
type Options struct {
	SourcePath string
	OutputPath string // "" picks <cache_dir>/<basename_without_extension>
	CacheDir   string
	OptLevel   int
	Target     string
	NoCache    bool
	Mode       Mode

	Compiler ZigCompiler // nil defaults to LocalZigCompiler
	History  *History    // nil disables the observability sidecar (§4.6 addition)
}

// Result reports what Build did, for the CLI's verbose/summary output.
type Result struct {
	OutputPath string
	CacheHit   bool
	Duration   time.Duration
}

// Build runs the six-step algorithm of spec.md §4.6. The orchestrator never
// deletes stale outputs; ownership of CacheDir is the caller's.
func Build(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	src, err := os.ReadFile(opts.SourcePath)
	if err != nil {
		return nil, &Error{Kind: SourceReadFailed, Msg: "reading source file", Err: err}
	}

	outputPath, err := resolveOutputPath(opts)
	if err != nil {
		return nil, err
	}

	hash := hashSource(src)

	if !opts.NoCache && cacheHit(outputPath, hash) {
		if opts.Mode == ModeRun {
			if err := runBinary(ctx, outputPath); err != nil {
				return nil, err
			}
		}
		return &Result{OutputPath: outputPath, CacheHit: true, Duration: time.Since(start)}, nil
	}

	zigSource, err := compilePipeline(string(src))
	if err != nil {
		return nil, err
	}

	scratchDir, err := os.MkdirTemp("", "zythc-build-*")
	if err != nil {
		return nil, &Error{Kind: CacheDirFailed, Msg: "creating scratch directory", Err: err}
	}
	defer os.RemoveAll(scratchDir)

	scratchSource := filepath.Join(scratchDir, "main.zig")
	if err := os.WriteFile(scratchSource, []byte(zigSource), 0o644); err != nil {
		return nil, &Error{Kind: SourceReadFailed, Msg: "writing scratch source", Err: err}
	}
	if err := os.WriteFile(filepath.Join(scratchDir, "runtime.zig"), []byte(runtime.Source()), 0o644); err != nil {
		return nil, &Error{Kind: SourceReadFailed, Msg: "writing runtime.zig", Err: err}
	}

	compiler := opts.Compiler
	if compiler == nil {
		compiler = NewLocalZigCompiler()
	}

	buildOutput, compileErr := compiler.Compile(ctx, scratchSource, outputPath, opts.OptLevel, opts.Target)

	if opts.History != nil {
		_ = opts.History.Append(Record{
			SourcePath: opts.SourcePath,
			SourceHash: hash,
			Duration:   time.Since(start),
			ZigVersion: zigVersion(ctx),
			Success:    compileErr == nil,
			Timestamp:  time.Now(),
		})
	}

	if compileErr != nil {
		if strings.TrimSpace(buildOutput) != "" {
			return nil, &Error{Kind: ZigBuildFailed, Msg: buildOutput, Err: compileErr}
		}
		return nil, compileErr
	}

	if err := writeSidecar(outputPath, hash); err != nil {
		return nil, &Error{Kind: CacheDirFailed, Msg: "writing .hash sidecar", Err: err}
	}

	if opts.Mode == ModeRun {
		if err := runBinary(ctx, outputPath); err != nil {
			return nil, err
		}
	}

	return &Result{OutputPath: outputPath, CacheHit: false, Duration: time.Since(start)}, nil
}

// resolveOutputPath implements step 1: the explicit output path if given,
// else <cache_dir>/<basename_without_extension>, creating cache_dir if
// missing.
func resolveOutputPath(opts Options) (string, error) {
	if opts.OutputPath != "" {
		return opts.OutputPath, nil
	}
	if err := os.MkdirAll(opts.CacheDir, 0o755); err != nil {
		return "", &Error{Kind: CacheDirFailed, Msg: "creating cache directory", Err: err}
	}
	base := filepath.Base(opts.SourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(opts.CacheDir, base), nil
}

// compilePipeline runs the Lexer (via the parser), Parser, Analyzer, and
// Emitter stages over src and returns the Zig source text (step 3/4).
func compilePipeline(src string) (string, error) {
	mod, err := parser.Parse(src)
	if err != nil {
		return "", err
	}
	result, err := analyzer.Analyze(mod)
	if err != nil {
		return "", err
	}
	return emitter.EmitModule(mod, result)
}

// runBinary spawns the compiled program, forwarding its standard streams
// (step 6, run mode).
func runBinary(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

func zigVersion(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, "zig", "version").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
