package build

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// ZigCompiler abstracts invocation of the external TL compiler, mirroring
// `_examples/gooze-dev-gooze/internal/adapter.TestRunnerAdapter`'s
// interface-over-os/exec shape so the orchestrator can be tested without a
// real `zig` binary on PATH.
type ZigCompiler interface {
	// Compile invokes the TL compiler against sourcePath, producing
	// outputPath. optLevel is 0-3 (ReleaseFast for anything above 0);
	// target is the architecture label forwarded to `-target`.
	Compile(ctx context.Context, sourcePath, outputPath string, optLevel int, target string) (output string, err error)
}

// LocalZigCompiler shells out to `zig build-exe` with a bounded timeout.
type LocalZigCompiler struct {
	Timeout time.Duration
}

// NewLocalZigCompiler constructs a LocalZigCompiler with a generous default
// timeout; native compilation of a single small program is expected to
// finish in well under this.
func NewLocalZigCompiler() *LocalZigCompiler {
	return &LocalZigCompiler{Timeout: 2 * time.Minute}
}

func (c *LocalZigCompiler) Compile(ctx context.Context, sourcePath, outputPath string, optLevel int, target string) (string, error) {
	if _, err := exec.LookPath("zig"); err != nil {
		return "", &Error{Kind: ZigNotFound, Msg: "zig compiler not found on PATH", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	args := []string{"build-exe", sourcePath, "-femit-bin=" + outputPath}
	if optLevel > 0 {
		args = append(args, "-OReleaseFast")
	}
	if target != "" {
		args = append(args, "-target", zigTargetTriple(target))
	}

	cmd := exec.CommandContext(ctx, "zig", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		combined := stdout.String() + stderr.String()
		return combined, &Error{Kind: ZigBuildFailed, Msg: fmt.Sprintf("zig build-exe failed: %s", combined), Err: err}
	}
	return stdout.String() + stderr.String(), nil
}

// zigTargetTriple maps the CLI's short architecture labels to Zig's
// native-OS target triples (§6.1: zythc does not implement
// architecture-specific codegen, that is zig's job).
func zigTargetTriple(target string) string {
	switch target {
	case "amd64":
		return "x86_64-native"
	case "arm64":
		return "aarch64-native"
	case "riscv64":
		return "riscv64-native"
	default:
		return target
	}
}
