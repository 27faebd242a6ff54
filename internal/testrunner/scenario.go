// Package testrunner implements the `test` subcommand: discovery,
// parallel execution, and reporting for golden `.zy` scenarios under
// testdata/scenarios.
package testrunner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scenario is one golden end-to-end program (spec.md §8's six concrete
// scenarios and any others placed alongside them).
type Scenario struct {
	Name     string
	Path     string // path to the .zy source
	Expected string // wanted stdout
	Oracled  bool   // true when Expected came from the hostlib oracle rather than a golden .out file
}

// Discover walks each root looking for *.zy files. A sibling file with
// the same basename and a .out extension, if present, supplies the
// expected stdout verbatim. Otherwise the hostlib oracle is asked to
// derive the expected output from the source text itself (§2's "test
// runner as an oracle ... without re-deriving them by hand"); a
// scenario with neither a golden file nor an oracle match is skipped
// rather than silently mis-scored.
func Discover(roots []string) ([]Scenario, error) {
	var scenarios []Scenario

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".zy" {
				return nil
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			name := strings.TrimSuffix(filepath.Base(path), ".zy")
			scenario := Scenario{Name: name, Path: path}

			goldenPath := strings.TrimSuffix(path, ".zy") + ".out"
			if golden, err := os.ReadFile(goldenPath); err == nil {
				scenario.Expected = string(golden)
			} else if expected, ok := deriveExpected(string(src)); ok {
				scenario.Expected = expected
				scenario.Oracled = true
			} else {
				return nil
			}

			scenarios = append(scenarios, scenario)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	return scenarios, nil
}
