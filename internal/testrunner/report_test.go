package testrunner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderIncludesEveryScenarioAndTotals(t *testing.T) {
	outcomes := []Outcome{
		{Scenario: Scenario{Name: "alpha"}, Passed: true, Duration: time.Millisecond},
		{Scenario: Scenario{Name: "beta"}, Passed: false, Duration: time.Millisecond},
	}

	out := Render(outcomes)
	require.True(t, strings.Contains(out, "alpha"))
	require.True(t, strings.Contains(out, "beta"))
	require.True(t, strings.Contains(out, "PASS"))
	require.True(t, strings.Contains(out, "FAIL"))
	require.True(t, strings.Contains(out, "1 passed"))
}
