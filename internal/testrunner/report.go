package testrunner

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Render renders a pass/fail table in the shape of
// `_examples/gooze-dev-gooze/internal/controller/simple.go`'s
// renderEstimationTable: left-aligned name column, centered status
// column, a footer totalling pass/fail counts.
func Render(outcomes []Outcome) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Scenario", "Status", "Duration"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_RIGHT})

	passed := 0
	for _, o := range outcomes {
		status := "FAIL"
		if o.Err != nil {
			status = "ERROR"
		} else if o.Passed {
			status = "PASS"
			passed++
		}
		table.Append([]string{o.Scenario.Name, status, o.Duration.String()})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(outcomes)),
		fmt.Sprintf("%d passed", passed),
		"",
	})

	table.Render()
	return buf.String()
}
