// internal/metrics/report.go
package metrics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	checkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	limitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	passMark = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
)

// Render formats a comparison as a terminal report.
func Render(cmp Comparison) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Golden regression check"))
	b.WriteString("\n")

	for _, check := range cmp.Checks {
		mark := passMark("PASS")
		if !check.Pass {
			mark = failMark("FAIL")
		}
		b.WriteString(fmt.Sprintf("  [%s] %s  %s\n", mark,
			checkStyle.Render(fmt.Sprintf("%-22s %s", check.Name, check.Observed)),
			limitStyle.Render(check.Limit)))
	}

	if cmp.Pass {
		b.WriteString(passMark("PASS") + ": run is within golden thresholds\n")
	} else {
		b.WriteString(failMark("FAIL") + ": performance regression detected\n")
	}
	return b.String()
}
