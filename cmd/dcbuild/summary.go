package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	orchestrators "github.com/khronokernel/dcbuild/internal/domain-orchestrators"
)

var (
	accent    = lipgloss.Color("#f97316")
	success   = lipgloss.Color("#22c55e")
	secondary = lipgloss.Color("#888888")
	border    = lipgloss.Color("#5a5a70")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(success)
	keyStyle    = lipgloss.NewStyle().Foreground(secondary).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(accent)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	summaryRows = []string{"Product", "Version", "Stages", "Skipped", "Architectures", "Manifest"}
)

// summaryRow is a key-value pair in the summary box
type summaryRow struct {
	Key   string
	Value string
}

// renderSummary draws the finished release as a bordered key/value grid
// followed by one line per artifact.
func renderSummary(result *orchestrators.BuildResult) string {
	values := map[string]string{
		"Product":  result.Product,
		"Version":  result.Version,
		"Stages":   strings.Join(result.Executed, ", "),
		"Skipped":  strings.Join(result.Skipped, ", "),
		"Manifest": result.ManifestPath,
	}
	if result.Universal != nil {
		values["Architectures"] = strings.Join(result.Universal.Archs(), ", ")
	}

	rows := make([]summaryRow, 0, len(summaryRows)+len(result.Artifacts))
	for _, key := range summaryRows {
		if v := values[key]; v != "" {
			rows = append(rows, summaryRow{Key: key, Value: v})
		}
	}
	for _, a := range result.Artifacts {
		value := a.Path
		if a.SHA256 != "" {
			value = fmt.Sprintf("%s (sha256 %.12s)", a.Path, a.SHA256)
		}
		rows = append(rows, summaryRow{Key: string(a.Kind), Value: value})
	}

	var content strings.Builder
	for i, row := range rows {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(keyStyle.Render(row.Key) + valueStyle.Render(row.Value))
	}

	return titleStyle.Render("Release ready") + "\n" + boxStyle.Render(content.String())
}
