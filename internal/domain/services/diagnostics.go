// Package services implements domain logic that does not touch external tools.
package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
)

const (
	reportIndent = "    "
	streamIndent = "        "
)

// DiagnosticReporter renders failed subprocess results for operators.
//
// Format:
//
//	Error: Subprocess failed.
//	    Command: <command>
//	    Return Code: <return code>
//	    Standard Output:
//	        <standard output line 1>
//	        ...
//	    Standard Error:
//	        <standard error line 1>
//	        ...
type DiagnosticReporter struct{}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter() *DiagnosticReporter {
	return &DiagnosticReporter{}
}

// Format renders result as a human-readable report
func (d *DiagnosticReporter) Format(result *entities.StageResult) string {
	var b strings.Builder

	b.WriteString("Error: Subprocess failed.\n")
	fmt.Fprintf(&b, "%sCommand: %v\n", reportIndent, result.Command)
	fmt.Fprintf(&b, "%sReturn Code: %d\n", reportIndent, result.ExitCode)

	b.WriteString(reportIndent + "Standard Output:\n")
	b.WriteString(formatStream(result.Stdout))

	b.WriteString(reportIndent + "Standard Error:\n")
	stderr := result.Stderr
	if len(stderr) == 0 && result.Err != nil {
		stderr = []byte(result.Err.Error())
	}
	b.WriteString(formatStream(stderr))

	return b.String()
}

// Report writes the formatted report to w
func (d *DiagnosticReporter) Report(w io.Writer, result *entities.StageResult) {
	fmt.Fprintln(w, d.Format(result))
}

func formatStream(raw []byte) string {
	text := strings.ToValidUTF8(string(raw), "�")

	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		b.WriteString(streamIndent + line + "\n")
	}

	if b.Len() == 0 {
		return streamIndent + "None\n"
	}
	return b.String()
}
