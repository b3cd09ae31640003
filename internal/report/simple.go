package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"instantreview/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
// Status markers are color-coded; colors degrade to plain text when the
// destination is not a terminal (fatih/color handles the detection).
type SimpleWriter struct {
	baseWriter

	// verbose enables per-step detail lines in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with per-step details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	return w.WriteSummary(model.NewSummary(report))
}

// WriteSummary outputs the condensed summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writePrerequisites(&sb, summary)
	w.writeSteps(&sb, summary)
	w.writeFooter(&sb, summary)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	sb.WriteString("                 AUTOMATION REPORT\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Issue:           #%d\n", summary.IssueNumber)
	fmt.Fprintf(sb, "Generated:       %s\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Automation Type: %s\n", summary.AutomationType)

	if summary.Succeeded() {
		fmt.Fprintf(sb, "Status:          %s\n", color.GreenString("SUCCESS"))
	} else {
		fmt.Fprintf(sb, "Status:          %s - %s\n", color.RedString("ERROR"), summary.Error)
	}
	sb.WriteString("\n")
}

// writePrerequisites writes the prerequisite check summary.
func (w *SimpleWriter) writePrerequisites(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("PREREQUISITES\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")

	marker := color.GreenString("OK")
	if summary.PrerequisitesPassed < summary.PrerequisitesTotal {
		marker = color.RedString("FAILED")
	}
	fmt.Fprintf(sb, "%d/%d checks passed [%s]\n\n",
		summary.PrerequisitesPassed, summary.PrerequisitesTotal, marker)
}

// writeSteps writes the per-step outcome listing.
func (w *SimpleWriter) writeSteps(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")
	sb.WriteString("PIPELINE STEPS\n")
	sb.WriteString(strings.Repeat("-", 60))
	sb.WriteString("\n")

	if len(summary.StepLines) == 0 {
		sb.WriteString("No steps executed.\n\n")
		return
	}

	for _, line := range summary.StepLines {
		status := line.Status
		if status == model.StepStatusCompleted {
			status = color.GreenString(status)
		} else {
			status = color.YellowString(status)
		}
		fmt.Fprintf(sb, "  %d. %-32s [%s]\n", line.Ordinal, line.Name, status)
		if w.verbose && line.Detail != "" {
			fmt.Fprintf(sb, "     %s\n", line.Detail)
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes totals and timing.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Steps completed: %d\n", summary.StepsCompleted)
	fmt.Fprintf(sb, "Execution time:  %.3fs\n", summary.ExecutionSeconds)
	if summary.AllStepsCompleted() {
		fmt.Fprintf(sb, "All pipeline steps completed [%s]\n", color.GreenString("OK"))
	}
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
}
