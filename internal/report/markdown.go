package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"instantreview/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for posting to issue trackers and pull requests.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	return w.WriteSummary(model.NewSummary(report))
}

// WriteSummary outputs the condensed summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writePrerequisites(md, summary)
	w.writeSteps(md, summary)
	w.writeAlert(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Automation Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Issue", "#" + strconv.Itoa(summary.IssueNumber)},
			{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Automation Type", "`" + summary.AutomationType + "`"},
			{"Status", statusText(summary)},
			{"Execution Time", fmt.Sprintf("%.3fs", summary.ExecutionSeconds)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell text based on the summary state.
func statusText(summary *model.Summary) string {
	if summary.Succeeded() {
		return "✅ Success"
	}
	return "❌ Error - " + summary.Error
}

// writePrerequisites writes the prerequisite check section.
func (w *MarkdownWriter) writePrerequisites(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Prerequisites")
	md.PlainText("")
	md.PlainText(fmt.Sprintf("%d/%d checks passed.",
		summary.PrerequisitesPassed, summary.PrerequisitesTotal))
	md.PlainText("")
}

// writeSteps writes the per-step outcome table.
func (w *MarkdownWriter) writeSteps(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Pipeline Steps")
	md.PlainText("")

	if len(summary.StepLines) == 0 {
		md.PlainText("No steps executed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.StepLines))
	for i, line := range summary.StepLines {
		rows[i] = []string{
			strconv.Itoa(line.Ordinal),
			"`" + line.Name + "`",
			line.Status,
			line.Detail,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Step", "Status", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert reflecting the overall run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case !summary.Succeeded():
		md.Warningf("Automation run failed: %s", summary.Error)
	case summary.PrerequisitesPassed < summary.PrerequisitesTotal:
		md.Importantf("%d prerequisite check(s) failed; review the environment before merging.",
			summary.PrerequisitesTotal-summary.PrerequisitesPassed)
	default:
		md.Tip("All steps completed. Ready for instant review and merge automation.")
	}
	md.PlainText("")
}
