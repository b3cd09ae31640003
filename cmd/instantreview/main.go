// Package main provides the entry point for the instantreview CLI.
//
// Instantreview generates structured automation reports for the instant
// review workflow: it validates run prerequisites, executes the automation
// step pipeline for one or more issues, and emits the report in
// human-readable, JSON, or Markdown form.
//
// Usage:
//
//	instantreview run [issue-number...]
//	instantreview history --list-issues
//
// See --help for all available options.
package main

// main is the entry point for instantreview.
func main() {
	Execute()
}
