// Package report provides report output in multiple formats.
//
// This package contains writers for different destinations:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: The structured JSON surface consumed by automation tooling
//   - MarkdownWriter: GitHub Flavored Markdown for documentation and sharing
//
// Design decision: Report writing is separated from the report data
// structures (package model) so new output formats can be added without
// touching the core types. Writers implement the Writer interface and can
// be composed with MultiWriter for multi-destination output.
package report
