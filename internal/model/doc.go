// Package model defines the data structures shared across the application.
//
// The central type is Report, the automation report assembled after the
// prerequisite checks and the pipeline steps have run. Its serialized shape
// under the claude_automation_report key is the compatibility surface consumed
// by downstream tooling, so field names here must not change.
//
// Design decision: Step outcomes are fixed-schema structs rather than
// map[string]any. The automation pipeline has exactly four steps with known
// outputs, and typed records give compile-time shape guarantees while
// preserving the serialized field names.
package model
