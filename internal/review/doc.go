// Package review assembles automation reports.
//
// The Generator sequences the public operations of a run: prerequisite
// validation, pipeline execution, and report serialization. Every failure
// inside those operations is converted into report data at the operation
// boundary; no error from a step or a validation check ever propagates to
// the caller as a fault.
//
// BatchProcessor runs report generation for several issues concurrently
// with a bounded degree of parallelism.
package review
