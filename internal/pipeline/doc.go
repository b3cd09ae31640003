// Package pipeline provides the framework for executing automation steps
// in sequence.
//
// A run moves through four fixed stages: implementation-type detection,
// solution generation, security validation, and review-data preparation.
// Each stage is a Step that receives the accumulating run and records its
// typed result.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls because:
// 1. It allows steps to be swapped or injected in tests
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between steps
package pipeline
