package model

// StepStatusCompleted is the status value recorded by every step that
// finished without error.
const StepStatusCompleted = "completed"

// DetectionResult is the outcome of the implementation-type detection step.
type DetectionResult struct {
	// Status is the step status ("completed").
	Status string `json:"status"`

	// Type is the detected implementation type (e.g., "bugfix").
	Type string `json:"type"`

	// Confidence is the detection confidence as a percentage string.
	Confidence string `json:"confidence"`

	// Method is the detection method used.
	Method string `json:"method"`
}

// SolutionResult is the outcome of the code-solution generation step.
type SolutionResult struct {
	// Status is the step status ("completed").
	Status string `json:"status"`

	// Solution identifies the generated solution strategy.
	Solution string `json:"solution"`

	// Quality describes the solution quality tier.
	Quality string `json:"quality"`

	// TestCoverage is the reported coverage as a percentage string.
	TestCoverage string `json:"test_coverage"`
}

// SecurityResult is the outcome of the security validation step.
type SecurityResult struct {
	// Status is the step status ("completed").
	Status string `json:"status"`

	// SecurityScore is the score as a percentage string.
	SecurityScore string `json:"security_score"`

	// Vulnerabilities summarizes detected vulnerabilities.
	Vulnerabilities string `json:"vulnerabilities"`

	// Compliance describes the compliance level.
	Compliance string `json:"compliance"`
}

// ReviewDataResult is the outcome of the review-data preparation step.
type ReviewDataResult struct {
	// Status is the step status ("completed").
	Status string `json:"status"`

	// ReviewReady indicates the change is ready for instant review.
	ReviewReady bool `json:"review_ready"`

	// Documentation describes the documentation level.
	Documentation string `json:"documentation"`

	// TestStatus summarizes the test suite state.
	TestStatus string `json:"test_status"`
}

// StepResults collects the typed outcomes of the four pipeline steps.
// Fields are keyed by step ordinal in the serialized form; nil fields are
// omitted so a run aborted mid-pipeline serializes only the executed steps.
type StepResults struct {
	// Detection is the step 1 outcome.
	Detection *DetectionResult `json:"step_1,omitempty"`

	// Solution is the step 2 outcome.
	Solution *SolutionResult `json:"step_2,omitempty"`

	// Security is the step 3 outcome.
	Security *SecurityResult `json:"step_3,omitempty"`

	// ReviewData is the step 4 outcome.
	ReviewData *ReviewDataResult `json:"step_4,omitempty"`
}

// CompletedCount returns the number of steps that recorded a result.
func (s StepResults) CompletedCount() int {
	count := 0
	if s.Detection != nil {
		count++
	}
	if s.Solution != nil {
		count++
	}
	if s.Security != nil {
		count++
	}
	if s.ReviewData != nil {
		count++
	}
	return count
}

// Statuses returns the recorded step statuses in step order.
// Steps without a result are skipped.
func (s StepResults) Statuses() []string {
	statuses := make([]string, 0, 4)
	if s.Detection != nil {
		statuses = append(statuses, s.Detection.Status)
	}
	if s.Solution != nil {
		statuses = append(statuses, s.Solution.Status)
	}
	if s.Security != nil {
		statuses = append(statuses, s.Security.Status)
	}
	if s.ReviewData != nil {
		statuses = append(statuses, s.ReviewData.Status)
	}
	return statuses
}
