package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"instantreview/internal/model"
)

// setupTestDB creates a RunDB in a temporary directory.
func setupTestDB(t *testing.T) *RunDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return db
}

// testReport builds a deterministic report for the given issue.
func testReport(issue int) *model.Report {
	rc := model.NewRunContext(issue, time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC))
	run := model.NewRun(rc)
	run.Results = model.StepResults{
		Detection: &model.DetectionResult{
			Status:     model.StepStatusCompleted,
			Type:       "bugfix",
			Confidence: "100%",
			Method:     "keyword_analysis",
		},
		Solution: &model.SolutionResult{
			Status:       model.StepStatusCompleted,
			Solution:     "enhanced_error_handling",
			Quality:      "production_ready",
			TestCoverage: "95%",
		},
		Security: &model.SecurityResult{
			Status:          model.StepStatusCompleted,
			SecurityScore:   "100%",
			Vulnerabilities: "none_detected",
			Compliance:      "full",
		},
		ReviewData: &model.ReviewDataResult{
			Status:        model.StepStatusCompleted,
			ReviewReady:   true,
			Documentation: "comprehensive",
			TestStatus:    "passing",
		},
	}

	prereq := model.PrerequisiteResult{Checks: &model.Prerequisites{
		RuntimeVersion:    true,
		LoggingConfigured: true,
		TimestampValid:    true,
		IssueNumberValid:  true,
	}}
	return model.NewReport(rc, prereq, model.NewImplementation(run, time.Second))
}

// errorTestReport builds a report for a failed run.
func errorTestReport(issue int) *model.Report {
	rc := model.NewRunContext(issue, time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC))
	prereq := model.PrerequisiteResult{Checks: &model.Prerequisites{
		RuntimeVersion:    true,
		LoggingConfigured: true,
		TimestampValid:    true,
		IssueNumberValid:  true,
	}}
	impl := model.NewErrorImplementation(rc, errors.New("step generate_code_solution: boom"))
	return model.NewReport(rc, prereq, impl)
}

// TestOpen tests database creation behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database with default options", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		if db == nil {
			t.Fatal("expected non-nil database")
		}
	})

	t.Run("fails when database missing and creation disabled", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
	})
}

// TestSaveReport tests storing reports.
func TestSaveReport(t *testing.T) {
	t.Parallel()

	t.Run("assigns unique run IDs", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		first, err := db.SaveReport(ctx, testReport(5))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := db.SaveReport(ctx, testReport(5))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first == "" || second == "" {
			t.Fatal("expected non-empty run IDs")
		}
		if first == second {
			t.Errorf("expected unique run IDs, both were %q", first)
		}
	})

	t.Run("stores error-shaped reports", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		if _, err := db.SaveReport(ctx, errorTestReport(7)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := db.GetRunHistory(ctx, 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		if records[0].Status != model.StatusError {
			t.Errorf("expected error status, got %q", records[0].Status)
		}
		if records[0].StepsCompleted != 0 {
			t.Errorf("expected 0 steps for error report, got %d", records[0].StepsCompleted)
		}
	})
}

// TestGetLatestReport tests latest-report retrieval.
func TestGetLatestReport(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored report", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		if _, err := db.SaveReport(ctx, testReport(5)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		report, err := db.GetLatestReport(ctx, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report == nil {
			t.Fatal("expected stored report")
		}
		if report.IssueNumber != 5 {
			t.Errorf("expected issue 5, got %d", report.IssueNumber)
		}
		if report.AutomationType != model.DefaultAutomationType {
			t.Errorf("unexpected automation type: %q", report.AutomationType)
		}
		if report.Implementation.StepsCompleted != 4 {
			t.Errorf("expected 4 steps, got %d", report.Implementation.StepsCompleted)
		}
		if report.Prerequisites.Failed() {
			t.Error("expected restored prerequisite checks")
		}
	})

	t.Run("returns nil for unknown issue", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		report, err := db.GetLatestReport(context.Background(), 999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report != nil {
			t.Error("expected nil report for unknown issue")
		}
	})
}

// TestGetReportByID tests retrieval by row ID.
func TestGetReportByID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.SaveReport(ctx, testReport(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := db.GetRunHistory(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	report, err := db.GetReportByID(ctx, records[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report == nil {
		t.Fatal("expected stored report")
	}
	if report.IssueNumber != 5 {
		t.Errorf("expected issue 5, got %d", report.IssueNumber)
	}

	missing, err := db.GetReportByID(ctx, records[0].ID+1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Error("expected nil report for unknown ID")
	}
}

// TestListIssues tests the issue listing.
func TestListIssues(t *testing.T) {
	t.Parallel()

	t.Run("empty database yields no issues", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		issues, err := db.ListIssues(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issues) != 0 {
			t.Errorf("expected no issues, got %v", issues)
		}
	})

	t.Run("lists each issue once", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		for _, issue := range []int{5, 7, 5} {
			if _, err := db.SaveReport(ctx, testReport(issue)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		issues, err := db.ListIssues(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issues) != 2 {
			t.Fatalf("expected 2 issues, got %v", issues)
		}

		seen := map[int]bool{}
		for _, issue := range issues {
			seen[issue] = true
		}
		if !seen[5] || !seen[7] {
			t.Errorf("expected issues 5 and 7, got %v", issues)
		}
	})
}

// TestGetRunHistory tests run record listing.
func TestGetRunHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := db.SaveReport(ctx, testReport(5)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := db.SaveReport(ctx, testReport(9)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := db.GetRunHistory(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	for i, record := range records {
		if record.IssueNumber != 5 {
			t.Errorf("record %d: expected issue 5, got %d", i, record.IssueNumber)
		}
		if record.RunID == "" {
			t.Errorf("record %d: expected non-empty run ID", i)
		}
		if record.Status != model.StatusSuccess {
			t.Errorf("record %d: unexpected status %q", i, record.Status)
		}
		if record.StepsCompleted != 4 {
			t.Errorf("record %d: expected 4 steps, got %d", i, record.StepsCompleted)
		}
	}

	// Newest first: row IDs descend when timestamps tie.
	for i := 1; i < len(records); i++ {
		if records[i-1].ID < records[i].ID {
			t.Errorf("expected descending IDs, got %d before %d", records[i-1].ID, records[i].ID)
		}
	}
}

// TestParseTimestamp tests SQLite timestamp parsing.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		zero  bool
	}{
		{name: "sqlite default", value: "2025-06-15 10:30:00"},
		{name: "RFC3339", value: "2025-06-15T10:30:00Z"},
		{name: "garbage", value: "not-a-time", zero: true},
		{name: "empty", value: "", zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.value)
			if tt.zero != got.IsZero() {
				t.Errorf("parseTimestamp(%q) = %v, zero expectation %v", tt.value, got, tt.zero)
			}
		})
	}
}
