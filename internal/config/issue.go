package config

import "strconv"

// IssueConfig holds per-issue overrides for report generation.
// This allows tailoring the report metadata for individual issues without
// code changes.
type IssueConfig struct {
	// AutomationType overrides the automation type label in the report.
	AutomationType string `yaml:"automationType,omitempty"`

	// ResolutionTime overrides the expected resolution time string.
	ResolutionTime string `yaml:"resolutionTime,omitempty"`

	// AutomationLevel overrides the expected automation level string.
	AutomationLevel string `yaml:"automationLevel,omitempty"`

	// QualityAssurance overrides the quality assurance label.
	QualityAssurance string `yaml:"qualityAssurance,omitempty"`
}

// File represents the structure of the .instantreview configuration file.
type File struct {
	// Issues maps issue numbers to their per-issue overrides.
	// Keys are decimal issue numbers as strings (YAML map keys).
	Issues map[string]IssueConfig `yaml:"issues,omitempty"`

	// Defaults contains overrides applied to every issue unless shadowed
	// by an issue-specific entry.
	Defaults IssueConfig `yaml:"defaults,omitempty"`
}

// GetIssueConfig returns the configuration for a specific issue number,
// merging the issue-specific entry over the defaults.
func (cf *File) GetIssueConfig(issueNumber int) IssueConfig {
	result := cf.Defaults

	issueConfig, ok := cf.Issues[strconv.Itoa(issueNumber)]
	if !ok {
		return result
	}

	if issueConfig.AutomationType != "" {
		result.AutomationType = issueConfig.AutomationType
	}
	if issueConfig.ResolutionTime != "" {
		result.ResolutionTime = issueConfig.ResolutionTime
	}
	if issueConfig.AutomationLevel != "" {
		result.AutomationLevel = issueConfig.AutomationLevel
	}
	if issueConfig.QualityAssurance != "" {
		result.QualityAssurance = issueConfig.QualityAssurance
	}

	return result
}
