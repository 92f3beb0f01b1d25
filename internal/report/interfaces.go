package report

import (
	"netsynth/internal/diff"
	"netsynth/internal/providers/aws"
)

// IPrinter is the interface for generating reports
//
//go:generate mockery --name=IPrinter --output=./mocks
type IPrinter interface {
	PrintPlan(plan *Plan, format OutputFormatType) error
	PrintDeploy(result *aws.DeployResult, format OutputFormatType) error
	PrintDiff(result *diff.Result, format OutputFormatType) error
}
