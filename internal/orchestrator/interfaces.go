package orchestrator

import (
	"context"

	aws "netsynth/internal/providers/aws"
)

// DeployerAPI applies a synthesized stack to AWS.
//
//go:generate mockery --name=DeployerAPI --output=./mocks
type DeployerAPI interface {
	Deploy(ctx context.Context, req aws.DeployRequest) (*aws.DeployResult, error)
}

// TemplateSourceAPI fetches the template of a deployed stack.
//
//go:generate mockery --name=TemplateSourceAPI --output=./mocks
type TemplateSourceAPI interface {
	CurrentTemplate(ctx context.Context, stackName string) ([]byte, error)
}
