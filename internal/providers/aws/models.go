package aws

import (
	"netsynth/internal/builder"
	"netsynth/internal/cfn"
)

// Deploy engines
const (
	EngineCloudFormation = "cloudformation"
	EngineEC2            = "ec2"
)

// DeployRequest carries everything a deployer may need. The EC2 engine
// reads Stack, the CloudFormation engine reads Template and StackName.
type DeployRequest struct {
	StackName string
	Stack     *builder.Stack
	Template  *cfn.Template
}

// DeployedResource maps a logical id to the id AWS assigned to it.
type DeployedResource struct {
	LogicalID  string `json:"logical_id"`
	Type       string `json:"type"`
	PhysicalID string `json:"physical_id"`
}

// DeployResult lists the deployed resources in deployment order.
type DeployResult struct {
	Engine    string             `json:"engine"`
	StackName string             `json:"stack_name,omitempty"`
	Status    string             `json:"status"`
	Resources []DeployedResource `json:"resources"`
}
