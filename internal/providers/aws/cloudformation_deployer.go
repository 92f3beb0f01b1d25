package aws

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"netsynth/internal/cfn"
	"netsynth/pkg/logging"
)

const (
	resourceTypeStack = "AWS::CloudFormation::Stack"

	// DefaultStackWait bounds how long a create or update may take
	DefaultStackWait = 30 * time.Minute
)

// CloudFormationDeployer submits synthesized templates as CloudFormation stacks.
type CloudFormationDeployer struct {
	client  CloudFormationAPI
	logger  logging.Logger
	maxWait time.Duration
}

// NewCloudFormationDeployer creates a deployer waiting at most maxWait for a
// stack operation to finish (0 = DefaultStackWait).
func NewCloudFormationDeployer(client CloudFormationAPI, logger logging.Logger, maxWait time.Duration) *CloudFormationDeployer {
	if maxWait <= 0 {
		maxWait = DefaultStackWait
	}
	return &CloudFormationDeployer{
		client:  client,
		logger:  logger,
		maxWait: maxWait,
	}
}

// Deploy creates req.StackName from req.Template, or updates it when it
// already exists, and waits for the operation to complete.
func (d *CloudFormationDeployer) Deploy(ctx context.Context, req DeployRequest) (*DeployResult, error) {
	if req.Template == nil {
		return nil, NewAWSError(ErrInvalidInput, resourceTypeStack, req.StackName, "template is nil", nil)
	}
	if req.StackName == "" {
		return nil, NewAWSError(ErrInvalidInput, resourceTypeStack, "", "stack name is required", nil)
	}

	body, err := req.Template.Render(cfn.FormatJSON)
	if err != nil {
		return nil, NewAWSError(ErrInvalidInput, resourceTypeStack, req.StackName, "failed to render template", err)
	}

	existing, err := d.describeStack(ctx, req.StackName)
	if err != nil {
		return nil, err
	}

	describe := &cloudformation.DescribeStacksInput{StackName: aws.String(req.StackName)}

	if existing == nil {
		d.logger.Info("Creating stack %s", req.StackName)
		_, err := d.client.CreateStack(ctx, &cloudformation.CreateStackInput{
			StackName:    aws.String(req.StackName),
			TemplateBody: aws.String(string(body)),
			OnFailure:    types.OnFailureRollback,
		})
		if err != nil {
			return nil, ClassifyAWSError(err, resourceTypeStack, req.StackName)
		}

		waiter := cloudformation.NewStackCreateCompleteWaiter(d.client)
		if err := waiter.Wait(ctx, describe, d.maxWait); err != nil {
			return nil, ClassifyAWSError(fmt.Errorf("waiting for stack creation: %w", err), resourceTypeStack, req.StackName)
		}
	} else {
		if existing.StackStatus == types.StackStatusRollbackComplete {
			return nil, NewAWSError(ErrInvalidInput, resourceTypeStack, req.StackName,
				"stack is in ROLLBACK_COMPLETE and must be deleted before it can be deployed again", nil)
		}

		d.logger.Info("Updating stack %s (status %s)", req.StackName, existing.StackStatus)
		_, err := d.client.UpdateStack(ctx, &cloudformation.UpdateStackInput{
			StackName:    aws.String(req.StackName),
			TemplateBody: aws.String(string(body)),
		})
		switch {
		case err != nil && strings.Contains(err.Error(), "No updates are to be performed"):
			d.logger.Info("Stack %s is already up to date", req.StackName)
		case err != nil:
			return nil, ClassifyAWSError(err, resourceTypeStack, req.StackName)
		default:
			waiter := cloudformation.NewStackUpdateCompleteWaiter(d.client)
			if err := waiter.Wait(ctx, describe, d.maxWait); err != nil {
				return nil, ClassifyAWSError(fmt.Errorf("waiting for stack update: %w", err), resourceTypeStack, req.StackName)
			}
		}
	}

	stack, err := d.describeStack(ctx, req.StackName)
	if err != nil {
		return nil, err
	}
	if stack == nil {
		return nil, NewAWSError(ErrResourceNotFound, resourceTypeStack, req.StackName, "stack disappeared after deployment", nil)
	}

	result := &DeployResult{
		Engine:    EngineCloudFormation,
		StackName: req.StackName,
		Status:    string(stack.StackStatus),
		Resources: outputsToResources(stack.Outputs, req.Template),
	}
	d.logger.Info("Stack %s is %s", req.StackName, result.Status)
	return result, nil
}

// CurrentTemplate returns the template body of a deployed stack.
func (d *CloudFormationDeployer) CurrentTemplate(ctx context.Context, stackName string) ([]byte, error) {
	out, err := d.client.GetTemplate(ctx, &cloudformation.GetTemplateInput{
		StackName:     aws.String(stackName),
		TemplateStage: types.TemplateStageOriginal,
	})
	if err != nil {
		return nil, ClassifyAWSError(err, resourceTypeStack, stackName)
	}
	return []byte(aws.ToString(out.TemplateBody)), nil
}

// describeStack returns nil when the stack does not exist.
func (d *CloudFormationDeployer) describeStack(ctx context.Context, stackName string) (*types.Stack, error) {
	out, err := d.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return nil, nil
		}
		return nil, ClassifyAWSError(err, resourceTypeStack, stackName)
	}
	if len(out.Stacks) == 0 {
		return nil, nil
	}
	return &out.Stacks[0], nil
}

// outputsToResources maps <LogicalID>Id outputs back to their resources.
func outputsToResources(outputs []types.Output, tmpl *cfn.Template) []DeployedResource {
	resources := make([]DeployedResource, 0, len(outputs))
	for _, o := range outputs {
		logicalID := strings.TrimSuffix(aws.ToString(o.OutputKey), "Id")
		r, ok := tmpl.Resources[logicalID]
		if !ok {
			continue
		}
		resources = append(resources, DeployedResource{
			LogicalID:  logicalID,
			Type:       r.Type,
			PhysicalID: aws.ToString(o.OutputValue),
		})
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].LogicalID < resources[j].LogicalID })
	return resources
}
