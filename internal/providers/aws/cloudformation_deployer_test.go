package aws

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"netsynth/internal/cfn"
	"netsynth/internal/providers/aws/mocks"
	"netsynth/pkg/logging"
)

const testStackName = "netsynth"

func testTemplate() *cfn.Template {
	return &cfn.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources: map[string]*cfn.Resource{
			"NetworkMain": {
				Type:       "AWS::EC2::VPC",
				Properties: map[string]interface{}{"CidrBlock": "10.0.0.0/16"},
			},
			"SubnetPublicA": {
				Type:       "AWS::EC2::Subnet",
				Properties: map[string]interface{}{"VpcId": map[string]interface{}{"Ref": "NetworkMain"}},
			},
		},
	}
}

func stackOutput(status types.StackStatus, outputs ...types.Output) *cloudformation.DescribeStacksOutput {
	return &cloudformation.DescribeStacksOutput{Stacks: []types.Stack{{
		StackName:   aws.String(testStackName),
		StackStatus: status,
		Outputs:     outputs,
	}}}
}

func output(key, value string) types.Output {
	return types.Output{OutputKey: aws.String(key), OutputValue: aws.String(value)}
}

func newTestCloudFormationDeployer(client CloudFormationAPI) *CloudFormationDeployer {
	return NewCloudFormationDeployer(client, logging.NewMockLogger(), time.Minute)
}

// Direct DescribeStacks calls carry (ctx, params); waiter calls add one option func.
func onDescribe(client *mocks.CloudFormationAPI) *mock.Call {
	return client.On("DescribeStacks", mock.Anything, mock.MatchedBy(func(in *cloudformation.DescribeStacksInput) bool {
		return aws.ToString(in.StackName) == testStackName
	}))
}

func onWaiterDescribe(client *mocks.CloudFormationAPI) *mock.Call {
	return client.On("DescribeStacks", mock.Anything, mock.Anything, mock.Anything)
}

func TestCloudFormationDeployer_CreatesStack(t *testing.T) {
	client := mocks.NewCloudFormationAPI(t)

	onDescribe(client).Return(nil, errors.New("ValidationError: Stack with id netsynth does not exist")).Once()
	client.On("CreateStack", mock.Anything, mock.MatchedBy(func(in *cloudformation.CreateStackInput) bool {
		return aws.ToString(in.StackName) == testStackName &&
			strings.Contains(aws.ToString(in.TemplateBody), `"AWS::EC2::VPC"`) &&
			in.OnFailure == types.OnFailureRollback
	})).Return(&cloudformation.CreateStackOutput{StackId: aws.String("arn:stack/netsynth")}, nil)
	onWaiterDescribe(client).Return(stackOutput(types.StackStatusCreateComplete), nil)
	onDescribe(client).Return(stackOutput(types.StackStatusCreateComplete,
		output("SubnetPublicAId", "subnet-1"),
		output("NetworkMainId", "vpc-1"),
		output("SomethingElse", "x"),
	), nil).Once()

	result, err := newTestCloudFormationDeployer(client).Deploy(context.Background(), DeployRequest{
		StackName: testStackName,
		Template:  testTemplate(),
	})
	require.NoError(t, err)

	assert.Equal(t, EngineCloudFormation, result.Engine)
	assert.Equal(t, testStackName, result.StackName)
	assert.Equal(t, "CREATE_COMPLETE", result.Status)
	assert.Equal(t, []DeployedResource{
		{LogicalID: "NetworkMain", Type: "AWS::EC2::VPC", PhysicalID: "vpc-1"},
		{LogicalID: "SubnetPublicA", Type: "AWS::EC2::Subnet", PhysicalID: "subnet-1"},
	}, result.Resources)

	client.AssertNotCalled(t, "UpdateStack", mock.Anything, mock.Anything)
}

func TestCloudFormationDeployer_UpdatesStack(t *testing.T) {
	client := mocks.NewCloudFormationAPI(t)

	onDescribe(client).Return(stackOutput(types.StackStatusCreateComplete), nil).Once()
	client.On("UpdateStack", mock.Anything, mock.MatchedBy(func(in *cloudformation.UpdateStackInput) bool {
		return aws.ToString(in.StackName) == testStackName
	})).Return(&cloudformation.UpdateStackOutput{}, nil)
	onWaiterDescribe(client).Return(stackOutput(types.StackStatusUpdateComplete), nil)
	onDescribe(client).Return(stackOutput(types.StackStatusUpdateComplete, output("NetworkMainId", "vpc-1")), nil).Once()

	result, err := newTestCloudFormationDeployer(client).Deploy(context.Background(), DeployRequest{
		StackName: testStackName,
		Template:  testTemplate(),
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE_COMPLETE", result.Status)
	require.Len(t, result.Resources, 1)

	client.AssertNotCalled(t, "CreateStack", mock.Anything, mock.Anything)
}

func TestCloudFormationDeployer_NoUpdates(t *testing.T) {
	client := mocks.NewCloudFormationAPI(t)

	onDescribe(client).Return(stackOutput(types.StackStatusUpdateComplete), nil).Twice()
	client.On("UpdateStack", mock.Anything, mock.Anything).
		Return(nil, errors.New("ValidationError: No updates are to be performed."))

	result, err := newTestCloudFormationDeployer(client).Deploy(context.Background(), DeployRequest{
		StackName: testStackName,
		Template:  testTemplate(),
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE_COMPLETE", result.Status)
	assert.Empty(t, result.Resources)
}

func TestCloudFormationDeployer_RollbackComplete(t *testing.T) {
	client := mocks.NewCloudFormationAPI(t)

	onDescribe(client).Return(stackOutput(types.StackStatusRollbackComplete), nil).Once()

	result, err := newTestCloudFormationDeployer(client).Deploy(context.Background(), DeployRequest{
		StackName: testStackName,
		Template:  testTemplate(),
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsErrorCategory(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "ROLLBACK_COMPLETE")
}

func TestCloudFormationDeployer_CreateDenied(t *testing.T) {
	client := mocks.NewCloudFormationAPI(t)

	onDescribe(client).Return(nil, errors.New("Stack with id netsynth does not exist")).Once()
	client.On("CreateStack", mock.Anything, mock.Anything).
		Return(nil, errors.New("AccessDenied: User is not authorized to perform cloudformation:CreateStack"))

	_, err := newTestCloudFormationDeployer(client).Deploy(context.Background(), DeployRequest{
		StackName: testStackName,
		Template:  testTemplate(),
	})
	require.Error(t, err)
	assert.True(t, IsErrorCategory(err, ErrPermissionDenied))
}

func TestCloudFormationDeployer_InvalidRequest(t *testing.T) {
	client := mocks.NewCloudFormationAPI(t)
	deployer := newTestCloudFormationDeployer(client)

	_, err := deployer.Deploy(context.Background(), DeployRequest{StackName: testStackName})
	assert.True(t, IsErrorCategory(err, ErrInvalidInput))

	_, err = deployer.Deploy(context.Background(), DeployRequest{Template: testTemplate()})
	assert.True(t, IsErrorCategory(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "stack name is required")
}

func TestCloudFormationDeployer_CurrentTemplate(t *testing.T) {
	client := mocks.NewCloudFormationAPI(t)

	client.On("GetTemplate", mock.Anything, mock.MatchedBy(func(in *cloudformation.GetTemplateInput) bool {
		return aws.ToString(in.StackName) == testStackName && in.TemplateStage == types.TemplateStageOriginal
	})).Return(&cloudformation.GetTemplateOutput{TemplateBody: aws.String(`{"Resources":{}}`)}, nil).Once()
	client.On("GetTemplate", mock.Anything, mock.Anything).
		Return(nil, errors.New("ValidationError: Stack with id other does not exist")).Once()

	deployer := newTestCloudFormationDeployer(client)

	body, err := deployer.CurrentTemplate(context.Background(), testStackName)
	require.NoError(t, err)
	assert.Equal(t, `{"Resources":{}}`, string(body))

	_, err = deployer.CurrentTemplate(context.Background(), "other")
	require.Error(t, err)
	assert.True(t, IsErrorCategory(err, ErrResourceNotFound))
}

func TestNewCloudFormationDeployer_DefaultWait(t *testing.T) {
	d := NewCloudFormationDeployer(mocks.NewCloudFormationAPI(t), logging.NewMockLogger(), 0)
	assert.Equal(t, DefaultStackWait, d.maxWait)
}
