package aws

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"netsynth/internal/builder"
	"netsynth/internal/models"
	"netsynth/internal/registry"
	"netsynth/pkg/logging"
)

const defaultEgressCIDR = "0.0.0.0/0"

// EC2Deployer provisions a stack through direct EC2 API calls. Resources
// are created layer by layer; a layer's resources run concurrently.
type EC2Deployer struct {
	client      EC2ClientAPI
	logger      logging.Logger
	concurrency int
	newToken    func() string
}

// NewEC2Deployer creates a deployer running at most concurrency calls at
// once within a layer (0 = unlimited).
func NewEC2Deployer(client EC2ClientAPI, logger logging.Logger, concurrency int) *EC2Deployer {
	return &EC2Deployer{
		client:      client,
		logger:      logger,
		concurrency: concurrency,
		newToken:    uuid.NewString,
	}
}

// physicalIDs is the logical id -> AWS id map shared by a layer's workers.
type physicalIDs struct {
	mu  sync.Mutex
	ids map[string]string
}

func (p *physicalIDs) set(logicalID, physicalID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids[logicalID] = physicalID
}

func (p *physicalIDs) get(h registry.Handle) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.ids[h.LogicalID]
	if !ok {
		return "", NewAWSError(ErrInternalError, "", h.LogicalID, fmt.Sprintf("%s has not been created", h), nil)
	}
	return id, nil
}

// Deploy creates every resource of req.Stack. The first failure cancels
// the calls still running in its layer and stops the deployment; the
// returned result then holds the resources created so far.
func (d *EC2Deployer) Deploy(ctx context.Context, req DeployRequest) (*DeployResult, error) {
	if req.Stack == nil {
		return nil, NewAWSError(ErrInvalidInput, "", "", "stack is nil", nil)
	}

	layers, err := req.Stack.Layers()
	if err != nil {
		return nil, NewAWSError(ErrInvalidInput, "", "", "failed to order stack", err)
	}

	state := &physicalIDs{ids: make(map[string]string, req.Stack.Len())}
	result := &DeployResult{Engine: EngineEC2, StackName: req.StackName, Status: "IN_PROGRESS"}

	for depth, layer := range layers {
		d.logger.Info("Deploying layer %d: %d resources", depth, len(layer))

		g, gctx := errgroup.WithContext(ctx)
		if d.concurrency > 0 {
			g.SetLimit(d.concurrency)
		}

		for _, r := range layer {
			r := r // per-iteration copy; go.mod targets go1.21 (pre-1.22 loop semantics)
			g.Go(func() error {
				id, err := d.apply(gctx, r, state)
				if err != nil {
					return ClassifyAWSError(err, r.Type, r.Handle.LogicalID)
				}
				state.set(r.Handle.LogicalID, id)
				d.logger.Debug("Created %s %s as %s", r.Type, r.Handle.LogicalID, id)
				return nil
			})
		}

		err := g.Wait()
		result.Resources = append(result.Resources, created(layer, state)...)
		if err != nil {
			result.Status = "FAILED"
			return result, err
		}
	}

	result.Status = "COMPLETE"
	d.logger.Info("Deployed %d resources", len(result.Resources))
	return result, nil
}

// created lists the resources of layer that have a physical id, in
// logical id order.
func created(layer []*builder.Resource, state *physicalIDs) []DeployedResource {
	state.mu.Lock()
	defer state.mu.Unlock()

	var out []DeployedResource
	for _, r := range layer {
		if id, ok := state.ids[r.Handle.LogicalID]; ok {
			out = append(out, DeployedResource{LogicalID: r.Handle.LogicalID, Type: r.Type, PhysicalID: id})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogicalID < out[j].LogicalID })
	return out
}

func (d *EC2Deployer) apply(ctx context.Context, r *builder.Resource, state *physicalIDs) (string, error) {
	switch p := r.Properties.(type) {
	case *builder.VPCProperties:
		return d.createVPC(ctx, p)
	case *builder.InternetGatewayProperties:
		out, err := d.client.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
			TagSpecifications: tagSpecifications(types.ResourceTypeInternetGateway, p.Tags),
		})
		if err != nil {
			return "", err
		}
		return aws.ToString(out.InternetGateway.InternetGatewayId), nil
	case *builder.GatewayAttachmentProperties:
		return d.attachGateway(ctx, p, state)
	case *builder.RouteTableProperties:
		vpcID, err := state.get(p.VPC)
		if err != nil {
			return "", err
		}
		out, err := d.client.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
			VpcId:             aws.String(vpcID),
			TagSpecifications: tagSpecifications(types.ResourceTypeRouteTable, p.Tags),
		})
		if err != nil {
			return "", err
		}
		return aws.ToString(out.RouteTable.RouteTableId), nil
	case *builder.RouteProperties:
		return d.createRoute(ctx, p, state)
	case *builder.SecurityGroupProperties:
		return d.createSecurityGroup(ctx, p, state)
	case *builder.SubnetProperties:
		return d.createSubnet(ctx, p, state)
	case *builder.SubnetRouteTableAssociationProperties:
		subnetID, err := state.get(p.Subnet)
		if err != nil {
			return "", err
		}
		routeTableID, err := state.get(p.RouteTable)
		if err != nil {
			return "", err
		}
		out, err := d.client.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
			SubnetId:     aws.String(subnetID),
			RouteTableId: aws.String(routeTableID),
		})
		if err != nil {
			return "", err
		}
		return aws.ToString(out.AssociationId), nil
	case *builder.InstanceProperties:
		return d.runInstance(ctx, p, state)
	default:
		return "", NewAWSError(ErrInvalidInput, r.Type, r.Handle.LogicalID,
			fmt.Sprintf("unsupported properties type %T", p), nil)
	}
}

func (d *EC2Deployer) createVPC(ctx context.Context, p *builder.VPCProperties) (string, error) {
	out, err := d.client.CreateVpc(ctx, &ec2.CreateVpcInput{
		CidrBlock:         aws.String(p.CIDRBlock),
		TagSpecifications: tagSpecifications(types.ResourceTypeVpc, p.Tags),
	})
	if err != nil {
		return "", err
	}
	vpcID := aws.ToString(out.Vpc.VpcId)

	// One attribute per call
	_, err = d.client.ModifyVpcAttribute(ctx, &ec2.ModifyVpcAttributeInput{
		VpcId:            aws.String(vpcID),
		EnableDnsSupport: &types.AttributeBooleanValue{Value: aws.Bool(p.EnableDNSSupport)},
	})
	if err != nil {
		return "", err
	}
	_, err = d.client.ModifyVpcAttribute(ctx, &ec2.ModifyVpcAttributeInput{
		VpcId:              aws.String(vpcID),
		EnableDnsHostnames: &types.AttributeBooleanValue{Value: aws.Bool(p.EnableDNSHostnames)},
	})
	if err != nil {
		return "", err
	}
	return vpcID, nil
}

func (d *EC2Deployer) attachGateway(ctx context.Context, p *builder.GatewayAttachmentProperties, state *physicalIDs) (string, error) {
	vpcID, err := state.get(p.VPC)
	if err != nil {
		return "", err
	}
	gatewayID, err := state.get(p.InternetGateway)
	if err != nil {
		return "", err
	}
	_, err = d.client.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
		VpcId:             aws.String(vpcID),
		InternetGatewayId: aws.String(gatewayID),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%s", gatewayID, vpcID), nil
}

func (d *EC2Deployer) createRoute(ctx context.Context, p *builder.RouteProperties, state *physicalIDs) (string, error) {
	routeTableID, err := state.get(p.RouteTable)
	if err != nil {
		return "", err
	}

	input := &ec2.CreateRouteInput{
		RouteTableId:         aws.String(routeTableID),
		DestinationCidrBlock: aws.String(p.DestinationCIDRBlock),
	}

	switch target := p.Target.(type) {
	case builder.GatewayRouteTarget:
		gatewayID, err := state.get(target.Gateway)
		if err != nil {
			return "", err
		}
		input.GatewayId = aws.String(gatewayID)
	case builder.ReferenceRouteTarget:
		if err := setRouteTarget(input, target); err != nil {
			return "", err
		}
	default:
		return "", NewAWSError(ErrInvalidInput, builder.TypeRoute, routeTableID,
			fmt.Sprintf("unknown route target type %T", target), nil)
	}

	if _, err := d.client.CreateRoute(ctx, input); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", routeTableID, p.DestinationCIDRBlock), nil
}

func setRouteTarget(input *ec2.CreateRouteInput, target builder.ReferenceRouteTarget) error {
	id := aws.String(target.ID)
	switch target.Attribute {
	case models.TargetNatGateway:
		input.NatGatewayId = id
	case models.TargetTransitGateway:
		input.TransitGatewayId = id
	case models.TargetVpcPeeringConnection:
		input.VpcPeeringConnectionId = id
	case models.TargetNetworkInterface:
		input.NetworkInterfaceId = id
	case models.TargetEgressOnlyInternetGateway:
		input.EgressOnlyInternetGatewayId = id
	case models.TargetVpcEndpoint:
		input.VpcEndpointId = id
	default:
		return NewAWSError(ErrInvalidInput, builder.TypeRoute, target.ID,
			fmt.Sprintf("unknown route target attribute %q", target.Attribute), nil)
	}
	return nil
}

func (d *EC2Deployer) createSecurityGroup(ctx context.Context, p *builder.SecurityGroupProperties, state *physicalIDs) (string, error) {
	vpcID, err := state.get(p.VPC)
	if err != nil {
		return "", err
	}

	out, err := d.client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:         aws.String(p.GroupName),
		Description:       aws.String(p.Description),
		VpcId:             aws.String(vpcID),
		TagSpecifications: tagSpecifications(types.ResourceTypeSecurityGroup, p.Tags),
	})
	if err != nil {
		return "", err
	}
	groupID := aws.ToString(out.GroupId)

	if len(p.Ingress) > 0 {
		_, err := d.client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: ipPermissions(p.Ingress),
		})
		if err != nil {
			return "", err
		}
	}

	// A new group already allows all outbound traffic
	var egress []models.RuleSpec
	keepDefault := false
	for _, rule := range p.Egress {
		if isDefaultEgress(rule) {
			d.logger.Debug("Skipping default egress rule of %s", p.GroupName)
			keepDefault = true
			continue
		}
		egress = append(egress, rule)
	}
	if len(egress) > 0 {
		_, err := d.client.AuthorizeSecurityGroupEgress(ctx, &ec2.AuthorizeSecurityGroupEgressInput{
			GroupId:       aws.String(groupID),
			IpPermissions: ipPermissions(egress),
		})
		if err != nil {
			return "", err
		}
	}

	// Declared egress replaces the default rule, as it does in a template
	if len(p.Egress) > 0 && !keepDefault {
		d.logger.Debug("Revoking default egress rule of %s", p.GroupName)
		_, err := d.client.RevokeSecurityGroupEgress(ctx, &ec2.RevokeSecurityGroupEgressInput{
			GroupId: aws.String(groupID),
			IpPermissions: []types.IpPermission{{
				IpProtocol: aws.String("-1"),
				IpRanges:   []types.IpRange{{CidrIp: aws.String(defaultEgressCIDR)}},
			}},
		})
		if err != nil {
			return "", err
		}
	}

	return groupID, nil
}

func isDefaultEgress(rule models.RuleSpec) bool {
	return rule.Protocol == "-1" && rule.CIDRBlock == defaultEgressCIDR
}

func (d *EC2Deployer) createSubnet(ctx context.Context, p *builder.SubnetProperties, state *physicalIDs) (string, error) {
	vpcID, err := state.get(p.VPC)
	if err != nil {
		return "", err
	}

	out, err := d.client.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:             aws.String(vpcID),
		CidrBlock:         aws.String(p.CIDRBlock),
		AvailabilityZone:  aws.String(p.AvailabilityZone),
		TagSpecifications: tagSpecifications(types.ResourceTypeSubnet, p.Tags),
	})
	if err != nil {
		return "", err
	}
	subnetID := aws.ToString(out.Subnet.SubnetId)

	if p.MapPublicIPOnLaunch {
		_, err := d.client.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
			SubnetId:            aws.String(subnetID),
			MapPublicIpOnLaunch: &types.AttributeBooleanValue{Value: aws.Bool(true)},
		})
		if err != nil {
			return "", err
		}
	}
	return subnetID, nil
}

func (d *EC2Deployer) runInstance(ctx context.Context, p *builder.InstanceProperties, state *physicalIDs) (string, error) {
	subnetID, err := state.get(p.Subnet)
	if err != nil {
		return "", err
	}

	groupIDs := make([]string, 0, len(p.SecurityGroups))
	for _, g := range p.SecurityGroups {
		id, err := state.get(g)
		if err != nil {
			return "", err
		}
		groupIDs = append(groupIDs, id)
	}

	input := &ec2.RunInstancesInput{
		ImageId:           aws.String(p.ImageID),
		InstanceType:      types.InstanceType(p.InstanceType),
		MinCount:          aws.Int32(1),
		MaxCount:          aws.Int32(1),
		SubnetId:          aws.String(subnetID),
		SecurityGroupIds:  groupIDs,
		ClientToken:       aws.String(d.newToken()),
		TagSpecifications: tagSpecifications(types.ResourceTypeInstance, p.Tags),
	}
	if p.KeyName != "" {
		input.KeyName = aws.String(p.KeyName)
	}

	out, err := d.client.RunInstances(ctx, input)
	if err != nil {
		return "", err
	}
	if len(out.Instances) == 0 {
		return "", NewAWSError(ErrInternalError, builder.TypeInstance, subnetID, "RunInstances returned no instance", nil)
	}
	return aws.ToString(out.Instances[0].InstanceId), nil
}

func ipPermissions(rules []models.RuleSpec) []types.IpPermission {
	perms := make([]types.IpPermission, len(rules))
	for i, r := range rules {
		perm := types.IpPermission{
			IpProtocol: aws.String(r.Protocol),
			IpRanges:   []types.IpRange{{CidrIp: aws.String(r.CIDRBlock)}},
		}
		if r.Description != "" {
			perm.IpRanges[0].Description = aws.String(r.Description)
		}
		if r.Protocol != "-1" {
			perm.FromPort = aws.Int32(int32(r.FromPort))
			perm.ToPort = aws.Int32(int32(r.ToPort))
		}
		perms[i] = perm
	}
	return perms
}

func tagSpecifications(resourceType types.ResourceType, tags builder.Tags) []types.TagSpecification {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.Tag, len(keys))
	for i, k := range keys {
		out[i] = types.Tag{Key: aws.String(k), Value: aws.String(tags[k])}
	}
	return []types.TagSpecification{{ResourceType: resourceType, Tags: out}}
}
