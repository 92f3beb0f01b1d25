package builder

import (
	"netsynth/internal/models"
	"netsynth/internal/registry"
)

// CloudFormation resource types emitted by the builder
const (
	TypeVPC                         = "AWS::EC2::VPC"
	TypeInternetGateway             = "AWS::EC2::InternetGateway"
	TypeVPCGatewayAttachment        = "AWS::EC2::VPCGatewayAttachment"
	TypeRouteTable                  = "AWS::EC2::RouteTable"
	TypeRoute                       = "AWS::EC2::Route"
	TypeSecurityGroup               = "AWS::EC2::SecurityGroup"
	TypeSubnet                      = "AWS::EC2::Subnet"
	TypeSubnetRouteTableAssociation = "AWS::EC2::SubnetRouteTableAssociation"
	TypeInstance                    = "AWS::EC2::Instance"
)

// Resource is one creation intent in a Stack.
type Resource struct {
	Handle     registry.Handle
	Type       string
	Properties Properties

	// DependsOn lists ordering dependencies that are not references in
	// Properties, e.g. a gateway route waiting for the gateway attachment.
	DependsOn []registry.Handle

	seq int
}

// Dependencies returns every handle the resource needs to exist first,
// references before explicit ordering dependencies, without repeats.
func (r *Resource) Dependencies() []registry.Handle {
	seen := make(map[registry.Key]bool)
	var deps []registry.Handle
	for _, h := range append(r.Properties.References(), r.DependsOn...) {
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		deps = append(deps, h)
	}
	return deps
}

// Properties is the typed property set of a resource kind.
type Properties interface {
	// References returns the handles used as property values.
	References() []registry.Handle
}

// Tags are the key/value tags attached to a resource.
type Tags map[string]string

type VPCProperties struct {
	CIDRBlock          string
	EnableDNSSupport   bool
	EnableDNSHostnames bool
	Tags               Tags
}

func (p *VPCProperties) References() []registry.Handle { return nil }

type InternetGatewayProperties struct {
	Tags Tags
}

func (p *InternetGatewayProperties) References() []registry.Handle { return nil }

type GatewayAttachmentProperties struct {
	VPC             registry.Handle
	InternetGateway registry.Handle
}

func (p *GatewayAttachmentProperties) References() []registry.Handle {
	return []registry.Handle{p.VPC, p.InternetGateway}
}

type RouteTableProperties struct {
	VPC  registry.Handle
	Tags Tags
}

func (p *RouteTableProperties) References() []registry.Handle {
	return []registry.Handle{p.VPC}
}

// RouteTarget is a resolved route target: GatewayRouteTarget or ReferenceRouteTarget.
type RouteTarget interface {
	isResolvedTarget()
}

// GatewayRouteTarget points a route at the topology's internet gateway.
type GatewayRouteTarget struct {
	Gateway registry.Handle
}

// ReferenceRouteTarget points a route at an externally provisioned resource.
type ReferenceRouteTarget struct {
	Attribute string
	ID        string
}

func (GatewayRouteTarget) isResolvedTarget()   {}
func (ReferenceRouteTarget) isResolvedTarget() {}

type RouteProperties struct {
	RouteTable           registry.Handle
	DestinationCIDRBlock string
	Target               RouteTarget
}

func (p *RouteProperties) References() []registry.Handle {
	refs := []registry.Handle{p.RouteTable}
	if gw, ok := p.Target.(GatewayRouteTarget); ok {
		refs = append(refs, gw.Gateway)
	}
	return refs
}

type SecurityGroupProperties struct {
	VPC         registry.Handle
	GroupName   string
	Description string
	Ingress     []models.RuleSpec
	Egress      []models.RuleSpec
	Tags        Tags
}

func (p *SecurityGroupProperties) References() []registry.Handle {
	return []registry.Handle{p.VPC}
}

type SubnetProperties struct {
	VPC                 registry.Handle
	CIDRBlock           string
	AvailabilityZone    string
	MapPublicIPOnLaunch bool
	Tags                Tags
}

func (p *SubnetProperties) References() []registry.Handle {
	return []registry.Handle{p.VPC}
}

type SubnetRouteTableAssociationProperties struct {
	Subnet     registry.Handle
	RouteTable registry.Handle
}

func (p *SubnetRouteTableAssociationProperties) References() []registry.Handle {
	return []registry.Handle{p.Subnet, p.RouteTable}
}

type InstanceProperties struct {
	Subnet         registry.Handle
	SecurityGroups []registry.Handle
	ImageID        string
	InstanceType   string
	KeyName        string
	Tags           Tags
}

func (p *InstanceProperties) References() []registry.Handle {
	refs := []registry.Handle{p.Subnet}
	return append(refs, p.SecurityGroups...)
}
