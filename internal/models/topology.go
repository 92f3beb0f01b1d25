package models

// ResourceCategory names a family of resources sharing one name namespace.
type ResourceCategory string

const (
	CategoryNetwork           ResourceCategory = "network"
	CategoryGateway           ResourceCategory = "gateway"
	CategoryGatewayAttachment ResourceCategory = "gateway_attachment"
	CategoryRouteTable        ResourceCategory = "route_table"
	CategoryRoute             ResourceCategory = "route"
	CategorySecurityGroup     ResourceCategory = "security_group"
	CategorySubnet            ResourceCategory = "subnet"
	CategorySubnetAssociation ResourceCategory = "subnet_route_table_association"
	CategoryInstance          ResourceCategory = "instance"
)

// DefaultGatewayName is used when the network does not name its gateway.
const DefaultGatewayName = "internet-gateway"

// DefaultSecurityGroupDescription is used for groups declared without a description.
const DefaultSecurityGroupDescription = "Managed by netsynth"

// Topology is the full declaration of a network and everything inside it.
type Topology struct {
	Network        NetworkSpec
	RouteTables    []RouteTableSpec
	SecurityGroups []SecurityGroupSpec
	Subnets        []SubnetSpec
	Tags           map[string]string // applied to every resource
}

// NetworkSpec describes the VPC containing all other resources.
type NetworkSpec struct {
	Name               string
	CIDRBlock          string
	EnableDNSSupport   bool
	EnableDNSHostnames bool
	GatewayName        string
}

// RouteTableSpec is a named route table and its ordered routes.
type RouteTableSpec struct {
	Name   string
	Routes []RouteSpec
}

// RouteSpec is a single route entry.
type RouteSpec struct {
	DestinationCIDRBlock string
	Target               RouteTarget
}

// RouteTarget is either GatewayTarget or ReferenceTarget.
type RouteTarget interface {
	isRouteTarget()
}

// GatewayTarget routes through the topology's internet gateway.
type GatewayTarget struct{}

// ReferenceTarget routes through an externally provisioned resource.
// Attribute is the route property carrying the ID, e.g. nat_gateway_id.
type ReferenceTarget struct {
	Attribute string
	ID        string
}

func (GatewayTarget) isRouteTarget()   {}
func (ReferenceTarget) isRouteTarget() {}

// Route target attributes accepted by ReferenceTarget
const (
	TargetNatGateway                = "nat_gateway_id"
	TargetTransitGateway            = "transit_gateway_id"
	TargetVpcPeeringConnection      = "vpc_peering_connection_id"
	TargetNetworkInterface          = "network_interface_id"
	TargetEgressOnlyInternetGateway = "egress_only_internet_gateway_id"
	TargetVpcEndpoint               = "vpc_endpoint_id"
)

// ReferenceAttributes lists every attribute a ReferenceTarget may use.
var ReferenceAttributes = []string{
	TargetNatGateway,
	TargetTransitGateway,
	TargetVpcPeeringConnection,
	TargetNetworkInterface,
	TargetEgressOnlyInternetGateway,
	TargetVpcEndpoint,
}

// SecurityGroupSpec is a named security group with its rules.
type SecurityGroupSpec struct {
	Name        string
	Description string
	Ingress     []RuleSpec
	Egress      []RuleSpec
}

// RuleSpec is one ingress or egress permission.
type RuleSpec struct {
	Protocol    string // tcp, udp, icmp or -1 for all
	FromPort    int
	ToPort      int
	CIDRBlock   string
	Description string
}

// SubnetSpec describes a subnet and the instances launched into it.
// MapPublicIPOnLaunch is a pointer so that an omitted value can be told
// apart from false.
type SubnetSpec struct {
	Name                string
	CIDRBlock           string
	AvailabilityZone    string
	MapPublicIPOnLaunch *bool
	RouteTable          string
	Instances           []InstanceSpec
}

// InstanceSpec describes an EC2 instance.
type InstanceSpec struct {
	Name           string
	ImageID        string
	InstanceType   string
	KeyName        string
	SecurityGroups []string
	Tags           map[string]string
}
