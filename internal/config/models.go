package config

// The block types below decode both HCL (native and JSON syntax) and
// YAML topology files.

// NetworkBlock represents the network (VPC) declaration.
type NetworkBlock struct {
	Name               string `hcl:"name,label" yaml:"name"`
	CIDRBlock          string `hcl:"cidr_block,optional" yaml:"cidr_block"`
	EnableDNSSupport   *bool  `hcl:"enable_dns_support,optional" yaml:"enable_dns_support"`
	EnableDNSHostnames *bool  `hcl:"enable_dns_hostnames,optional" yaml:"enable_dns_hostnames"`
	InternetGateway    string `hcl:"internet_gateway,optional" yaml:"internet_gateway"`
}

// RouteTableBlock represents a route_table block and its routes.
type RouteTableBlock struct {
	Name   string        `hcl:"name,label" yaml:"name"`
	Routes []*RouteBlock `hcl:"route,block" yaml:"routes"`
}

// RouteBlock represents a single route. Exactly one target must be set:
// gateway = true, or one of the *_id attributes.
type RouteBlock struct {
	DestinationCIDRBlock        string `hcl:"destination_cidr_block,optional" yaml:"destination_cidr_block"`
	Gateway                     bool   `hcl:"gateway,optional" yaml:"gateway"`
	NatGatewayID                string `hcl:"nat_gateway_id,optional" yaml:"nat_gateway_id"`
	TransitGatewayID            string `hcl:"transit_gateway_id,optional" yaml:"transit_gateway_id"`
	VpcPeeringConnectionID      string `hcl:"vpc_peering_connection_id,optional" yaml:"vpc_peering_connection_id"`
	NetworkInterfaceID          string `hcl:"network_interface_id,optional" yaml:"network_interface_id"`
	EgressOnlyInternetGatewayID string `hcl:"egress_only_internet_gateway_id,optional" yaml:"egress_only_internet_gateway_id"`
	VpcEndpointID               string `hcl:"vpc_endpoint_id,optional" yaml:"vpc_endpoint_id"`
}

// SecurityGroupBlock represents a security_group block.
type SecurityGroupBlock struct {
	Name        string       `hcl:"name,label" yaml:"name"`
	Description string       `hcl:"description,optional" yaml:"description"`
	Ingress     []*RuleBlock `hcl:"ingress,block" yaml:"ingress"`
	Egress      []*RuleBlock `hcl:"egress,block" yaml:"egress"`
}

// RuleBlock represents an ingress or egress rule.
type RuleBlock struct {
	Protocol    string `hcl:"protocol,optional" yaml:"protocol"`
	FromPort    int    `hcl:"from_port,optional" yaml:"from_port"`
	ToPort      int    `hcl:"to_port,optional" yaml:"to_port"`
	CIDRBlock   string `hcl:"cidr_block,optional" yaml:"cidr_block"`
	Description string `hcl:"description,optional" yaml:"description"`
}

// SubnetBlock represents a subnet block and the instances it holds.
// Required attributes are decoded as optional so that their absence is
// reported against the subnet by validation rather than by the decoder.
type SubnetBlock struct {
	Name                string           `hcl:"name,label" yaml:"name"`
	CIDRBlock           string           `hcl:"cidr_block,optional" yaml:"cidr_block"`
	AvailabilityZone    string           `hcl:"availability_zone,optional" yaml:"availability_zone"`
	MapPublicIPOnLaunch *bool            `hcl:"map_public_ip_on_launch,optional" yaml:"map_public_ip_on_launch"`
	RouteTable          string           `hcl:"route_table,optional" yaml:"route_table"`
	Instances           []*InstanceBlock `hcl:"instance,block" yaml:"instances"`
}

// InstanceBlock represents an EC2 instance inside a subnet.
type InstanceBlock struct {
	Name           string            `hcl:"name,label" yaml:"name"`
	AMI            string            `hcl:"ami,optional" yaml:"ami"`
	InstanceType   string            `hcl:"instance_type,optional" yaml:"instance_type"`
	KeyName        string            `hcl:"key_name,optional" yaml:"key_name"`
	SecurityGroups []string          `hcl:"security_groups,optional" yaml:"security_groups"`
	Tags           map[string]string `hcl:"tags,optional" yaml:"tags"`
}

// ConfigFile is the top-level structure of an HCL topology file.
type ConfigFile struct {
	Networks       []*NetworkBlock       `hcl:"network,block"`
	RouteTables    []*RouteTableBlock    `hcl:"route_table,block"`
	SecurityGroups []*SecurityGroupBlock `hcl:"security_group,block"`
	Subnets        []*SubnetBlock        `hcl:"subnet,block"`
	Tags           map[string]string     `hcl:"tags,optional"`
}

// YAMLFile is the top-level structure of a YAML topology file.
type YAMLFile struct {
	Network        *NetworkBlock         `yaml:"network"`
	RouteTables    []*RouteTableBlock    `yaml:"route_tables"`
	SecurityGroups []*SecurityGroupBlock `yaml:"security_groups"`
	Subnets        []*SubnetBlock        `yaml:"subnets"`
	Tags           map[string]string     `yaml:"tags"`
}
