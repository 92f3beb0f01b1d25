package models

import (
	"fmt"
	"net/netip"
	"slices"
)

// ParseIPv4CIDR parses a canonical IPv4 CIDR block such as 10.0.0.0/16.
func ParseIPv4CIDR(cidr string) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return netip.Prefix{}, err
	}
	if !prefix.Addr().Is4() {
		return netip.Prefix{}, fmt.Errorf("%q is not an IPv4 block", cidr)
	}
	if prefix != prefix.Masked() {
		return netip.Prefix{}, fmt.Errorf("%q has host bits set, expected %s", cidr, prefix.Masked())
	}
	return prefix, nil
}

// Validate checks the network's required fields and returns its parsed CIDR block.
func (n NetworkSpec) Validate() (netip.Prefix, error) {
	if n.Name == "" {
		return netip.Prefix{}, NewConfigError(CategoryNetwork, "", "network name is required", nil)
	}
	if n.CIDRBlock == "" {
		return netip.Prefix{}, NewConfigError(CategoryNetwork, n.Name, "cidr_block is required", nil)
	}
	prefix, err := ParseIPv4CIDR(n.CIDRBlock)
	if err != nil {
		return netip.Prefix{}, NewConfigError(CategoryNetwork, n.Name, "invalid cidr_block", err)
	}
	// VPC blocks must be between /16 and /28
	if prefix.Bits() < 16 || prefix.Bits() > 28 {
		return netip.Prefix{}, NewConfigError(CategoryNetwork, n.Name,
			fmt.Sprintf("cidr_block %s must have a prefix length between /16 and /28", n.CIDRBlock), nil)
	}
	return prefix, nil
}

// Validate checks a route entry of the named route table.
func (r RouteSpec) Validate(routeTable string) error {
	if r.DestinationCIDRBlock == "" {
		return NewConfigError(CategoryRouteTable, routeTable, "route destination_cidr_block is required", nil)
	}
	if _, err := ParseIPv4CIDR(r.DestinationCIDRBlock); err != nil {
		return NewConfigError(CategoryRouteTable, routeTable, "invalid route destination_cidr_block", err)
	}

	switch target := r.Target.(type) {
	case GatewayTarget:
		return nil
	case ReferenceTarget:
		if !slices.Contains(ReferenceAttributes, target.Attribute) {
			return NewConfigError(CategoryRouteTable, routeTable,
				fmt.Sprintf("unsupported route target %q", target.Attribute), nil)
		}
		if target.ID == "" {
			return NewConfigError(CategoryRouteTable, routeTable,
				fmt.Sprintf("route target %s requires an id", target.Attribute), nil)
		}
		return nil
	case nil:
		return NewConfigError(CategoryRouteTable, routeTable,
			fmt.Sprintf("route to %s has no target", r.DestinationCIDRBlock), nil)
	default:
		return NewConfigError(CategoryRouteTable, routeTable,
			fmt.Sprintf("unknown route target type %T", target), nil)
	}
}

// Validate checks the security group's rules.
func (s SecurityGroupSpec) Validate() error {
	if s.Name == "" {
		return NewConfigError(CategorySecurityGroup, "", "security group name is required", nil)
	}
	for _, rule := range append(slices.Clone(s.Ingress), s.Egress...) {
		if err := rule.validate(); err != nil {
			return NewConfigError(CategorySecurityGroup, s.Name, "invalid rule", err)
		}
	}
	return nil
}

func (r RuleSpec) validate() error {
	switch r.Protocol {
	case "tcp", "udp":
		if r.FromPort < 0 || r.ToPort > 65535 || r.FromPort > r.ToPort {
			return fmt.Errorf("invalid port range %d-%d", r.FromPort, r.ToPort)
		}
	case "icmp", "-1":
	default:
		return fmt.Errorf("unsupported protocol %q", r.Protocol)
	}
	if r.CIDRBlock == "" {
		return fmt.Errorf("cidr_block is required")
	}
	if _, err := ParseIPv4CIDR(r.CIDRBlock); err != nil {
		return err
	}
	return nil
}

// Validate checks the subnet's required fields against the network block.
func (s SubnetSpec) Validate(network netip.Prefix) error {
	if s.Name == "" {
		return NewConfigError(CategorySubnet, "", "subnet name is required", nil)
	}
	if s.CIDRBlock == "" {
		return NewConfigError(CategorySubnet, s.Name, "cidr_block is required", nil)
	}
	prefix, err := ParseIPv4CIDR(s.CIDRBlock)
	if err != nil {
		return NewConfigError(CategorySubnet, s.Name, "invalid cidr_block", err)
	}
	if prefix.Bits() < network.Bits() || !network.Contains(prefix.Addr()) {
		return NewConfigError(CategorySubnet, s.Name,
			fmt.Sprintf("cidr_block %s is outside the network block %s", s.CIDRBlock, network), nil)
	}
	if s.AvailabilityZone == "" {
		return NewConfigError(CategorySubnet, s.Name, "availability_zone is required", nil)
	}
	if s.MapPublicIPOnLaunch == nil {
		return NewConfigError(CategorySubnet, s.Name, "map_public_ip_on_launch is required", nil)
	}
	if s.RouteTable == "" {
		return NewConfigError(CategorySubnet, s.Name, "route_table is required", nil)
	}
	return nil
}

// Validate checks the instance's required fields.
func (i InstanceSpec) Validate() error {
	if i.Name == "" {
		return NewConfigError(CategoryInstance, "", "instance name is required", nil)
	}
	if i.ImageID == "" {
		return NewConfigError(CategoryInstance, i.Name, "ami is required", nil)
	}
	if i.InstanceType == "" {
		return NewConfigError(CategoryInstance, i.Name, "instance_type is required", nil)
	}
	return nil
}
