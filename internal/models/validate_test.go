package models

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestParseIPv4CIDR(t *testing.T) {
	prefix, err := ParseIPv4CIDR("10.0.0.0/16")
	require.NoError(t, err)
	assert.Equal(t, 16, prefix.Bits())

	for _, cidr := range []string{"", "10.0.0.0", "10.0.0.1/16", "2001:db8::/32", "300.0.0.0/8"} {
		_, err := ParseIPv4CIDR(cidr)
		assert.Error(t, err, cidr)
	}
}

func TestNetworkSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    NetworkSpec
		wantErr string
	}{
		{"valid", NetworkSpec{Name: "main", CIDRBlock: "10.0.0.0/16"}, ""},
		{"missing name", NetworkSpec{CIDRBlock: "10.0.0.0/16"}, "network name is required"},
		{"missing cidr", NetworkSpec{Name: "main"}, "cidr_block is required"},
		{"host bits", NetworkSpec{Name: "main", CIDRBlock: "10.0.0.1/16"}, "invalid cidr_block"},
		{"too large", NetworkSpec{Name: "main", CIDRBlock: "10.0.0.0/8"}, "between /16 and /28"},
		{"too small", NetworkSpec{Name: "main", CIDRBlock: "10.0.0.0/29"}, "between /16 and /28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsErrorCategory(err, ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRouteSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		route   RouteSpec
		wantErr string
	}{
		{"gateway", RouteSpec{DestinationCIDRBlock: "0.0.0.0/0", Target: GatewayTarget{}}, ""},
		{"nat", RouteSpec{DestinationCIDRBlock: "0.0.0.0/0", Target: ReferenceTarget{Attribute: TargetNatGateway, ID: "nat-1"}}, ""},
		{"missing destination", RouteSpec{Target: GatewayTarget{}}, "destination_cidr_block is required"},
		{"bad destination", RouteSpec{DestinationCIDRBlock: "nowhere", Target: GatewayTarget{}}, "invalid route destination_cidr_block"},
		{"no target", RouteSpec{DestinationCIDRBlock: "0.0.0.0/0"}, "has no target"},
		{"unknown attribute", RouteSpec{DestinationCIDRBlock: "0.0.0.0/0", Target: ReferenceTarget{Attribute: "carrier_gateway_id", ID: "cagw-1"}}, "unsupported route target"},
		{"missing id", RouteSpec{DestinationCIDRBlock: "0.0.0.0/0", Target: ReferenceTarget{Attribute: TargetTransitGateway}}, "requires an id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.route.Validate("public-rt")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "route_table/public-rt")
		})
	}
}

func TestSecurityGroupSpec_Validate(t *testing.T) {
	valid := SecurityGroupSpec{
		Name:    "web-sg",
		Ingress: []RuleSpec{{Protocol: "tcp", FromPort: 443, ToPort: 443, CIDRBlock: "0.0.0.0/0"}},
		Egress:  []RuleSpec{{Protocol: "-1", CIDRBlock: "0.0.0.0/0"}},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		rule RuleSpec
	}{
		{"reversed ports", RuleSpec{Protocol: "tcp", FromPort: 443, ToPort: 80, CIDRBlock: "0.0.0.0/0"}},
		{"port out of range", RuleSpec{Protocol: "udp", FromPort: 1, ToPort: 70000, CIDRBlock: "0.0.0.0/0"}},
		{"unknown protocol", RuleSpec{Protocol: "sctp", CIDRBlock: "0.0.0.0/0"}},
		{"missing cidr", RuleSpec{Protocol: "icmp"}},
		{"bad cidr", RuleSpec{Protocol: "tcp", FromPort: 22, ToPort: 22, CIDRBlock: "10.0.0.1/8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := SecurityGroupSpec{Name: "web-sg", Egress: []RuleSpec{tt.rule}}
			err := spec.Validate()
			require.Error(t, err)
			assert.True(t, IsErrorCategory(err, ErrConfig))
			assert.Contains(t, err.Error(), "security_group/web-sg")
		})
	}

	// validating must not grow the caller's ingress slice
	ingress := make([]RuleSpec, 1, 4)
	ingress[0] = valid.Ingress[0]
	spec := SecurityGroupSpec{Name: "web-sg", Ingress: ingress, Egress: valid.Egress}
	require.NoError(t, spec.Validate())
	assert.Len(t, spec.Ingress, 1)
	assert.Equal(t, RuleSpec{}, ingress[:2][1])
}

func TestSubnetSpec_Validate(t *testing.T) {
	network := netip.MustParsePrefix("10.0.0.0/16")
	valid := SubnetSpec{
		Name:                "public-a",
		CIDRBlock:           "10.0.1.0/24",
		AvailabilityZone:    "us-east-1a",
		MapPublicIPOnLaunch: boolPtr(false),
		RouteTable:          "public-rt",
	}
	assert.NoError(t, valid.Validate(network))

	tests := []struct {
		name    string
		mutate  func(s *SubnetSpec)
		wantErr string
	}{
		{"missing name", func(s *SubnetSpec) { s.Name = "" }, "subnet name is required"},
		{"missing cidr", func(s *SubnetSpec) { s.CIDRBlock = "" }, "cidr_block is required"},
		{"outside network", func(s *SubnetSpec) { s.CIDRBlock = "10.1.0.0/24" }, "outside the network block"},
		{"larger than network", func(s *SubnetSpec) { s.CIDRBlock = "10.0.0.0/8" }, "outside the network block"},
		{"missing zone", func(s *SubnetSpec) { s.AvailabilityZone = "" }, "availability_zone is required"},
		{"missing public flag", func(s *SubnetSpec) { s.MapPublicIPOnLaunch = nil }, "map_public_ip_on_launch is required"},
		{"missing route table", func(s *SubnetSpec) { s.RouteTable = "" }, "route_table is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid
			tt.mutate(&spec)
			err := spec.Validate(network)
			require.Error(t, err)
			assert.True(t, IsErrorCategory(err, ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInstanceSpec_Validate(t *testing.T) {
	assert.NoError(t, InstanceSpec{Name: "web-1", ImageID: "ami-1", InstanceType: "t3.micro"}.Validate())
	assert.ErrorContains(t, InstanceSpec{ImageID: "ami-1", InstanceType: "t3.micro"}.Validate(), "instance name is required")
	assert.ErrorContains(t, InstanceSpec{Name: "web-1", InstanceType: "t3.micro"}.Validate(), "ami is required")
	assert.ErrorContains(t, InstanceSpec{Name: "web-1", ImageID: "ami-1"}.Validate(), "instance_type is required")
}

func TestError(t *testing.T) {
	cause := errors.New("bad prefix")
	err := NewConfigError(CategorySubnet, "public-a", "invalid cidr_block", cause)

	assert.Equal(t, "config_error: invalid cidr_block: bad prefix [subnet/public-a]", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "dependency_error: route table not declared [route_table/missing-rt]",
		NewDependencyError(CategoryRouteTable, "missing-rt", "route table not declared").Error())
	assert.Equal(t, "duplicate_name: name declared more than once [subnet/subnet-a]",
		NewDuplicateNameError(CategorySubnet, "subnet-a").Error())
	assert.Equal(t, "config_error: topology is nil", NewConfigError("", "", "topology is nil", nil).Error())

	assert.False(t, IsErrorCategory(nil, ErrConfig))
	assert.False(t, IsErrorCategory(errors.New("plain"), ErrConfig))
	assert.True(t, IsErrorCategory(NewDuplicateNameError(CategorySubnet, "a"), ErrDuplicateName))
}
