package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netsynth/internal/models"
	"netsynth/internal/registry"
	"netsynth/pkg/logging"
)

func boolPtr(b bool) *bool { return &b }

// sampleTopology mirrors a typical two-tier layout: a public subnet
// routed through the internet gateway and a private subnet routed
// through an existing NAT gateway.
func sampleTopology() *models.Topology {
	return &models.Topology{
		Network: models.NetworkSpec{
			Name:               "main",
			CIDRBlock:          "10.0.0.0/16",
			EnableDNSSupport:   true,
			EnableDNSHostnames: true,
			GatewayName:        "igw",
		},
		RouteTables: []models.RouteTableSpec{
			{
				Name: "public-rt",
				Routes: []models.RouteSpec{
					{DestinationCIDRBlock: "0.0.0.0/0", Target: models.GatewayTarget{}},
				},
			},
			{
				Name: "private-rt",
				Routes: []models.RouteSpec{
					{
						DestinationCIDRBlock: "0.0.0.0/0",
						Target:               models.ReferenceTarget{Attribute: models.TargetNatGateway, ID: "nat-0abc"},
					},
				},
			},
		},
		SecurityGroups: []models.SecurityGroupSpec{
			{
				Name: "web-sg",
				Ingress: []models.RuleSpec{
					{Protocol: "tcp", FromPort: 80, ToPort: 80, CIDRBlock: "0.0.0.0/0"},
					{Protocol: "tcp", FromPort: 22, ToPort: 22, CIDRBlock: "10.0.0.0/16"},
				},
			},
			{Name: "db-sg", Description: "database access"},
		},
		Subnets: []models.SubnetSpec{
			{
				Name:                "public-a",
				CIDRBlock:           "10.0.1.0/24",
				AvailabilityZone:    "us-east-1a",
				MapPublicIPOnLaunch: boolPtr(true),
				RouteTable:          "public-rt",
				Instances: []models.InstanceSpec{
					{Name: "web-1", ImageID: "ami-123", InstanceType: "t3.micro", KeyName: "ops", SecurityGroups: []string{"web-sg"}},
				},
			},
			{
				Name:                "private-a",
				CIDRBlock:           "10.0.2.0/24",
				AvailabilityZone:    "us-east-1b",
				MapPublicIPOnLaunch: boolPtr(false),
				RouteTable:          "private-rt",
				Instances: []models.InstanceSpec{
					{Name: "db-1", ImageID: "ami-456", InstanceType: "t3.small", SecurityGroups: []string{"db-sg", "web-sg"}},
				},
			},
		},
		Tags: map[string]string{"project": "netsynth"},
	}
}

func newTestBuilder() *Builder {
	return New(logging.NewMockLogger())
}

func TestBuild_SampleTopology(t *testing.T) {
	s, err := newTestBuilder().Build(sampleTopology())
	require.NoError(t, err)

	assert.Equal(t, 15, s.Stack.Len())
	assert.Equal(t, 15, s.Registry.Len())

	vpc, ok := s.Stack.Resource("NetworkMain")
	require.True(t, ok)
	assert.Equal(t, TypeVPC, vpc.Type)
	props := vpc.Properties.(*VPCProperties)
	assert.Equal(t, "10.0.0.0/16", props.CIDRBlock)
	assert.Equal(t, Tags{"Name": "main", "project": "netsynth"}, props.Tags)

	db, ok := s.Stack.Resource("InstanceDb1")
	require.True(t, ok)
	instance := db.Properties.(*InstanceProperties)
	assert.Equal(t, "SubnetPrivateA", instance.Subnet.LogicalID)
	require.Len(t, instance.SecurityGroups, 2)
	assert.Equal(t, "SecurityGroupDbSg", instance.SecurityGroups[0].LogicalID)
	assert.Equal(t, "SecurityGroupWebSg", instance.SecurityGroups[1].LogicalID)

	sg, ok := s.Stack.Resource("SecurityGroupWebSg")
	require.True(t, ok)
	assert.Equal(t, models.DefaultSecurityGroupDescription, sg.Properties.(*SecurityGroupProperties).Description)
}

func TestBuild_GatewayRoute(t *testing.T) {
	topology := &models.Topology{
		Network: models.NetworkSpec{Name: "main", CIDRBlock: "10.0.0.0/16"},
		RouteTables: []models.RouteTableSpec{
			{
				Name:   "public-rt",
				Routes: []models.RouteSpec{{DestinationCIDRBlock: "0.0.0.0/0", Target: models.GatewayTarget{}}},
			},
		},
	}

	s, err := newTestBuilder().Build(topology)
	require.NoError(t, err)

	resources := s.Stack.Resources()
	position := make(map[string]int, len(resources))
	for i, r := range resources {
		position[r.Handle.LogicalID] = i
	}

	gatewayID := "GatewayInternetGateway"
	assert.Less(t, position[gatewayID], position["RouteTablePublicRt"])
	assert.Less(t, position["RouteTablePublicRt"], position["RoutePublicRtRoute0"])

	route, ok := s.Stack.Resource("RoutePublicRtRoute0")
	require.True(t, ok)
	props := route.Properties.(*RouteProperties)
	assert.Equal(t, "0.0.0.0/0", props.DestinationCIDRBlock)

	target, ok := props.Target.(GatewayRouteTarget)
	require.True(t, ok, "expected a gateway target, got %T", props.Target)
	assert.Equal(t, gatewayID, target.Gateway.LogicalID)

	require.Len(t, route.DependsOn, 1)
	assert.Equal(t, "GatewayAttachmentInternetGateway", route.DependsOn[0].LogicalID)
}

func TestBuild_MissingRouteTable(t *testing.T) {
	topology := sampleTopology()
	topology.Subnets[0].RouteTable = "missing-rt"

	s, err := newTestBuilder().Build(topology)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, models.IsErrorCategory(err, models.ErrDependency))

	var e *models.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "missing-rt", e.Name)
	assert.Equal(t, models.CategoryRouteTable, e.ResourceType)
	assert.Contains(t, err.Error(), "public-a")
}

func TestBuild_DuplicateSubnet(t *testing.T) {
	topology := sampleTopology()
	topology.Subnets = append(topology.Subnets, models.SubnetSpec{
		Name:                "subnet-a",
		CIDRBlock:           "10.0.3.0/24",
		AvailabilityZone:    "us-east-1a",
		MapPublicIPOnLaunch: boolPtr(false),
		RouteTable:          "private-rt",
	}, models.SubnetSpec{
		Name:                "subnet-a",
		CIDRBlock:           "10.0.4.0/24",
		AvailabilityZone:    "us-east-1b",
		MapPublicIPOnLaunch: boolPtr(false),
		RouteTable:          "private-rt",
	})

	s, err := newTestBuilder().Build(topology)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, models.IsErrorCategory(err, models.ErrDuplicateName))

	var e *models.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "subnet-a", e.Name)
	assert.Equal(t, models.CategorySubnet, e.ResourceType)
}

func TestBuild_NamesSharingLogicalID(t *testing.T) {
	topology := sampleTopology()
	topology.Subnets = append(topology.Subnets, models.SubnetSpec{
		Name:                "web-a",
		CIDRBlock:           "10.0.3.0/24",
		AvailabilityZone:    "us-east-1a",
		MapPublicIPOnLaunch: boolPtr(false),
		RouteTable:          "private-rt",
	}, models.SubnetSpec{
		Name:                "web_a",
		CIDRBlock:           "10.0.4.0/24",
		AvailabilityZone:    "us-east-1b",
		MapPublicIPOnLaunch: boolPtr(false),
		RouteTable:          "private-rt",
	})

	s, err := newTestBuilder().Build(topology)
	require.NoError(t, err)
	assert.Equal(t, 19, s.Stack.Len())

	dash, err := s.Registry.Resolve(models.CategorySubnet, "web-a")
	require.NoError(t, err)
	underscore, err := s.Registry.Resolve(models.CategorySubnet, "web_a")
	require.NoError(t, err)

	assert.Equal(t, "SubnetWebA", dash.LogicalID)
	assert.NotEqual(t, dash.LogicalID, underscore.LogicalID)

	r, ok := s.Stack.Resource(underscore.LogicalID)
	require.True(t, ok)
	assert.Equal(t, "10.0.4.0/24", r.Properties.(*SubnetProperties).CIDRBlock)
}

func TestBuild_UnknownSecurityGroup(t *testing.T) {
	topology := sampleTopology()
	topology.Subnets[0].Instances[0].SecurityGroups = []string{"sg-x"}

	s, err := newTestBuilder().Build(topology)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, models.IsErrorCategory(err, models.ErrDependency))

	var e *models.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "sg-x", e.Name)
	assert.Equal(t, models.CategorySecurityGroup, e.ResourceType)
	assert.Contains(t, err.Error(), "web-1")
}

func TestBuild_DuplicateInstanceAcrossSubnets(t *testing.T) {
	topology := sampleTopology()
	topology.Subnets[1].Instances[0].Name = "web-1"

	_, err := newTestBuilder().Build(topology)
	require.Error(t, err)
	assert.True(t, models.IsErrorCategory(err, models.ErrDuplicateName))
	assert.Contains(t, err.Error(), "instance/web-1")
}

func TestBuild_ConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Topology)
		subject string
	}{
		{
			name:    "malformed network cidr",
			mutate:  func(tp *models.Topology) { tp.Network.CIDRBlock = "10.0.0.0/33" },
			subject: "network/main",
		},
		{
			name:    "network cidr with host bits",
			mutate:  func(tp *models.Topology) { tp.Network.CIDRBlock = "10.0.0.1/16" },
			subject: "network/main",
		},
		{
			name:    "missing availability zone",
			mutate:  func(tp *models.Topology) { tp.Subnets[0].AvailabilityZone = "" },
			subject: "subnet/public-a",
		},
		{
			name:    "missing map_public_ip_on_launch",
			mutate:  func(tp *models.Topology) { tp.Subnets[1].MapPublicIPOnLaunch = nil },
			subject: "subnet/private-a",
		},
		{
			name:    "subnet outside network",
			mutate:  func(tp *models.Topology) { tp.Subnets[0].CIDRBlock = "192.168.0.0/24" },
			subject: "subnet/public-a",
		},
		{
			name:    "route without target",
			mutate:  func(tp *models.Topology) { tp.RouteTables[0].Routes[0].Target = nil },
			subject: "route_table/public-rt",
		},
		{
			name: "unsupported reference attribute",
			mutate: func(tp *models.Topology) {
				tp.RouteTables[1].Routes[0].Target = models.ReferenceTarget{Attribute: "carrier_gateway_id", ID: "cagw-1"}
			},
			subject: "route_table/private-rt",
		},
		{
			name:    "invalid security group rule",
			mutate:  func(tp *models.Topology) { tp.SecurityGroups[0].Ingress[0].Protocol = "sctp" },
			subject: "security_group/web-sg",
		},
		{
			name:    "instance without image",
			mutate:  func(tp *models.Topology) { tp.Subnets[0].Instances[0].ImageID = "" },
			subject: "instance/web-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topology := sampleTopology()
			tt.mutate(topology)

			s, err := newTestBuilder().Build(topology)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, models.IsErrorCategory(err, models.ErrConfig), "unexpected error: %v", err)
			assert.Contains(t, err.Error(), tt.subject)
		})
	}
}

func TestBuild_NoForwardReferences(t *testing.T) {
	s, err := newTestBuilder().Build(sampleTopology())
	require.NoError(t, err)

	created := make(map[registry.Key]bool)
	for _, r := range s.Stack.Resources() {
		for _, dep := range r.Dependencies() {
			assert.True(t, created[dep.Key], "%s references %s before it exists", r.Handle, dep)
		}
		created[r.Handle.Key] = true
	}
}

func TestBuild_Idempotent(t *testing.T) {
	first, err := newTestBuilder().Build(sampleTopology())
	require.NoError(t, err)
	second, err := newTestBuilder().Build(sampleTopology())
	require.NoError(t, err)

	shape := func(s *Synthesis) map[string][]string {
		edges := make(map[string][]string)
		for _, r := range s.Stack.Resources() {
			var deps []string
			for _, d := range r.Dependencies() {
				deps = append(deps, d.LogicalID)
			}
			edges[r.Handle.LogicalID] = deps
		}
		return edges
	}

	assert.Equal(t, shape(first), shape(second))
	assert.Equal(t, first.Registry.Keys(), second.Registry.Keys())
}

func TestBuild_EveryNameRegisteredOnce(t *testing.T) {
	topology := sampleTopology()
	s, err := newTestBuilder().Build(topology)
	require.NoError(t, err)

	var tables, groups, subnets, instances []string
	for _, rt := range topology.RouteTables {
		tables = append(tables, rt.Name)
	}
	for _, sg := range topology.SecurityGroups {
		groups = append(groups, sg.Name)
	}
	for _, sn := range topology.Subnets {
		subnets = append(subnets, sn.Name)
		for _, inst := range sn.Instances {
			instances = append(instances, inst.Name)
		}
	}

	assert.Equal(t, []string{"main"}, s.Registry.Names(models.CategoryNetwork))
	assert.Equal(t, []string{"igw"}, s.Registry.Names(models.CategoryGateway))
	assert.Equal(t, tables, s.Registry.Names(models.CategoryRouteTable))
	assert.Equal(t, groups, s.Registry.Names(models.CategorySecurityGroup))
	assert.Equal(t, subnets, s.Registry.Names(models.CategorySubnet))
	assert.Equal(t, instances, s.Registry.Names(models.CategoryInstance))
}

func TestCreateRoutes_WithoutGateway(t *testing.T) {
	b := newTestBuilder()
	s := NewSynthesis(nil)

	network, err := b.CreateNetwork(s, models.NetworkSpec{Name: "main", CIDRBlock: "10.0.0.0/16"})
	require.NoError(t, err)

	tables := []models.RouteTableSpec{{
		Name:   "public-rt",
		Routes: []models.RouteSpec{{DestinationCIDRBlock: "0.0.0.0/0", Target: models.GatewayTarget{}}},
	}}
	require.NoError(t, b.CreateRouteTables(s, network, tables))

	err = b.CreateRoutes(s, tables, registry.Handle{})
	require.Error(t, err)
	assert.True(t, models.IsErrorCategory(err, models.ErrDependency))
	assert.Contains(t, err.Error(), "public-rt")
}

func TestCreateRoutes_UndeclaredRouteTable(t *testing.T) {
	b := newTestBuilder()
	s := NewSynthesis(nil)

	tables := []models.RouteTableSpec{{Name: "ghost-rt"}}
	err := b.CreateRoutes(s, tables, registry.Handle{})
	require.Error(t, err)
	assert.True(t, models.IsErrorCategory(err, models.ErrDependency))
	assert.Contains(t, err.Error(), "ghost-rt")
}

func TestAssociateSubnets_BeforeSubnetsExist(t *testing.T) {
	b := newTestBuilder()
	s := NewSynthesis(nil)

	err := b.AssociateSubnets(s, sampleTopology().Subnets)
	require.Error(t, err)
	assert.True(t, models.IsErrorCategory(err, models.ErrDependency))

	var e *models.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, models.CategorySubnet, e.ResourceType)
	assert.Equal(t, "public-a", e.Name)
}

func TestBuild_NilTopology(t *testing.T) {
	_, err := newTestBuilder().Build(nil)
	assert.True(t, models.IsErrorCategory(err, models.ErrConfig))
}
