package builder

import (
	"fmt"
	"maps"
	"net/netip"

	"netsynth/internal/models"
	"netsynth/internal/registry"
	"netsynth/pkg/logging"
)

// Synthesis is the outcome of a build: the registry of handles and the
// stack of resources they identify. It is threaded explicitly through
// every builder step.
type Synthesis struct {
	Registry *registry.Registry
	Stack    *Stack

	tags map[string]string
}

// NewSynthesis returns an empty synthesis whose resources all carry tags.
func NewSynthesis(tags map[string]string) *Synthesis {
	return &Synthesis{
		Registry: registry.New(),
		Stack:    NewStack(),
		tags:     tags,
	}
}

// Builder composes a topology into a dependency-ordered stack.
type Builder struct {
	logger logging.Logger
}

// New creates a builder logging through logger.
func New(logger logging.Logger) *Builder {
	return &Builder{logger: logger}
}

// NewDefaultBuilder creates a builder with the default logger.
func NewDefaultBuilder() *Builder {
	return New(logging.NewDefaultLogger())
}

// Build runs every step in dependency order: network, gateway, route
// tables, security groups, subnets, associations, routes and instances.
// The first failure aborts the build and nothing is returned.
func (b *Builder) Build(topology *models.Topology) (*Synthesis, error) {
	if topology == nil {
		return nil, models.NewConfigError("", "", "topology is nil", nil)
	}

	s := NewSynthesis(topology.Tags)

	network, err := b.CreateNetwork(s, topology.Network)
	if err != nil {
		return nil, err
	}

	gateway, err := b.AttachGateway(s, network, topology.Network.GatewayName)
	if err != nil {
		return nil, err
	}

	if err := b.CreateRouteTables(s, network, topology.RouteTables); err != nil {
		return nil, err
	}
	if err := b.CreateSecurityGroups(s, network, topology.SecurityGroups); err != nil {
		return nil, err
	}
	if err := b.CreateSubnets(s, network, topology.Subnets); err != nil {
		return nil, err
	}
	if err := b.AssociateSubnets(s, topology.Subnets); err != nil {
		return nil, err
	}
	if err := b.CreateRoutes(s, topology.RouteTables, gateway); err != nil {
		return nil, err
	}
	if err := b.CreateInstances(s, topology.Subnets); err != nil {
		return nil, err
	}

	b.logger.Info("Synthesized %d resources for network %s", s.Stack.Len(), topology.Network.Name)
	return s, nil
}

// CreateNetwork declares the VPC.
func (b *Builder) CreateNetwork(s *Synthesis, spec models.NetworkSpec) (registry.Handle, error) {
	if _, err := spec.Validate(); err != nil {
		return registry.Handle{}, err
	}

	return b.declare(s, models.CategoryNetwork, spec.Name, TypeVPC, &VPCProperties{
		CIDRBlock:          spec.CIDRBlock,
		EnableDNSSupport:   spec.EnableDNSSupport,
		EnableDNSHostnames: spec.EnableDNSHostnames,
		Tags:               s.tagsFor(spec.Name, nil),
	})
}

// AttachGateway declares an internet gateway and its attachment to network.
func (b *Builder) AttachGateway(s *Synthesis, network registry.Handle, name string) (registry.Handle, error) {
	if name == "" {
		name = models.DefaultGatewayName
	}

	gateway, err := b.declare(s, models.CategoryGateway, name, TypeInternetGateway, &InternetGatewayProperties{
		Tags: s.tagsFor(name, nil),
	})
	if err != nil {
		return registry.Handle{}, err
	}

	_, err = b.declare(s, models.CategoryGatewayAttachment, name, TypeVPCGatewayAttachment, &GatewayAttachmentProperties{
		VPC:             network,
		InternetGateway: gateway,
	})
	if err != nil {
		return registry.Handle{}, err
	}

	return gateway, nil
}

// CreateRouteTables declares one empty route table per spec.
func (b *Builder) CreateRouteTables(s *Synthesis, network registry.Handle, tables []models.RouteTableSpec) error {
	for _, table := range tables {
		if table.Name == "" {
			return models.NewConfigError(models.CategoryRouteTable, "", "route table name is required", nil)
		}
		_, err := b.declare(s, models.CategoryRouteTable, table.Name, TypeRouteTable, &RouteTableProperties{
			VPC:  network,
			Tags: s.tagsFor(table.Name, nil),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateRoutes declares the routes of every table. Gateway routes target
// gateway and wait for its attachment; other routes carry their
// external reference through unchanged.
func (b *Builder) CreateRoutes(s *Synthesis, tables []models.RouteTableSpec, gateway registry.Handle) error {
	for _, table := range tables {
		routeTable, err := s.Registry.Resolve(models.CategoryRouteTable, table.Name)
		if err != nil {
			return err
		}

		for i, route := range table.Routes {
			if err := route.Validate(table.Name); err != nil {
				return err
			}

			props := &RouteProperties{
				RouteTable:           routeTable,
				DestinationCIDRBlock: route.DestinationCIDRBlock,
			}
			var dependsOn []registry.Handle

			switch target := route.Target.(type) {
			case models.GatewayTarget:
				attachment, err := b.resolveGateway(s, gateway)
				if err != nil {
					return fmt.Errorf("route table %q: %w", table.Name, err)
				}
				props.Target = GatewayRouteTarget{Gateway: gateway}
				dependsOn = append(dependsOn, attachment)
			case models.ReferenceTarget:
				props.Target = ReferenceRouteTarget{Attribute: target.Attribute, ID: target.ID}
			default:
				return models.NewConfigError(models.CategoryRouteTable, table.Name,
					fmt.Sprintf("unknown route target type %T", target), nil)
			}

			name := fmt.Sprintf("%s-route-%d", table.Name, i)
			if _, err := b.declare(s, models.CategoryRoute, name, TypeRoute, props, dependsOn...); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveGateway checks that gateway and its attachment were created and
// returns the attachment.
func (b *Builder) resolveGateway(s *Synthesis, gateway registry.Handle) (registry.Handle, error) {
	if gateway.IsZero() {
		return registry.Handle{}, models.NewDependencyError(models.CategoryGateway, models.DefaultGatewayName,
			"gateway route declared but no gateway was created")
	}
	if _, err := s.Registry.Resolve(models.CategoryGateway, gateway.Key.Name); err != nil {
		return registry.Handle{}, err
	}
	return s.Registry.Resolve(models.CategoryGatewayAttachment, gateway.Key.Name)
}

// CreateSecurityGroups declares one security group per spec.
func (b *Builder) CreateSecurityGroups(s *Synthesis, network registry.Handle, groups []models.SecurityGroupSpec) error {
	for _, group := range groups {
		if err := group.Validate(); err != nil {
			return err
		}

		description := group.Description
		if description == "" {
			description = models.DefaultSecurityGroupDescription
		}

		_, err := b.declare(s, models.CategorySecurityGroup, group.Name, TypeSecurityGroup, &SecurityGroupProperties{
			VPC:         network,
			GroupName:   group.Name,
			Description: description,
			Ingress:     group.Ingress,
			Egress:      group.Egress,
			Tags:        s.tagsFor(group.Name, nil),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateSubnets declares one subnet per spec inside network.
func (b *Builder) CreateSubnets(s *Synthesis, network registry.Handle, subnets []models.SubnetSpec) error {
	block, err := s.networkBlock(network)
	if err != nil {
		return err
	}

	for _, subnet := range subnets {
		if err := subnet.Validate(block); err != nil {
			return err
		}

		_, err := b.declare(s, models.CategorySubnet, subnet.Name, TypeSubnet, &SubnetProperties{
			VPC:                 network,
			CIDRBlock:           subnet.CIDRBlock,
			AvailabilityZone:    subnet.AvailabilityZone,
			MapPublicIPOnLaunch: *subnet.MapPublicIPOnLaunch,
			Tags:                s.tagsFor(subnet.Name, nil),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// AssociateSubnets links every subnet to its named route table.
func (b *Builder) AssociateSubnets(s *Synthesis, subnets []models.SubnetSpec) error {
	for _, subnet := range subnets {
		subnetHandle, err := s.Registry.Resolve(models.CategorySubnet, subnet.Name)
		if err != nil {
			return err
		}
		routeTable, err := s.Registry.Resolve(models.CategoryRouteTable, subnet.RouteTable)
		if err != nil {
			return fmt.Errorf("subnet %q: %w", subnet.Name, err)
		}

		name := fmt.Sprintf("%s-%s", subnet.Name, subnet.RouteTable)
		_, err = b.declare(s, models.CategorySubnetAssociation, name, TypeSubnetRouteTableAssociation,
			&SubnetRouteTableAssociationProperties{
				Subnet:     subnetHandle,
				RouteTable: routeTable,
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateInstances declares the instances of every subnet, bound to the
// subnet and to their security groups.
func (b *Builder) CreateInstances(s *Synthesis, subnets []models.SubnetSpec) error {
	for _, subnet := range subnets {
		subnetHandle, err := s.Registry.Resolve(models.CategorySubnet, subnet.Name)
		if err != nil {
			return err
		}

		for _, instance := range subnet.Instances {
			if err := instance.Validate(); err != nil {
				return err
			}

			groups := make([]registry.Handle, 0, len(instance.SecurityGroups))
			for _, name := range instance.SecurityGroups {
				group, err := s.Registry.Resolve(models.CategorySecurityGroup, name)
				if err != nil {
					return fmt.Errorf("instance %q: %w", instance.Name, err)
				}
				groups = append(groups, group)
			}

			_, err := b.declare(s, models.CategoryInstance, instance.Name, TypeInstance, &InstanceProperties{
				Subnet:         subnetHandle,
				SecurityGroups: groups,
				ImageID:        instance.ImageID,
				InstanceType:   instance.InstanceType,
				KeyName:        instance.KeyName,
				Tags:           s.tagsFor(instance.Name, instance.Tags),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// declare registers a resource and adds it to the stack.
func (b *Builder) declare(
	s *Synthesis,
	category models.ResourceCategory,
	name, resourceType string,
	props Properties,
	dependsOn ...registry.Handle,
) (registry.Handle, error) {
	h, err := s.Registry.Register(category, name)
	if err != nil {
		return registry.Handle{}, err
	}

	if err := s.Stack.add(&Resource{Handle: h, Type: resourceType, Properties: props, DependsOn: dependsOn}); err != nil {
		return registry.Handle{}, err
	}

	b.logger.Debug("Declared %s %s as %s", resourceType, h, h.LogicalID)
	return h, nil
}

// networkBlock returns the CIDR block of the declared network.
func (s *Synthesis) networkBlock(network registry.Handle) (netip.Prefix, error) {
	r, ok := s.Stack.Resource(network.LogicalID)
	if !ok {
		return netip.Prefix{}, models.NewDependencyError(models.CategoryNetwork, network.Key.Name, "network is not declared")
	}
	vpc, ok := r.Properties.(*VPCProperties)
	if !ok {
		return netip.Prefix{}, models.NewConfigError(models.CategoryNetwork, network.Key.Name,
			fmt.Sprintf("%s is not a network", r.Type), nil)
	}
	return models.ParseIPv4CIDR(vpc.CIDRBlock)
}

// tagsFor merges the global tags, extra and the Name tag.
func (s *Synthesis) tagsFor(name string, extra map[string]string) Tags {
	tags := make(Tags, len(s.tags)+len(extra)+1)
	maps.Copy(tags, s.tags)
	maps.Copy(tags, extra)
	tags["Name"] = name
	return tags
}
