package config

import (
	"fmt"
	"strings"

	"netsynth/internal/models"
)

// toTopology maps decoded blocks onto the domain model.
func toTopology(networks []*NetworkBlock, file fileBlocks) (*models.Topology, error) {
	for _, n := range networks {
		if n == nil {
			return nil, emptyEntry(models.CategoryNetwork, "", "network")
		}
	}

	switch len(networks) {
	case 0:
		return nil, models.NewConfigError(models.CategoryNetwork, "", "no network declared", nil)
	case 1:
	default:
		names := make([]string, len(networks))
		for i, n := range networks {
			names[i] = n.Name
		}
		return nil, models.NewConfigError(models.CategoryNetwork, networks[1].Name,
			fmt.Sprintf("exactly one network may be declared, found %s", strings.Join(names, ", ")), nil)
	}

	topology := &models.Topology{
		Network: toNetwork(networks[0]),
		Tags:    file.tags,
	}

	for _, rt := range file.routeTables {
		if rt == nil {
			return nil, emptyEntry(models.CategoryRouteTable, "", "route_table")
		}
		table := models.RouteTableSpec{Name: rt.Name}
		for _, r := range rt.Routes {
			if r == nil {
				return nil, emptyEntry(models.CategoryRoute, rt.Name, "route")
			}
			route, err := toRoute(rt.Name, r)
			if err != nil {
				return nil, err
			}
			table.Routes = append(table.Routes, route)
		}
		topology.RouteTables = append(topology.RouteTables, table)
	}

	for _, sg := range file.securityGroups {
		if sg == nil {
			return nil, emptyEntry(models.CategorySecurityGroup, "", "security_group")
		}
		ingress, err := toRules(sg.Name, "ingress", sg.Ingress)
		if err != nil {
			return nil, err
		}
		egress, err := toRules(sg.Name, "egress", sg.Egress)
		if err != nil {
			return nil, err
		}
		topology.SecurityGroups = append(topology.SecurityGroups, models.SecurityGroupSpec{
			Name:        sg.Name,
			Description: sg.Description,
			Ingress:     ingress,
			Egress:      egress,
		})
	}

	for _, sn := range file.subnets {
		if sn == nil {
			return nil, emptyEntry(models.CategorySubnet, "", "subnet")
		}
		subnet := models.SubnetSpec{
			Name:                sn.Name,
			CIDRBlock:           sn.CIDRBlock,
			AvailabilityZone:    sn.AvailabilityZone,
			MapPublicIPOnLaunch: sn.MapPublicIPOnLaunch,
			RouteTable:          sn.RouteTable,
		}
		for _, inst := range sn.Instances {
			if inst == nil {
				return nil, emptyEntry(models.CategoryInstance, sn.Name, "instance")
			}
			subnet.Instances = append(subnet.Instances, models.InstanceSpec{
				Name:           inst.Name,
				ImageID:        inst.AMI,
				InstanceType:   inst.InstanceType,
				KeyName:        inst.KeyName,
				SecurityGroups: inst.SecurityGroups,
				Tags:           inst.Tags,
			})
		}
		topology.Subnets = append(topology.Subnets, subnet)
	}

	return topology, nil
}

// fileBlocks holds the format-independent part of a decoded file.
type fileBlocks struct {
	routeTables    []*RouteTableBlock
	securityGroups []*SecurityGroupBlock
	subnets        []*SubnetBlock
	tags           map[string]string
}

func toNetwork(n *NetworkBlock) models.NetworkSpec {
	spec := models.NetworkSpec{
		Name:               n.Name,
		CIDRBlock:          n.CIDRBlock,
		EnableDNSSupport:   true,
		EnableDNSHostnames: true,
		GatewayName:        n.InternetGateway,
	}
	if n.EnableDNSSupport != nil {
		spec.EnableDNSSupport = *n.EnableDNSSupport
	}
	if n.EnableDNSHostnames != nil {
		spec.EnableDNSHostnames = *n.EnableDNSHostnames
	}
	return spec
}

func toRoute(routeTable string, r *RouteBlock) (models.RouteSpec, error) {
	route := models.RouteSpec{DestinationCIDRBlock: r.DestinationCIDRBlock}

	var refs []models.ReferenceTarget
	for attr, id := range map[string]string{
		models.TargetNatGateway:                r.NatGatewayID,
		models.TargetTransitGateway:            r.TransitGatewayID,
		models.TargetVpcPeeringConnection:      r.VpcPeeringConnectionID,
		models.TargetNetworkInterface:          r.NetworkInterfaceID,
		models.TargetEgressOnlyInternetGateway: r.EgressOnlyInternetGatewayID,
		models.TargetVpcEndpoint:               r.VpcEndpointID,
	} {
		if id != "" {
			refs = append(refs, models.ReferenceTarget{Attribute: attr, ID: id})
		}
	}

	switch {
	case r.Gateway && len(refs) == 0:
		route.Target = models.GatewayTarget{}
	case !r.Gateway && len(refs) == 1:
		route.Target = refs[0]
	case !r.Gateway && len(refs) == 0:
		// left empty, validation reports the missing target
	default:
		return models.RouteSpec{}, models.NewConfigError(models.CategoryRouteTable, routeTable,
			fmt.Sprintf("route to %s declares more than one target", r.DestinationCIDRBlock), nil)
	}
	return route, nil
}

func toRules(group, direction string, blocks []*RuleBlock) ([]models.RuleSpec, error) {
	if len(blocks) == 0 {
		return nil, nil
	}
	rules := make([]models.RuleSpec, len(blocks))
	for i, b := range blocks {
		if b == nil {
			return nil, emptyEntry(models.CategorySecurityGroup, group, direction)
		}
		rules[i] = models.RuleSpec{
			Protocol:    b.Protocol,
			FromPort:    b.FromPort,
			ToPort:      b.ToPort,
			CIDRBlock:   b.CIDRBlock,
			Description: b.Description,
		}
	}
	return rules, nil
}

// emptyEntry reports a list entry that decoded to nothing, e.g. a bare
// "-" in a YAML sequence. owner names the enclosing resource, if any.
func emptyEntry(category models.ResourceCategory, owner, block string) *models.Error {
	return models.NewConfigError(category, owner, fmt.Sprintf("empty %s entry", block), nil)
}
