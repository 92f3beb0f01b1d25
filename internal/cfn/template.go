package cfn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"netsynth/internal/builder"
	"netsynth/internal/models"
	"netsynth/internal/registry"
)

const formatVersion = "2010-09-09"

// Format selects the template encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a case-insensitive name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown template format %q", s)
	}
}

// Template is a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string               `json:"Description,omitempty" yaml:"Description,omitempty"`
	Resources                map[string]*Resource `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]*Output   `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// Resource is one entry of the template's Resources section.
type Resource struct {
	Type       string                 `json:"Type" yaml:"Type"`
	Properties map[string]interface{} `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string               `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Output is one entry of the template's Outputs section.
type Output struct {
	Description string      `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       interface{} `json:"Value" yaml:"Value"`
}

// Tag is a CloudFormation resource tag.
type Tag struct {
	Key   string `json:"Key" yaml:"Key"`
	Value string `json:"Value" yaml:"Value"`
}

// Synthesize renders every resource of stack into a template.
func Synthesize(stack *builder.Stack, description string) (*Template, error) {
	ordered, err := stack.Order()
	if err != nil {
		return nil, fmt.Errorf("failed to order stack: %w", err)
	}

	t := &Template{
		AWSTemplateFormatVersion: formatVersion,
		Description:              description,
		Resources:                make(map[string]*Resource, len(ordered)),
		Outputs:                  make(map[string]*Output),
	}

	for _, r := range ordered {
		props, err := properties(r)
		if err != nil {
			return nil, err
		}

		res := &Resource{Type: r.Type, Properties: props}
		for _, dep := range r.DependsOn {
			res.DependsOn = append(res.DependsOn, dep.LogicalID)
		}
		t.Resources[r.Handle.LogicalID] = res

		switch r.Handle.Key.Category {
		case models.CategoryNetwork, models.CategorySubnet, models.CategorySecurityGroup, models.CategoryInstance:
			t.Outputs[r.Handle.LogicalID+"Id"] = &Output{
				Description: fmt.Sprintf("%s %s", strings.ReplaceAll(string(r.Handle.Key.Category), "_", " "), r.Handle.Key.Name),
				Value:       ref(r.Handle),
			}
		}
	}

	return t, nil
}

func properties(r *builder.Resource) (map[string]interface{}, error) {
	switch p := r.Properties.(type) {
	case *builder.VPCProperties:
		return map[string]interface{}{
			"CidrBlock":          p.CIDRBlock,
			"EnableDnsSupport":   p.EnableDNSSupport,
			"EnableDnsHostnames": p.EnableDNSHostnames,
			"Tags":               tags(p.Tags),
		}, nil
	case *builder.InternetGatewayProperties:
		return map[string]interface{}{
			"Tags": tags(p.Tags),
		}, nil
	case *builder.GatewayAttachmentProperties:
		return map[string]interface{}{
			"VpcId":             ref(p.VPC),
			"InternetGatewayId": ref(p.InternetGateway),
		}, nil
	case *builder.RouteTableProperties:
		return map[string]interface{}{
			"VpcId": ref(p.VPC),
			"Tags":  tags(p.Tags),
		}, nil
	case *builder.RouteProperties:
		props := map[string]interface{}{
			"RouteTableId":         ref(p.RouteTable),
			"DestinationCidrBlock": p.DestinationCIDRBlock,
		}
		switch target := p.Target.(type) {
		case builder.GatewayRouteTarget:
			props["GatewayId"] = ref(target.Gateway)
		case builder.ReferenceRouteTarget:
			props[TargetProperty(target.Attribute)] = target.ID
		default:
			return nil, fmt.Errorf("%s: unknown route target type %T", r.Handle, target)
		}
		return props, nil
	case *builder.SecurityGroupProperties:
		props := map[string]interface{}{
			"GroupName":        p.GroupName,
			"GroupDescription": p.Description,
			"VpcId":            ref(p.VPC),
			"Tags":             tags(p.Tags),
		}
		if len(p.Ingress) > 0 {
			props["SecurityGroupIngress"] = rules(p.Ingress)
		}
		if len(p.Egress) > 0 {
			props["SecurityGroupEgress"] = rules(p.Egress)
		}
		return props, nil
	case *builder.SubnetProperties:
		return map[string]interface{}{
			"VpcId":               ref(p.VPC),
			"CidrBlock":           p.CIDRBlock,
			"AvailabilityZone":    p.AvailabilityZone,
			"MapPublicIpOnLaunch": p.MapPublicIPOnLaunch,
			"Tags":                tags(p.Tags),
		}, nil
	case *builder.SubnetRouteTableAssociationProperties:
		return map[string]interface{}{
			"SubnetId":     ref(p.Subnet),
			"RouteTableId": ref(p.RouteTable),
		}, nil
	case *builder.InstanceProperties:
		groups := make([]interface{}, len(p.SecurityGroups))
		for i, g := range p.SecurityGroups {
			groups[i] = ref(g)
		}
		props := map[string]interface{}{
			"ImageId":      p.ImageID,
			"InstanceType": p.InstanceType,
			"SubnetId":     ref(p.Subnet),
			"Tags":         tags(p.Tags),
		}
		if len(groups) > 0 {
			props["SecurityGroupIds"] = groups
		}
		if p.KeyName != "" {
			props["KeyName"] = p.KeyName
		}
		return props, nil
	default:
		return nil, fmt.Errorf("%s: unsupported properties type %T", r.Handle, p)
	}
}

// TargetProperty maps a route target attribute such as nat_gateway_id to
// its AWS::EC2::Route property name.
func TargetProperty(attribute string) string {
	return strcase.ToCamel(attribute)
}

func ref(h registry.Handle) map[string]interface{} {
	return map[string]interface{}{"Ref": h.LogicalID}
}

func tags(t builder.Tags) []Tag {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Tag, len(keys))
	for i, k := range keys {
		out[i] = Tag{Key: k, Value: t[k]}
	}
	return out
}

func rules(specs []models.RuleSpec) []map[string]interface{} {
	out := make([]map[string]interface{}, len(specs))
	for i, r := range specs {
		rule := map[string]interface{}{
			"IpProtocol": r.Protocol,
			"CidrIp":     r.CIDRBlock,
		}
		if r.Protocol != "-1" {
			rule["FromPort"] = r.FromPort
			rule["ToPort"] = r.ToPort
		}
		if r.Description != "" {
			rule["Description"] = r.Description
		}
		out[i] = rule
	}
	return out
}

// Render encodes the template.
func (t *Template) Render(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal template: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return nil, fmt.Errorf("failed to marshal template: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal template: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown template format %q", format)
	}
}

// Parse decodes a JSON or YAML template.
func Parse(data []byte) (*Template, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("template is empty")
	}

	var t Template
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &t); err != nil {
			return nil, fmt.Errorf("failed to parse JSON template: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &t); err != nil {
			return nil, fmt.Errorf("failed to parse YAML template: %w", err)
		}
	}

	if t.Resources == nil {
		t.Resources = make(map[string]*Resource)
	}
	return &t, nil
}

// ParseFile reads and decodes the template at path.
func ParseFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", filepath.Base(path), err)
	}
	return Parse(data)
}
