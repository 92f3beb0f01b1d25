package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"gopkg.in/yaml.v3"

	"netsynth/internal/models"
	"netsynth/pkg/logging"
)

type DefaultParser struct {
	logger    logging.Logger
	variables map[string]string
}

// NewDefaultParser creates a new instance of DefaultParser
func NewDefaultParser() *DefaultParser {
	return NewParserWithLogger(
		logging.NewDefaultLogger(),
		nil,
	)
}

// NewParserWithLogger creates a new instance of DefaultParser with a specific logger.
// Variables are exposed to HCL expressions as var.<name>.
func NewParserWithLogger(logger logging.Logger, variables map[string]string) *DefaultParser {
	return &DefaultParser{
		logger:    logger,
		variables: variables,
	}
}

// ParseTopology reads a topology file. The format is chosen by extension:
// .hcl and .tf use native HCL syntax, .json uses HCL JSON syntax and
// .yaml/.yml use YAML.
func (p DefaultParser) ParseTopology(configPath string) (*models.Topology, error) {
	var (
		topology *models.Topology
		err      error
	)

	switch ext := strings.ToLower(filepath.Ext(configPath)); ext {
	case ".hcl", ".tf", ".json":
		topology, err = p.parseHCL(configPath, ext == ".json")
	case ".yaml", ".yml":
		topology, err = p.parseYAML(configPath)
	default:
		return nil, models.NewConfigError("", "", fmt.Sprintf("unsupported topology file extension %q", ext), nil)
	}
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Parsed topology %s: network=%s, route_tables=%d, security_groups=%d, subnets=%d",
		configPath, topology.Network.Name, len(topology.RouteTables), len(topology.SecurityGroups), len(topology.Subnets))
	return topology, nil
}

func (p DefaultParser) parseHCL(configPath string, jsonSyntax bool) (*models.Topology, error) {
	parser := hclparse.NewParser()

	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	if jsonSyntax {
		file, diags = parser.ParseJSONFile(configPath)
	} else {
		file, diags = parser.ParseHCLFile(configPath)
	}
	if diags.HasErrors() {
		return nil, models.NewConfigError("", "", fmt.Sprintf("failed to parse HCL file %s", configPath), diags)
	}

	if file == nil || file.Body == nil {
		return nil, models.NewConfigError("", "", fmt.Sprintf("parsed HCL file is empty or invalid: %s", configPath), nil)
	}

	var cfg ConfigFile
	diags = gohcl.DecodeBody(file.Body, p.evalContext(), &cfg)
	if diags.HasErrors() {
		return nil, models.NewConfigError("", "", fmt.Sprintf("failed to decode HCL body %s", configPath), diags)
	}

	p.logger.Debug("Decoded %d network, %d route_table, %d security_group and %d subnet blocks from %s",
		len(cfg.Networks), len(cfg.RouteTables), len(cfg.SecurityGroups), len(cfg.Subnets), configPath)

	return toTopology(cfg.Networks, fileBlocks{
		routeTables:    cfg.RouteTables,
		securityGroups: cfg.SecurityGroups,
		subnets:        cfg.Subnets,
		tags:           cfg.Tags,
	})
}

// evalContext exposes variables as var.<name> plus a few string functions.
func (p DefaultParser) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(p.variables))
	for k, v := range p.variables {
		vars[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}

func (p DefaultParser) parseYAML(configPath string) (*models.Topology, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, models.NewConfigError("", "", fmt.Sprintf("failed to read YAML file %s", configPath), err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg YAMLFile
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, models.NewConfigError("", "", fmt.Sprintf("YAML file is empty: %s", configPath), nil)
		}
		return nil, models.NewConfigError("", "", fmt.Sprintf("failed to decode YAML file %s", configPath), err)
	}

	var networks []*NetworkBlock
	if cfg.Network != nil {
		networks = append(networks, cfg.Network)
	}

	return toTopology(networks, fileBlocks{
		routeTables:    cfg.RouteTables,
		securityGroups: cfg.SecurityGroups,
		subnets:        cfg.Subnets,
		tags:           cfg.Tags,
	})
}
