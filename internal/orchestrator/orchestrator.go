package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"netsynth/internal/builder"
	"netsynth/internal/cfn"
	"netsynth/internal/config"
	"netsynth/internal/diff"
	aws "netsynth/internal/providers/aws"
	"netsynth/internal/report"
	"netsynth/pkg/logging"
)

// DefaultDescription is used when the config does not set one.
const DefaultDescription = "Network topology synthesized by netsynth"

// Service runs the synth, plan, diff and deploy actions.
type Service struct {
	config    Config
	parser    config.IProvider
	builder   *builder.Builder
	deployer  DeployerAPI
	templates TemplateSourceAPI
	printer   report.IPrinter
	logger    logging.Logger
	out       io.Writer
}

// NewService creates a new orchestrator service. deployer and templates
// may be nil when the actions that need them are not used.
func NewService(
	cfg Config,
	parser config.IProvider,
	deployer DeployerAPI,
	templates TemplateSourceAPI,
	printer report.IPrinter,
	logger logging.Logger,
) *Service {
	return &Service{
		config:    cfg,
		parser:    parser,
		builder:   builder.New(logger),
		deployer:  deployer,
		templates: templates,
		printer:   printer,
		logger:    logger,
		out:       os.Stdout,
	}
}

// NewDefaultService creates a service with default implementations of its
// dependencies, writing templates and reports to out. AWS clients are only
// created when the config needs them.
func NewDefaultService(ctx context.Context, cfg Config, logger logging.Logger, out io.Writer, opts ...aws.ClientOption) (*Service, error) {
	parser := config.NewParserWithLogger(logger, cfg.Variables)
	printer := report.NewDefaultPrinter(out)

	knownEngine := cfg.Engine == aws.EngineEC2 || cfg.Engine == aws.EngineCloudFormation
	if cfg.Engine != "" && !knownEngine {
		return nil, unknownEngineError(cfg.Engine)
	}
	if !knownEngine && (cfg.PreviousPath != "" || cfg.StackName == "") {
		service := NewService(cfg, parser, nil, nil, printer, logger)
		service.SetOutput(out)
		return service, nil
	}

	awsCfg, err := aws.LoadConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AWS clients: %w", err)
	}

	stacks := aws.NewCloudFormationDeployer(aws.NewCloudFormationClient(awsCfg), logger, 0)

	var deployer DeployerAPI
	switch cfg.Engine {
	case aws.EngineEC2:
		deployer = aws.NewEC2Deployer(aws.NewEC2Client(awsCfg), logger, cfg.Concurrency)
	case aws.EngineCloudFormation:
		deployer = stacks
	}

	service := NewService(cfg, parser, deployer, stacks, printer, logger)
	service.SetOutput(out)
	return service, nil
}

// SetOutput redirects the template written by Synth when no OutPath is set.
func (s *Service) SetOutput(w io.Writer) {
	s.out = w
}

// Synth writes the CloudFormation template of the topology.
func (s *Service) Synth(_ context.Context) error {
	if err := s.validateConfig(actionSynth); err != nil {
		return err
	}

	_, tmpl, err := s.synthesize()
	if err != nil {
		return err
	}

	format, _ := cfn.ParseFormat(s.config.Format)
	data, err := tmpl.Render(format)
	if err != nil {
		return err
	}

	if s.config.OutPath == "" {
		_, err = s.out.Write(data)
		return err
	}

	if err := os.WriteFile(s.config.OutPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write template %s: %w", filepath.Base(s.config.OutPath), err)
	}
	s.logger.Info("Wrote %d resources to %s", len(tmpl.Resources), s.config.OutPath)
	return nil
}

// Plan prints the resources a deployment would create, in creation order.
func (s *Service) Plan(_ context.Context) error {
	if err := s.validateConfig(actionPlan); err != nil {
		return err
	}

	synthesis, _, err := s.synthesize()
	if err != nil {
		return err
	}

	plan, err := report.NewPlan(synthesis.Stack)
	if err != nil {
		return fmt.Errorf("error building plan: %w", err)
	}
	return s.printer.PrintPlan(plan, s.outputFormat())
}

// Diff compares the previous template with the current topology and
// reports whether anything changed.
func (s *Service) Diff(ctx context.Context) (bool, error) {
	if err := s.validateConfig(actionDiff); err != nil {
		return false, err
	}

	_, current, err := s.synthesize()
	if err != nil {
		return false, err
	}

	previous, err := s.previousTemplate(ctx)
	if err != nil {
		return false, err
	}

	result, err := diff.Compare(previous, current, s.config.Ignore...)
	if err != nil {
		return false, fmt.Errorf("error comparing templates: %w", err)
	}
	s.logger.Debug("Diff: %s", result.Summary())

	if err := s.printer.PrintDiff(result, s.outputFormat()); err != nil {
		return result.HasChanges, fmt.Errorf("error generating report: %w", err)
	}
	return result.HasChanges, nil
}

// Deploy applies the topology with the configured engine. A partial
// result is still reported when the deployment fails midway.
func (s *Service) Deploy(ctx context.Context) (*aws.DeployResult, error) {
	if err := s.validateConfig(actionDeploy); err != nil {
		return nil, err
	}
	if s.deployer == nil {
		return nil, fmt.Errorf("no deployer configured for engine %s", s.config.Engine)
	}

	synthesis, tmpl, err := s.synthesize()
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deploying %d resources with the %s engine", synthesis.Stack.Len(), s.config.Engine)
	result, deployErr := s.deployer.Deploy(ctx, aws.DeployRequest{
		StackName: s.config.StackName,
		Stack:     synthesis.Stack,
		Template:  tmpl,
	})

	if result != nil {
		if err := s.printer.PrintDeploy(result, s.outputFormat()); err != nil {
			s.logger.Error("Error generating report: %v", err)
		}
	}
	if deployErr != nil {
		return result, fmt.Errorf("deployment failed: %w", deployErr)
	}
	return result, nil
}

// synthesize parses the topology, builds the stack and renders it as a
// CloudFormation template.
func (s *Service) synthesize() (*builder.Synthesis, *cfn.Template, error) {
	topology, err := s.parser.ParseTopology(s.config.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing topology: %w", err)
	}

	synthesis, err := s.builder.Build(topology)
	if err != nil {
		return nil, nil, fmt.Errorf("error building topology: %w", err)
	}

	description := s.config.Description
	if description == "" {
		description = DefaultDescription
	}
	tmpl, err := cfn.Synthesize(synthesis.Stack, description)
	if err != nil {
		return nil, nil, fmt.Errorf("error synthesizing template: %w", err)
	}
	return synthesis, tmpl, nil
}

func (s *Service) previousTemplate(ctx context.Context) (*cfn.Template, error) {
	if s.config.PreviousPath != "" {
		tmpl, err := cfn.ParseFile(s.config.PreviousPath)
		if err != nil {
			return nil, fmt.Errorf("error reading previous template: %w", err)
		}
		return tmpl, nil
	}

	if s.templates == nil {
		return nil, fmt.Errorf("no template source configured for stack %s", s.config.StackName)
	}
	body, err := s.templates.CurrentTemplate(ctx, s.config.StackName)
	if err != nil {
		return nil, fmt.Errorf("error fetching template of stack %s: %w", s.config.StackName, err)
	}
	tmpl, err := cfn.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("error parsing template of stack %s: %w", s.config.StackName, err)
	}
	return tmpl, nil
}

// validateConfig checks the configuration needed by the given action.
func (s *Service) validateConfig(a action) error {
	if s.config.ConfigPath == "" {
		return fmt.Errorf("topology configuration path is required")
	}
	if _, err := cfn.ParseFormat(s.config.Format); err != nil {
		return err
	}
	if s.config.OutputFormat != "" {
		if _, err := report.ParseOutputFormat(s.config.OutputFormat); err != nil {
			return err
		}
	}
	if s.config.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", s.config.Concurrency)
	}

	switch a {
	case actionDiff:
		if s.config.PreviousPath == "" && s.config.StackName == "" {
			return fmt.Errorf("diff needs a previous template or a stack name")
		}
	case actionDeploy:
		switch s.config.Engine {
		case aws.EngineEC2:
		case aws.EngineCloudFormation:
			if s.config.StackName == "" {
				return fmt.Errorf("stack name is required for the %s engine", aws.EngineCloudFormation)
			}
		default:
			return unknownEngineError(s.config.Engine)
		}
	}
	return nil
}

func unknownEngineError(engine string) error {
	return fmt.Errorf("unknown deploy engine %q, expected %s or %s",
		engine, aws.EngineCloudFormation, aws.EngineEC2)
}

// outputFormat converts the configured format to report.OutputFormatType.
func (s *Service) outputFormat() report.OutputFormatType {
	format, err := report.ParseOutputFormat(s.config.OutputFormat)
	if err != nil {
		return report.OutputFormatTypeTABLE
	}
	return format
}
