package main

import (
	"github.com/spf13/cobra"

	"netsynth/internal/orchestrator"
	aws "netsynth/internal/providers/aws"
)

func (c *cli) newSynthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write the CloudFormation template of the topology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.baseConfig()
			cfg.Format = c.v.GetString("format")
			cfg.OutPath = c.v.GetString("out")

			service, err := c.service(cmd, cfg)
			if err != nil {
				return err
			}
			return service.Synth(cmd.Context())
		},
	}
	cmd.Flags().StringP("format", "f", "json", "Template format: json or yaml")
	cmd.Flags().StringP("out", "o", "", "Write the template to this file instead of stdout")
	return cmd
}

func (c *cli) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List the resources of the topology in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.baseConfig()
			cfg.OutputFormat = c.v.GetString("output")

			service, err := c.service(cmd, cfg)
			if err != nil {
				return err
			}
			return service.Plan(cmd.Context())
		},
	}
	cmd.Flags().String("output", "table", "Output format: table or json")
	return cmd
}

func (c *cli) newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare the topology with a previous template or a deployed stack",
		Long: `Compare the template synthesized from the topology with a previously written
template (--previous) or with the template of a deployed CloudFormation stack
(--stack-name). Exits with status 2 when the templates differ.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.baseConfig()
			cfg.OutputFormat = c.v.GetString("output")
			cfg.PreviousPath = c.v.GetString("previous")
			cfg.StackName = c.v.GetString("stack-name")
			cfg.Ignore = c.v.GetStringSlice("ignore")

			service, err := c.service(cmd, cfg)
			if err != nil {
				return err
			}
			changed, err := service.Diff(cmd.Context())
			if err != nil {
				return err
			}
			c.changed = changed
			return nil
		},
	}
	cmd.Flags().String("output", "table", "Output format: table or json")
	cmd.Flags().String("previous", "", "Template file to compare against")
	cmd.Flags().String("stack-name", "", "Deployed CloudFormation stack to compare against")
	cmd.Flags().StringSlice("ignore", nil, "Template properties to ignore (e.g. Tags)")
	return cmd
}

func (c *cli) newDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create the topology in AWS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.baseConfig()
			cfg.OutputFormat = c.v.GetString("output")
			cfg.Engine = c.v.GetString("engine")
			cfg.StackName = c.v.GetString("stack-name")
			cfg.Concurrency = c.v.GetInt("concurrency")

			service, err := c.service(cmd, cfg)
			if err != nil {
				return err
			}
			_, err = service.Deploy(cmd.Context())
			return err
		},
	}
	cmd.Flags().String("output", "table", "Output format: table or json")
	cmd.Flags().String("engine", aws.EngineCloudFormation, "Deploy engine: cloudformation or ec2")
	cmd.Flags().String("stack-name", "", "CloudFormation stack name")
	cmd.Flags().Int("concurrency", 4, "Maximum concurrent EC2 calls per layer with the ec2 engine (0 = unlimited)")
	return cmd
}

// baseConfig returns the settings shared by every subcommand.
func (c *cli) baseConfig() orchestrator.Config {
	return orchestrator.Config{
		ConfigPath:  c.v.GetString("config"),
		Variables:   c.vars,
		Description: c.v.GetString("description"),
	}
}

func (c *cli) service(cmd *cobra.Command, cfg orchestrator.Config) (*orchestrator.Service, error) {
	var opts []aws.ClientOption
	if profile := c.v.GetString("profile"); profile != "" {
		opts = append(opts, aws.WithProfile(profile))
	}
	if region := c.v.GetString("region"); region != "" {
		opts = append(opts, aws.WithRegion(region))
	}
	return orchestrator.NewDefaultService(cmd.Context(), cfg, c.logger, c.stdout, opts...)
}
