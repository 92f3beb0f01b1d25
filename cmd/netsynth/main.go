package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"netsynth/pkg/logging"
)

const envPrefix = "NETSYNTH"

// Exit codes
const (
	exitOK      = 0
	exitError   = 1
	exitChanges = 2 // diff found changes
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli holds the state shared by the root command and its subcommands.
type cli struct {
	v       *viper.Viper
	logger  *logging.DefaultLogger
	stdout  io.Writer
	vars    map[string]string
	changed bool
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := logging.NewDefaultLogger()
	logger.SetOutput(stderr)
	defer func() { _ = logger.Sync() }()

	c := &cli{v: viper.New(), logger: logger, stdout: stdout}
	rootCmd := c.newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if c.changed {
		return exitChanges
	}
	return exitOK
}

func (c *cli) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "netsynth",
		Short: "Synthesize AWS network topologies into CloudFormation templates",
		Long: `netsynth turns a declarative network topology (HCL, HCL JSON or YAML) into
an ordered set of AWS resources: a VPC, its internet gateway, route tables,
security groups, subnets, route table associations and EC2 instances.

  netsynth synth --config network.hcl --out network.json
  netsynth plan --config network.hcl
  netsynth diff --config network.hcl --previous network.json
  netsynth deploy --config network.hcl --engine cloudformation --stack-name network`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			if err := c.v.BindPFlags(cmd.LocalNonPersistentFlags()); err != nil {
				return err
			}
			c.logger.SetLevel(logging.StringToLogLevel(c.v.GetString("log-level")))
			return c.loadVariables(cmd)
		},
	}

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the topology file (.hcl, .tf, .json, .yaml)")
	flags.StringToStringVar(&c.vars, "var", nil, "Topology variable as key=value, available as var.<key> (repeatable, env NETSYNTH_VAR=k1=v1,k2=v2)")
	flags.String("description", "", "Description of the synthesized template")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.StringP("profile", "p", "", "AWS profile to use")
	flags.StringP("region", "r", "", "AWS region to use")

	rootCmd.AddCommand(
		c.newSynthCmd(),
		c.newPlanCmd(),
		c.newDiffCmd(),
		c.newDeployCmd(),
	)
	return rootCmd
}

// loadVariables falls back to NETSYNTH_VAR when no --var flag is given.
// viper hands the environment value over as a raw string, so it is split
// here the way the flag splits its own value.
func (c *cli) loadVariables(cmd *cobra.Command) error {
	if cmd.Flags().Changed("var") {
		return nil
	}
	raw := strings.TrimSpace(c.v.GetString("var"))
	if raw == "" || raw == "[]" {
		return nil
	}

	vars := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid %s_VAR entry %q, expected key=value", envPrefix, pair)
		}
		vars[key] = value
	}
	c.vars = vars
	return nil
}
