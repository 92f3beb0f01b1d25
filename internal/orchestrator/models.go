package orchestrator

// Config contains all the parameters needed by the orchestrator actions.
type Config struct {
	ConfigPath   string            // Path to the topology file (HCL, HCL JSON or YAML)
	Variables    map[string]string // Values for var.* references in HCL topologies
	Description  string            // Template description
	Format       string            // Template format for synth (json or yaml)
	OutPath      string            // Where synth writes the template (empty = stdout)
	OutputFormat string            // Report format (table or json)
	PreviousPath string            // Template file to diff against
	StackName    string            // CloudFormation stack name for diff and deploy
	Engine       string            // Deploy engine (cloudformation or ec2)
	Concurrency  int               // Maximum concurrent EC2 calls per layer (0 = unlimited)
	Ignore       []string          // Template properties ignored by diff
}

type action string

const (
	actionSynth  action = "synth"
	actionPlan   action = "plan"
	actionDiff   action = "diff"
	actionDeploy action = "deploy"
)
