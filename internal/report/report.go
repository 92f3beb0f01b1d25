package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"netsynth/internal/diff"
	"netsynth/internal/providers/aws"
)

// DefaultPrinter writes reports to Out, or to stdout when Out is nil.
type DefaultPrinter struct {
	Out io.Writer
}

// NewDefaultPrinter returns a printer writing to w.
func NewDefaultPrinter(w io.Writer) DefaultPrinter {
	return DefaultPrinter{Out: w}
}

func (p DefaultPrinter) writer() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

// PrintPlan prints the resources a deployment would create, in order.
func (p DefaultPrinter) PrintPlan(plan *Plan, format OutputFormatType) error {
	if plan == nil {
		return fmt.Errorf("plan is nil")
	}
	switch format {
	case OutputFormatTypeJSON:
		return printJSON(p.writer(), plan)
	case OutputFormatTypeTABLE:
		return printPlanTable(p.writer(), plan)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// PrintDeploy prints the physical id of every deployed resource.
func (p DefaultPrinter) PrintDeploy(result *aws.DeployResult, format OutputFormatType) error {
	if result == nil {
		return fmt.Errorf("deploy result is nil")
	}
	switch format {
	case OutputFormatTypeJSON:
		return printJSON(p.writer(), result)
	case OutputFormatTypeTABLE:
		return printDeployTable(p.writer(), result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// PrintDiff prints every changed resource with its property changes.
func (p DefaultPrinter) PrintDiff(result *diff.Result, format OutputFormatType) error {
	if result == nil {
		return fmt.Errorf("diff result is nil")
	}
	switch format {
	case OutputFormatTypeJSON:
		return printJSON(p.writer(), result)
	case OutputFormatTypeTABLE:
		return printDiffTable(p.writer(), result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling report to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printPlanTable(w io.Writer, plan *Plan) error {
	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(writer, "#\tDEPTH\tCATEGORY\tNAME\tTYPE\tDEPENDS ON")
	fmt.Fprintln(writer, "-\t-----\t--------\t----\t----\t----------")
	for _, e := range plan.Resources {
		fmt.Fprintf(writer, "%d\t%d\t%s\t%s\t%s\t%s\n",
			e.Order, e.Depth, e.Category, e.Name, e.Type, formatList(e.DependsOn))
	}

	fmt.Fprintln(writer, "")
	fmt.Fprintf(writer, "Plan: %d resources to create\n", len(plan.Resources))

	return writer.Flush()
}

func printDeployTable(w io.Writer, result *aws.DeployResult) error {
	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(writer, "\nENGINE:\t%s\n", result.Engine)
	if result.StackName != "" {
		fmt.Fprintf(writer, "STACK:\t%s\n", result.StackName)
	}
	fmt.Fprintf(writer, "STATUS:\t%s\n\n", result.Status)

	fmt.Fprintln(writer, "LOGICAL ID\tTYPE\tPHYSICAL ID")
	fmt.Fprintln(writer, "----------\t----\t-----------")
	for _, r := range result.Resources {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", r.LogicalID, r.Type, formatValueForTable(r.PhysicalID))
	}

	fmt.Fprintln(writer, "")
	fmt.Fprintf(writer, "Summary: %d resources deployed\n", len(result.Resources))

	return writer.Flush()
}

func printDiffTable(w io.Writer, result *diff.Result) error {
	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if result.HasChanges {
		fmt.Fprintln(writer, "CHANGE\tLOGICAL ID\tTYPE\tPROPERTY\tPREVIOUS\tCURRENT")
		fmt.Fprintln(writer, "------\t----------\t----\t--------\t--------\t-------")
	}
	for _, c := range result.Changes {
		if len(c.Properties) == 0 {
			fmt.Fprintf(writer, "%s\t%s\t%s\t\t\t\n", c.Change, c.LogicalID, c.Type)
			continue
		}
		for _, p := range c.Properties {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
				c.Change, c.LogicalID, c.Type, p.Path,
				formatValueForTable(p.From), formatValueForTable(p.To))
		}
	}

	fmt.Fprintln(writer, "")
	fmt.Fprintf(writer, "Summary: %s\n", result.Summary())

	return writer.Flush()
}

func formatList(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

// formatValueForTable formats values for better display in the table
func formatValueForTable(v any) string {
	if v == nil {
		return "<nil>"
	}

	if s, ok := v.(string); ok && s == "" {
		return "<empty>"
	}

	return fmt.Sprintf("%v", v)
}
