package report

import (
	"fmt"
	"strings"

	"netsynth/internal/builder"
)

// OutputFormatType defines the format types for reports.
type OutputFormatType string

const (
	// OutputFormatTypeJSON represents JSON output format
	OutputFormatTypeJSON OutputFormatType = "JSON"
	// OutputFormatTypeTABLE represents table output format
	OutputFormatTypeTABLE OutputFormatType = "TABLE"
)

// ParseOutputFormat accepts json or table in any case.
func ParseOutputFormat(s string) (OutputFormatType, error) {
	switch f := OutputFormatType(strings.ToUpper(strings.TrimSpace(s))); f {
	case OutputFormatTypeJSON, OutputFormatTypeTABLE:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// PlanEntry is one resource of a plan, in creation order.
type PlanEntry struct {
	Order     int      `json:"order"`
	Depth     int      `json:"depth"`
	Category  string   `json:"category"`
	Name      string   `json:"name"`
	LogicalID string   `json:"logical_id"`
	Type      string   `json:"type"`
	DependsOn []string `json:"depends_on"`
}

// Plan lists what a deployment of a stack would create.
type Plan struct {
	Resources []PlanEntry `json:"resources"`
}

// NewPlan flattens stack into plan entries. Depth is the deployment layer
// the resource belongs to.
func NewPlan(stack *builder.Stack) (*Plan, error) {
	order, err := stack.Order()
	if err != nil {
		return nil, err
	}
	depth, err := stack.Depth()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Resources: make([]PlanEntry, 0, len(order))}
	for i, r := range order {
		deps := []string{}
		for _, h := range r.Dependencies() {
			deps = append(deps, h.LogicalID)
		}
		plan.Resources = append(plan.Resources, PlanEntry{
			Order:     i + 1,
			Depth:     depth[r.Handle.LogicalID],
			Category:  string(r.Handle.Key.Category),
			Name:      r.Handle.Key.Name,
			LogicalID: r.Handle.LogicalID,
			Type:      r.Type,
			DependsOn: deps,
		})
	}
	return plan, nil
}
