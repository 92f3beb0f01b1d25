package diff

// ChangeType classifies how a resource differs between two templates.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// PropertyChange is a single property-level difference of a modified resource.
type PropertyChange struct {
	Path string `json:"path"`
	Type string `json:"type"` // create, update or delete
	From any    `json:"from,omitempty"`
	To   any    `json:"to,omitempty"`
}

// ResourceChange describes one resource that differs between templates.
type ResourceChange struct {
	LogicalID  string           `json:"logical_id"`
	Type       string           `json:"type"`
	Change     ChangeType       `json:"change"`
	Properties []PropertyChange `json:"properties,omitempty"`
}

// Result is the outcome of comparing a previous template with the current one.
type Result struct {
	HasChanges bool             `json:"has_changes"`
	Changes    []ResourceChange `json:"changes"`
}

// Count returns how many resources have the given change type.
func (r *Result) Count(change ChangeType) int {
	n := 0
	for _, c := range r.Changes {
		if c.Change == change {
			n++
		}
	}
	return n
}
