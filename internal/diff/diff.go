package diff

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	r3diff "github.com/r3labs/diff"

	"netsynth/internal/cfn"
)

// Compare reports every resource that was added, removed or modified
// between previous and current. Properties named in ignore are skipped;
// names match case-insensitively and ignore '-', '_' and spaces.
func Compare(previous, current *cfn.Template, ignore ...string) (*Result, error) {
	if previous == nil {
		return nil, NewDiffError(ErrInvalidInput, "previous template is nil", "", nil)
	}
	if current == nil {
		return nil, NewDiffError(ErrInvalidInput, "current template is nil", "", nil)
	}

	differ, err := r3diff.NewDiffer(r3diff.SliceOrdering(false))
	if err != nil {
		return nil, NewDiffError(ErrComparisonFailed, "failed to create differ", "", err)
	}

	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[normalizePropertyName(name)] = true
	}

	result := &Result{Changes: []ResourceChange{}}

	for _, id := range logicalIDs(previous, current) {
		before, inPrevious := previous.Resources[id]
		after, inCurrent := current.Resources[id]

		switch {
		case !inPrevious:
			result.Changes = append(result.Changes, ResourceChange{LogicalID: id, Type: after.Type, Change: ChangeAdded})
		case !inCurrent:
			result.Changes = append(result.Changes, ResourceChange{LogicalID: id, Type: before.Type, Change: ChangeRemoved})
		default:
			props, err := compareResource(differ, id, before, after, skip)
			if err != nil {
				return nil, err
			}
			if len(props) > 0 {
				result.Changes = append(result.Changes, ResourceChange{
					LogicalID:  id,
					Type:       after.Type,
					Change:     ChangeModified,
					Properties: props,
				})
			}
		}
	}

	result.HasChanges = len(result.Changes) > 0
	return result, nil
}

// compareResource diffs two versions of a resource after normalizing
// both through JSON, so parsed and synthesized templates compare equal.
func compareResource(
	differ *r3diff.Differ,
	id string,
	before, after *cfn.Resource,
	skip map[string]bool,
) ([]PropertyChange, error) {
	a, err := normalize(before, skip)
	if err != nil {
		return nil, NewDiffError(ErrComparisonFailed, "failed to normalize previous resource", id, err)
	}
	b, err := normalize(after, skip)
	if err != nil {
		return nil, NewDiffError(ErrComparisonFailed, "failed to normalize current resource", id, err)
	}

	changelog, err := differ.Diff(a, b)
	if err != nil {
		// values whose type changed cannot be walked, compare them whole
		return shallowChanges(a, b), nil
	}

	props := make([]PropertyChange, 0, len(changelog))
	for _, c := range changelog {
		props = append(props, PropertyChange{
			Path: strings.Join(c.Path, "."),
			Type: c.Type,
			From: c.From,
			To:   c.To,
		})
	}
	sort.SliceStable(props, func(i, j int) bool { return props[i].Path < props[j].Path })
	return props, nil
}

// shallowChanges compares top-level fields and properties with
// reflect.DeepEqual and reports every differing one as an update.
func shallowChanges(a, b map[string]interface{}) []PropertyChange {
	var props []PropertyChange
	for _, key := range unionKeys(a, b) {
		if key == "Properties" {
			pa, _ := a[key].(map[string]interface{})
			pb, _ := b[key].(map[string]interface{})
			for _, name := range unionKeys(pa, pb) {
				if !reflect.DeepEqual(pa[name], pb[name]) {
					props = append(props, PropertyChange{Path: key + "." + name, Type: r3diff.UPDATE, From: pa[name], To: pb[name]})
				}
			}
			continue
		}
		if !reflect.DeepEqual(a[key], b[key]) {
			props = append(props, PropertyChange{Path: key, Type: r3diff.UPDATE, From: a[key], To: b[key]})
		}
	}
	return props
}

func unionKeys(a, b map[string]interface{}) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var keys []string
	for _, m := range []map[string]interface{}{a, b} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func normalize(r *cfn.Resource, skip map[string]bool) (map[string]interface{}, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	if props, ok := out["Properties"].(map[string]interface{}); ok {
		for name := range props {
			if skip[normalizePropertyName(name)] {
				delete(props, name)
			}
		}
	}
	return out, nil
}

func logicalIDs(templates ...*cfn.Template) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, t := range templates {
		for id := range t.Resources {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// normalizePropertyName lets users write property names as Tags, tags or
// map-public-ip-on-launch.
func normalizePropertyName(name string) string {
	normalized := strings.ToLower(name)
	for _, sep := range []string{"-", "_", " "} {
		normalized = strings.ReplaceAll(normalized, sep, "")
	}
	return normalized
}

// Summary returns a one-line description of the result.
func (r *Result) Summary() string {
	if !r.HasChanges {
		return "No changes"
	}
	return fmt.Sprintf("%d to add, %d to change, %d to remove",
		r.Count(ChangeAdded), r.Count(ChangeModified), r.Count(ChangeRemoved))
}
