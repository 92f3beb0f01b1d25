package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"

	"netsynth/internal/models"
)

// Key identifies a resource by category and configured name.
type Key struct {
	Category models.ResourceCategory
	Name     string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Category, k.Name)
}

// Handle is an opaque reference to a registered resource. Later
// declarations use it as the target of a reference.
type Handle struct {
	Key       Key
	LogicalID string
}

// IsZero reports whether h was never registered.
func (h Handle) IsZero() bool {
	return h.LogicalID == ""
}

func (h Handle) String() string {
	return h.Key.String()
}

// Registry maps (category, name) to the handle of a created resource.
// It is written by a single builder and is not safe for concurrent use.
type Registry struct {
	handles    map[Key]Handle
	logicalIDs map[string]Key
	order      []Key
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		handles:    make(map[Key]Handle),
		logicalIDs: make(map[string]Key),
	}
}

// LogicalID derives the template-safe identifier of a key, e.g.
// route_table/public-rt becomes RouteTablePublicRt.
func LogicalID(key Key) string {
	words := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '-'
	}, string(key.Category)+"-"+key.Name)
	return strcase.ToCamel(words)
}

// Register records a new resource and returns its handle. A name already
// used within the category is a duplicate. Distinct names that derive the
// same logical id, e.g. web-a and web_a, both register; the later one gets
// a suffix hashed from its key.
func (r *Registry) Register(category models.ResourceCategory, name string) (Handle, error) {
	key := Key{Category: category, Name: name}
	if _, ok := r.handles[key]; ok {
		return Handle{}, models.NewDuplicateNameError(category, name)
	}

	id := LogicalID(key)
	if _, ok := r.logicalIDs[id]; ok {
		id = r.uniqueID(id, key)
	}

	h := Handle{Key: key, LogicalID: id}
	r.handles[key] = h
	r.logicalIDs[id] = key
	r.order = append(r.order, key)
	return h, nil
}

func (r *Registry) uniqueID(base string, key Key) string {
	sum := sha256.Sum256([]byte(key.String()))
	hashed := base + strings.ToUpper(hex.EncodeToString(sum[:4]))
	id := hashed
	for i := 2; ; i++ {
		if _, ok := r.logicalIDs[id]; !ok {
			return id
		}
		id = fmt.Sprintf("%s%d", hashed, i)
	}
}

// Resolve returns the handle registered under category and name.
func (r *Registry) Resolve(category models.ResourceCategory, name string) (Handle, error) {
	h, ok := r.handles[Key{Category: category, Name: name}]
	if !ok {
		return Handle{}, models.NewDependencyError(category, name,
			fmt.Sprintf("%s %q is not declared", strings.ReplaceAll(string(category), "_", " "), name))
	}
	return h, nil
}

// Keys returns every registered key in registration order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, len(r.order))
	copy(keys, r.order)
	return keys
}

// Names returns the names registered under category in registration order.
func (r *Registry) Names(category models.ResourceCategory) []string {
	var names []string
	for _, k := range r.order {
		if k.Category == category {
			names = append(names, k.Name)
		}
	}
	return names
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	return len(r.order)
}
