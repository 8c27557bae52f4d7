// Package delegates implements registration and resolution of delegate
// template implementations. Implementations are keyed by logical name and
// variant; calls are dispatched to the single highest-priority active
// implementation for their key.
package delegates

import (
	"fmt"
	"sort"

	"github.com/sable-lang/sable/internal/ast"
)

// Key identifies one dispatch slot: a logical delegate name plus an optional
// variant. A zero Variant is the default implementation for the name.
type Key struct {
	Name    string
	Variant string
}

func (k Key) String() string {
	if k.Variant == "" {
		return k.Name
	}
	return k.Name + ":" + k.Variant
}

// entry is one registered implementation with its effective priority. The
// priority usually comes from the declaration itself but a unit-level
// override can raise or lower a whole delegate package.
type entry struct {
	node       *ast.TemplateDelegateNode
	delPackage string
	priority   int
}

// Registry holds every known delegate implementation. Registration never
// fails; conflicting implementations are kept side by side and surface as an
// AmbiguityError when a call actually needs the contested key.
type Registry struct {
	byKey  map[Key][]entry
	byName map[string][]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:  make(map[Key][]entry),
		byName: make(map[string][]entry),
	}
}

// Register adds one implementation under the given delegate package name and
// effective priority.
func (r *Registry) Register(node *ast.TemplateDelegateNode, delPackage string, priority int) {
	k := Key{Name: node.DelTemplateName(), Variant: node.Variant()}
	e := entry{node: node, delPackage: delPackage, priority: priority}
	r.byKey[k] = append(r.byKey[k], e)
	r.byName[k.Name] = append(r.byName[k.Name], e)
}

// CollectFromFile registers every delegate implementation declared in the
// file. Priorities come from the declarations; priorityOverrides, keyed by
// delegate package name, replaces them when the unit configuration says so.
func (r *Registry) CollectFromFile(file *ast.FileNode, priorityOverrides map[string]int) {
	for _, child := range file.Children() {
		node, ok := child.(*ast.TemplateDelegateNode)
		if !ok {
			continue
		}
		priority := node.Priority()
		if p, ok := priorityOverrides[file.DelPackage()]; ok {
			priority = p
		}
		r.Register(node, file.DelPackage(), priority)
	}
}

// HasName reports whether any implementation is registered under the logical
// name, regardless of variant.
func (r *Registry) HasName(name string) bool {
	return len(r.byName[name]) > 0
}

// Implementations returns every implementation registered under the logical
// name, in registration order.
func (r *Registry) Implementations(name string) []*ast.TemplateDelegateNode {
	entries := r.byName[name]
	nodes := make([]*ast.TemplateDelegateNode, len(entries))
	for i, e := range entries {
		nodes[i] = e.node
	}
	return nodes
}

// AmbiguityError reports two or more implementations competing for one key
// at the same top priority. Dispatch cannot choose between them, so this is
// fatal for the affected call.
type AmbiguityError struct {
	Key        Key
	Priority   int
	DelPackage []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("delegates: multiple implementations of %q at priority %d (packages %v)",
		e.Key, e.Priority, e.DelPackage)
}

// AbsenceError reports that no implementation exists for a key whose call
// does not allow an empty default.
type AbsenceError struct {
	Key Key
}

func (e *AbsenceError) Error() string {
	return fmt.Sprintf("delegates: no implementation of %q and the call does not allow an empty default", e.Key)
}

// Resolve picks the implementation for a name and variant. Implementations
// registered under the exact variant are preferred; when none exist the
// variantless defaults are considered instead. Among the candidates the
// single highest priority wins. A tie at the top priority returns an
// AmbiguityError; no candidates at all returns (nil, nil) and the caller
// decides what absence means.
func (r *Registry) Resolve(name, variant string) (*ast.TemplateDelegateNode, error) {
	candidates := r.byKey[Key{Name: name, Variant: variant}]
	key := Key{Name: name, Variant: variant}
	if len(candidates) == 0 && variant != "" {
		key = Key{Name: name}
		candidates = r.byKey[key]
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	best := candidates[0]
	tied := []entry{best}
	for _, c := range candidates[1:] {
		switch {
		case c.priority > best.priority:
			best = c
			tied = tied[:0]
			tied = append(tied, c)
		case c.priority == best.priority:
			tied = append(tied, c)
		}
	}
	if len(tied) > 1 {
		packages := make([]string, len(tied))
		for i, e := range tied {
			packages[i] = e.delPackage
		}
		sort.Strings(packages)
		return nil, &AmbiguityError{Key: key, Priority: best.priority, DelPackage: packages}
	}
	return best.node, nil
}

// ResolveCall dispatches one delegate call with a statically known variant.
// Absence renders empty when the call allows it; otherwise absence is an
// AbsenceError. The call's empty-default policy must already be decided.
func (r *Registry) ResolveCall(call *ast.CallDelegateNode, variant string) (*ast.TemplateDelegateNode, error) {
	impl, err := r.Resolve(call.DelCalleeName(), variant)
	if err != nil {
		return nil, err
	}
	if impl == nil {
		if call.AllowsEmptyDefault() {
			return nil, nil
		}
		return nil, &AbsenceError{Key: Key{Name: call.DelCalleeName(), Variant: variant}}
	}
	return impl, nil
}
