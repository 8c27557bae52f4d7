package ast

import (
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/source"
)

// TemplateParam is one declared parameter of a template.
type TemplateParam struct {
	Name     string
	Required bool
}

// TemplateNode is a plain template declaration addressed by one fixed name.
type TemplateNode struct {
	parentBase
	name   string
	params []TemplateParam
}

// NewTemplateNode constructs a template declaration.
func NewTemplateNode(gen ids.Generator, name string, params []TemplateParam, loc source.Location) *TemplateNode {
	return &TemplateNode{
		parentBase: parentBase{base: newBase(gen, loc)},
		name:       name,
		params:     params,
	}
}

// Kind returns KindTemplate.
func (n *TemplateNode) Kind() Kind { return KindTemplate }

// Name returns the template name as written (possibly relative, ".foo").
func (n *TemplateNode) Name() string { return n.name }

// Params returns the declared params.
func (n *TemplateNode) Params() []TemplateParam { return n.params }

// AddChild appends a body statement.
func (n *TemplateNode) AddChild(c Node) { n.appendChild(n, c) }

// AddChildren appends body statements in order.
func (n *TemplateNode) AddChildren(cs []Node) { n.appendChildren(n, cs) }

// Clone deep-copies the template body.
func (n *TemplateNode) Clone(gen ids.Generator) Node {
	clone := &TemplateNode{
		parentBase: parentBase{base: newBase(gen, n.loc)},
		name:       n.name,
		params:     append([]TemplateParam(nil), n.params...),
	}
	cloneChildrenInto(gen, clone, n)
	return clone
}

// TemplateDelegateNode is one registered implementation of a delegate name.
// Several implementations may share a name; variant and priority decide
// which one binds at a given call site.
type TemplateDelegateNode struct {
	parentBase
	delTemplateName string
	// variant is the implementation's matching variant, or empty for the
	// default implementation of the name.
	variant  string
	priority int
	params   []TemplateParam
}

// NewTemplateDelegateNode constructs a delegate template declaration.
func NewTemplateDelegateNode(gen ids.Generator, delTemplateName, variant string, priority int, params []TemplateParam, loc source.Location) *TemplateDelegateNode {
	return &TemplateDelegateNode{
		parentBase:      parentBase{base: newBase(gen, loc)},
		delTemplateName: delTemplateName,
		variant:         variant,
		priority:        priority,
		params:          params,
	}
}

// Kind returns KindTemplateDelegate.
func (n *TemplateDelegateNode) Kind() Kind { return KindTemplateDelegate }

// DelTemplateName returns the logical delegate name this implements.
func (n *TemplateDelegateNode) DelTemplateName() string { return n.delTemplateName }

// Variant returns the implementation's variant, or empty for the default.
func (n *TemplateDelegateNode) Variant() string { return n.variant }

// Priority returns the implementation's priority; highest wins.
func (n *TemplateDelegateNode) Priority() int { return n.priority }

// Params returns the declared params.
func (n *TemplateDelegateNode) Params() []TemplateParam { return n.params }

// AddChild appends a body statement.
func (n *TemplateDelegateNode) AddChild(c Node) { n.appendChild(n, c) }

// AddChildren appends body statements in order.
func (n *TemplateDelegateNode) AddChildren(cs []Node) { n.appendChildren(n, cs) }

// Clone deep-copies the delegate template body.
func (n *TemplateDelegateNode) Clone(gen ids.Generator) Node {
	clone := &TemplateDelegateNode{
		parentBase:      parentBase{base: newBase(gen, n.loc)},
		delTemplateName: n.delTemplateName,
		variant:         n.variant,
		priority:        n.priority,
		params:          append([]TemplateParam(nil), n.params...),
	}
	cloneChildrenInto(gen, clone, n)
	return clone
}

// FileNode is one parsed compilation unit: a namespace plus its template and
// delegate template declarations.
type FileNode struct {
	parentBase
	filePath   string
	namespace  string
	delPackage string
}

// NewFileNode constructs a file node.
func NewFileNode(gen ids.Generator, filePath, namespace, delPackage string, loc source.Location) *FileNode {
	return &FileNode{
		parentBase: parentBase{base: newBase(gen, loc)},
		filePath:   filePath,
		namespace:  namespace,
		delPackage: delPackage,
	}
}

// Kind returns KindFile.
func (n *FileNode) Kind() Kind { return KindFile }

// FilePath returns the path the file was parsed from.
func (n *FileNode) FilePath() string { return n.filePath }

// Namespace returns the file's declared namespace.
func (n *FileNode) Namespace() string { return n.namespace }

// DelPackage returns the delegate package name, or empty. Templates declared
// in a delegate package take priority over default implementations.
func (n *FileNode) DelPackage() string { return n.delPackage }

// AddChild appends a top-level declaration.
func (n *FileNode) AddChild(c Node) { n.appendChild(n, c) }

// AddChildren appends top-level declarations in order.
func (n *FileNode) AddChildren(cs []Node) { n.appendChildren(n, cs) }

// Clone deep-copies the file and every template in it.
func (n *FileNode) Clone(gen ids.Generator) Node {
	clone := &FileNode{
		parentBase: parentBase{base: newBase(gen, n.loc)},
		filePath:   n.filePath,
		namespace:  n.namespace,
		delPackage: n.delPackage,
	}
	cloneChildrenInto(gen, clone, n)
	return clone
}
