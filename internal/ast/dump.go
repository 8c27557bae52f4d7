package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented tree rendering of the node, one line per node with
// its kind and salient fields. Intended for debugging and the CLI's ast
// command.
func Dump(w io.Writer, node Node) {
	dumpNode(w, node, 0)
}

func dumpNode(w io.Writer, node Node, depth int) {
	fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", depth), node.Kind(), dumpFields(node))
	if p, ok := node.(ParentNode); ok {
		for _, child := range p.Children() {
			dumpNode(w, child, depth+1)
		}
	}
}

func dumpFields(node Node) string {
	switch n := node.(type) {
	case *RawTextNode:
		return " " + strconv.Quote(clipText(n.Text()))
	case *PrintNode:
		if n.Expr() == nil {
			return " <invalid>"
		}
		return " " + n.Expr().SourceString()
	case *ForNode:
		return fmt.Sprintf(" $%s in %s", n.Var(), exprString(n.Expr()))
	case *ForBodyNode:
		return " $" + n.Var()
	case *CallBasicNode:
		return " " + n.SrcCalleeName() + dumpCallFlags(n.IsPassingData(), n.IsPassingAllData())
	case *CallDelegateNode:
		s := " " + n.DelCalleeName()
		if v := n.DelCalleeVariantExpr(); v != nil {
			s += " variant=" + v.SourceString()
		}
		return s + dumpCallFlags(n.IsPassingData(), n.IsPassingAllData())
	case *CallParamNode:
		if n.ValueExpr() != nil {
			return fmt.Sprintf(" %s: %s", n.Key(), n.ValueExpr().SourceString())
		}
		return " " + n.Key()
	case *TemplateNode:
		return " " + n.Name() + dumpParams(n.Params())
	case *TemplateDelegateNode:
		s := " " + n.DelTemplateName()
		if n.Variant() != "" {
			s += ":" + n.Variant()
		}
		return fmt.Sprintf("%s priority=%d%s", s, n.Priority(), dumpParams(n.Params()))
	case *FileNode:
		s := " " + n.Namespace()
		if n.DelPackage() != "" {
			s += " delpackage=" + n.DelPackage()
		}
		return s
	default:
		return ""
	}
}

func dumpCallFlags(passingData, passingAll bool) string {
	switch {
	case passingAll:
		return " data=all"
	case passingData:
		return " data"
	default:
		return ""
	}
}

func dumpParams(params []TemplateParam) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
		if !p.Required {
			names[i] += "?"
		}
	}
	return " params=[" + strings.Join(names, ", ") + "]"
}

func exprString(e interface{ SourceString() string }) string {
	if e == nil {
		return "<invalid>"
	}
	return e.SourceString()
}

func clipText(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
