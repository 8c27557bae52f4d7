// Package exprtree implements the expression sub-language used inside
// command text: literals, data references, globals, function calls and
// operators. Template builders treat it as a black box: parse a substring,
// get back a typed expression tree or a syntax error.
package exprtree

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is an expression tree node. Expressions are immutable after parsing;
// Copy produces a deep copy so two AST nodes never alias a subtree.
type Expr interface {
	// SourceString renders the expression back to canonical source text.
	SourceString() string
	// Copy deep-copies the expression tree.
	Copy() Expr

	exprNode()
}

// StringLit is a single-quoted string literal.
type StringLit struct {
	Value string
}

func (e *StringLit) SourceString() string { return "'" + escapeString(e.Value) + "'" }
func (e *StringLit) Copy() Expr           { c := *e; return &c }
func (*StringLit) exprNode()              {}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
}

func (e *IntLit) SourceString() string { return strconv.FormatInt(e.Value, 10) }
func (e *IntLit) Copy() Expr           { c := *e; return &c }
func (*IntLit) exprNode()              {}

// FloatLit is a floating-point literal. Text preserves the written form.
type FloatLit struct {
	Value float64
	Text  string
}

func (e *FloatLit) SourceString() string { return e.Text }
func (e *FloatLit) Copy() Expr           { c := *e; return &c }
func (*FloatLit) exprNode()              {}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
}

func (e *BoolLit) SourceString() string { return strconv.FormatBool(e.Value) }
func (e *BoolLit) Copy() Expr           { c := *e; return &c }
func (*BoolLit) exprNode()              {}

// NullLit is the null literal.
type NullLit struct{}

func (e *NullLit) SourceString() string { return "null" }
func (e *NullLit) Copy() Expr           { return &NullLit{} }
func (*NullLit) exprNode()              {}

// VarRef references a template variable, written $name.
type VarRef struct {
	Name string
}

func (e *VarRef) SourceString() string { return "$" + e.Name }
func (e *VarRef) Copy() Expr           { c := *e; return &c }
func (*VarRef) exprNode()              {}

// FieldAccess accesses a named field of a record-valued expression.
type FieldAccess struct {
	Base  Expr
	Field string
}

func (e *FieldAccess) SourceString() string { return e.Base.SourceString() + "." + e.Field }
func (e *FieldAccess) Copy() Expr           { return &FieldAccess{Base: e.Base.Copy(), Field: e.Field} }
func (*FieldAccess) exprNode()              {}

// GlobalRef references a global by dotted identifier, e.g. app.MODE.
type GlobalRef struct {
	Name string
}

func (e *GlobalRef) SourceString() string { return e.Name }
func (e *GlobalRef) Copy() Expr           { c := *e; return &c }
func (*GlobalRef) exprNode()              {}

// FuncCall invokes a built-in function.
type FuncCall struct {
	Name string
	Args []Expr
}

func (e *FuncCall) SourceString() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.SourceString()
	}
	return e.Name + "(" + strings.Join(args, ", ") + ")"
}

func (e *FuncCall) Copy() Expr {
	args := make([]Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.Copy()
	}
	return &FuncCall{Name: e.Name, Args: args}
}
func (*FuncCall) exprNode() {}

// PrefixExpr is a unary operation: "not", "-".
type PrefixExpr struct {
	Op      string
	Operand Expr
}

func (e *PrefixExpr) SourceString() string {
	if e.Op == "not" {
		return "not " + e.Operand.SourceString()
	}
	return e.Op + e.Operand.SourceString()
}
func (e *PrefixExpr) Copy() Expr { return &PrefixExpr{Op: e.Op, Operand: e.Operand.Copy()} }
func (*PrefixExpr) exprNode()    {}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) SourceString() string {
	return fmt.Sprintf("%s %s %s", e.Left.SourceString(), e.Op, e.Right.SourceString())
}
func (e *BinaryExpr) Copy() Expr {
	return &BinaryExpr{Op: e.Op, Left: e.Left.Copy(), Right: e.Right.Copy()}
}
func (*BinaryExpr) exprNode() {}

// CondExpr is the ternary conditional a ? b : c.
type CondExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (e *CondExpr) SourceString() string {
	return fmt.Sprintf("%s ? %s : %s",
		e.Cond.SourceString(), e.Then.SourceString(), e.Else.SourceString())
}
func (e *CondExpr) Copy() Expr {
	return &CondExpr{Cond: e.Cond.Copy(), Then: e.Then.Copy(), Else: e.Else.Copy()}
}
func (*CondExpr) exprNode() {}

// AsStringLiteral returns the literal value when the expression is a plain
// string constant. Builders use this to statically validate delegate variants.
func AsStringLiteral(e Expr) (string, bool) {
	if lit, ok := e.(*StringLit); ok {
		return lit.Value, true
	}
	return "", false
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
