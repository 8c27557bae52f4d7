package exprtree

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// SyntaxError reports that an expression substring could not be parsed.
type SyntaxError struct {
	Message string
	Input   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid expression %q: %s", e.Input, e.Message)
}

// Parse parses text as a single expression. Trailing input after a complete
// expression is an error.
func Parse(text string) (Expr, error) {
	p := newParser(text)
	expr := p.parseExpr(precLowest)
	if p.err == nil && p.cur.kind != tokEOF {
		p.fail("unexpected token '" + p.cur.text + "'")
	}
	if p.err != nil {
		return nil, p.err
	}
	return expr, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokVar // $ident
	tokInt
	tokFloat
	tokString
	tokOp    // punctuation operator
	tokError // scanning failure
)

type token struct {
	kind tokenKind
	text string
}

const (
	precLowest = iota
	precTernary
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
	precPrefix
	precPostfix
)

var binaryPrecedence = map[string]int{
	"?":   precTernary,
	"or":  precOr,
	"and": precAnd,
	"==":  precEquality,
	"!=":  precEquality,
	"<":   precComparison,
	"<=":  precComparison,
	">":   precComparison,
	">=":  precComparison,
	"+":   precSum,
	"-":   precSum,
	"*":   precProduct,
	"/":   precProduct,
	"%":   precProduct,
	".":   precPostfix,
	"(":   precPostfix,
}

type parser struct {
	input string
	rest  string
	cur   token
	peek  token
	err   error
}

func newParser(input string) *parser {
	p := &parser{input: input, rest: input}
	// Seed cur/peek.
	p.next()
	p.next()
	return p
}

func (p *parser) fail(msg string) {
	if p.err == nil {
		p.err = &SyntaxError{Message: msg, Input: strings.TrimSpace(p.input)}
	}
}

func (p *parser) next() {
	p.cur = p.peek
	p.peek = p.scan()
}

// scan returns the next token from the remaining input.
func (p *parser) scan() token {
	p.rest = strings.TrimLeftFunc(p.rest, unicode.IsSpace)
	if p.rest == "" {
		return token{kind: tokEOF}
	}

	c := p.rest[0]
	switch {
	case c == '$':
		end := 1
		for end < len(p.rest) && isIdentRune(rune(p.rest[end]), end == 1) {
			end++
		}
		if end == 1 {
			return p.scanError("'$' must be followed by a variable name")
		}
		return p.take(end, tokVar)

	case c == '\'':
		return p.scanString()

	case c >= '0' && c <= '9':
		return p.scanNumber()

	case isIdentRune(rune(c), true):
		end := 1
		for end < len(p.rest) && isIdentRune(rune(p.rest[end]), false) {
			end++
		}
		return p.take(end, tokIdent)

	default:
		for _, op := range []string{"==", "!=", "<=", ">="} {
			if strings.HasPrefix(p.rest, op) {
				return p.take(2, tokOp)
			}
		}
		switch c {
		case '+', '-', '*', '/', '%', '<', '>', '(', ')', ',', '.', '?', ':':
			return p.take(1, tokOp)
		}
		return p.scanError(fmt.Sprintf("unexpected character %q", c))
	}
}

func (p *parser) take(n int, kind tokenKind) token {
	t := token{kind: kind, text: p.rest[:n]}
	p.rest = p.rest[n:]
	return t
}

func (p *parser) scanError(msg string) token {
	p.fail(msg)
	p.rest = ""
	return token{kind: tokError}
}

func (p *parser) scanString() token {
	var b strings.Builder
	i := 1
	for i < len(p.rest) {
		c := p.rest[i]
		switch c {
		case '\'':
			t := token{kind: tokString, text: b.String()}
			p.rest = p.rest[i+1:]
			return t
		case '\\':
			if i+1 >= len(p.rest) {
				return p.scanError("unterminated string literal")
			}
			switch p.rest[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\'':
				b.WriteByte('\'')
			case '\\':
				b.WriteByte('\\')
			default:
				return p.scanError(fmt.Sprintf("unknown escape '\\%c'", p.rest[i+1]))
			}
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return p.scanError("unterminated string literal")
}

func (p *parser) scanNumber() token {
	end := 0
	kind := tokInt
	for end < len(p.rest) && p.rest[end] >= '0' && p.rest[end] <= '9' {
		end++
	}
	if end < len(p.rest) && p.rest[end] == '.' && end+1 < len(p.rest) &&
		p.rest[end+1] >= '0' && p.rest[end+1] <= '9' {
		kind = tokFloat
		end++
		for end < len(p.rest) && p.rest[end] >= '0' && p.rest[end] <= '9' {
			end++
		}
	}
	if end < len(p.rest) && (p.rest[end] == 'e' || p.rest[end] == 'E') {
		mark := end
		end++
		if end < len(p.rest) && (p.rest[end] == '+' || p.rest[end] == '-') {
			end++
		}
		if end < len(p.rest) && p.rest[end] >= '0' && p.rest[end] <= '9' {
			kind = tokFloat
			for end < len(p.rest) && p.rest[end] >= '0' && p.rest[end] <= '9' {
				end++
			}
		} else {
			end = mark
		}
	}
	return p.take(end, kind)
}

func (p *parser) parseExpr(prec int) Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for p.err == nil {
		op := p.cur.text
		if p.cur.kind == tokIdent && (op == "and" || op == "or") {
			// keyword operators share the table with punctuation
		} else if p.cur.kind != tokOp {
			break
		}
		opPrec, ok := binaryPrecedence[op]
		if !ok || prec >= opPrec {
			break
		}

		switch op {
		case ".":
			left = p.parseFieldOrGlobal(left)
		case "(":
			left = p.parseCall(left)
		case "?":
			left = p.parseTernary(left)
		default:
			p.next()
			right := p.parseExpr(opPrec)
			if right == nil {
				return nil
			}
			left = &BinaryExpr{Op: op, Left: left, Right: right}
		}
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *parser) parsePrefix() Expr {
	switch p.cur.kind {
	case tokVar:
		e := &VarRef{Name: p.cur.text[1:]}
		p.next()
		return e
	case tokString:
		e := &StringLit{Value: p.cur.text}
		p.next()
		return e
	case tokInt:
		v, err := strconv.ParseInt(p.cur.text, 10, 64)
		if err != nil {
			p.fail("invalid integer literal '" + p.cur.text + "'")
			return nil
		}
		p.next()
		return &IntLit{Value: v}
	case tokFloat:
		v, err := strconv.ParseFloat(p.cur.text, 64)
		if err != nil {
			p.fail("invalid float literal '" + p.cur.text + "'")
			return nil
		}
		e := &FloatLit{Value: v, Text: p.cur.text}
		p.next()
		return e
	case tokIdent:
		switch p.cur.text {
		case "true", "false":
			e := &BoolLit{Value: p.cur.text == "true"}
			p.next()
			return e
		case "null":
			p.next()
			return &NullLit{}
		case "not":
			p.next()
			operand := p.parseExpr(precPrefix)
			if operand == nil {
				return nil
			}
			return &PrefixExpr{Op: "not", Operand: operand}
		case "and", "or":
			p.fail("unexpected operator '" + p.cur.text + "'")
			return nil
		default:
			e := &GlobalRef{Name: p.cur.text}
			p.next()
			return e
		}
	case tokOp:
		switch p.cur.text {
		case "-":
			p.next()
			operand := p.parseExpr(precPrefix)
			if operand == nil {
				return nil
			}
			return &PrefixExpr{Op: "-", Operand: operand}
		case "(":
			p.next()
			inner := p.parseExpr(precLowest)
			if inner == nil {
				return nil
			}
			if !p.expectOp(")") {
				return nil
			}
			return inner
		}
	}
	if p.err == nil {
		if p.cur.kind == tokEOF {
			p.fail("unexpected end of expression")
		} else {
			p.fail("unexpected token '" + p.cur.text + "'")
		}
	}
	return nil
}

// parseFieldOrGlobal handles the '.' infix. Dots chained off a bare
// identifier extend a dotted global name; dots off anything else are field
// accesses on a record value.
func (p *parser) parseFieldOrGlobal(left Expr) Expr {
	p.next() // consume '.'
	if p.cur.kind != tokIdent {
		p.fail("expected field name after '.'")
		return nil
	}
	name := p.cur.text
	p.next()

	if g, ok := left.(*GlobalRef); ok {
		return &GlobalRef{Name: g.Name + "." + name}
	}
	return &FieldAccess{Base: left, Field: name}
}

func (p *parser) parseCall(left Expr) Expr {
	g, ok := left.(*GlobalRef)
	if !ok || strings.Contains(g.Name, ".") {
		p.fail("only plain function names may be called")
		return nil
	}
	p.next() // consume '('

	call := &FuncCall{Name: g.Name}
	if p.cur.kind == tokOp && p.cur.text == ")" {
		p.next()
		return call
	}
	for {
		arg := p.parseExpr(precLowest)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
		if p.cur.kind == tokOp && p.cur.text == "," {
			p.next()
			continue
		}
		break
	}
	if !p.expectOp(")") {
		return nil
	}
	return call
}

func (p *parser) parseTernary(cond Expr) Expr {
	p.next() // consume '?'
	then := p.parseExpr(precLowest)
	if then == nil {
		return nil
	}
	if !p.expectOp(":") {
		return nil
	}
	els := p.parseExpr(precTernary - 1)
	if els == nil {
		return nil
	}
	return &CondExpr{Cond: cond, Then: then, Else: els}
}

func (p *parser) expectOp(op string) bool {
	if p.cur.kind == tokOp && p.cur.text == op {
		p.next()
		return true
	}
	p.fail("expected '" + op + "'")
	return false
}
