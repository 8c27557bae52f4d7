// Package parser turns command text into validated AST nodes. Each directive
// kind has its own builder; all of them share the attribute mini-parser and
// the fail-soft discipline: recoverable problems are reported to the
// diagnostics sink and construction still returns a usable node.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/source"
)

// BooleanValues restricts an attribute to the literals "true" and "false".
var BooleanValues = []string{"true", "false"}

// Attribute describes one recognized attribute of a command.
type Attribute struct {
	Name string
	// Allowed enumerates the valid values; nil accepts any text.
	Allowed []string
	// Default is substituted when the attribute is absent.
	Default    string
	HasDefault bool
	// Required attributes produce a diagnostic when absent.
	Required bool
}

// OptionalAttr declares an attribute that may be absent, with no default.
func OptionalAttr(name string, allowed []string) Attribute {
	return Attribute{Name: name, Allowed: allowed}
}

// RequiredAttr declares an attribute that must be present.
func RequiredAttr(name string, allowed []string) Attribute {
	return Attribute{Name: name, Allowed: allowed, Required: true}
}

// DefaultAttr declares an attribute with a default substituted when absent.
func DefaultAttr(name string, allowed []string, def string) Attribute {
	return Attribute{Name: name, Allowed: allowed, Default: def, HasDefault: true}
}

// attrPattern matches one name="value" pair at the start of the remaining
// command text.
var attrPattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9-]*)\s*=\s*"([^"]*)"`)

// AttributesParser extracts name="value" attributes from command text for
// one command kind. It is stateless after construction and safe to share.
type AttributesParser struct {
	commandName string
	attrs       []Attribute
}

// NewAttributesParser creates a parser recognizing exactly the given
// attributes for the named command.
func NewAttributesParser(commandName string, attrs ...Attribute) *AttributesParser {
	return &AttributesParser{commandName: commandName, attrs: attrs}
}

// Parse extracts attributes from commandText. Every problem found is
// reported to r with the command's source location and parsing continues, so
// all problems in one command text surface together. The returned map always
// holds best-effort values: defaults are substituted for absent attributes
// that declare one, and attributes that failed validation are simply absent.
func (p *AttributesParser) Parse(commandText string, loc source.Location, r diag.Reporter) map[string]string {
	result := make(map[string]string, len(p.attrs))
	seen := make(map[string]bool, len(p.attrs))

	rest := strings.TrimSpace(commandText)
	for rest != "" {
		m := attrPattern.FindStringSubmatch(rest)
		if m == nil {
			r.Report(diag.Errorf(diag.StageParse, diag.CodeMalformedAttributes, loc,
				"malformed attributes in '%s' command text (%s)", p.commandName, clipToken(rest)))
			// Skip the junk token and keep scanning so later attributes
			// still get validated.
			i := strings.IndexAny(rest, " \t\r\n")
			if i < 0 {
				break
			}
			rest = strings.TrimSpace(rest[i:])
			continue
		}
		rest = strings.TrimSpace(rest[len(m[0]):])

		name, value := m[1], m[2]
		spec := p.lookup(name)
		if spec == nil {
			r.Report(diag.Errorf(diag.StageParse, diag.CodeUnknownAttribute, loc,
				"unsupported attribute %q in '%s' command text", name, p.commandName))
			continue
		}
		if seen[name] {
			r.Report(diag.Errorf(diag.StageParse, diag.CodeDuplicateAttribute, loc,
				"duplicate attribute %q in '%s' command text", name, p.commandName))
			continue
		}
		seen[name] = true

		if spec.Allowed != nil && !contains(spec.Allowed, value) {
			r.Report(diag.Errorf(diag.StageParse, diag.CodeInvalidAttributeValue, loc,
				"invalid value %q for attribute %q in '%s' command text (expected one of %s)",
				value, name, p.commandName, strings.Join(spec.Allowed, ", ")))
			continue
		}
		result[name] = value
	}

	for _, spec := range p.attrs {
		if _, ok := result[spec.Name]; ok {
			continue
		}
		switch {
		case spec.Required && !seen[spec.Name]:
			r.Report(diag.Errorf(diag.StageParse, diag.CodeMissingAttribute, loc,
				"missing required attribute %q in '%s' command text", spec.Name, p.commandName))
		case spec.HasDefault:
			result[spec.Name] = spec.Default
		}
	}

	return result
}

func (p *AttributesParser) lookup(name string) *Attribute {
	for i := range p.attrs {
		if p.attrs[i].Name == name {
			return &p.attrs[i]
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func clipToken(rest string) string {
	if i := strings.IndexAny(rest, " \t\r\n"); i >= 0 {
		rest = rest[:i]
	}
	if len(rest) > 40 {
		rest = rest[:40] + "..."
	}
	return fmt.Sprintf("near %q", rest)
}
