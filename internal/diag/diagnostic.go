package diag

import (
	"fmt"

	"github.com/sable-lang/sable/internal/source"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageParse   Stage = "parse"
	StageResolve Stage = "resolve"
	StageRender  Stage = "render"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Command-text and attribute errors
	CodeMalformedCommandText  Code = "PARSE_MALFORMED_COMMAND_TEXT"
	CodeMalformedAttributes   Code = "PARSE_MALFORMED_ATTRIBUTES"
	CodeUnknownAttribute      Code = "PARSE_UNKNOWN_ATTRIBUTE"
	CodeDuplicateAttribute    Code = "PARSE_DUPLICATE_ATTRIBUTE"
	CodeMissingAttribute      Code = "PARSE_MISSING_ATTRIBUTE"
	CodeInvalidAttributeValue Code = "PARSE_INVALID_ATTRIBUTE_VALUE"

	// Directive-specific validation errors
	CodeInvalidVarName      Code = "PARSE_INVALID_VAR_NAME"
	CodeInvalidCalleeName   Code = "PARSE_INVALID_CALLEE_NAME"
	CodeInvalidDelegateName Code = "PARSE_INVALID_DELEGATE_NAME"
	CodeInvalidVariant      Code = "PARSE_INVALID_VARIANT"
	CodeInvalidPlaceholder  Code = "PARSE_INVALID_PLACEHOLDER"
	CodeExprSyntax          Code = "PARSE_EXPR_SYNTAX"

	// File structure errors
	CodeUnexpectedTag    Code = "PARSE_UNEXPECTED_TAG"
	CodeUnclosedTag      Code = "PARSE_UNCLOSED_TAG"
	CodeMissingNamespace Code = "PARSE_MISSING_NAMESPACE"

	// Resolution errors
	CodeDelegateAmbiguous Code = "RESOLVE_DELEGATE_AMBIGUOUS"
	CodeDelegateAbsent    Code = "RESOLVE_DELEGATE_ABSENT"
	CodeDelegateVariant   Code = "RESOLVE_DELEGATE_VARIANT"
	CodeUnknownGlobal     Code = "RESOLVE_UNKNOWN_GLOBAL"
)

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Location source.Location
	// Cause carries the underlying error when this diagnostic re-reports a
	// failure from a collaborator (e.g. the expression parser).
	Cause error
}

// Errorf builds an error diagnostic at the given location.
func Errorf(stage Stage, code Code, loc source.Location, format string, args ...any) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

// WithCause returns a new diagnostic with the given underlying cause.
func (d Diagnostic) WithCause(err error) Diagnostic {
	d.Cause = err
	return d
}

// String renders the diagnostic in "severity[CODE]: message (location)" form.
func (d Diagnostic) String() string {
	sev := d.Severity
	if sev == "" {
		sev = SeverityError
	}
	if d.Location.IsKnown() || d.Location.FilePath != "" {
		return fmt.Sprintf("%s[%s]: %s\n  --> %s", sev, d.Code, d.Message, d.Location)
	}
	return fmt.Sprintf("%s[%s]: %s", sev, d.Code, d.Message)
}

// Error lets a Diagnostic travel as an error through the few call sites that
// want fail-fast behaviour instead of accumulation.
func (d Diagnostic) Error() string {
	return d.String()
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (d Diagnostic) Unwrap() error {
	return d.Cause
}
