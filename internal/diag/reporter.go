package diag

// Reporter accepts structured diagnostics and accumulates them. Implementations
// never fail and never panic: reporting is how recoverable errors travel, so
// the act of reporting must itself be infallible.
//
// Builders detect whether a particular operation reported anything by
// comparing Count() before and after.
type Reporter interface {
	// Report records a diagnostic. Reporting never aborts the caller.
	Report(d Diagnostic)
	// Errors returns all diagnostics reported so far, in report order.
	Errors() []Diagnostic
	// Count returns the number of diagnostics reported so far.
	Count() int
}

// Sink is the standard accumulating Reporter. The zero value is ready to use.
// Append-only: diagnostics are never reordered or dropped, so callers may rely
// on stable indices across reads.
type Sink struct {
	diags []Diagnostic
}

// NewSink returns an empty diagnostics sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report appends the diagnostic to the sink.
func (s *Sink) Report(d Diagnostic) {
	s.diags = append(s.diags, d)
}

// Errors returns all accumulated diagnostics in report order.
func (s *Sink) Errors() []Diagnostic {
	return s.diags
}

// Count returns the number of accumulated diagnostics.
func (s *Sink) Count() int {
	return len(s.diags)
}

// HasErrors reports whether any diagnostic with error severity was recorded.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == "" || d.Severity == SeverityError {
			return true
		}
	}
	return false
}
