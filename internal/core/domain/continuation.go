package domain

// ContinuationState is the typed view of a continuation Document.
// It is decoded once at the top of an invocation.
type ContinuationState struct {
	// RemainingAttempts is the number of further suspensions allowed.
	// When zero the invoker must complete or fail.
	RemainingAttempts int

	// Fields holds connector-defined values such as a resume marker.
	Fields map[string]string
}

// Exhausted returns true when no further suspension is allowed.
func (s ContinuationState) Exhausted() bool {
	return s.RemainingAttempts <= 0
}

// Field returns a connector-defined field.
func (s ContinuationState) Field(key string) (string, bool) {
	if s.Fields == nil {
		return "", false
	}
	v, ok := s.Fields[key]
	return v, ok
}

// WithField returns a copy of s with key set to value.
func (s ContinuationState) WithField(key, value string) ContinuationState {
	fields := make(map[string]string, len(s.Fields)+1)
	for k, v := range s.Fields {
		fields[k] = v
	}
	fields[key] = value
	s.Fields = fields
	return s
}
