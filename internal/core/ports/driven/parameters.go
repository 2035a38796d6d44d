package driven

// Parameters is a read-only key to string lookup with typed accessors.
// Missing keys are reported as errors wrapping domain.ErrMissingParameter;
// values of the wrong shape wrap domain.ErrInvalidParameter.
type Parameters interface {
	// String returns the value for key.
	String(key string) (string, error)

	// Integer returns the value for key parsed as an integer.
	Integer(key string) (int, error)

	// Boolean returns the value for key parsed as a boolean.
	Boolean(key string) (bool, error)

	// OptionalBoolean returns the value for key and whether it was present.
	OptionalBoolean(key string) (value, ok bool, err error)

	// Exists reports whether key is present.
	Exists(key string) bool

	// Keys returns all keys in sorted order.
	Keys() []string
}
