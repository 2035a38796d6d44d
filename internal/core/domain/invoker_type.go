package domain

// InvokerType describes a supported invoker.
type InvokerType struct {
	// ID is the unique identifier (e.g., "blacklist", "fedresurs", "dummy").
	ID string
	// Name is the human-readable display name.
	Name string
	// Description provides a brief explanation of the invoker.
	Description string
	// InputFormat describes the raw input the invoker expects.
	InputFormat InputFormat
	// ConfigKeys lists the configuration parameters used by this invoker.
	ConfigKeys []ConfigKey
	// SupportsDelay indicates the invoker can suspend and resume.
	SupportsDelay bool
}

// InputFormat identifies how an invoker reads its raw input.
type InputFormat string

const (
	// InputDocument is a rendered Document with a Request root.
	InputDocument InputFormat = "document"
	// InputParams is a "key=value;key=value" parameter string.
	InputParams InputFormat = "params"
	// InputAny is passed through untouched.
	InputAny InputFormat = "any"
)

// RequiredKeys returns the keys that must be configured.
func (t *InvokerType) RequiredKeys() []string {
	var keys []string
	for _, k := range t.ConfigKeys {
		if k.Required {
			keys = append(keys, k.Key)
		}
	}
	return keys
}

// ConfigKey describes a configuration parameter for an invoker.
type ConfigKey struct {
	// Key is the parameter name.
	Key string
	// Description explains what this parameter is for.
	Description string
	// Default is the default value, if any.
	Default string
	// Required indicates whether this parameter must be provided.
	Required bool
	// Secret indicates whether this parameter should be masked in output.
	Secret bool
}
