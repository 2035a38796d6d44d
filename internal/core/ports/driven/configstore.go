package driven

import (
	"time"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
// Configuration is read-only once invokers have been built from it.
type ConfigStore interface {
	// Get retrieves a configuration value by dotted key (e.g., "logging.level").
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// GetDuration retrieves a duration written as a Go duration string.
	// Returns 0 if key doesn't exist or can't be parsed.
	GetDuration(key string) time.Duration

	// Profiles returns all configured invoker profiles sorted by name.
	Profiles() ([]domain.Profile, error)

	// Profile returns the named profile or domain.ErrNotFound.
	Profile(name string) (*domain.Profile, error)

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
