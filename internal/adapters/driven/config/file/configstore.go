package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/params"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
//
// Example:
//
//	[logging]
//	level = "info"
//
//	[dispatcher]
//	workers = 4
//	poll_interval = "1s"
//
//	[profiles.blacklist-prod]
//	type = "blacklist"
//	tls = "tls1.2"
//	rate_limit = 5.0
//
//	[profiles.blacklist-prod.params]
//	url = "https://partner.example/check"
//	partner_key = "..."
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
	profiles map[string]domain.Profile
}

// profileFile is the on-disk shape of one profile.
type profileFile struct {
	Type        string         `toml:"type"`
	Connection  string         `toml:"connection"`
	TLS         string         `toml:"tls"`
	CAFile      string         `toml:"ca_file"`
	RateLimit   float64        `toml:"rate_limit"`
	BearerToken string         `toml:"bearer_token"`
	Params      map[string]any `toml:"params"`
}

type configFile struct {
	Profiles map[string]profileFile `toml:"profiles"`
}

// NewConfigStore creates a config store reading config.toml in configDir.
// If configDir is empty, defaults to ~/.invokers.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return Open(filepath.Join(configDir, "config.toml"))
}

// Open creates a config store reading the given file.
// A missing file yields an empty configuration.
func Open(path string) (*ConfigStore, error) {
	s := &ConfigStore{
		filePath: path,
		data:     make(map[string]any),
		profiles: make(map[string]domain.Profile),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultDir returns ~/.invokers.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".invokers"), nil
}

// Get retrieves a configuration value by dotted key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}

	b, ok := val.(bool)
	if !ok {
		return false
	}
	return b
}

// GetDuration retrieves a duration written as a Go duration string.
func (s *ConfigStore) GetDuration(key string) time.Duration {
	d, err := time.ParseDuration(s.GetString(key))
	if err != nil {
		return 0
	}
	return d
}

// Profiles returns all configured invoker profiles sorted by name.
func (s *ConfigStore) Profiles() ([]domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Profile returns the named profile.
func (s *ConfigStore) Profile(name string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q: %w", name, domain.ErrNotFound)
	}
	return &p, nil
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// No config file yet - start empty
			s.data = make(map[string]any)
			s.profiles = make(map[string]domain.Profile)
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing config %s: %w", s.filePath, err)
	}
	if loaded == nil {
		loaded = make(map[string]any)
	}

	var typed configFile
	if err := toml.Unmarshal(data, &typed); err != nil {
		return fmt.Errorf("parsing profiles in %s: %w", s.filePath, err)
	}
	profiles, err := buildProfiles(typed.Profiles)
	if err != nil {
		return err
	}

	// Profiles are exposed through Profile, not as flattened keys.
	delete(loaded, "profiles")
	s.data = flattenMap(loaded, "")
	s.profiles = profiles
	return nil
}

func buildProfiles(in map[string]profileFile) (map[string]domain.Profile, error) {
	out := make(map[string]domain.Profile, len(in))
	for name, pf := range in {
		if pf.Type == "" {
			return nil, fmt.Errorf("profile %q: missing type: %w", name, domain.ErrInvalidInput)
		}

		values := params.Split(pf.Connection)
		for k, v := range pf.Params {
			str, err := paramString(v)
			if err != nil {
				return nil, fmt.Errorf("profile %q param %q: %w", name, k, err)
			}
			values[k] = str
		}

		out[name] = domain.Profile{
			Name:        name,
			Type:        pf.Type,
			Params:      values,
			TLS:         domain.TLSProfile(pf.TLS),
			CAFile:      pf.CAFile,
			RateLimit:   pf.RateLimit,
			BearerToken: pf.BearerToken,
		}
	}
	return out, nil
}

// paramString renders a TOML scalar as a parameter string.
func paramString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("unsupported value type %T: %w", v, domain.ErrInvalidParameter)
	}
}

// FlattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
