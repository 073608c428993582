package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk configuration schema.
type Config struct {
	Search  SearchConfig  `toml:"search"`
	Server  ServerConfig  `toml:"server"`
	Sources SourcesConfig `toml:"sources"`
}

// SearchConfig controls fan-out behavior.
type SearchConfig struct {
	// Concurrency caps how many sources are queried at once.
	Concurrency int `toml:"concurrency"`
}

// ServerConfig controls serve mode.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// SourcesConfig holds defaults applied to sources that do not set
// their own values.
type SourcesConfig struct {
	TimeoutMS  int `toml:"timeout_ms"`
	RetryCount int `toml:"retry_count"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Search:  SearchConfig{Concurrency: 3},
		Server:  ServerConfig{Listen: "127.0.0.1:7430"},
		Sources: SourcesConfig{TimeoutMS: 8000, RetryCount: 1},
	}
}

// DefaultTimeout returns the source timeout as a duration.
func (c SourcesConfig) DefaultTimeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// ConfigStore is a TOML-backed config store. Configuration lives in a
// single file within the streamlens config directory.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	config   Config
}

// NewConfigStore creates a TOML-based config store.
// If configDir is empty, defaults to ~/.streamlens/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".streamlens")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		config:   DefaultConfig(),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Config returns a copy of the current configuration.
func (s *ConfigStore) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Load reads configuration from disk, merging over defaults. A missing
// file is not an error; defaults apply.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.config = DefaultConfig()
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Search.Concurrency < 1 {
		cfg.Search.Concurrency = DefaultConfig().Search.Concurrency
	}

	s.config = cfg
	return nil
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := toml.Marshal(s.config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Update applies fn to the configuration under lock and persists the
// result.
func (s *ConfigStore) Update(fn func(*Config)) error {
	s.mu.Lock()
	fn(&s.config)
	cfg := s.config
	s.mu.Unlock()

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
