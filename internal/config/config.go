// Package config provides configuration loading and validation for the CLI and the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-refiner/internal/llm"
	"github.com/jonathan/resume-refiner/internal/rendering"
	"github.com/jonathan/resume-refiner/internal/types"
)

// MaxNamedKeys is the number of GEMINI_API_KEY[_N] variables consulted.
const MaxNamedKeys = 5

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from CLI flags and the environment.
type Config struct {
	Format     string `json:"format,omitempty"`      // Output style: classic or modern
	OutputDir  string `json:"output_dir,omitempty"`  // Directory for exported files
	ChromePath string `json:"chrome_path,omitempty"` // Chrome/Chromium binary for PDF export
	Port       int    `json:"port,omitempty"`        // HTTP port for serve

	// PrintTimeoutSeconds bounds one headless PDF print.
	PrintTimeoutSeconds int `json:"print_timeout_seconds,omitempty"`
	// ModelTimeoutSeconds bounds one model request including rotation.
	ModelTimeoutSeconds int `json:"model_timeout_seconds,omitempty"`

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information

	// Credentials is filled from the environment, never from the file.
	Credentials []llm.Credential `json:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Format:              string(types.FormatClassic),
		OutputDir:           ".",
		Port:                8080,
		PrintTimeoutSeconds: int(rendering.DefaultPrintTimeout / time.Second),
		ModelTimeoutSeconds: 120,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv overlays environment values on c: the credential pool, PORT and CHROME_PATH.
func (c *Config) FromEnv() {
	c.Credentials = CredentialsFromEnv()
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		c.ChromePath = v
	}
}

// CredentialsFromEnv builds the credential pool. GEMINI_API_KEYS (comma separated) wins when set;
// otherwise GEMINI_API_KEY and GEMINI_API_KEY_2 .. GEMINI_API_KEY_5 are read in order. Empty values
// are skipped.
func CredentialsFromEnv() []llm.Credential {
	var creds []llm.Credential
	if list := os.Getenv("GEMINI_API_KEYS"); strings.TrimSpace(list) != "" {
		for i, key := range strings.Split(list, ",") {
			if key = strings.TrimSpace(key); key != "" {
				creds = append(creds, llm.Credential{Name: fmt.Sprintf("GEMINI_API_KEYS[%d]", i), Key: key})
			}
		}
		return creds
	}
	for i := 1; i <= MaxNamedKeys; i++ {
		name := "GEMINI_API_KEY"
		if i > 1 {
			name = fmt.Sprintf("GEMINI_API_KEY_%d", i)
		}
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			creds = append(creds, llm.Credential{Name: name, Key: key})
		}
	}
	return creds
}

// Validate checks that the configuration has valid values.
// Missing credentials are not an error here; they surface as llm.ErrNoCredentials on first use.
func (c *Config) Validate() error {
	if c.Format != "" {
		if _, err := types.ParseFormat(c.Format); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.PrintTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'print_timeout_seconds' must be non-negative")
	}
	if c.ModelTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'model_timeout_seconds' must be non-negative")
	}
	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.PrintTimeoutSeconds == 0 {
		result.PrintTimeoutSeconds = defaults.PrintTimeoutSeconds
	}
	if result.ModelTimeoutSeconds == 0 {
		result.ModelTimeoutSeconds = defaults.ModelTimeoutSeconds
	}
	if len(result.Credentials) == 0 {
		result.Credentials = defaults.Credentials
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// OutputFormat returns the parsed format.
func (c *Config) OutputFormat() types.Format {
	f, err := types.ParseFormat(c.Format)
	if err != nil {
		return types.FormatClassic
	}
	return f
}

// PrintTimeout returns the PDF print timeout.
func (c *Config) PrintTimeout() time.Duration {
	return time.Duration(c.PrintTimeoutSeconds) * time.Second
}

// ModelTimeout returns the model request timeout.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.ModelTimeoutSeconds) * time.Second
}
