// Package config holds the configuration constants shared by the tasm
// compiler and simulator: the MEMREG/PTRPOS counter ids, the group
// limit, the simulator tick rate, and CLI-facing defaults. A Config is
// built once (defaults, or loaded from an optional tasm.toml) and
// threaded explicitly into the lexer, the compiler driver and the
// simulator — nothing here is a process global.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the toolchain configuration.
type Config struct {
	// Compiler settings
	Compiler struct {
		MemEndCounter int16  `toml:"mem_end_counter"` // PTRPOS id; MEMREG is always one below
		GroupLimit    int16  `toml:"group_limit"`
		LevelName     string `toml:"level_name"`
		ReleaseMode   bool   `toml:"release_mode"` // reserved for the optimisation pass
	} `toml:"compiler"`

	// Simulator settings
	Simulator struct {
		TickRate float64 `toml:"tick_rate"`
		Fast     bool    `toml:"fast"`
	} `toml:"simulator"`

	// Display settings; loaded and saved with the file, but not read by the bundled tui or api renderers
	Display struct {
		ColorOutput  bool `toml:"color_output"`
		MemoryRows   int  `toml:"memory_rows"`
		InstrContext int  `toml:"instruction_context"`
	} `toml:"display"`
}

// MemRegCounter is the MEMREG counter id, one below the configured
// mem-end counter.
func (c Config) MemRegCounter() int16 {
	return c.Compiler.MemEndCounter - 1
}

// PtrPosCounter is the PTRPOS counter id: the mem-end counter itself,
// the last slot in the counter file.
func (c Config) PtrPosCounter() int16 {
	return c.Compiler.MemEndCounter
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Compiler.MemEndCounter = 9999
	cfg.Compiler.GroupLimit = 9999
	cfg.Compiler.LevelName = ""
	cfg.Compiler.ReleaseMode = false

	cfg.Simulator.TickRate = 288.0
	cfg.Simulator.Fast = false

	cfg.Display.ColorOutput = true
	cfg.Display.MemoryRows = 40
	cfg.Display.InstrContext = 8

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\tasm\tasm.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "tasm")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/tasm/tasm.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "tasm.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "tasm")

	default:
		return "tasm.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "tasm.toml"
	}

	return filepath.Join(configDir, "tasm.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "tasm", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "tasm", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file
// is not an error: the defaults are returned instead.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
