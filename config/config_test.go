package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Compiler.MemEndCounter != 9999 {
		t.Errorf("Expected MemEndCounter=9999, got %d", cfg.Compiler.MemEndCounter)
	}
	if cfg.Compiler.GroupLimit != 9999 {
		t.Errorf("Expected GroupLimit=9999, got %d", cfg.Compiler.GroupLimit)
	}
	if cfg.Compiler.ReleaseMode {
		t.Error("Expected ReleaseMode=false")
	}

	if cfg.Simulator.TickRate != 288.0 {
		t.Errorf("Expected TickRate=288.0, got %v", cfg.Simulator.TickRate)
	}
	if cfg.Simulator.Fast {
		t.Error("Expected Fast=false")
	}

	if cfg.Display.MemoryRows != 40 {
		t.Errorf("Expected MemoryRows=40, got %d", cfg.Display.MemoryRows)
	}
}

func TestCounterDerivation(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MemRegCounter() != 9998 {
		t.Errorf("Expected MemRegCounter=9998, got %d", cfg.MemRegCounter())
	}
	if cfg.PtrPosCounter() != 9999 {
		t.Errorf("Expected PtrPosCounter=9999, got %d", cfg.PtrPosCounter())
	}

	cfg.Compiler.MemEndCounter = 5000
	if cfg.MemRegCounter() != 4999 {
		t.Errorf("Expected MemRegCounter to track MemEndCounter-1, got %d", cfg.MemRegCounter())
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}

	if filepath.Base(path) != "tasm.toml" {
		t.Errorf("Expected path to end with tasm.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "tasm.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "tasm" && path != "tasm.toml" {
			t.Errorf("Expected path in tasm directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()

	if path == "" {
		t.Error("GetLogPath returned empty string")
	}

	switch runtime.GOOS {
	case "darwin", "linux":
		if filepath.Base(path) != "logs" {
			t.Errorf("Expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_tasm.toml")

	cfg := DefaultConfig()
	cfg.Compiler.MemEndCounter = 5000
	cfg.Compiler.LevelName = "level_1"
	cfg.Simulator.TickRate = 120
	cfg.Simulator.Fast = true
	cfg.Display.ColorOutput = false

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Compiler.MemEndCounter != 5000 {
		t.Errorf("Expected MemEndCounter=5000, got %d", loaded.Compiler.MemEndCounter)
	}
	if loaded.Compiler.LevelName != "level_1" {
		t.Errorf("Expected LevelName=level_1, got %s", loaded.Compiler.LevelName)
	}
	if loaded.Simulator.TickRate != 120 {
		t.Errorf("Expected TickRate=120, got %v", loaded.Simulator.TickRate)
	}
	if !loaded.Simulator.Fast {
		t.Error("Expected Fast=true")
	}
	if loaded.Display.ColorOutput {
		t.Error("Expected ColorOutput=false")
	}
	if loaded.PtrPosCounter() != 5000 {
		t.Errorf("Expected derived PtrPosCounter=5000, got %d", loaded.PtrPosCounter())
	}
	if loaded.MemRegCounter() != 4999 {
		t.Errorf("Expected derived MemRegCounter=4999, got %d", loaded.MemRegCounter())
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Compiler.MemEndCounter != 9999 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[compiler]
mem_end_counter = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "tasm.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
