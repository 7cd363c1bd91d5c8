package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// TestNewLoader tests loader creation.
func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if loader.v == nil {
		t.Error("Loader viper instance is nil")
	}
}

// TestLoadWithNoConfigFile tests loading with no config file present.
func TestLoadWithNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected default log level '%s', got %s", infoLevel, cfg.LogLevel)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("Expected default workers 4, got %d", cfg.Batch.Workers)
	}
}

// TestLoadWithValidYAMLFile tests loading from a valid YAML file.
func TestLoadWithValidYAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "okapi.yaml")

	yamlContent := `
log_level: debug
verbose: true
scanner:
  symbologies:
    - qrcode
    - ean13
  settings:
    - qrcode.binary=1
  cache: true
  x_density: 2
output:
  format: json
batch:
  workers: 8
`

	if err := os.WriteFile(configFile, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.LoadWithFile(configFile)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}

	if cfg.LogLevel != debugLevel {
		t.Errorf("Expected log level '%s', got %s", debugLevel, cfg.LogLevel)
	}
	if !cfg.Verbose {
		t.Error("Expected verbose to be true")
	}
	if len(cfg.Scanner.Symbologies) != 2 || cfg.Scanner.Symbologies[1] != "ean13" {
		t.Errorf("Expected symbologies [qrcode ean13], got %v", cfg.Scanner.Symbologies)
	}
	if len(cfg.Scanner.Settings) != 1 || cfg.Scanner.Settings[0] != "qrcode.binary=1" {
		t.Errorf("Expected settings [qrcode.binary=1], got %v", cfg.Scanner.Settings)
	}
	if !cfg.Scanner.Cache {
		t.Error("Expected scanner.cache true")
	}
	if cfg.Scanner.XDensity != 2 {
		t.Errorf("Expected x_density 2, got %d", cfg.Scanner.XDensity)
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("Expected output format json, got %s", cfg.Output.Format)
	}
	if cfg.Batch.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", cfg.Batch.Workers)
	}
}

// TestLoadWithInvalidYAMLFile tests loading from an invalid YAML file.
func TestLoadWithInvalidYAMLFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "okapi.yaml")

	invalidYAML := `
log_level: debug
  invalid indentation
    more bad indentation
`

	if err := os.WriteFile(configFile, []byte(invalidYAML), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoader()
	if _, err := loader.LoadWithFile(configFile); err == nil {
		t.Error("LoadWithFile() expected error for invalid YAML, got nil")
	}
}

// TestLoadWithNonExistentFile tests loading from a non-existent file.
func TestLoadWithNonExistentFile(t *testing.T) {
	loader := NewLoader()
	if _, err := loader.LoadWithFile("/nonexistent/path/to/okapi.yaml"); err == nil {
		t.Error("LoadWithFile() expected error for non-existent file, got nil")
	}
}

// TestLoadWithValidationFailure tests loading with validation failure.
func TestLoadWithValidationFailure(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "okapi.yaml")

	yamlContent := `
log_level: chatty
batch:
  workers: 0
`

	if err := os.WriteFile(configFile, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoader()
	if _, err := loader.LoadWithFile(configFile); err == nil {
		t.Error("LoadWithFile() expected validation error, got nil")
	}
}

// TestLoadWithFileWithoutValidation tests that invalid values load when
// validation is skipped.
func TestLoadWithFileWithoutValidation(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "okapi.yaml")

	yamlContent := `
log_level: chatty
batch:
  workers: -1
`

	if err := os.WriteFile(configFile, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.LoadWithFileWithoutValidation(configFile)
	if err != nil {
		t.Fatalf("LoadWithFileWithoutValidation() unexpected error: %v", err)
	}

	if cfg.LogLevel != "chatty" {
		t.Errorf("Expected log level 'chatty', got %s", cfg.LogLevel)
	}
	if cfg.Batch.Workers != -1 {
		t.Errorf("Expected workers -1, got %d", cfg.Batch.Workers)
	}
}

// TestLoadWithEmptyConfigFile tests loading an empty config file.
func TestLoadWithEmptyConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "okapi.yaml")

	if err := os.WriteFile(configFile, []byte(""), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.LoadWithFile(configFile)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}

	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected default log level '%s', got %s", infoLevel, cfg.LogLevel)
	}
}

// TestEnvironmentVariableOverride tests environment variable override.
func TestEnvironmentVariableOverride(t *testing.T) {
	t.Setenv("OKAPI_LOG_LEVEL", "debug")
	t.Setenv("OKAPI_VERBOSE", "true")
	t.Setenv("OKAPI_BATCH_WORKERS", "9")
	t.Chdir(t.TempDir())

	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != debugLevel {
		t.Errorf("Expected log level 'debug' from env, got %s", cfg.LogLevel)
	}
	if !cfg.Verbose {
		t.Error("Expected verbose true from env")
	}
	if cfg.Batch.Workers != 9 {
		t.Errorf("Expected workers 9 from env, got %d", cfg.Batch.Workers)
	}
}

// TestEnvironmentVariableNestedKeys tests nested config keys with
// underscores.
func TestEnvironmentVariableNestedKeys(t *testing.T) {
	t.Setenv("OKAPI_SCANNER_X_DENSITY", "3")
	t.Setenv("OKAPI_SCANNER_TEST_INVERTED", "true")
	t.Setenv("OKAPI_VIDEO_DEVICE", "/dev/video2")
	t.Chdir(t.TempDir())

	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Scanner.XDensity != 3 {
		t.Errorf("Expected x_density 3 from env, got %d", cfg.Scanner.XDensity)
	}
	if !cfg.Scanner.TestInverted {
		t.Error("Expected test_inverted true from env")
	}
	if cfg.Video.Device != "/dev/video2" {
		t.Errorf("Expected device /dev/video2 from env, got %s", cfg.Video.Device)
	}
}

// TestEnvironmentVariableSymbologyList tests that a comma-separated env
// value becomes a list.
func TestEnvironmentVariableSymbologyList(t *testing.T) {
	t.Setenv("OKAPI_SCANNER_SYMBOLOGIES", "qrcode,ean13")
	t.Chdir(t.TempDir())

	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if len(cfg.Scanner.Symbologies) != 2 ||
		cfg.Scanner.Symbologies[0] != "qrcode" || cfg.Scanner.Symbologies[1] != "ean13" {
		t.Errorf("Expected symbologies [qrcode ean13] from env, got %v", cfg.Scanner.Symbologies)
	}
}

// TestBindFlag tests that a bound, explicitly set flag overrides
// defaults.
func TestBindFlag(t *testing.T) {
	t.Chdir(t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 0, "worker count")
	if err := flags.Parse([]string{"--workers=12"}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	loader := NewLoader()
	if err := loader.BindFlag("batch.workers", flags.Lookup("workers")); err != nil {
		t.Fatalf("BindFlag() error: %v", err)
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Batch.Workers != 12 {
		t.Errorf("Expected workers 12 from flag, got %d", cfg.Batch.Workers)
	}
}

// TestBindFlagNil tests binding a flag that was never defined.
func TestBindFlagNil(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	loader := NewLoader()
	if err := loader.BindFlag("batch.workers", flags.Lookup("missing")); err == nil {
		t.Error("BindFlag() expected error for undefined flag, got nil")
	}
}

// TestMultipleConfigSourcesPrecedence tests that environment variables
// override file values.
func TestMultipleConfigSourcesPrecedence(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "okapi.yaml")

	yamlContent := `log_level: warn`
	if err := os.WriteFile(configFile, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("OKAPI_LOG_LEVEL", "debug")

	loader := NewLoader()
	cfg, err := loader.LoadWithFile(configFile)
	if err != nil {
		t.Fatalf("LoadWithFile() error: %v", err)
	}

	if cfg.LogLevel != debugLevel {
		t.Errorf("Expected log level 'debug' from env over file, got %s", cfg.LogLevel)
	}
}

// TestGetSetConfigValues tests Get and Set methods.
func TestGetSetConfigValues(t *testing.T) {
	loader := NewLoader()

	loader.Set("test_key", "test_value")

	if value := loader.GetString("test_key"); value != "test_value" {
		t.Errorf("Expected 'test_value', got %s", value)
	}
	if value := loader.Get("test_key"); value != "test_value" {
		t.Errorf("Expected 'test_value', got %v", value)
	}
}

// TestGetConfigFileUsed tests getting the config file path.
func TestGetConfigFileUsed(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "okapi.yaml")

	if err := os.WriteFile(configFile, []byte("log_level: debug"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	loader := NewLoader()
	if _, err := loader.LoadWithFile(configFile); err != nil {
		t.Fatalf("LoadWithFile() error: %v", err)
	}

	if used := loader.GetConfigFileUsed(); used != configFile {
		t.Errorf("Expected config file %s, got %s", configFile, used)
	}
}

// TestGetResolvedConfig tests getting all resolved config.
func TestGetResolvedConfig(t *testing.T) {
	loader := NewLoader()
	loader.Set("test_key", "test_value")

	resolved := loader.GetResolvedConfig()
	if resolved == nil {
		t.Fatal("GetResolvedConfig() returned nil")
	}
	if value, ok := resolved["test_key"]; !ok || value != "test_value" {
		t.Errorf("Expected test_key='test_value' in resolved config, got %v", value)
	}
}

// TestWriteConfigToFile tests writing config to file.
func TestWriteConfigToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "output.yaml")

	loader := NewLoader()
	loader.Set("log_level", "debug")
	loader.Set("verbose", true)

	if err := loader.WriteConfigToFile(outputFile); err != nil {
		t.Fatalf("WriteConfigToFile() error: %v", err)
	}

	if _, err := os.Stat(outputFile); os.IsNotExist(err) {
		t.Error("Config file was not written")
	}
}

// TestGenerateDefaultConfigFile tests generating a default config file.
func TestGenerateDefaultConfigFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "default.yaml")

	if err := GenerateDefaultConfigFile(outputFile); err != nil {
		t.Fatalf("GenerateDefaultConfigFile() error: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.LoadWithFile(outputFile)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}
	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected generated file to hold defaults, got log level %s", cfg.LogLevel)
	}
}

// TestGenerateDefaultConfigFileWithEmptyFilename tests the default
// filename.
func TestGenerateDefaultConfigFileWithEmptyFilename(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := GenerateDefaultConfigFile(""); err != nil {
		t.Fatalf("GenerateDefaultConfigFile(\"\") error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "okapi.yaml")); os.IsNotExist(err) {
		t.Error("Default okapi.yaml was not generated")
	}
}

// TestGetConfigSearchPaths tests getting config search paths.
func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()

	if len(paths) == 0 {
		t.Fatal("GetConfigSearchPaths() returned empty slice")
	}
	if paths[0] != "." {
		t.Errorf("Expected search to start in the current directory, got %s", paths[0])
	}

	hasEtc := false
	for _, path := range paths {
		if path == "/etc/okapi" {
			hasEtc = true
			break
		}
	}
	if !hasEtc {
		t.Error("Search paths don't include /etc/okapi")
	}
}
