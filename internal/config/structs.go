//nolint:lll
package config

// Config holds the complete configuration for the okapi command-line
// tools. Values come from configuration files, environment variables,
// and command-line flags, in ascending precedence.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Decoder settings shared by all commands
	Scanner ScannerConfig `mapstructure:"scanner" yaml:"scanner" json:"scanner"`

	// Result formatting
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Multi-file processing
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Live capture (for the video command)
	Video VideoConfig `mapstructure:"video" yaml:"video" json:"video"`
}

// ScannerConfig contains decoder settings.
type ScannerConfig struct {
	// Symbologies lists the barcode types to look for ("qrcode",
	// "ean13", ...). An empty list enables every known symbology.
	Symbologies []string `mapstructure:"symbologies" yaml:"symbologies" json:"symbologies"`

	// Settings holds raw "[symbology.]option[=value]" strings applied
	// after the symbology list, in order.
	Settings []string `mapstructure:"settings" yaml:"settings" json:"settings"`

	Cache        bool `mapstructure:"cache" yaml:"cache" json:"cache"`
	TestInverted bool `mapstructure:"test_inverted" yaml:"test_inverted" json:"test_inverted"`
	Position     bool `mapstructure:"position" yaml:"position" json:"position"`
	XDensity     int  `mapstructure:"x_density" yaml:"x_density" json:"x_density"`
	YDensity     int  `mapstructure:"y_density" yaml:"y_density" json:"y_density"`
	MinLength    int  `mapstructure:"min_length" yaml:"min_length" json:"min_length"`
	MaxLength    int  `mapstructure:"max_length" yaml:"max_length" json:"max_length"`
}

// OutputConfig contains result formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// BatchConfig contains multi-file processing settings.
type BatchConfig struct {
	Workers         int  `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive       bool `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	ContinueOnError bool `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// VideoConfig contains live capture settings.
type VideoConfig struct {
	Device  string `mapstructure:"device" yaml:"device" json:"device"`
	Width   int    `mapstructure:"width" yaml:"width" json:"width"`
	Height  int    `mapstructure:"height" yaml:"height" json:"height"`
	Display bool   `mapstructure:"display" yaml:"display" json:"display"`
}
