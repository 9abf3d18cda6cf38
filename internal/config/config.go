// =============================================================================
// Record Converter - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Settings come from three
// layers, later layers overriding earlier ones:
//   1. Built-in defaults (see Default)
//   2. An optional YAML file passed with --config
//   3. Environment variables prefixed with CONVERTER_, with dots replaced by
//      underscores (CONVERTER_CSV_DELIMITER, CONVERTER_OUTPUT_ATOMIC, ...)
//
// EXAMPLE FILE:
//
//   log:
//     level: debug
//     file: ./logs/converter.log
//   csv:
//     delimiter: ";"
//   output:
//     missing_fields: empty
//
// =============================================================================

package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/record-converter/internal/validation"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "CONVERTER"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the complete application configuration.
type Config struct {
	Log    LogSettings    `mapstructure:"log" yaml:"log"`
	CSV    CSVSettings    `mapstructure:"csv" yaml:"csv"`
	JSON   JSONSettings   `mapstructure:"json" yaml:"json"`
	XML    XMLSettings    `mapstructure:"xml" yaml:"xml"`
	Output OutputSettings `mapstructure:"output" yaml:"output"`
}

// LogSettings controls logging.
type LogSettings struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `mapstructure:"level" yaml:"level"`

	// File is an optional log file. Console logging always goes to stderr.
	File string `mapstructure:"file" yaml:"file"`

	// MaxSizeMB is the size at which the log file is rotated.
	// Default: 10
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	// Default: 3
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`

	// Compress gzips rotated files.
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// CSVSettings contains settings for reading and writing CSV files.
type CSVSettings struct {
	// Delimiter is the single character separating fields. The names
	// "tab", "pipe" and "semicolon" are accepted as well.
	// Default: ","
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// UseCRLF terminates written lines with \r\n instead of \n.
	UseCRLF bool `mapstructure:"use_crlf" yaml:"use_crlf"`
}

// JSONSettings contains settings for writing JSON files.
type JSONSettings struct {
	// Indent is the number of spaces per nesting level.
	// Default: 4
	Indent int `mapstructure:"indent" yaml:"indent"`
}

// XMLSettings contains settings for writing XML files.
type XMLSettings struct {
	// RootElement wraps the whole document.
	// Default: "root"
	RootElement string `mapstructure:"root_element" yaml:"root_element"`

	// RecordElement wraps each record.
	// Default: "person"
	RecordElement string `mapstructure:"record_element" yaml:"record_element"`
}

// OutputSettings controls how output files are produced.
type OutputSettings struct {
	// Atomic writes through a temporary file renamed into place.
	// Default: true
	Atomic bool `mapstructure:"atomic" yaml:"atomic"`

	// StrictExtension fails when the output path has an unrecognized
	// extension instead of printing the records.
	// Default: false
	StrictExtension bool `mapstructure:"strict_extension" yaml:"strict_extension"`

	// MissingFields is the policy for records lacking a column of the
	// first record in CSV, XML and XLSX output: "error" or "empty".
	// Default: "error"
	MissingFields string `mapstructure:"missing_fields" yaml:"missing_fields"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogSettings{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		CSV: CSVSettings{
			Delimiter: ",",
		},
		JSON: JSONSettings{
			Indent: 4,
		},
		XML: XMLSettings{
			RootElement:   "root",
			RecordElement: "person",
		},
		Output: OutputSettings{
			Atomic:        true,
			MissingFields: string(validation.MissingFieldError),
		},
	}
}

// applyDefaults registers every default with viper. Registering a key also
// makes it visible to AutomaticEnv during Unmarshal.
func applyDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("csv.delimiter", d.CSV.Delimiter)
	v.SetDefault("csv.use_crlf", d.CSV.UseCRLF)
	v.SetDefault("json.indent", d.JSON.Indent)
	v.SetDefault("xml.root_element", d.XML.RootElement)
	v.SetDefault("xml.record_element", d.XML.RecordElement)
	v.SetDefault("output.atomic", d.Output.Atomic)
	v.SetDefault("output.strict_extension", d.Output.StrictExtension)
	v.SetDefault("output.missing_fields", d.Output.MissingFields)
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load builds the configuration from defaults, the optional file at path and
// the environment.
//
// PARAMETERS:
//   - path: The YAML configuration file, or "" for none.
//
// RETURNS:
//   - The validated configuration.
//   - An error if the file cannot be read or parsed, or a value is invalid.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks every setting that has a restricted range.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	if utf8.RuneCountInString(c.CSV.delimiter()) != 1 {
		return fmt.Errorf("csv.delimiter must be a single character, got %q", c.CSV.Delimiter)
	}
	switch c.CSV.Comma() {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("csv.delimiter %q is not usable as a separator", c.CSV.Delimiter)
	}

	if c.JSON.Indent < 0 {
		return fmt.Errorf("json.indent must not be negative, got %d", c.JSON.Indent)
	}

	if c.XML.RootElement == "" || c.XML.RecordElement == "" {
		return fmt.Errorf("xml.root_element and xml.record_element must not be empty")
	}

	if _, err := validation.ParseMissingFieldPolicy(c.Output.MissingFields); err != nil {
		return fmt.Errorf("output.missing_fields: %w", err)
	}

	return nil
}

// delimiterAliases names delimiters that are awkward to write in YAML or
// environment variables.
var delimiterAliases = map[string]string{
	"tab":       "\t",
	`\t`:        "\t",
	"pipe":      "|",
	"semicolon": ";",
}

func (s CSVSettings) delimiter() string {
	if alias, ok := delimiterAliases[strings.ToLower(s.Delimiter)]; ok {
		return alias
	}
	return s.Delimiter
}

// Comma returns the delimiter as a rune. Aliases such as "tab" are resolved.
func (s CSVSettings) Comma() rune {
	r, _ := utf8.DecodeRuneInString(s.delimiter())
	return r
}

// MissingFieldPolicy returns the parsed missing field policy.
func (s OutputSettings) MissingFieldPolicy() validation.MissingFieldPolicy {
	policy, err := validation.ParseMissingFieldPolicy(s.MissingFields)
	if err != nil {
		return validation.MissingFieldError
	}
	return policy
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return data, nil
}
