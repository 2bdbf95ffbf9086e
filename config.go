package logease

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure reported by Config.Build.
var ErrInvalidConfig = errors.New("invalid logger configuration")

// invalidConfigError reports a validation failure caused by another error. It matches
// ErrInvalidConfig with errors.Is and keeps the cause in the chain.
type invalidConfigError struct {
	cause error
}

func (e *invalidConfigError) Error() string {
	return ErrInvalidConfig.Error() + ": " + e.cause.Error()
}

func (e *invalidConfigError) Unwrap() error { return e.cause }

func (e *invalidConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// Config describes a Logger and its destinations.
// All fields can be configured via YAML or JSON configuration files.
type Config struct {
	Console *ConsoleConfig `yaml:"console" json:"console"` // nil disables console output
	Files   []FileConfig   `yaml:"files" json:"files"`
}

// DestinationConfig holds the settings shared by every destination.
// Nil toggles fall back to the destination defaults (on).
type DestinationConfig struct {
	ID             string `yaml:"id" json:"id"`                             // empty generates a random ID
	Level          string `yaml:"level" json:"level"`                       // verbose, debug, info, warning, error
	Async          *bool  `yaml:"async" json:"async"`                       // deliver on the destination worker, default true
	QueueSize      int    `yaml:"queue_size" json:"queue_size"`             // pending async events, default 1024
	NonBlocking    bool   `yaml:"non_blocking" json:"non_blocking"`         // drop instead of waiting when the queue is full
	Format         string `yaml:"format" json:"format"`                     // stored output pattern
	TimeFormat     string `yaml:"time_format" json:"time_format"`           // Go reference time layout
	ShowTimestamp  *bool  `yaml:"show_timestamp" json:"show_timestamp"`     // leading timestamp
	ShowLevel      *bool  `yaml:"show_level" json:"show_level"`             // [LEVEL] tag
	ShowFileName   *bool  `yaml:"show_file_name" json:"show_file_name"`     // call-site file name
	ShowLineNumber *bool  `yaml:"show_line_number" json:"show_line_number"` // call-site line number
	ShowFunction   *bool  `yaml:"show_function" json:"show_function"`       // call-site function
}

// ConsoleConfig configures the console destination.
type ConsoleConfig struct {
	DestinationConfig `yaml:",inline"`
	Style             string `yaml:"style" json:"style"` // print or system
}

// FileConfig configures one file destination.
type FileConfig struct {
	DestinationConfig  `yaml:",inline"`
	Path               string `yaml:"path" json:"path"`                                   // empty uses DefaultLogPath
	MaxFileSize        int64  `yaml:"max_file_size" json:"max_file_size"`                 // bytes, default 5 MiB
	RotationCount      int    `yaml:"rotation_count" json:"rotation_count"`               // files in rotation, 1 disables
	SyncAfterEachWrite bool   `yaml:"sync_after_each_write" json:"sync_after_each_write"` // fsync every line
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML configuration document. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse config")
	}
	return &cfg, nil
}

// Build validates the configuration and creates a Logger with its destinations.
func (c *Config) Build() (*Logger, error) {
	dsts, err := c.Destinations()
	if err != nil {
		return nil, err
	}
	return New(dsts...), nil
}

// Destinations validates the configuration and creates its destinations without a Logger.
func (c *Config) Destinations() ([]Destination, error) {
	var dsts []Destination

	if c.Console != nil {
		opts, err := c.Console.options()
		if err != nil {
			return nil, errors.Wrap(err, "console")
		}
		console := NewConsole(opts...)
		switch strings.ToLower(getConfigValue("print", c.Console.Style)) {
		case "print":
		case "system":
			console.SetStyle(StyleSystem)
		default:
			return nil, errors.Wrapf(ErrInvalidConfig, "console: unknown style %q", c.Console.Style)
		}
		dsts = append(dsts, console)
	}

	for i, fc := range c.Files {
		opts, err := fc.options()
		if err != nil {
			return nil, errors.Wrapf(err, "files[%d]", i)
		}
		if fc.MaxFileSize < 0 || fc.RotationCount < 0 {
			return nil, errors.Wrapf(ErrInvalidConfig, "files[%d]: negative size or rotation count", i)
		}
		dsts = append(dsts, NewFile(fc.Path,
			WithBase(opts...),
			WithMaxFileSize(getConfigValue(DefaultMaxFileSize, fc.MaxFileSize)),
			WithRotationCount(getConfigValue(DefaultRotationCount, fc.RotationCount)),
			WithSyncAfterEachWrite(fc.SyncAfterEachWrite),
		))
	}

	seen := make(map[ID]bool, len(dsts))
	for _, d := range dsts {
		if seen[d.ID()] {
			return nil, errors.Wrapf(ErrInvalidConfig, "duplicate destination id %q", d.ID())
		}
		seen[d.ID()] = true
	}
	return dsts, nil
}

// options converts the shared settings into destination options.
func (dc *DestinationConfig) options() ([]Option, error) {
	level, err := ParseLevel(getConfigValue("verbose", dc.Level))
	if err != nil {
		return nil, &invalidConfigError{cause: err}
	}
	if dc.QueueSize < 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "negative queue size %d", dc.QueueSize)
	}

	opts := []Option{
		WithID(ID(dc.ID)),
		WithLevel(level),
		WithAsync(boolValue(dc.Async, true)),
		WithQueueSize(dc.QueueSize, dc.NonBlocking),
		WithTimeFormat(dc.TimeFormat),
		WithTimestamp(boolValue(dc.ShowTimestamp, true)),
		WithLevelTag(boolValue(dc.ShowLevel, true)),
		WithFileName(boolValue(dc.ShowFileName, true)),
		WithLineNumber(boolValue(dc.ShowLineNumber, true)),
		WithFunction(boolValue(dc.ShowFunction, true)),
	}
	if dc.Format != "" {
		opts = append(opts, WithFormat(dc.Format))
	}
	return opts, nil
}

// getConfigValue returns defaultVal if cfgVal equals the zero value for type T,
// otherwise returns cfgVal. Type T must satisfy the comparable constraint.
// This is commonly used for merging configuration values with their defaults.
func getConfigValue[T comparable](defaultVal, cfgVal T) T {
	var zero T
	if cfgVal == zero {
		return defaultVal
	}
	return cfgVal
}

// boolValue dereferences an optional toggle.
func boolValue(p *bool, defaultVal bool) bool {
	if p == nil {
		return defaultVal
	}
	return *p
}
