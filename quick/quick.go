package quick

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/LixenWraith/logease"
)

// settings is the flat key=value view of the default Logger configuration.
// Keys match the yaml tags.
type settings struct {
	Level              string `yaml:"level"`
	Console            bool   `yaml:"console"`
	Style              string `yaml:"style"`
	File               string `yaml:"file"`
	MaxFileSize        int64  `yaml:"max_file_size"`
	RotationCount      int    `yaml:"rotation_count"`
	SyncAfterEachWrite bool   `yaml:"sync_after_each_write"`
	Async              bool   `yaml:"async"`
	ShowTimestamp      bool   `yaml:"show_timestamp"`
	ShowLevel          bool   `yaml:"show_level"`
	ShowFileName       bool   `yaml:"show_file_name"`
	ShowLineNumber     bool   `yaml:"show_line_number"`
	ShowFunction       bool   `yaml:"show_function"`
}

// defaultSettings mirrors the Logger created by Default.
func defaultSettings() *settings {
	return &settings{
		Level:          "verbose",
		Console:        true,
		Style:          "print",
		ShowTimestamp:  true,
		ShowLevel:      true,
		ShowFileName:   true,
		ShowLineNumber: true,
		ShowFunction:   true,
	}
}

// Config replaces the default Logger with one built from "key=value" statements,
// e.g. quick.Config("level=info", "file=./logs/app.log", "rotation_count=3").
// Keys not given keep the defaults of Default; "file" adds a file destination.
func Config(args ...string) error {
	if len(args) == 0 {
		return errors.New("no config provided")
	}

	s, err := config(args...)
	if err != nil {
		return err
	}

	l, err := s.toConfig().Build()
	if err != nil {
		return errors.Wrap(err, "build default logger")
	}
	SetDefault(l)
	return nil
}

// config parses configuration strings into settings.
// Each argument should be in "key=value" format where key matches a settings tag.
// The function handles type conversion and validation for each field.
func config(args ...string) (*settings, error) {
	s := defaultSettings()
	for _, arg := range args {
		key, value, err := parseKeyValue(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid config format: %s", arg)
		}

		if err := setValue(s, key, value); err != nil {
			return nil, errors.Wrap(err, "config error")
		}
	}
	return s, nil
}

// toConfig converts the flat settings into a logease.Config.
func (s *settings) toConfig() *logease.Config {
	shared := logease.DestinationConfig{
		Level:          s.Level,
		Async:          &s.Async,
		ShowTimestamp:  &s.ShowTimestamp,
		ShowLevel:      &s.ShowLevel,
		ShowFileName:   &s.ShowFileName,
		ShowLineNumber: &s.ShowLineNumber,
		ShowFunction:   &s.ShowFunction,
	}

	cfg := &logease.Config{}
	if s.Console {
		cfg.Console = &logease.ConsoleConfig{DestinationConfig: shared, Style: s.Style}
	}
	if s.File != "" {
		cfg.Files = append(cfg.Files, logease.FileConfig{
			DestinationConfig:  shared,
			Path:               s.File,
			MaxFileSize:        s.MaxFileSize,
			RotationCount:      s.RotationCount,
			SyncAfterEachWrite: s.SyncAfterEachWrite,
		})
	}
	return cfg
}

// parseKeyValue splits a configuration string into key and value parts.
// Input format must be "key=value". Leading and trailing spaces are removed from both parts.
// Returns error if format is invalid.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return "", "", errors.New("invalid format")
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

// setValue updates a settings field using reflection.
// Field matching is case-insensitive. Values are converted to appropriate types.
// Returns error if field is unknown or value cannot be converted to required type.
func setValue(s *settings, key, value string) error {
	key = strings.ToLower(key)

	v := reflect.ValueOf(s).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("yaml") != key {
			continue
		}
		f := v.Field(i)

		switch f.Kind() {
		case reflect.String:
			f.SetString(value)
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid integer value for %s: %s", key, value)
			}
			f.SetInt(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return errors.Wrapf(err, "invalid boolean value for %s: %s", key, value)
			}
			f.SetBool(b)
		default:
			return errors.Errorf("unsupported type for %s", key)
		}
		return nil
	}
	return errors.Errorf("unknown config key: %s", key)
}

// sprint defers fmt.Sprint of args until a destination accepts the event.
func sprint(args []any) func() string {
	return func() string { return fmt.Sprint(args...) }
}
