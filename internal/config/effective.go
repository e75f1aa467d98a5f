package config

import (
	"fmt"
	"strings"
	"time"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over DefaultConfig. Values that need
// parsing are checked here; range and enum checks are left to Validate.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Device != nil {
		cfg.Device = strings.TrimSpace(*raw.Device)
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.Backend != nil {
		cfg.Backend = Backend(strings.ToLower(strings.TrimSpace(*raw.Backend)))
	}
	if raw.Sort != nil {
		cfg.Sort = SortOrder(strings.ToLower(strings.TrimSpace(*raw.Sort)))
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*raw.LogLevel)
	}
	if raw.Output != nil {
		cfg.Output = strings.ToLower(strings.TrimSpace(*raw.Output))
	}
	if raw.WatchInterval != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*raw.WatchInterval))
		if err != nil {
			return nil, &ValidationError{Path: "watch_interval", Err: fmt.Errorf("invalid duration %q", *raw.WatchInterval)}
		}
		cfg.WatchInterval = d
	}

	return cfg, nil
}
