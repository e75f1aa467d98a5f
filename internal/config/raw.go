package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig is one config file as written. Nil fields were not set and leave
// the value from earlier files (or the defaults) alone.
type RawConfig struct {
	Include       IncludeList `yaml:"include,omitempty"`
	Device        *string     `yaml:"device,omitempty"`
	Display       *string     `yaml:"display,omitempty"`
	Backend       *string     `yaml:"backend,omitempty"`
	Sort          *string     `yaml:"sort,omitempty"`
	LogLevel      *string     `yaml:"log_level,omitempty"`
	Output        *string     `yaml:"output,omitempty"`
	WatchInterval *string     `yaml:"watch_interval,omitempty"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Device != nil {
		out.Device = overlay.Device
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.Backend != nil {
		out.Backend = overlay.Backend
	}
	if overlay.Sort != nil {
		out.Sort = overlay.Sort
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Output != nil {
		out.Output = overlay.Output
	}
	if overlay.WatchInterval != nil {
		out.WatchInterval = overlay.WatchInterval
	}

	return out
}
