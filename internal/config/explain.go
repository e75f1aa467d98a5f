package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given key and where it came from.
//
// Supported keys:
//
//	device
//	display
//	backend
//	sort
//	log_level
//	output
//	watch_interval
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "device":
		return cfg.Device, nil
	case "display":
		return cfg.Display, nil
	case "backend":
		return string(cfg.Backend), nil
	case "sort":
		return string(cfg.Sort), nil
	case "log_level":
		return cfg.LogLevel, nil
	case "output":
		return cfg.Output, nil
	case "watch_interval":
		return cfg.WatchInterval.String(), nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
