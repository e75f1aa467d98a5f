package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	Name   string // for defaults
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // key -> file position of the value that won
	Files   []string          // all loaded files, in load order
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "kmsdisplay", "config.yaml"), nil
}

// LoadWithSources loads the config at DefaultConfigPath.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	var l layer
	if _, err := os.Stat(path); err == nil {
		ld := &loader{seen: make(map[string]bool)}
		if l, err = ld.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if l.sources == nil {
		l.sources = map[string]Source{}
	}

	cfg, err := BuildEffectiveConfig(l.raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			if src, ok := l.sources[verr.Path]; ok {
				verr.Source = src
			}
		}
		return nil, err
	}

	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// layer is one file merged over everything it includes.
type layer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

func (l *layer) apply(over layer) {
	l.raw = l.raw.merge(over.raw)
	if l.sources == nil {
		l.sources = make(map[string]Source, len(over.sources))
	}
	for key, src := range over.sources {
		l.sources[key] = src
	}
	l.files = append(l.files, over.files...)
}

// loader follows includes depth first. stack holds the files being loaded
// and detects cycles; seen skips files already merged through another path.
type loader struct {
	seen  map[string]bool
	stack []string
}

func (ld *loader) load(path string) (layer, error) {
	file, err := filepath.Abs(path)
	if err != nil {
		return layer{}, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(file); err == nil {
		file = real
	}

	if slices.Contains(ld.stack, file) {
		return layer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(ld.stack, " -> "), file)
	}
	if ld.seen[file] {
		return layer{}, nil
	}
	ld.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return layer{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return layer{}, fmt.Errorf("%s: %w", file, err)
	}

	sources, includes := scanDocument(&doc, file)

	ld.stack = append(ld.stack, file)
	defer func() { ld.stack = ld.stack[:len(ld.stack)-1] }()

	var out layer
	for _, inc := range includes {
		paths, err := expandInclude(file, inc.Value)
		if err != nil {
			return layer{}, fmt.Errorf("%s:%d:%d: include %q: %w", inc.File, inc.Line, inc.Column, inc.Value, err)
		}
		for _, p := range paths {
			sub, err := ld.load(p)
			if err != nil {
				return layer{}, err
			}
			out.apply(sub)
		}
	}

	// The including file wins over what it includes.
	out.apply(layer{raw: raw, sources: sources, files: []string{file}})
	return out, nil
}

type includeRef struct {
	Source
	Value string
}

// scanDocument records the position of every top-level key and collects the
// include entries.
func scanDocument(doc *yaml.Node, file string) (map[string]Source, []includeRef) {
	sources := make(map[string]Source)
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return sources, nil
	}

	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}

	var includes []includeRef
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		sources[key] = at(val)
		if key != "include" {
			continue
		}
		switch val.Kind {
		case yaml.ScalarNode:
			includes = append(includes, includeRef{Source: at(val), Value: val.Value})
		case yaml.SequenceNode:
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode {
					includes = append(includes, includeRef{Source: at(item), Value: item.Value})
				}
			}
		}
	}
	return sources, includes
}

// expandInclude resolves include relative to the including file. A directory
// expands to its *.yaml and *.yml files in name order.
func expandInclude(baseFile, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	path := include
	if rest, ok := strings.CutPrefix(include, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, rest)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(baseFile), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		ext := strings.ToLower(filepath.Ext(ent.Name()))
		if !ent.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, filepath.Join(path, ent.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}
