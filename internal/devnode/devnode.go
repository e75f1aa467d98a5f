// Package devnode locates DRM card nodes under /dev/dri.
package devnode

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const (
	// Dir is where the kernel exposes DRM device nodes.
	Dir = "/dev/dri"
	// EnvDevice overrides the configured card node.
	EnvDevice = "KMSDISPLAY_DEVICE"

	cardPrefix = "card"
)

// Node is one card node found on disk.
type Node struct {
	Path  string `json:"path" yaml:"path"`
	Index int    `json:"index" yaml:"index"`
}

// Cards lists card nodes in dir ordered by card index, so card10 follows
// card9. Render nodes and connector-specific entries such as card0-HDMI-A-1
// are skipped. A missing dir yields an empty list.
func Cards(dir string) ([]Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var nodes []Node
	for _, ent := range entries {
		idx, ok := cardIndex(ent.Name())
		if !ok {
			continue
		}
		nodes = append(nodes, Node{Path: filepath.Join(dir, ent.Name()), Index: idx})
	}
	slices.SortFunc(nodes, func(a, b Node) int { return a.Index - b.Index })
	return nodes, nil
}

func cardIndex(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, cardPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Origin says which setting picked the device path.
type Origin string

const (
	OriginFlag   Origin = "flag"
	OriginEnv    Origin = "env"
	OriginConfig Origin = "config"
)

// Resolve picks the card node to open. Priority:
// 1) flag (if non-empty)
// 2) $KMSDISPLAY_DEVICE (if set)
// 3) configured
func Resolve(flag, configured string) (string, Origin) {
	if v := strings.TrimSpace(flag); v != "" {
		return v, OriginFlag
	}
	if v := strings.TrimSpace(os.Getenv(EnvDevice)); v != "" {
		return v, OriginEnv
	}
	return configured, OriginConfig
}
