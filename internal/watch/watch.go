// Package watch polls a display backend and reports hotplug changes.
package watch

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/1broseidon/kmsdisplay/internal/platform"
)

// Lister returns the current set of displays.
type Lister func() ([]platform.Display, error)

// Change is the difference between two polls. Changed holds the new state of
// displays whose id survived but whose modes, bounds or connector changed.
type Change struct {
	Added   []platform.Display `json:"added,omitempty" yaml:"added,omitempty"`
	Removed []platform.Display `json:"removed,omitempty" yaml:"removed,omitempty"`
	Changed []platform.Display `json:"changed,omitempty" yaml:"changed,omitempty"`
}

// Empty reports whether nothing changed.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Config holds configuration for the watcher.
type Config struct {
	Interval time.Duration
	Logger   *slog.Logger
	// OnChange is called from Run for every non-empty Change.
	OnChange func(Change)
}

// Watcher remembers the last poll and diffs each new one against it.
type Watcher struct {
	interval time.Duration
	list     Lister
	onChange func(Change)
	logger   *slog.Logger

	mu   sync.Mutex
	last []platform.Display
}

// New creates a watcher. A non-positive interval falls back to two seconds.
func New(cfg Config, list Lister) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		interval: interval,
		list:     list,
		onChange: cfg.OnChange,
		logger:   logger,
	}
}

// Poll lists displays once and returns the change since the previous
// successful poll. The first poll reports every display as added. On error the
// remembered state is left untouched.
func (w *Watcher) Poll() (Change, error) {
	displays, err := w.list()
	if err != nil {
		return Change{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	change := Diff(w.last, displays)
	w.last = displays
	return change, nil
}

// Run polls immediately and then every interval until ctx is cancelled.
// Poll errors are logged and the loop carries on.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("watcher started", "interval", w.interval)

	w.tick()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *Watcher) tick() {
	// A panicking callback must not take the loop down.
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("watcher panic recovered", "error", err)
		}
	}()

	change, err := w.Poll()
	if err != nil {
		w.logger.Error("watcher: failed to list displays", "error", err)
		return
	}
	if change.Empty() {
		return
	}

	w.logger.Debug("displays changed",
		"added", len(change.Added),
		"removed", len(change.Removed),
		"changed", len(change.Changed))
	if w.onChange != nil {
		w.onChange(change)
	}
}

// Diff compares two display lists by id. Added and Changed follow next's
// order, Removed follows prev's.
func Diff(prev, next []platform.Display) Change {
	before := make(map[uint32]platform.Display, len(prev))
	for _, d := range prev {
		before[d.ID] = d
	}
	after := make(map[uint32]struct{}, len(next))

	var change Change
	for _, d := range next {
		after[d.ID] = struct{}{}
		old, ok := before[d.ID]
		switch {
		case !ok:
			change.Added = append(change.Added, d)
		case !equalDisplay(old, d):
			change.Changed = append(change.Changed, d)
		}
	}
	for _, d := range prev {
		if _, ok := after[d.ID]; !ok {
			change.Removed = append(change.Removed, d)
		}
	}
	return change
}

func equalDisplay(a, b platform.Display) bool {
	if a.ID != b.ID ||
		a.Name != b.Name ||
		a.Connector != b.Connector ||
		a.ScaleFactor != b.ScaleFactor ||
		a.WidthMM != b.WidthMM ||
		a.HeightMM != b.HeightMM {
		return false
	}
	if (a.Bounds == nil) != (b.Bounds == nil) {
		return false
	}
	if a.Bounds != nil && *a.Bounds != *b.Bounds {
		return false
	}
	return slices.Equal(a.Modes, b.Modes)
}
