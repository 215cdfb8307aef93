// Package style applies and reverts the export-safe visual variant of live
// chart surfaces.
//
// Every Apply returns a Snapshot of the original values of the keys it
// overrode; Restore writes them back field by field. Restore is safe to call
// unconditionally: it tolerates nil and already consumed snapshots, detached
// surfaces, and snapshots from an Apply that failed halfway.
package style

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/chartexport/internal/logging"
	"github.com/gogpu/chartexport/surface"
)

// Snapshot records the pre-override value of every key Apply changed.
type Snapshot struct {
	props    surface.Properties
	consumed atomic.Bool
}

// Properties returns a copy of the recorded original values.
func (s *Snapshot) Properties() surface.Properties {
	return s.props.Clone()
}

// Len returns the number of recorded keys.
func (s *Snapshot) Len() int {
	return len(s.props)
}

// Consumed reports whether Restore has used the snapshot.
func (s *Snapshot) Consumed() bool {
	return s.consumed.Load()
}

// ChromeSnapshot records the original display value of global chrome elements.
type ChromeSnapshot struct {
	entries  []chromeEntry
	consumed atomic.Bool
}

type chromeEntry struct {
	el      surface.Chrome
	display string
}

// Len returns the number of recorded elements.
func (s *ChromeSnapshot) Len() int {
	return len(s.entries)
}

// Manager applies a Policy to chart surfaces.
//
// No other component may restyle a surface between its Apply and Restore.
type Manager struct {
	policy Policy
}

// NewManager creates a manager for the given policy.
func NewManager(p Policy) *Manager {
	return &Manager{policy: p}
}

// Policy returns the manager's policy.
func (m *Manager) Policy() Policy {
	return m.policy
}

// Apply records the current style of s and overwrites it with the
// export-safe variant for theme.
//
// A detached surface yields surface.ErrUnavailable and a nil snapshot. If the
// surface rejects the new style, Apply still returns the snapshot together
// with the error, because the surface may hold part of the override.
func (m *Manager) Apply(s surface.ChartSurface, theme surface.Theme) (*Snapshot, error) {
	cur, err := s.StyleProperties()
	if err != nil {
		return nil, fmt.Errorf("style: read properties: %w", err)
	}

	over := m.policy.Overrides(s.Kind(), theme, cur)
	snap := &Snapshot{props: make(surface.Properties, len(over))}
	for k := range over {
		snap.props[k] = cur[k]
	}
	if len(over) == 0 {
		return snap, nil
	}

	if err := s.SetStyleProperties(over); err != nil {
		return snap, fmt.Errorf("style: apply: %w", err)
	}
	logging.Logger().Debug("style: export variant applied",
		"kind", s.Kind(), "theme", theme, "keys", len(over))
	return snap, nil
}

// Restore writes every recorded value back to s, one key at a time, and
// marks the snapshot consumed. A nil or consumed snapshot is a no-op.
// Restore stops at the first surface.ErrUnavailable; other per-key errors
// are collected and the remaining keys are still restored.
func (m *Manager) Restore(s surface.ChartSurface, snap *Snapshot) error {
	if snap == nil || !snap.consumed.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	for _, k := range snap.props.Keys() {
		err := s.SetStyleProperties(surface.Properties{k: snap.props[k]})
		switch {
		case err == nil:
		case errors.Is(err, surface.ErrUnavailable):
			return fmt.Errorf("style: restore: %w", err)
		default:
			errs = append(errs, fmt.Errorf("style: restore %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

// HideChrome records the display value of every element and hides it.
// Elements that cannot be read are skipped and reported in the joined error;
// the returned snapshot is never nil.
func (m *Manager) HideChrome(els []surface.Chrome) (*ChromeSnapshot, error) {
	snap := &ChromeSnapshot{entries: make([]chromeEntry, 0, len(els))}
	var errs []error
	for _, el := range els {
		d, err := el.Display()
		if err != nil {
			errs = append(errs, fmt.Errorf("style: chrome %s: %w", el.Name(), err))
			continue
		}
		snap.entries = append(snap.entries, chromeEntry{el: el, display: d})
		if d == surface.DisplayNone {
			continue
		}
		if err := el.SetDisplay(surface.DisplayNone); err != nil {
			errs = append(errs, fmt.Errorf("style: hide chrome %s: %w", el.Name(), err))
		}
	}
	return snap, errors.Join(errs...)
}

// RestoreChrome writes the recorded display values back. A nil or consumed
// snapshot is a no-op.
func (m *Manager) RestoreChrome(snap *ChromeSnapshot) error {
	if snap == nil || !snap.consumed.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	for _, e := range snap.entries {
		if err := e.el.SetDisplay(e.display); err != nil {
			errs = append(errs, fmt.Errorf("style: restore chrome %s: %w", e.el.Name(), err))
		}
	}
	return errors.Join(errs...)
}
