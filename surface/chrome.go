// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "sync"

// MemoryChrome is an in-memory Chrome element.
type MemoryChrome struct {
	mu       sync.Mutex
	name     string
	display  string
	detached bool
}

// NewMemoryChrome creates a chrome element with the given initial display value.
func NewMemoryChrome(name, display string) *MemoryChrome {
	return &MemoryChrome{name: name, display: display}
}

// Name implements Chrome.
func (c *MemoryChrome) Name() string {
	return c.name
}

// Display implements Chrome.
func (c *MemoryChrome) Display() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return "", ErrUnavailable
	}
	return c.display, nil
}

// SetDisplay implements Chrome.
func (c *MemoryChrome) SetDisplay(display string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return ErrUnavailable
	}
	c.display = display
	return nil
}

// Detach makes every further call fail with ErrUnavailable.
func (c *MemoryChrome) Detach() {
	c.mu.Lock()
	c.detached = true
	c.mu.Unlock()
}
