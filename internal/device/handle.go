package device

import (
	"context"
	"sync"
)

// Handle is a named, lazily-resolved reference to one physical device.
// Discovery runs on first use; a successful result is cached for the
// process lifetime, a failed discovery is retried on the next use.
// Two handles refer to the same device iff their names match.
type Handle[B Switchable] struct {
	name     string
	discover func(ctx context.Context) (B, error)

	mu   sync.Mutex
	bulb B
	ok   bool
}

// NewHandle creates a handle that resolves the device via discover on
// first use.
func NewHandle[B Switchable](name string, discover func(ctx context.Context) (B, error)) *Handle[B] {
	return &Handle[B]{name: name, discover: discover}
}

// Name returns the configured device name.
func (h *Handle[B]) Name() string { return h.name }

// Get returns the resolved device, running discovery if needed.
func (h *Handle[B]) Get(ctx context.Context) (B, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ok {
		return h.bulb, nil
	}
	bulb, err := h.discover(ctx)
	if err != nil {
		var zero B
		return zero, err
	}
	h.bulb = bulb
	h.ok = true
	return h.bulb, nil
}

// AsBrightWarm returns a view of the same device through the weaker
// BrightWarmBulb capability. The view shares the handle's name, so
// equality by name is preserved.
func AsBrightWarm[B BrightWarmBulb](h *Handle[B]) *Handle[BrightWarmBulb] {
	return NewHandle(h.Name(), func(ctx context.Context) (BrightWarmBulb, error) {
		return h.Get(ctx)
	})
}
