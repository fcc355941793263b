// Package scene groups fixed (device, mode) bindings that are applied as
// a unit.
package scene

import (
	"context"
	"fmt"

	"lightctl/internal/device"
	"lightctl/internal/mode"
	"lightctl/internal/parallel"
)

// Entry is one device bound to one mode.
type Entry interface {
	HandleName() string
	Apply(ctx context.Context) error
	// Mode exposes the bound mode for per-device lookups; callers assert
	// the concrete type they need.
	Mode() any
}

type entry[B device.Switchable] struct {
	handle *device.Handle[B]
	mode   mode.Mode[B]
}

// Bind pairs a device handle with a mode of matching capability.
func Bind[B device.Switchable](handle *device.Handle[B], m mode.Mode[B]) Entry {
	return entry[B]{handle: handle, mode: m}
}

func (e entry[B]) HandleName() string { return e.handle.Name() }

func (e entry[B]) Mode() any { return e.mode }

func (e entry[B]) Apply(ctx context.Context) error {
	bulb, err := e.handle.Get(ctx)
	if err != nil {
		return err
	}
	return e.mode.Apply(ctx, bulb)
}

// Scene is an ordered set of entries applied atomically: every device is
// commanded concurrently and one device's failure does not prevent the
// others from being set.
type Scene struct {
	name    string
	entries []Entry
}

// New creates a named scene.
func New(name string, entries ...Entry) *Scene {
	return &Scene{name: name, entries: entries}
}

// Name returns the scene name.
func (s *Scene) Name() string { return s.name }

// Apply fans the per-entry applies out; entry failures are logged and
// isolated, Apply itself never fails.
func (s *Scene) Apply(ctx context.Context) {
	tasks := make([]parallel.Task[struct{}], 0, len(s.entries))
	for _, e := range s.entries {
		e := e
		tasks = append(tasks, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, e.Apply(ctx)
		})
	}
	parallel.All(ctx, tasks)
}

// ModeFor returns the mode bound to the named device in this scene.
func (s *Scene) ModeFor(handleName string) (any, error) {
	for _, e := range s.entries {
		if e.HandleName() == handleName {
			return e.Mode(), nil
		}
	}
	return nil, fmt.Errorf("scene %q has no entry for device %q", s.name, handleName)
}

// WhiteModeFor returns the white mode bound to the named device, for use
// as a transition endpoint.
func (s *Scene) WhiteModeFor(handleName string) (mode.White, error) {
	m, err := s.ModeFor(handleName)
	if err != nil {
		return mode.White{}, err
	}
	white, ok := m.(mode.White)
	if !ok {
		return mode.White{}, fmt.Errorf("scene %q entry for device %q is not a white mode", s.name, handleName)
	}
	return white, nil
}
