// Package command turns CLI tokens into runnable actions through a
// hierarchical resolution tree. Every dead end in resolution answers
// "what could I have typed here" with the valid continuations.
package command

import (
	"context"
	"fmt"
	"strings"

	"lightctl/internal/device"
	"lightctl/internal/mode"
	"lightctl/internal/parallel"
	"lightctl/internal/scene"
)

// Command is a runnable unit produced by the resolution tree.
type Command interface {
	Run(ctx context.Context) error
}

// BulbCommand applies one mode to one device.
type BulbCommand[B device.Switchable] struct {
	handle *device.Handle[B]
	mode   mode.Mode[B]
}

// NewBulb binds a mode to a device handle of matching capability.
func NewBulb[B device.Switchable](handle *device.Handle[B], m mode.Mode[B]) *BulbCommand[B] {
	return &BulbCommand[B]{handle: handle, mode: m}
}

func (c *BulbCommand[B]) Run(ctx context.Context) error {
	bulb, err := c.handle.Get(ctx)
	if err != nil {
		return err
	}
	return c.mode.Apply(ctx, bulb)
}

// MultiCommand fans several commands out concurrently. Each branch's
// failure is isolated and logged; Run never fails.
type MultiCommand struct {
	commands []Command
}

// NewMulti groups commands into one concurrent unit.
func NewMulti(commands ...Command) *MultiCommand {
	return &MultiCommand{commands: commands}
}

func (c *MultiCommand) Run(ctx context.Context) error {
	tasks := make([]parallel.Task[struct{}], 0, len(c.commands))
	for _, cmd := range c.commands {
		cmd := cmd
		tasks = append(tasks, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, cmd.Run(ctx)
		})
	}
	parallel.All(ctx, tasks)
	return nil
}

// SceneCommand applies a scene.
type SceneCommand struct {
	scene *scene.Scene
}

// NewScene wraps a scene as a runnable command.
func NewScene(s *scene.Scene) *SceneCommand {
	return &SceneCommand{scene: s}
}

func (c *SceneCommand) Run(ctx context.Context) error {
	c.scene.Apply(ctx)
	return nil
}

// OptionsCommand prints the valid continuations at the point where
// resolution stopped. This is discovery, not an error.
type OptionsCommand struct {
	options []string
}

// NewOptions wraps a list of valid next tokens.
func NewOptions(options []string) *OptionsCommand {
	return &OptionsCommand{options: options}
}

// Options returns the valid next tokens.
func (c *OptionsCommand) Options() []string { return c.options }

func (c *OptionsCommand) Run(ctx context.Context) error {
	fmt.Println("Options: " + strings.Join(c.options, " "))
	return nil
}
