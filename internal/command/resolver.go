package command

import (
	"fmt"
	"sort"
	"strings"

	"lightctl/internal/device"
	"lightctl/internal/mode"
)

// Resolver is a node in the resolution tree. Get consumes tokens and
// produces either a concrete runnable command or an OptionsCommand
// listing the valid continuations.
type Resolver interface {
	Get(keys []string) (Command, error)
}

// Single wraps a terminal command.
type Single struct {
	command Command
}

// NewSingle creates a terminal node.
func NewSingle(command Command) *Single {
	return &Single{command: command}
}

func (r *Single) Get(keys []string) (Command, error) {
	switch {
	case len(keys) == 0:
		return r.command, nil
	case len(keys) == 1 && keys[0] == "help":
		return NewOptions(nil), nil
	default:
		return nil, fmt.Errorf("unknown option(s): %s", strings.Join(keys, " "))
	}
}

// Dict routes the first token to a named child; any other input yields
// the sorted list of known keys.
type Dict struct {
	children map[string]Resolver
}

// NewDict creates a dictionary node over named sub-resolvers.
func NewDict(children map[string]Resolver) *Dict {
	return &Dict{children: children}
}

func (r *Dict) Get(keys []string) (Command, error) {
	if len(keys) > 0 {
		if child, ok := r.children[keys[0]]; ok {
			return child.Get(keys[1:])
		}
	}
	options := make([]string, 0, len(r.children))
	for name := range r.children {
		options = append(options, name)
	}
	sort.Strings(options)
	return NewOptions(options), nil
}

// Join tries each child resolver in order against the full token list.
// The first concrete command wins; option listings are merged as a set
// union, so independently built trees can share one namespace.
type Join struct {
	resolvers []Resolver
}

// NewJoin unions several resolvers under one namespace.
func NewJoin(resolvers ...Resolver) *Join {
	return &Join{resolvers: resolvers}
}

func (r *Join) Get(keys []string) (Command, error) {
	seen := make(map[string]struct{})
	var merged []string
	for _, child := range r.resolvers {
		cmd, err := child.Get(keys)
		if err != nil {
			return nil, err
		}
		opts, ok := cmd.(*OptionsCommand)
		if !ok {
			return cmd, nil
		}
		for _, option := range opts.Options() {
			if _, dup := seen[option]; dup {
				continue
			}
			seen[option] = struct{}{}
			merged = append(merged, option)
		}
	}
	sort.Strings(merged)
	return NewOptions(merged), nil
}

// Args resolves an ordered sequence of typed positional arguments and
// fans the constructed mode out to a fixed set of target devices. The
// mode constructor receives the target handle so per-device lookups
// (e.g. a scene used as a transition endpoint) can resolve against it.
type Args[B device.Switchable] struct {
	bulbs []*device.Handle[B]
	specs []Argument
	build func(values []any, target *device.Handle[B]) (mode.Mode[B], error)
}

// NewArgs creates a positional-argument node.
func NewArgs[B device.Switchable](
	bulbs []*device.Handle[B],
	specs []Argument,
	build func(values []any, target *device.Handle[B]) (mode.Mode[B], error),
) *Args[B] {
	return &Args[B]{bulbs: bulbs, specs: specs, build: build}
}

func (r *Args[B]) Get(keys []string) (Command, error) {
	if len(keys) > len(r.specs) {
		return NewOptions(nil), nil
	}
	values := make([]any, 0, len(keys))
	for i, key := range keys {
		value, ok := r.specs[i].Convert(key)
		if !ok {
			return NewOptions(r.specs[i].Options()), nil
		}
		values = append(values, value)
	}
	if len(values) < len(r.specs) {
		return NewOptions(r.specs[len(values)].Options()), nil
	}

	commands := make([]Command, 0, len(r.bulbs))
	for _, bulb := range r.bulbs {
		m, err := r.build(values, bulb)
		if err != nil {
			return nil, err
		}
		commands = append(commands, NewBulb(bulb, m))
	}
	return NewMulti(commands...), nil
}
