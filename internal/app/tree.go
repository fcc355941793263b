package app

import (
	"time"

	"lightctl/internal/command"
	"lightctl/internal/config"
	"lightctl/internal/device"
	"lightctl/internal/mode"
	"lightctl/internal/scene"
)

type treeBuilder struct {
	cfg    *config.Config
	bulbs  []*bulb
	whites map[string]mode.White
	scenes map[string]*scene.Scene
}

// build assembles the root resolver: the scene namespace and the device
// namespace joined so both share the top level without knowing each
// other's structure.
func (tb *treeBuilder) build() command.Resolver {
	children := make(map[string]command.Resolver)

	// Common modes fan out to every device.
	for name, m := range tb.commonModes() {
		commands := make([]command.Command, 0, len(tb.bulbs))
		for _, b := range tb.bulbs {
			commands = append(commands, command.NewBulb(b.warm, m))
		}
		children[name] = command.NewSingle(command.NewMulti(commands...))
	}

	allWarm := make([]*device.Handle[device.BrightWarmBulb], 0, len(tb.bulbs))
	for _, b := range tb.bulbs {
		allWarm = append(allWarm, b.warm)
	}
	children["transition"] = tb.transitionResolver(allWarm)
	children["between"] = tb.betweenResolver(allWarm)

	for _, b := range tb.bulbs {
		children[b.name] = tb.bulbTree(b)
	}

	sceneChildren := make(map[string]command.Resolver, len(tb.scenes))
	for name, s := range tb.scenes {
		sceneChildren[name] = command.NewSingle(command.NewScene(s))
	}

	return command.NewJoin(command.NewDict(sceneChildren), command.NewDict(children))
}

// commonModes are available both at the top level and per device.
func (tb *treeBuilder) commonModes() map[string]mode.Mode[device.BrightWarmBulb] {
	modes := make(map[string]mode.Mode[device.BrightWarmBulb], len(tb.whites)+3)
	for name, white := range tb.whites {
		modes[name] = white
	}
	modes["on"] = mode.Power[device.BrightWarmBulb]{On: true}
	modes["off"] = mode.Power[device.BrightWarmBulb]{On: false}
	modes["toggle"] = mode.Toggle[device.BrightWarmBulb]{}
	return modes
}

func (tb *treeBuilder) bulbTree(b *bulb) command.Resolver {
	children := make(map[string]command.Resolver)
	for name, m := range tb.commonModes() {
		children[name] = command.NewSingle(command.NewBulb(b.warm, m))
	}
	children["info"] = command.NewSingle(command.NewBulb(b.warm, mode.Info[device.BrightWarmBulb]{}))
	children["brightness"] = command.NewSingle(command.NewBulb(b.warm, mode.BrightnessInfo[device.BrightWarmBulb]{}))

	if b.color != nil {
		for name, preset := range tb.cfg.Modes.Color {
			m := mode.Color{Red: preset.Red, Green: preset.Green, Blue: preset.Blue, Brightness: preset.Brightness}
			children[name] = command.NewSingle(command.NewBulb(b.color, m))
		}
	}

	own := []*device.Handle[device.BrightWarmBulb]{b.warm}
	children["transition"] = tb.transitionResolver(own)
	children["between"] = tb.betweenResolver(own)

	return command.NewDict(children)
}

// endpoint is a transition boundary: either a white preset or a scene
// resolved per target device at build time.
type endpoint struct {
	white *mode.White
	scene *scene.Scene
}

func (e endpoint) resolve(target *device.Handle[device.BrightWarmBulb]) (mode.White, error) {
	if e.white != nil {
		return *e.white, nil
	}
	return e.scene.WhiteModeFor(target.Name())
}

func (tb *treeBuilder) endpointSelect() command.Argument {
	choices := make(map[string]any, len(tb.whites)+len(tb.scenes))
	for name, white := range tb.whites {
		white := white
		choices[name] = endpoint{white: &white}
	}
	for name, s := range tb.scenes {
		if _, taken := choices[name]; taken {
			continue // preset names shadow scenes
		}
		choices[name] = endpoint{scene: s}
	}
	return command.NewSelect(choices)
}

func (tb *treeBuilder) transitionResolver(bulbs []*device.Handle[device.BrightWarmBulb]) command.Resolver {
	specs := []command.Argument{
		tb.endpointSelect(),
		command.NewTimeArg(),
		tb.endpointSelect(),
		command.NewTimeArg(),
	}
	return command.NewArgs(bulbs, specs,
		func(values []any, target *device.Handle[device.BrightWarmBulb]) (mode.Mode[device.BrightWarmBulb], error) {
			from, err := values[0].(endpoint).resolve(target)
			if err != nil {
				return nil, err
			}
			to, err := values[2].(endpoint).resolve(target)
			if err != nil {
				return nil, err
			}
			return mode.Transition{
				From:     from,
				FromTime: values[1].(time.Time),
				To:       to,
				ToTime:   values[3].(time.Time),
				Interval: tb.cfg.Transition.Interval.Duration(),
				Reassert: tb.cfg.Transition.Reassert.Duration(),
			}, nil
		})
}

func (tb *treeBuilder) betweenResolver(bulbs []*device.Handle[device.BrightWarmBulb]) command.Resolver {
	whiteChoices := make(map[string]any, len(tb.whites))
	for name, white := range tb.whites {
		whiteChoices[name] = white
	}
	specs := []command.Argument{
		command.NewSelect(whiteChoices),
		command.NewSelect(whiteChoices),
		command.NewPercentArg(),
	}
	return command.NewArgs(bulbs, specs,
		func(values []any, _ *device.Handle[device.BrightWarmBulb]) (mode.Mode[device.BrightWarmBulb], error) {
			return mode.WhiteBetween{
				From:    values[0].(mode.White),
				To:      values[1].(mode.White),
				Percent: values[2].(int),
			}, nil
		})
}
