package app

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"lightctl/internal/command"
	"lightctl/internal/config"
	"lightctl/internal/device"
	"lightctl/internal/mode"
	"lightctl/internal/scene"
)

func stubWarm(name string) *device.Handle[device.BrightWarmBulb] {
	return device.NewHandle(name, func(context.Context) (device.BrightWarmBulb, error) {
		return nil, errors.New("no device in tests")
	})
}

func stubColor(name string) *device.Handle[device.ColorBulb] {
	return device.NewHandle(name, func(context.Context) (device.ColorBulb, error) {
		return nil, errors.New("no device in tests")
	})
}

// testTree builds a tree over two devices (one color-capable), two white
// presets and one scene whose name collides with nothing.
func testTree(t *testing.T) command.Resolver {
	t.Helper()

	table := &bulb{name: "table", warm: stubWarm("table")}
	colorHandle := stubColor("desk")
	desk := &bulb{name: "desk", warm: device.AsBrightWarm(colorHandle), color: colorHandle}

	whites := map[string]mode.White{
		"day":   {Temperature: 4000, Brightness: 100},
		"night": {Temperature: 1700, Brightness: 1},
	}

	movie := scene.New("movie",
		scene.Bind(table.warm, mode.White{Temperature: 2200, Brightness: 40}),
		scene.Bind(desk.warm, mode.Power[device.BrightWarmBulb]{On: false}),
	)

	cfg := &config.Config{
		Transition: config.TransitionConfig{
			Interval: config.Duration(time.Second),
			Reassert: config.Duration(30 * time.Second),
		},
		Modes: config.ModesConfig{
			Color: map[string]config.ColorPreset{
				"alarm": {Red: 255, Green: 61, Blue: 0, Brightness: 1},
			},
		},
	}

	tb := &treeBuilder{
		cfg:    cfg,
		bulbs:  []*bulb{table, desk},
		whites: whites,
		scenes: map[string]*scene.Scene{"movie": movie},
	}
	return tb.build()
}

func options(t *testing.T, cmd command.Command) []string {
	t.Helper()
	oc, ok := cmd.(*command.OptionsCommand)
	if !ok {
		t.Fatalf("got %T, want an options listing", cmd)
	}
	return oc.Options()
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestTree_TopLevelOptions(t *testing.T) {
	root := testTree(t)
	cmd, err := root.Get(nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	opts := options(t, cmd)
	for _, want := range []string{"movie", "table", "desk", "day", "night", "on", "off", "toggle", "transition", "between"} {
		if !contains(opts, want) {
			t.Errorf("top-level options %v missing %q", opts, want)
		}
	}
}

func TestTree_CommonModeFansOut(t *testing.T) {
	root := testTree(t)
	cmd, err := root.Get([]string{"off"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, ok := cmd.(*command.MultiCommand); !ok {
		t.Errorf("got %T, want a fan-out over every device", cmd)
	}
}

func TestTree_DeviceSubtree(t *testing.T) {
	root := testTree(t)

	cmd, err := root.Get([]string{"table"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	opts := options(t, cmd)
	for _, want := range []string{"day", "night", "on", "off", "toggle", "info", "brightness", "transition", "between"} {
		if !contains(opts, want) {
			t.Errorf("table options %v missing %q", opts, want)
		}
	}
	if contains(opts, "alarm") {
		t.Errorf("table options %v include a color preset on a white-only device", opts)
	}

	cmd, err = root.Get([]string{"desk"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if opts := options(t, cmd); !contains(opts, "alarm") {
		t.Errorf("desk options %v missing color preset", opts)
	}
}

func TestTree_SceneResolves(t *testing.T) {
	root := testTree(t)
	cmd, err := root.Get([]string{"movie"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, ok := cmd.(*command.SceneCommand); !ok {
		t.Errorf("got %T, want a scene command", cmd)
	}
}

func TestTree_UnknownTokenListsContinuations(t *testing.T) {
	root := testTree(t)
	cmd, err := root.Get([]string{"closet"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	opts := options(t, cmd)
	if !contains(opts, "table") || !contains(opts, "movie") {
		t.Errorf("options %v should list the known top-level tokens", opts)
	}
}

func TestTree_ResolutionIsRepeatable(t *testing.T) {
	root := testTree(t)

	first, err := root.Get([]string{"table", "off"})
	if err != nil {
		t.Fatalf("first Get failed: %v", err)
	}
	second, err := root.Get([]string{"table", "off"})
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated resolution differs: %#v vs %#v", first, second)
	}
}

func TestTree_TransitionArguments(t *testing.T) {
	root := testTree(t)

	// No arguments yet: the first endpoint's choices, presets and scenes
	// merged.
	cmd, err := root.Get([]string{"transition"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	opts := options(t, cmd)
	for _, want := range []string{"day", "night", "movie"} {
		if !contains(opts, want) {
			t.Errorf("endpoint options %v missing %q", opts, want)
		}
	}

	cmd, err = root.Get([]string{"transition", "day", "08:30", "night", "22:00"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, ok := cmd.(*command.MultiCommand); !ok {
		t.Errorf("got %T, want a fan-out over every device", cmd)
	}
}

func TestTree_SceneEndpointResolvesPerDevice(t *testing.T) {
	root := testTree(t)

	// The scene sets "table" to a white mode, so it is a valid endpoint
	// for table's own transition.
	if _, err := root.Get([]string{"table", "transition", "movie", "08:30", "night", "22:00"}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// The scene turns "desk" off, which has no white interpolation.
	if _, err := root.Get([]string{"desk", "transition", "movie", "08:30", "night", "22:00"}); err == nil {
		t.Error("expected an error for a non-white scene entry as endpoint")
	}
}

func TestTree_Between(t *testing.T) {
	root := testTree(t)

	cmd, err := root.Get([]string{"table", "between", "day", "night", "50"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, ok := cmd.(*command.MultiCommand); !ok {
		t.Errorf("got %T, want a command for the single device", cmd)
	}

	cmd, err = root.Get([]string{"table", "between", "day", "night"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if opts := options(t, cmd); !contains(opts, "50") {
		t.Errorf("percent options %v missing a sample value", opts)
	}
}
