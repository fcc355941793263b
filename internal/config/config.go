package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration: the declarative
// tables the command tree is assembled from at startup.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Alert      AlertConfig      `yaml:"alert"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	Transition TransitionConfig `yaml:"transition"`
	Devices    []DeviceConfig   `yaml:"devices"`
	Modes      ModesConfig      `yaml:"modes"`
	Scenes     []SceneConfig    `yaml:"scenes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Colors bool   `yaml:"colors"`
}

// AlertConfig contains the external alert side-channel settings
type AlertConfig struct {
	Command string `yaml:"command"` // executable invoked with the alert message
}

// DiscoveryConfig contains device discovery settings
type DiscoveryConfig struct {
	Timeout Duration `yaml:"timeout"` // deadline raced against discovery probes
}

// TransitionConfig contains transition scheduler settings
type TransitionConfig struct {
	Interval Duration `yaml:"interval"` // polling cadence
	Reassert Duration `yaml:"reassert"` // minimum re-push interval for an applied state
}

// DeviceConfig declares one named device and how its driver finds it
type DeviceConfig struct {
	Name   string `yaml:"name"`
	Driver string `yaml:"driver"` // lifx | hue | keylight

	// LIFX: hardware target address, optional (first discovered wins)
	Target string `yaml:"target,omitempty"`

	// Hue: bridge host, API token and light name on the bridge
	Bridge string `yaml:"bridge,omitempty"`
	Token  string `yaml:"token,omitempty"`
	Light  string `yaml:"light,omitempty"`
	Color  bool   `yaml:"color,omitempty"` // Hue light supports RGB

	// Key Light: candidate host addresses probed concurrently
	Hosts []string `yaml:"hosts,omitempty"`
}

// ModesConfig contains the preset tables
type ModesConfig struct {
	White map[string]WhitePreset `yaml:"white"`
	Color map[string]ColorPreset `yaml:"color"`
}

// WhitePreset is a named white temperature + brightness pair
type WhitePreset struct {
	Temperature int `yaml:"temperature"`
	Brightness  int `yaml:"brightness"`
}

// ColorPreset is a named RGB + brightness tuple
type ColorPreset struct {
	Red        int `yaml:"red"`
	Green      int `yaml:"green"`
	Blue       int `yaml:"blue"`
	Brightness int `yaml:"brightness"`
}

// SceneConfig declares a named set of (device, mode) bindings
type SceneConfig struct {
	Name    string             `yaml:"name"`
	Entries []SceneEntryConfig `yaml:"entries"`
}

// SceneEntryConfig binds one device to a mode name ("on", "off" or a
// white preset)
type SceneEntryConfig struct {
	Device string `yaml:"device"`
	Mode   string `yaml:"mode"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Alert.Command == "" {
		cfg.Alert.Command = "alert"
	}
	if cfg.Discovery.Timeout == 0 {
		cfg.Discovery.Timeout = Duration(5 * time.Second)
	}
	if cfg.Transition.Interval == 0 {
		cfg.Transition.Interval = Duration(1 * time.Second)
	}
	if cfg.Transition.Reassert == 0 {
		cfg.Transition.Reassert = Duration(30 * time.Second)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	names := make(map[string]struct{}, len(cfg.Devices))
	for _, d := range cfg.Devices {
		if d.Name == "" {
			return fmt.Errorf("device without a name")
		}
		if _, dup := names[d.Name]; dup {
			return fmt.Errorf("duplicate device name %q", d.Name)
		}
		names[d.Name] = struct{}{}

		switch d.Driver {
		case "lifx":
		case "hue":
			if d.Bridge == "" || d.Token == "" {
				return fmt.Errorf("device %q: hue driver requires bridge and token", d.Name)
			}
		case "keylight":
			if len(d.Hosts) == 0 {
				return fmt.Errorf("device %q: keylight driver requires at least one host", d.Name)
			}
		default:
			return fmt.Errorf("device %q: unknown driver %q", d.Name, d.Driver)
		}
	}

	for _, s := range cfg.Scenes {
		if s.Name == "" {
			return fmt.Errorf("scene without a name")
		}
		for _, e := range s.Entries {
			if _, ok := names[e.Device]; !ok {
				return fmt.Errorf("scene %q: unknown device %q", s.Name, e.Device)
			}
			if e.Mode != "on" && e.Mode != "off" {
				if _, ok := cfg.Modes.White[e.Mode]; !ok {
					return fmt.Errorf("scene %q: unknown mode %q", s.Name, e.Mode)
				}
			}
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
