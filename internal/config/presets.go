package config

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

type Preset struct {
	Description string
	Values      map[string]any
}

// Presets are named sets of config keys. They sit just above the built-in
// defaults, so files, environment and flags still override them.
var Presets = map[string]Preset{
	"demo7": {
		Description: "released at rest perpendicular to the line of centres",
		Values: map[string]any{
			"initial.r": 1.5, "initial.theta": 0.0, "initial.phi": 90.0,
			"initial.pr": 0.0, "initial.ptheta": 0.0, "initial.pphi": 0.0,
			"num_events": 100000, "output": "events.csv",
		},
	},
	"quick": {
		Description: "demo7 cut to a thousand events",
		Values: map[string]any{
			"initial.r": 1.5, "initial.phi": 90.0,
			"num_events": 1000,
		},
	},
	"head-on": {
		Description: "aligned dipoles falling straight in",
		Values: map[string]any{
			"initial.r": 1.2, "initial.theta": 0.0, "initial.phi": 0.0,
			"initial.pr": -1.0,
			"num_events": 1000,
		},
	},
	"orbit": {
		Description: "tangential launch with a spinning magnet",
		Values: map[string]any{
			"initial.r": 2.0, "initial.theta": 0.0, "initial.phi": 30.0,
			"initial.ptheta": 0.8, "initial.pphi": 0.05,
			"num_events": 10000,
		},
	},
	"phi-spectrum": {
		Description: "1024 fixed steps of phi through the power spectrum",
		Values: map[string]any{
			"initial.r": 1.5, "initial.phi": 90.0,
			"num_events": -1, "log_num_steps": 10,
			"fixed": true, "h": 1e-2,
			"sample": "phi", "fft": true,
			"output": "phi.dat",
		},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset layers the named preset over the defaults in v.
func ApplyPreset(v *viper.Viper, name string) error {
	p := GetPreset(name)
	if p == nil {
		return fmt.Errorf("unknown preset %q (have %v)", name, ListPresets())
	}
	for k, val := range p.Values {
		v.SetDefault(k, val)
	}
	return nil
}
