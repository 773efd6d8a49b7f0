package mempool

import "fmt"

// Preset is a named set of arena sizes. Presets bundle the four sizes into
// profiles so a deployment can pick one with a single flag instead of sizing
// each arena.
type Preset struct {
	Name  string // identifier accepted by GetPresetByName
	Sizes Config
}

// DefaultPreset matches DefaultConfig.
func DefaultPreset() Preset {
	return Preset{Name: "default", Sizes: DefaultConfig()}
}

// LitePreset fits constrained environments such as CI runners. Frames are
// still large enough for several thousand small records.
func LitePreset() Preset {
	p := DefaultPreset()
	p.Name = "lite"
	p.Sizes.Program = 4 * MiB
	p.Sizes.Persistent = 256 << 10
	p.Sizes.Session = 256 << 10
	p.Sizes.Frame = 256 << 10
	return p
}

// LargePreset is for hosts that keep many connections and batch many
// records per frame.
func LargePreset() Preset {
	p := DefaultPreset()
	p.Name = "large"
	p.Sizes.Program = 256 * MiB
	p.Sizes.Persistent = 16 * MiB
	p.Sizes.Session = 32 * MiB
	p.Sizes.Frame = 32 * MiB
	return p
}

// GetPresetByName looks up a preset by its identifier.
func GetPresetByName(name string) (Preset, error) {
	switch name {
	case "lite":
		return LitePreset(), nil
	case "large":
		return LargePreset(), nil
	case "default":
		return DefaultPreset(), nil
	default:
		return Preset{}, fmt.Errorf("unknown preset: %q (valid: lite, large, default)", name)
	}
}

// ApplyPreset copies every non-zero size of preset into target.
func ApplyPreset(target *Config, preset Preset) {
	if preset.Sizes.Program > 0 {
		target.Program = preset.Sizes.Program
	}
	if preset.Sizes.Persistent > 0 {
		target.Persistent = preset.Sizes.Persistent
	}
	if preset.Sizes.Session > 0 {
		target.Session = preset.Sizes.Session
	}
	if preset.Sizes.Frame > 0 {
		target.Frame = preset.Sizes.Frame
	}
}
