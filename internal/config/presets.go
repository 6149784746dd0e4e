package config

import "sort"

var Presets = map[string]map[string]*Options{
	VariantEmber: {
		"campfire": {
			Variant: VariantEmber, CellSize: 10, Cooling: 1.4, Wind: 1, Ignition: 255,
			AccentColor: DefaultAccentColor, TargetFPS: 24,
		},
		"torch": {
			Variant: VariantEmber, CellSize: 10, Cooling: 0.6, Wind: 0.3, Ignition: 255,
			AccentColor: "#ff7a1a", TargetFPS: 30,
		},
		"gale": {
			Variant: VariantEmber, CellSize: 10, Cooling: 1.8, Wind: 3, Ignition: 230,
			AccentColor: DefaultAccentColor, TargetFPS: 24,
		},
		"embers": {
			Variant: VariantEmber, CellSize: 12, Cooling: 3.2, Wind: 1, Ignition: 180,
			AccentColor: "crimson", TargetFPS: 12,
		},
		"backdrop": {
			Variant: VariantEmber, CellSize: 10, Cooling: 1.4, Wind: 1, Ignition: 255,
			AccentColor: DefaultAccentColor, TargetFPS: 24, Opacity: BackdropOpacity,
		},
	},
	VariantFlicker: {
		"subtle": {
			Variant: VariantFlicker, CellSize: 4, Gap: 6, MaxOpacity: 0.3, FlickerChance: 0.3,
			BaseColor: DefaultBaseColor,
		},
		"dense": {
			Variant: VariantFlicker, CellSize: 3, Gap: 2, MaxOpacity: 0.5, FlickerChance: 0.6,
			BaseColor: "#6b7280",
		},
		"storm": {
			Variant: VariantFlicker, CellSize: 4, Gap: 4, MaxOpacity: 0.8, FlickerChance: 2,
			BaseColor: "rgb(99, 102, 241)", TargetFPS: 30,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(variant, preset string) *Options {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	opts, ok := variantPresets[preset]
	if !ok {
		return nil
	}
	cp := *opts
	return &cp
}

func ListPresets(variant string) []string {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variantPresets))
	for name := range variantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
