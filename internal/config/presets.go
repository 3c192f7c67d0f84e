package config

import "sort"

var Presets = map[string]*Config{
	// Parameters of the classic FitzHugh-Nagumo Turing demo.
	"reference": {
		Name: "reference", A: 2.8e-4, B: 5e-3, Tau: 0.1, K: -0.005,
		Size: 100, HalfWidth: 1.0, TotalTime: 9.0, SafetyFactor: 0.9,
		Validate: true, HistoryEvery: 50,
	},
	"quick": {
		Name: "quick", A: 2.8e-4, B: 5e-3, Tau: 0.1, K: -0.005,
		Size: 50, HalfWidth: 1.0, TotalTime: 3.0, SafetyFactor: 0.9,
		Validate: true, HistoryEvery: 20,
	},
	"spots": {
		Name: "spots", A: 2.8e-4, B: 5e-3, Tau: 0.1, K: 0.05,
		Size: 100, HalfWidth: 1.0, TotalTime: 9.0, SafetyFactor: 0.9,
		Validate: true, HistoryEvery: 50,
	},
	// Small noise around the homogeneous steady state instead of
	// uniform [0,1) fields.
	"perturbed": {
		Name: "perturbed", A: 2.8e-4, B: 5e-3, Tau: 0.1, K: -0.005,
		Size: 100, HalfWidth: 1.0, TotalTime: 9.0, SafetyFactor: 0.9,
		Validate: true, HistoryEvery: 50, Init: "perturbed",
	},
	"fine": {
		Name: "fine", A: 2.8e-4, B: 5e-3, Tau: 0.1, K: -0.005,
		Size: 200, HalfWidth: 1.0, TotalTime: 9.0, SafetyFactor: 0.9,
		Workers: 4, Validate: true, HistoryEvery: 200,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
