package config

import "sort"

var Presets = map[string]*Scenario{
	"binary": {
		Name: "binary", G: 10000000, MinDistance: 5, Dt: 1.0 / 60, Duration: 30,
		Bodies: []BodyConfig{
			{X: 320, Y: 240, VX: 25, VY: 0, Mass: 10},
			{X: 320, Y: 60, VX: -250, VY: 0, Mass: 1},
		},
		Predictor: PredictorConfig{Horizon: 600, SampleDistance: 4, FallbackStep: 1.0 / 60},
		View:      ViewConfig{Follow: 1, AlignVelocity: true, Zoom: 1},
	},
	"slingshot": {
		Name: "slingshot", G: 66700000, MinDistance: 5, Dt: 0.016, Duration: 10,
		Bodies: []BodyConfig{
			{X: 320, Y: 240, VX: 40, VY: 0, Mass: 10},
			{X: 320, Y: 60, VX: -400, VY: 0, Mass: 1},
		},
		Predictor: PredictorConfig{Horizon: 900, SampleDistance: 6, FallbackStep: 0.016},
		View:      ViewConfig{Follow: 1, AlignVelocity: true, Zoom: 0.5},
	},
	"triangle": {
		Name: "triangle", G: 10000000, MinDistance: 5, Dt: 1.0 / 60, Duration: 60,
		Bodies: []BodyConfig{
			{X: 320, Y: 360, VX: -219.3, VY: 0, Mass: 1},
			{X: 216.1, Y: 180, VX: 109.65, VY: -189.9, Mass: 1},
			{X: 423.9, Y: 180, VX: 109.65, VY: 189.9, Mass: 1},
		},
		Predictor: PredictorConfig{Horizon: 400, SampleDistance: 4, FallbackStep: 1.0 / 60},
		View:      ViewConfig{Follow: -1, Zoom: 1},
	},
}

func GetPreset(name string) *Scenario {
	s, ok := Presets[name]
	if !ok {
		return nil
	}
	return s.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
