package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultScenario(t *testing.T) {
	s := DefaultScenario()

	if s.Name != "binary" {
		t.Errorf("expected scenario binary, got %s", s.Name)
	}
	if s.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if s.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default scenario must validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	s := DefaultScenario()
	s.Name = "custom"
	s.G = 123456
	s.Bodies = append(s.Bodies, BodyConfig{X: 1, Y: 2, VX: 3, VY: 4, Mass: 5})

	if err := Save(path, s); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != "custom" {
		t.Errorf("expected name custom, got %s", loaded.Name)
	}
	if loaded.G != 123456 {
		t.Errorf("expected g 123456, got %f", loaded.G)
	}
	if len(loaded.Bodies) != 3 {
		t.Errorf("expected 3 bodies, got %d", len(loaded.Bodies))
	}
	if loaded.Bodies[2].Mass != 5 {
		t.Errorf("expected third body mass 5, got %f", loaded.Bodies[2].Mass)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := []byte("name: sparse\nbodies:\n  - {x: 0, y: 0, mass: 2}\n")
	if err := os.WriteFile(path, partial, 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if s.Name != "sparse" {
		t.Errorf("expected name sparse, got %s", s.Name)
	}
	if s.Dt != DefaultDt {
		t.Errorf("expected default dt, got %f", s.Dt)
	}
	if s.G != DefaultG {
		t.Errorf("expected default g, got %f", s.G)
	}
}

func TestGetPreset(t *testing.T) {
	s := GetPreset("slingshot")
	if s == nil {
		t.Fatal("expected preset, got nil")
	}
	if s.G != 66700000 {
		t.Errorf("expected g 66700000, got %f", s.G)
	}
	if len(s.Bodies) != 2 {
		t.Errorf("expected 2 bodies, got %d", len(s.Bodies))
	}

	// Mutating the copy must not leak into the catalog.
	s.Bodies[0].Mass = 999
	if Presets["slingshot"].Bodies[0].Mass == 999 {
		t.Error("preset copy aliases the catalog")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if s := GetPreset("nonexistent"); s != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("expected sorted names, got %v", names)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"zero dt", func(s *Scenario) { s.Dt = 0 }},
		{"negative duration", func(s *Scenario) { s.Duration = -1 }},
		{"negative g", func(s *Scenario) { s.G = -10 }},
		{"no bodies", func(s *Scenario) { s.Bodies = nil }},
		{"bad mass", func(s *Scenario) { s.Bodies[0].Mass = 0 }},
		{"follow out of range", func(s *Scenario) { s.View.Follow = 7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScenario()
			tt.mutate(s)
			if err := s.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestBuildWorld(t *testing.T) {
	s := GetPreset("binary")

	w, handles, err := s.BuildWorld()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if w.Len() != 2 {
		t.Fatalf("expected 2 bodies, got %d", w.Len())
	}
	if len(handles) != 2 {
		t.Fatalf("expected 2 handles, got %d", len(handles))
	}

	b, ok := w.Body(handles[1])
	if !ok {
		t.Fatal("expected handle to resolve")
	}
	if b.Mass() != 1 || b.Velocity().X != -250 {
		t.Errorf("expected light body with vx -250, got mass %f velocity %v", b.Mass(), b.Velocity())
	}
}

func TestAllPresetsBuild(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			s := GetPreset(name)
			if _, _, err := s.BuildWorld(); err != nil {
				t.Errorf("preset %s does not build: %v", name, err)
			}
		})
	}
}

func TestBuildPredictor(t *testing.T) {
	s := GetPreset("slingshot")
	p := s.BuildPredictor()

	if p.Horizon != 900 {
		t.Errorf("expected horizon 900, got %d", p.Horizon)
	}
	if p.Law.G != 66700000 {
		t.Errorf("expected law g 66700000, got %f", p.Law.G)
	}

	s.Predictor = PredictorConfig{}
	p = s.BuildPredictor()
	if p.Horizon <= 0 || p.SampleDistance <= 0 {
		t.Error("expected defaults for an empty predictor config")
	}
}
