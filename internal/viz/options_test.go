package viz

import (
	"encoding/json"
	"testing"
)

func TestDefaultLayoutConfig_Valid(t *testing.T) {
	cfg := DefaultLayoutConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default layout invalid: %v", err)
	}
	if cfg.Layout.RandomSeed != 42 {
		t.Errorf("RandomSeed = %d, want 42", cfg.Layout.RandomSeed)
	}
	if cfg.Layout.Hierarchical.Enabled {
		t.Error("hierarchical layout should be off by default")
	}
}

func TestLayoutConfig_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(DefaultLayoutConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	checks := []struct {
		section string
		key     string
	}{
		{"physics", "barnesHut"},
		{"physics", "stabilization"},
		{"physics", "minVelocity"},
		{"edges", "smooth"},
		{"nodes", "scaling"},
		{"layout", "randomSeed"},
		{"layout", "hierarchical"},
	}
	for _, c := range checks {
		if _, ok := raw[c.section][c.key]; !ok {
			t.Errorf("missing %s.%s in serialized options", c.section, c.key)
		}
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		width   string
		wantErr bool
	}{
		{"100%", false},
		{"1200px", false},
		{"80vw", false},
		{"12.5rem", false},
		{"", true},
		{"100", true},
		{"100%;color:red", true},
	}

	for _, tt := range tests {
		t.Run(tt.width, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Width = tt.width
			if err := opts.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() with width %q error = %v, wantErr %v", tt.width, err, tt.wantErr)
			}
		})
	}
}
