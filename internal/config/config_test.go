package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/meshkit/pkg/customdata"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Conversion defaults
	if !cfg.Convert.CalcFaceNormal {
		t.Error("expected face normals on by default")
	}
	if !cfg.Convert.AddKeyIndex {
		t.Error("expected key index tracking on by default")
	}
	if !cfg.Convert.CalcObjectRemap {
		t.Error("expected object remap on by default")
	}
	if cfg.Convert.UseShapeKey || cfg.Convert.ActiveShapeKey != 0 {
		t.Error("expected no active shape key by default")
	}

	// Batch defaults
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Batch.Workers)
	}
	if cfg.Batch.Pattern != "*.yaml" {
		t.Errorf("expected pattern '*.yaml', got %s", cfg.Batch.Pattern)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
convert:
  calc_face_normal: false
  use_shape_key: true
  active_shape_key: 2
  update_shape_key_indices: true
  extra_layers:
    vert: [orig_index]
    loop: [uv, color]

batch:
  workers: 8
  pattern: "*.mesh.yaml"
  progress: false

logging:
  level: "debug"
  format: "json"
  log_file: "meshkit.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Convert.CalcFaceNormal {
		t.Error("expected calc_face_normal to be false")
	}
	if !cfg.Convert.UseShapeKey || cfg.Convert.ActiveShapeKey != 2 {
		t.Errorf("expected shape key 2, got %d (use %v)", cfg.Convert.ActiveShapeKey, cfg.Convert.UseShapeKey)
	}
	// Not in the file, keeps its default
	if !cfg.Convert.CalcObjectRemap {
		t.Error("expected calc_object_remap to keep its default")
	}
	if cfg.Batch.Workers != 8 || cfg.Batch.Pattern != "*.mesh.yaml" || cfg.Batch.Progress {
		t.Errorf("unexpected batch config %+v", cfg.Batch)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.LogFile != "meshkit.log" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}

	in, err := cfg.Convert.ImportParams()
	if err != nil {
		t.Fatalf("ImportParams: %v", err)
	}
	if !in.ExtraMask.VMask.Has(customdata.TypeOrigIndex) {
		t.Error("expected orig_index in the vertex mask")
	}
	if !in.ExtraMask.LMask.Has(customdata.TypeUV) || !in.ExtraMask.LMask.Has(customdata.TypeColor) {
		t.Error("expected uv and color in the loop mask")
	}
	out, err := cfg.Convert.ExportParams()
	if err != nil {
		t.Fatalf("ExportParams: %v", err)
	}
	if !out.UpdateShapeKeyIndices || !out.CalcObjectRemap {
		t.Errorf("unexpected export params %+v", out)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
batch:
  workers: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestUnknownExtraLayer(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	yamlContent := "convert:\n  extra_layers:\n    edge: [wobble]\n"
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(&Flags{Config: configPath}); err == nil {
		t.Error("expected error for unknown layer type")
	}
}

func TestExportParamsDropsMorphLayers(t *testing.T) {
	cfg := Default()
	cfg.Convert.ExtraLayers.Vert = []string{"shape_key", "shape_key_index", "prop_float"}

	in, err := cfg.Convert.ImportParams()
	if err != nil {
		t.Fatalf("ImportParams: %v", err)
	}
	if !in.ExtraMask.VMask.Has(customdata.TypeShapeKey) {
		t.Error("import mask lost shape_key")
	}

	out, err := cfg.Convert.ExportParams()
	if err != nil {
		t.Fatalf("ExportParams: %v", err)
	}
	for _, typ := range []customdata.Type{customdata.TypeShapeKey, customdata.TypeShapeKeyIndex} {
		if out.ExtraMask.VMask.Has(typ) {
			t.Errorf("export mask keeps %s", typ)
		}
	}
	if !out.ExtraMask.VMask.Has(customdata.TypePropFloat) {
		t.Error("export mask lost prop_float")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("meshkit.yaml", []byte("batch:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find meshkit.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "shape key flag",
			args: []string{"-shape-key", "3"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Convert.ActiveShapeKey != 3 || !cfg.Convert.UseShapeKey {
					t.Errorf("expected active shape key 3, got %+v", cfg.Convert)
				}
			},
		},
		{
			name: "remap and normals off",
			args: []string{"-no-remap", "-no-normals"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Convert.CalcObjectRemap || cfg.Convert.CalcFaceNormal {
					t.Errorf("expected remap and normals off, got %+v", cfg.Convert)
				}
			},
		},
		{
			name: "workers and log flags",
			args: []string{"-workers", "16", "-log-file", "x.log", "-log-format", "json"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Batch.Workers != 16 {
					t.Errorf("expected 16 workers, got %d", cfg.Batch.Workers)
				}
				if cfg.Logging.LogFile != "x.log" || cfg.Logging.Format != "json" {
					t.Errorf("unexpected logging %+v", cfg.Logging)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Flags
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f.Register(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}

			cfg := Default()
			applyFlags(cfg, &f)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
batch:
  workers: 6
  pattern: "*.yml"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(&Flags{Config: configPath, Workers: 12})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers from flag, not file
	if cfg.Batch.Workers != 12 {
		t.Errorf("expected 12 workers from flag, got %d", cfg.Batch.Workers)
	}
	// Pattern from file since no flag override
	if cfg.Batch.Pattern != "*.yml" {
		t.Errorf("expected pattern '*.yml' from file, got %s", cfg.Batch.Pattern)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Batch.Workers = 3
	cfg.Convert.ExtraLayers.Loop = []string{"uv"}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(&Flags{Config: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Batch.Workers != 3 || len(loaded.Convert.ExtraLayers.Loop) != 1 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
