package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config as is.
type Flags struct {
	Config    string
	Debug     bool
	LogFile   string
	LogFormat string
	Workers   int
	ShapeKey  int
	NoRemap   bool
	NoNormals bool
}

// Register binds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file as well")
	fs.StringVar(&f.LogFormat, "log-format", "", "Log format: console or json")
	fs.IntVar(&f.Workers, "workers", 0, "Concurrent batch workers")
	fs.IntVar(&f.ShapeKey, "shape-key", 0, "1-based shape key to edit, takes positions from it")
	fs.BoolVar(&f.NoRemap, "no-remap", false, "Leave hook and parent vertex indices untouched")
	fs.BoolVar(&f.NoNormals, "no-normals", false, "Skip face normals on import")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.Config
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.LogFormat != "" {
		cfg.Logging.Format = f.LogFormat
	}
	if f.Workers > 0 {
		cfg.Batch.Workers = f.Workers
	}
	if f.ShapeKey > 0 {
		cfg.Convert.ActiveShapeKey = f.ShapeKey
		cfg.Convert.UseShapeKey = true
	}
	if f.NoRemap {
		cfg.Convert.CalcObjectRemap = false
	}
	if f.NoNormals {
		cfg.Convert.CalcFaceNormal = false
	}
}
