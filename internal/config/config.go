// Package config handles rigkit configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Compile CompileConfig `yaml:"compile"`
	Logging LoggingConfig `yaml:"logging"`
}

// CompileConfig holds asset compilation tolerances.
type CompileConfig struct {
	// UnitQuatTolerance bounds how far a rotation keyframe's length may
	// deviate from 1 before it is rejected.
	UnitQuatTolerance float32 `yaml:"unit_quat_tolerance"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Compile: CompileConfig{
			UnitQuatTolerance: 5e-4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
