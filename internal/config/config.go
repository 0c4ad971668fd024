package config

import (
	"runtime"

	"github.com/spf13/viper"

	"github.com/akovalenko/dupefinder/pkg/models"
)

// Config represents the scanner configuration. It is built once from
// defaults and environment, overridden by CLI flags, and passed
// explicitly into every component; nothing reads ambient state.
type Config struct {
	// Scan settings
	Algorithm string   `mapstructure:"algorithm"` // md5, sha256, xxh3
	Recursive bool     `mapstructure:"recursive"` // descend into subdirectories
	Workers   int      `mapstructure:"workers"`   // number of hashing goroutines
	Exclude   []string `mapstructure:"exclude"`   // directory names to skip
	MaxSize   string   `mapstructure:"max_size"`  // skip files larger than this ("" = unlimited)

	// Resolution settings
	Action    string `mapstructure:"action"`     // report, delete, move, link
	TargetDir string `mapstructure:"target_dir"` // destination for move/link

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // text, json, yaml
	OutputFile   string `mapstructure:"output_file"`   // output file path
}

// LoadConfig loads configuration from defaults and environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("algorithm", "sha256")
	v.SetDefault("recursive", true)
	v.SetDefault("workers", runtime.NumCPU()*2)
	v.SetDefault("exclude", []string{})
	v.SetDefault("max_size", "")
	v.SetDefault("action", "report")
	v.SetDefault("target_dir", "")
	v.SetDefault("report_format", "")
	v.SetDefault("output_file", "")

	// Read environment variables
	v.SetEnvPrefix("DUPEFINDER")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Policy builds the resolution policy selected by the configuration.
func (c *Config) Policy() (models.Policy, error) {
	action, err := models.ParseAction(c.Action)
	if err != nil {
		return models.Policy{}, err
	}

	policy := models.Policy{Action: action, TargetDir: c.TargetDir}
	if err := policy.Validate(); err != nil {
		return models.Policy{}, err
	}
	return policy, nil
}
