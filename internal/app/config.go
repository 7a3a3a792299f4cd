package app

import "errors"

// Config holds everything an App instance needs to run one build.
type Config struct {
	ManifestPath string // .hcl program manifests (file or directory)
	OutputPath   string // image manifest destination; empty writes to outW

	LogFormat   string // "text", "json", or "auto"
	LogLevel    string
	WorkerCount int
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
