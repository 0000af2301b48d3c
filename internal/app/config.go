package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TypesPath    string // .hcl manifest file or directory
	DocumentPath string // .yaml/.yml/.json document
	RootType     string // registered type the document instantiates

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.TypesPath == "" {
		return nil, errors.New("TypesPath is a required configuration field and cannot be empty")
	}
	if cfg.DocumentPath == "" {
		return nil, errors.New("DocumentPath is a required configuration field and cannot be empty")
	}
	if cfg.RootType == "" {
		return nil, errors.New("RootType is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
