package config

import (
	"encoding/json"

	"github.com/a8m/envsubst"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// FromFile reads a scenario from the given JSON file. Environment variable
// references in the file are expanded before parsing, so secrets and
// machine-specific values can stay out of the document itself.
func FromFile(path string, logger golog.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config from %q", path)
	}
	cfg, err := FromBytes(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse config from %q", path)
	}
	logger.Debugw("loaded scenario config", "path", path, "obstacles", len(cfg.Obstacles))
	return cfg, nil
}

// FromBytes parses a scenario from raw JSON. Fields the document leaves out
// keep their defaults; the result is validated before it is returned.
func FromBytes(buf []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(buf, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Ensure(); err != nil {
		return nil, err
	}
	return cfg, nil
}
