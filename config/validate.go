package config

import (
	"slices"
	"strings"

	"github.com/ardanlabs/babbisch/errors"
	"github.com/ardanlabs/babbisch/logger"
	"github.com/ardanlabs/babbisch/output"
)

// Validate checks that the configuration values are valid
func (c *Config) Validate() error {
	if _, err := output.ParseFormat(c.Format); err != nil {
		return err
	}

	if !slices.Contains(Frontends, c.Frontend) {
		return errors.Wrapf(errors.ErrInvalidInput, "frontend must be one of %s, got %q",
			strings.Join(Frontends, ", "), c.Frontend)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "log.level %q", c.Log.Level)
	}

	return nil
}
