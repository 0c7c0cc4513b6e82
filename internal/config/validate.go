package config

import (
	"errors"
	"fmt"
)

// Validate performs comprehensive validation of the declared configuration
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = VersionUnknown
	}

	switch c.Version {
	case VersionLatest:
		// Supported version
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, c.Version)
	}

	errz := []error{}

	names := make(map[string]bool, len(c.Modules))
	for _, mod := range c.Modules {
		if err := mod.Validate(); err != nil {
			errz = append(errz, err)
			continue
		}

		if names[mod.Name] {
			errz = append(errz, fmt.Errorf("%w: %s", ErrDuplicateModule, mod.Name))
		} else {
			names[mod.Name] = true
		}
	}

	return errors.Join(errz...)
}
