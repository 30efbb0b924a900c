// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/momeni/cardealer/pkg/adapter/config/settings"
)

// EnvOverrides lists the settings which may be overridden by the
// environment variables. Empty values are ignored.
type EnvOverrides struct {
	// DatabaseURL selects the postgres driver with the given URL.
	DatabaseURL string `env:"DATABASE_URL"`
	// SQLitePath selects the sqlite driver with the given file path.
	SQLitePath string `env:"CARDEALER_SQLITE_PATH"`
	// Address is the listening address of the REST API server.
	Address string `env:"CARDEALER_ADDRESS"`
}

// OverrideFromEnv parses the EnvOverrides from the environ map (or the
// process environment variables if environ is nil) and applies them
// on the `c` settings. Setting both of DATABASE_URL and
// CARDEALER_SQLITE_PATH is ambiguous and is rejected.
func (c *Config) OverrideFromEnv(environ map[string]string) error {
	eo, err := env.ParseAsWithOptions[EnvOverrides](env.Options{
		Environment: environ,
	})
	if err != nil {
		return fmt.Errorf("parsing environment variables: %w", err)
	}
	switch {
	case eo.DatabaseURL != "" && eo.SQLitePath != "":
		return errors.New(
			"DATABASE_URL and CARDEALER_SQLITE_PATH are mutually exclusive",
		)
	case eo.DatabaseURL != "":
		c.Database = Database{Driver: DriverPostgres, URL: eo.DatabaseURL}
	case eo.SQLitePath != "":
		c.Database = Database{Driver: DriverSQLite, Path: eo.SQLitePath}
	}
	if eo.Address != "" {
		settings.Override(&c.Gin.Address, &eo.Address)
	}
	return nil
}
