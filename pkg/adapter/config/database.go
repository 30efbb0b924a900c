// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/momeni/cardealer/pkg/adapter/db/rdbms"
	"github.com/momeni/cardealer/pkg/adapter/db/rdbms/carsrp"
	"github.com/momeni/cardealer/pkg/adapter/db/rdbms/schemarp"
	"github.com/momeni/cardealer/pkg/core/repo"
)

// Supported values of the Database.Driver setting.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultSQLitePath is the database file which is used by the sqlite
// driver when no path is configured.
const DefaultSQLitePath = "cars.db"

// Database contains the record store connection settings.
// The sqlite driver only needs a file Path. The postgres driver takes
// either a complete URL or the Host, Port, Name, and User settings
// plus a PassFile in the .pgpass format (with lines like
// host:port:dbname:user:password) which contains its password.
type Database struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path,omitempty"`
	URL      string `yaml:"url,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Name     string `yaml:"name,omitempty"`
	User     string `yaml:"user,omitempty"`
	PassFile string `yaml:"pass-file,omitempty"`
}

// ValidateAndNormalize fills the missing driver, path, and port with
// their default values and ensures that the driver specific settings
// are provided.
func (d *Database) ValidateAndNormalize() error {
	switch d.Driver {
	case "":
		d.Driver = DriverSQLite
		fallthrough
	case DriverSQLite:
		if d.Path == "" {
			d.Path = DefaultSQLitePath
		}
	case DriverPostgres:
		if d.URL != "" {
			return nil
		}
		if d.Port == 0 {
			d.Port = 5432
		}
		var missing []string
		for _, s := range []struct{ name, value string }{
			{"host", d.Host},
			{"name", d.Name},
			{"user", d.User},
			{"pass-file", d.PassFile},
		} {
			if s.value == "" {
				missing = append(missing, s.name)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf(
				"postgres needs url or %s settings",
				strings.Join(missing, ", "),
			)
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", d.Driver)
	}
	return nil
}

// ConnectionURL returns the PostgreSQL connection string. If the URL
// setting is empty, the password of User is looked up in the PassFile.
func (d Database) ConnectionURL() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	passLines, err := os.ReadFile(d.PassFile)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, d.User)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(d.User, pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ConnectionPool opens a connection pool for the configured driver.
func (d Database) ConnectionPool(ctx context.Context) (*rdbms.Pool, error) {
	switch d.Driver {
	case DriverSQLite:
		p, err := rdbms.NewSQLitePool(ctx, d.Path)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", d.Path, err)
		}
		return p, nil
	case DriverPostgres:
		u, err := d.ConnectionURL()
		if err != nil {
			return nil, fmt.Errorf("using %q pass-file: %w", d.PassFile, err)
		}
		p, err := rdbms.NewPostgresPool(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s:%d/%s: %w",
				d.Host, d.Port, d.Name, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", d.Driver)
	}
}

// NewCarsRepo instantiates the cars repository which works with the
// pools which are created by ConnectionPool.
func (d Database) NewCarsRepo() repo.Cars {
	return carsrp.New()
}

// NewSchemaRepo instantiates a fresh Schema repository.
func (d Database) NewSchemaRepo() repo.Schema {
	return schemarp.New()
}
