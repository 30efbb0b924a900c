// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the cdweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their
// ultimate components as a series of individual params (for the
// mandatory items) and a series of functional options (for the
// optional items), so they are validated again by the relevant
// end-component such as a UseCase instance.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is implemented with
// primitive fields or structs which are defined locally, not models
// from the lower layers, so the configuration file format is kept
// intact while other layers can change freely.
type Config struct {
	Database Database // record store connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Usecases Usecases // Supported use cases configuration settings
}

// Load function loads the configuration file from path, overrides its
// settings by the environment variables (see Config.OverrideFromEnv),
// validates and normalizes it, and returns the resulting Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := c.OverrideFromEnv(nil); err != nil {
		return nil, fmt.Errorf("overriding from env: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice as a Config instance.
// Extra items in the data will be ignored and missing items remain
// nil, so they can be overridden or take their default values later.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	c.Gin.Normalize()
	if err := c.Usecases.Cars.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating cars settings: %w", err)
	}
	return nil
}

// Marshalled struct contains a field for each one of the Config struct
// fields. The types of those fields are the same if their default
// serialization format is acceptable, otherwise, they are serialized
// manually using their Marshal method and their target primitive types
// are used in the Marshalled struct.
type Marshalled struct {
	Database Database
	Gin      Gin
	Usecases struct {
		Cars MarshalledCars
	}
}

// MarshalYAML replaces the `c` Config instance by its Marshalled
// version, so it can be encoded as YAML.
func (c *Config) MarshalYAML() (interface{}, error) {
	return c.Marshal(), nil
}

// Marshal creates an instance of the Marshalled struct and fills it
// with the `c` Config instance contents.
func (c *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Database = c.Database
	m.Gin = c.Gin
	m.Usecases.Cars = c.Usecases.Cars.Marshal()
	return m
}
