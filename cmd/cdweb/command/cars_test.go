// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/momeni/cardealer/pkg/adapter/db/rdbms/schemarp"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(
		args, "-c", "../../../configs/sample-config.yaml",
	))
	err := rootCmd.Execute()
	jsonOutput, premium, resetAll = false, false, false
	carForm = model.CarForm{}
	return buf.String(), err
}

func soldCars(t *testing.T) int {
	t.Helper()
	out, err := execute(t, "cars", "list", "--json")
	require.NoError(t, err, out)
	var cs []model.Car
	require.NoError(t, json.Unmarshal([]byte(out), &cs), out)
	sold := 0
	for _, car := range cs {
		if car.Status == model.StatusSold {
			sold++
		}
	}
	return sold
}

func TestCarsCommands(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CARDEALER_ADDRESS", "")
	t.Setenv(
		"CARDEALER_SQLITE_PATH", filepath.Join(t.TempDir(), "cars.db"),
	)
	blackSedan := []string{
		"--body", "sedan", "--engine", "v6",
		"--drive", "awd", "--colour", "black",
	}

	out, err := execute(t, "db", "init-dev")
	require.NoError(t, err, out)

	out, err = execute(t, append([]string{"cars", "purchase"}, blackSedan...)...)
	require.NoError(t, err)
	assert.Equal(t, "sold for 20000\n", out)

	out, err = execute(t,
		"cars", "purchase", "--premium", "--body", " sedan",
		"--engine", "v6", "--drive", "awd", "--colour", "black ",
	)
	require.NoError(t, err)
	assert.Equal(t, "sold for 19350\n", out)

	out, err = execute(t, append([]string{"cars", "purchase"}, blackSedan...)...)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCarNotAvailable)
	assert.Equal(t, 2, soldCars(t))

	_, err = execute(t, "cars", "reset")
	assert.Error(t, err, "IDs or --all are required")
	_, err = execute(t, "cars", "reset", "--all", "1")
	assert.Error(t, err, "IDs and --all are mutually exclusive")
	_, err = execute(t, "cars", "reset", "one")
	assert.Error(t, err, "IDs must be integers")

	out, err = execute(t, "cars", "reset", "1", "2")
	require.NoError(t, err, out)
	assert.Equal(t, "cars are available\n", out)
	assert.Equal(t, 0, soldCars(t))

	out, err = execute(t,
		"cars", "add", "--body", "coupe", "--engine", "v8",
		"--drive", "rwd", "--colour", "yellow", "--price", "55000.75",
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "is added")

	_, err = execute(t, "cars", "add", "--body", "coupe")
	assert.Error(t, err, "missing fields must be rejected")

	out, err = execute(t, "cars", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "coupe")
	assert.Contains(t, out, "55000.75")

	out, err = execute(t, "cars", "list", "--json")
	require.NoError(t, err, out)
	var cs []model.Car
	require.NoError(t, json.Unmarshal([]byte(out), &cs))
	assert.Len(t, cs, len(schemarp.DevCatalog)+1)

	_, err = execute(t, append([]string{"cars", "purchase"}, blackSedan...)...)
	require.NoError(t, err)
	out, err = execute(t, "cars", "reset", "--all")
	require.NoError(t, err, out)
	assert.Equal(t, 0, soldCars(t))
}
