// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sqlitedb is an internal helper for the test packages.
// It creates a SQLite database file in a temporary directory, connects
// to it using a *rdbms.Pool, and initializes the inventory tables, so
// tests which need a real record store can run without any external
// service.
package sqlitedb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/momeni/cardealer/pkg/adapter/db/rdbms"
	"github.com/momeni/cardealer/pkg/adapter/db/rdbms/schemarp"
	"github.com/momeni/cardealer/pkg/core/usecase/schemauc"
	"github.com/stretchr/testify/require"
)

// New creates an empty inventory in a new SQLite database file and
// returns its connection pool. The pool is closed and the file is
// removed when t finishes.
func New(ctx context.Context, t testing.TB) *rdbms.Pool {
	return open(ctx, t, false)
}

// NewDev is like New, but fills the inventory with the development
// catalog of cars (see schemarp.DevCatalog).
func NewDev(ctx context.Context, t testing.TB) *rdbms.Pool {
	return open(ctx, t, true)
}

func open(ctx context.Context, t testing.TB, dev bool) *rdbms.Pool {
	path := filepath.Join(t.TempDir(), "cars.db")
	pool, err := rdbms.NewSQLitePool(ctx, path)
	require.NoError(t, err, "opening sqlite database %q", path)
	t.Cleanup(func() {
		require.NoError(t, pool.Close(), "closing sqlite pool")
	})
	iduc := schemauc.NewInitDB(pool, schemarp.New())
	if dev {
		err = iduc.InitDev(ctx)
	} else {
		err = iduc.InitProd(ctx)
	}
	require.NoError(t, err, "initializing sqlite database (dev=%v)", dev)
	return pool
}
