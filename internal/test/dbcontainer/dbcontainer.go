// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer is an internal helper for the test packages.
// This packages facilitates creation of a temporary postgres:16
// podman container and connecting to it, using a *rdbms.Pool
// connection pool.
// It may be used in all integration-level test suites which require
// a real PostgreSQL DBMS server. When the DOCKER_HOST environment
// variable is not set, the container can not be created and tests
// are skipped.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/momeni/cardealer/pkg/adapter/db/rdbms"
	"github.com/stretchr/testify/assert"
)

// Available reports if a container engine is configured, so New may
// be called.
func Available() bool {
	return os.Getenv("DOCKER_HOST") != ""
}

// New creates and starts up a postgres podman container.
// The podman.service needs to be started and the DOCKER_HOST
// environment variable needs to be initialized beforehand like
// DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock
// in order to be identified by this function properly.
// The ctx will be used during the container start up and shutdown,
// while the timeout will be considered only during the start up phase.
// If DOCKER_HOST is not set, t is skipped.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *rdbms.Pool,
	dfrs []func(),
	ok bool,
) {
	if !Available() {
		t.Skip("DOCKER_HOST is not set; skipping PostgreSQL tests")
	}
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	dbmsVer := "16"
	pg, err := sqltestutil.StartPostgresContainer(ctx2, dbmsVer)
	ok = assert.NoError(t, err, "failed to set up a test database")
	if !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := pg.Shutdown(ctx)
		assert.NoError(t, err, "failed to shutdown test database")
	})
	pool, err = connect(ctx2, pg.ConnectionString())
	ok = assert.NoError(t, err, "cannot connect to test database")
	if !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := pool.Close()
		assert.NoError(t, err, "failed to close the connections pool")
	})
	return
}

// connect retries to open a pool while the database system is starting
// up (which is reported as a transient error) or network errors are
// seen, until ctx is done.
func connect(ctx context.Context, u string) (*rdbms.Pool, error) {
	for {
		pool, err := rdbms.NewPostgresPool(ctx, u)
		var netErr net.Error
		switch {
		case err == nil:
			return pool, nil
		case ctx.Err() != nil:
			return nil, err
		case rdbms.IsTransient(err), errors.As(err, &netErr):
			time.Sleep(100 * time.Millisecond)
		default:
			return nil, err
		}
	}
}
