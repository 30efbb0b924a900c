// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rdbms is an adapter which implements the repo.Pool, repo.Conn,
// and repo.Tx interfaces using the GORM framework. The same adapter
// serves a PostgreSQL DBMS server (see NewPostgresPool) and a local
// SQLite database file (see NewSQLitePool), so the repository packages
// which are implemented over the Queryer type constraint are usable
// with both of them.
package rdbms

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/momeni/cardealer/pkg/core/repo"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool represents a database connection pool.
// It is safe to be used concurrently. Use Conn in order to obtain one
// connection and run statements on it.
type Pool struct {
	*gorm.DB

	dialect string
}

// Dialect names which are reported by the Pool.Dialect method.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// newPool opens a GORM instance using the d dialector, lets the tune
// function to adjust the underlying *sql.DB (if non-nil), and tests it
// by obtaining one connection.
func newPool(
	ctx context.Context,
	dialect string,
	d gorm.Dialector,
	tune func(*sql.DB),
) (*Pool, error) {
	gdb, err := gorm.Open(d, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	if tune != nil {
		db, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("gorm.DB.DB: %w", err)
		}
		tune(db)
	}
	gdb = gdb.Session(&gorm.Session{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			}),
	})
	pool := &Pool{DB: gdb, dialect: dialect}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

// NoOpConnHandler is a ConnHandler which does nothing. It is useful
// for testing the connectivity of a Pool.
func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn obtains one connection from the p pool and passes it to the f
// handler. The connection is released after f returns.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
}

// Dialect returns either of DialectPostgres or DialectSQLite.
func (p *Pool) Dialect() string {
	return p.dialect
}

// Close closes all connections of the p pool.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
