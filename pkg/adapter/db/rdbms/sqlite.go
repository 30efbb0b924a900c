// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rdbms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
)

// SQLiteBusyTimeout is the number of milliseconds which a statement
// waits for a database file which is locked by another process.
const SQLiteBusyTimeout = 5000

// NewSQLitePool opens (or creates) the SQLite database file at path.
// The returned pool holds exactly one connection, so statements and
// transactions of concurrent callers are serialized. Transactions are
// begun with an immediate write lock, so other processes which open
// the same file can not interleave their writes either.
func NewSQLitePool(ctx context.Context, path string) (*Pool, error) {
	if path == "" {
		return nil, errors.New("sqlite database path is empty")
	}
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprint(SQLiteBusyTimeout))
	q.Set("_journal_mode", "WAL")
	q.Set("_txlock", "immediate")
	dsn := "file:" + path + "?" + q.Encode()
	return newPool(ctx, DialectSQLite, sqlite.Open(dsn), func(db *sql.DB) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	})
}

func isTransientSQLiteErr(err error) bool {
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	return sqlErr.Code == sqlite3.ErrBusy || sqlErr.Code == sqlite3.ErrLocked
}

// IsTransient reports if err indicates a temporary failure of the
// database, such as a lock which could not be acquired in time, so
// the failed operation may be retried later.
func IsTransient(err error) bool {
	return isTransientPostgresErr(err) || isTransientSQLiteErr(err)
}
