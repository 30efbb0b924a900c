// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rdbms

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/momeni/cardealer/pkg/core/repo"
	"gorm.io/gorm"
)

// rowsAdapter wraps *sql.Rows in order to implement repo.Rows.
type rowsAdapter struct {
	*sql.Rows
}

func (ra rowsAdapter) Close() {
	// returned error may be checked by calling the Err() method
	_ = ra.Rows.Close()
}

// Values scans the current row into a slice of dynamically typed values
// with one item per column.
func (ra rowsAdapter) Values() ([]any, error) {
	names, err := ra.Columns()
	if err != nil {
		return nil, fmt.Errorf("column-names: %w", err)
	}
	vals := make([]any, len(names))
	valPtrs := make([]any, 0, len(names))
	for i := range vals {
		valPtrs = append(valPtrs, &vals[i])
	}
	err = ra.Scan(valPtrs...)
	return vals, err
}

func exec(ctx context.Context, gdb *gorm.DB, sql string, args ...any) (int64, error) {
	tt := gdb.WithContext(ctx).Exec(sql, args...)
	if err := tt.Error; err != nil {
		return 0, err
	}
	return tt.RowsAffected, nil
}

func query(ctx context.Context, gdb *gorm.DB, sql string, args ...any) (repo.Rows, error) {
	rows, err := gdb.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	return rowsAdapter{rows}, nil
}
