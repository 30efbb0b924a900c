// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemauc contains the database initialization use case.
// Tables are always created from scratch for the latest format, so
// there is no support for migrating an existing database.
package schemauc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/cardealer/pkg/core/log"
	"github.com/momeni/cardealer/pkg/core/repo"
)

// InitDBUseCase represents the database initialization use case. It may
// be used to initialize database with development or production
// suitable data as asked by the InitDev and InitProd methods.
type InitDBUseCase struct {
	pool       repo.Pool
	schemaRepo repo.Schema
}

// NewInitDB creates an InitDBUseCase instance which drops and creates
// the inventory tables on the p database using the s schema repo.
func NewInitDB(p repo.Pool, s repo.Schema) *InitDBUseCase {
	return &InitDBUseCase{pool: p, schemaRepo: s}
}

// InitProd drops the inventory tables (if they exist) and creates them
// again, leaving them empty. All steps are performed in a single
// transaction, so the old tables are kept if the initialization fails.
func (iduc *InitDBUseCase) InitProd(ctx context.Context) error {
	return iduc.initDB(
		ctx, "prod",
		func(ctx context.Context, si repo.SchemaInitializer) error {
			return si.InitProdSchema(ctx)
		},
	)
}

// InitDev drops the inventory tables (if they exist) and creates them
// again, filling them with a sample catalog of cars. All steps are
// performed in a single transaction.
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	return iduc.initDB(
		ctx, "dev",
		func(ctx context.Context, si repo.SchemaInitializer) error {
			return si.InitDevSchema(ctx)
		},
	)
}

func (iduc *InitDBUseCase) initDB(
	ctx context.Context,
	mode string,
	dbi func(ctx context.Context, si repo.SchemaInitializer) error,
) error {
	err := iduc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si := iduc.schemaRepo.Tx(tx)
			if err := si.DropIfExists(ctx); err != nil {
				return fmt.Errorf("dropping tables: %w", err)
			}
			if err := dbi(ctx, si); err != nil {
				return fmt.Errorf("initializing %s schema: %w", mode, err)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	log.Info(ctx, "database is initialized", slog.String("mode", mode))
	return nil
}
