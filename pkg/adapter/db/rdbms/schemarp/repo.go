// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp provides a reification of the repo.Schema interface
// making it possible to drop and create the inventory tables.
package schemarp

import (
	"context"
	"fmt"

	"github.com/momeni/cardealer/pkg/adapter/db/rdbms"
	"github.com/momeni/cardealer/pkg/adapter/db/rdbms/carsrp"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/momeni/cardealer/pkg/core/repo"
)

// Repo represents a schema management repository.
type Repo struct {
}

// New instantiates a schema management Repo struct. Although this New
// function does not perform complex operations, and users may use
// a &schemarp.Repo{} directly too, but this method improves the code
// readability as schemarp.New() makes the package to look alike a
// data type.
func New() *Repo {
	return &Repo{}
}

type txQueryer struct {
	*rdbms.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *rdbms.Tx as created by the rdbms adapter. Otherwise, it will
// panic. Tables are created in a transaction, so a failed
// initialization can be repeated without manual cleanups.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaInitializer {
	tt := tx.(*rdbms.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) DropIfExists(ctx context.Context) error {
	return carsrp.Drop(ctx, tq.Tx)
}

func (tq txQueryer) InitDevSchema(ctx context.Context) error {
	if err := carsrp.Migrate(ctx, tq.Tx); err != nil {
		return err
	}
	for i, f := range DevCatalog {
		c, err := model.BuildNew(f)
		if err != nil {
			return fmt.Errorf("dev catalog item #%d: %w", i, err)
		}
		if _, err = carsrp.Create(ctx, tq.Tx, c); err != nil {
			return fmt.Errorf("dev catalog item #%d: %w", i, err)
		}
	}
	return nil
}

func (tq txQueryer) InitProdSchema(ctx context.Context) error {
	return carsrp.Migrate(ctx, tq.Tx)
}

// DevCatalog lists the cars which are added by InitDevSchema, in order.
// Some configurations are repeated deliberately, so the purchase of
// identically configured cars can be tried.
var DevCatalog = []model.CarForm{
	{Body: "sedan", EngineType: "v6", DriveType: "awd", Colour: "black", Price: "20000"},
	{Body: "sedan", EngineType: "v6", DriveType: "awd", Colour: "black", Price: "21500"},
	{Body: "sedan", EngineType: "i4", DriveType: "fwd", Colour: "white", Price: "14500"},
	{Body: "hatchback", EngineType: "i4", DriveType: "fwd", Colour: "red", Price: "12000"},
	{Body: "hatchback", EngineType: "electric", DriveType: "rwd", Colour: "blue", Price: "27990.50"},
	{Body: "suv", EngineType: "v8", DriveType: "awd", Colour: "silver", Price: "41000"},
	{Body: "suv", EngineType: "hybrid", DriveType: "awd", Colour: "green", Price: "35250"},
	{Body: "coupe", EngineType: "v8", DriveType: "rwd", Colour: "yellow", Price: "52000"},
}
