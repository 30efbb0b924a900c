// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrp provides a reification of the repo.Cars interface
// which stores cars in the cars table of a PostgreSQL or SQLite
// database, as managed by the rdbms adapter.
package carsrp

import (
	"context"

	"github.com/momeni/cardealer/pkg/adapter/db/rdbms"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/momeni/cardealer/pkg/core/repo"
)

// Repo represents the cars repository.
type Repo struct {
}

// New instantiates a cars Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*rdbms.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *rdbms.Conn as created by the rdbms adapter. Otherwise,
// it will panic.
func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*rdbms.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) List(ctx context.Context) ([]model.Car, error) {
	return List(ctx, cq.Conn)
}

func (cq connQueryer) Get(ctx context.Context, id int64) (model.Car, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) FindOne(ctx context.Context, cr model.Criteria) (model.Car, error) {
	return FindOne(ctx, cq.Conn, cr)
}

func (cq connQueryer) Create(ctx context.Context, c model.Car) (model.Car, error) {
	return Create(ctx, cq.Conn, c)
}

func (cq connQueryer) CompareAndSetStatus(
	ctx context.Context, id int64, from, to model.Status,
) error {
	return CompareAndSetStatus(ctx, cq.Conn, id, from, to)
}

func (cq connQueryer) SetStatus(ctx context.Context, id int64, st model.Status) error {
	return SetStatus(ctx, cq.Conn, id, st)
}

func (cq connQueryer) ResetAll(ctx context.Context) (int64, error) {
	return ResetAll(ctx, cq.Conn)
}

type txQueryer struct {
	*rdbms.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *rdbms.Tx as created by the rdbms adapter. Otherwise, it will
// panic.
func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*rdbms.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) List(ctx context.Context) ([]model.Car, error) {
	return List(ctx, tq.Tx)
}

func (tq txQueryer) Get(ctx context.Context, id int64) (model.Car, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) FindOne(ctx context.Context, cr model.Criteria) (model.Car, error) {
	return FindOne(ctx, tq.Tx, cr)
}

func (tq txQueryer) Create(ctx context.Context, c model.Car) (model.Car, error) {
	return Create(ctx, tq.Tx, c)
}

func (tq txQueryer) CompareAndSetStatus(
	ctx context.Context, id int64, from, to model.Status,
) error {
	return CompareAndSetStatus(ctx, tq.Tx, id, from, to)
}

func (tq txQueryer) SetStatus(ctx context.Context, id int64, st model.Status) error {
	return SetStatus(ctx, tq.Tx, id, st)
}

func (tq txQueryer) ResetAll(ctx context.Context) (int64, error) {
	return ResetAll(ctx, tq.Tx)
}
