// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/cardealer/pkg/core/log"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/momeni/cardealer/pkg/core/repo"
)

// Command is an administrative operation which may be constructed
// with its parameters ahead of time and executed later.
type Command interface {
	Execute(ctx context.Context) error
}

// ResetOneCommand makes one car available again.
// Resetting an available car is a successful no-op.
type ResetOneCommand struct {
	pool   repo.Pool
	carsrp repo.Cars
	id     int64
}

// NewResetOne instantiates a ResetOneCommand for the id car.
func NewResetOne(p repo.Pool, c repo.Cars, id int64) *ResetOneCommand {
	return &ResetOneCommand{pool: p, carsrp: c, id: id}
}

// Execute runs the cmd command. Missing cars are reported by an error
// wrapping model.ErrCarNotFound (classified as cerr.NotFound).
func (cmd *ResetOneCommand) Execute(ctx context.Context) error {
	err := cmd.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cmd.carsrp.Conn(c)
		return q.SetStatus(ctx, cmd.id, model.StatusAvailable)
	})
	if err != nil {
		return classify(fmt.Errorf("resetting car #%d: %w", cmd.id, err))
	}
	log.Info(ctx, "car is reset", slog.Int64("id", cmd.id))
	return nil
}

// ResetAllCommand makes all cars available again in one bulk update.
// Concurrent purchases either commit before it (and their cars are
// reset) or after it (and find available cars).
type ResetAllCommand struct {
	pool   repo.Pool
	carsrp repo.Cars
}

// NewResetAll instantiates a ResetAllCommand.
func NewResetAll(p repo.Pool, c repo.Cars) *ResetAllCommand {
	return &ResetAllCommand{pool: p, carsrp: c}
}

// Execute runs the cmd command.
func (cmd *ResetAllCommand) Execute(ctx context.Context) error {
	var n int64
	err := cmd.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		q := cmd.carsrp.Conn(c)
		n, err = q.ResetAll(ctx)
		return err
	})
	if err != nil {
		return classify(fmt.Errorf("resetting all cars: %w", err))
	}
	log.Info(ctx, "all cars are reset", slog.Int64("previously-sold", n))
	return nil
}

// NewResetOne instantiates a ResetOneCommand for the id car which
// shares the database pool and repository of the cars use case.
func (cars *UseCase) NewResetOne(id int64) *ResetOneCommand {
	return NewResetOne(cars.pool, cars.carsrp, id)
}

// NewResetAll instantiates a ResetAllCommand which shares the database
// pool and repository of the cars use case.
func (cars *UseCase) NewResetAll() *ResetAllCommand {
	return NewResetAll(cars.pool, cars.carsrp)
}

// Run executes cmds in order and stops on the first failing command.
func (cars *UseCase) Run(ctx context.Context, cmds ...Command) error {
	for i, cmd := range cmds {
		if err := cmd.Execute(ctx); err != nil {
			if len(cmds) == 1 {
				return err
			}
			return fmt.Errorf("command #%d: %w", i, err)
		}
	}
	return nil
}

// ResetOne use case makes the id car available again.
func (cars *UseCase) ResetOne(ctx context.Context, id int64) error {
	return cars.Run(ctx, cars.NewResetOne(id))
}

// ResetAll use case makes all cars available again.
func (cars *UseCase) ResetAll(ctx context.Context) error {
	return cars.Run(ctx, cars.NewResetAll())
}
