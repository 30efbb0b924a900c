// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/cardealer/pkg/core/model"
)

type CarsConnQueryer interface {
	CarsQueryer
}

type CarsTxQueryer interface {
	CarsQueryer
}

// CarsQueryer is the record store interface of the cars inventory.
// All methods are request-scoped and keep no state between calls.
// Missing records are reported by errors wrapping model.ErrCarNotFound
// and stored rows which can not be reconstructed are reported by a
// *model.MalformedRecordError.
type CarsQueryer interface {
	// List returns all cars ordered by their IDs.
	List(ctx context.Context) ([]model.Car, error)

	// Get returns the car with the given id.
	Get(ctx context.Context, id int64) (model.Car, error)

	// FindOne returns one car matching with the cr criteria. Among the
	// matching cars, the available car with the lowest ID is chosen.
	// If all matching cars are sold, the sold car with the lowest ID
	// is returned, so callers can distinguish a sold car from a
	// missing car.
	FindOne(ctx context.Context, cr model.Criteria) (model.Car, error)

	// Create persists the car c, which must not have an ID, and
	// returns it with its store-assigned ID.
	Create(ctx context.Context, c model.Car) (model.Car, error)

	// CompareAndSetStatus atomically changes the status of the id car
	// to the `to` status if and only if its current status is equal to
	// `from`. If the car exists, but has another status, an error
	// wrapping model.ErrCarNotAvailable is returned and nothing is
	// changed.
	CompareAndSetStatus(
		ctx context.Context, id int64, from, to model.Status,
	) error

	// SetStatus unconditionally changes the status of the id car.
	SetStatus(ctx context.Context, id int64, st model.Status) error

	// ResetAll makes all cars available with a single bulk statement
	// and returns the number of cars which were sold beforehand.
	ResetAll(ctx context.Context) (int64, error)
}

type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}
