// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars UseCase which supports the
// inventory related use cases. Currently, these uses cases are
// supported:
//  1. Purchasing a car (standard or premium), see Purchase,
//  2. Resetting one or all cars to the available status, see Command,
//  3. Listing the inventory and adding new cars to it,
//  4. Fetching and swapping the standard pricing strategy.
package carsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/momeni/cardealer/pkg/core/cerr"
	"github.com/momeni/cardealer/pkg/core/log"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/momeni/cardealer/pkg/core/repo"
	"github.com/shopspring/decimal"
)

// UseCase represents a cars use case. It holds a database connection
// pool, the cars repository instance (to be guided with the DB pool),
// and the cars use case specific settings.
// A UseCase is safe for concurrent use. It keeps no car records in
// memory, so every operation observes the latest stored state.
type UseCase struct {
	pool   repo.Pool
	carsrp repo.Cars

	// rwlock protects the pricing field which may be swapped by the
	// SetPricing method while purchases are in progress.
	rwlock  sync.RWMutex
	pricing model.PricingStrategy

	premiumPricing  model.PricingStrategy
	premiumMinPrice decimal.Decimal
	purchaseTimeout time.Duration
}

// New instantiates a cars use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(p repo.Pool, c repo.Cars, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, carsrp: c}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.pricing == nil {
		uc.pricing = model.StandardPricing{}
	}
	if uc.premiumPricing == nil {
		dp, err := model.NewDiscountPricing(DefaultPremiumDiscount)
		if err != nil {
			return nil, fmt.Errorf("default premium pricing: %w", err)
		}
		uc.premiumPricing = dp
	}
	return uc, nil
}

// DefaultPremiumDiscount is the discount rate of premium purchases
// unless the WithPremiumPricing option configures another strategy.
var DefaultPremiumDiscount = decimal.RequireFromString("0.1")

// Pricing returns the current standard pricing strategy.
func (cars *UseCase) Pricing() model.PricingStrategy {
	cars.rwlock.RLock()
	defer cars.rwlock.RUnlock()
	return cars.pricing
}

// SetPricing swaps the standard pricing strategy. Purchases which have
// already resolved their processor keep using the previous strategy.
// A nil ps is rejected with a cerr.BadRequest error.
func (cars *UseCase) SetPricing(ctx context.Context, ps model.PricingStrategy) error {
	if ps == nil {
		return cerr.BadRequest(errors.New("nil pricing strategy"))
	}
	cars.rwlock.Lock()
	old := cars.pricing
	cars.pricing = ps
	cars.rwlock.Unlock()
	log.Info(
		ctx, "standard pricing strategy is swapped",
		slog.String("old", old.Name()),
		slog.String("new", ps.Name()),
	)
	return nil
}

// List use case returns all cars of the inventory, ordered by their
// IDs, as they are stored right now.
func (cars *UseCase) List(ctx context.Context) (cs []model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		cs, err = q.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// Get use case returns the id car or an error wrapping
// model.ErrCarNotFound (classified as cerr.NotFound).
func (cars *UseCase) Get(ctx context.Context, id int64) (car model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		car, err = q.Get(ctx, id)
		return err
	})
	if err != nil {
		return model.Car{}, classify(err)
	}
	return car, nil
}

// Add use case builds a new car from the f form fields and adds it to
// the inventory as an available car. The persisted car, having its
// store-assigned ID, is returned. Invalid fields are reported by a
// *model.ValidationError (classified as cerr.BadRequest).
func (cars *UseCase) Add(ctx context.Context, f model.CarForm) (car model.Car, err error) {
	car, err = model.BuildNew(f)
	if err != nil {
		return model.Car{}, cerr.BadRequest(err)
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		car, err = q.Create(ctx, car)
		return err
	})
	if err != nil {
		return model.Car{}, err
	}
	log.Info(ctx, "car is added", log.Valuer("car", car))
	return car, nil
}

// classify wraps the inventory sentinel errors with their relevant
// cerr classification, so adapters can report them properly.
// Unknown errors are returned unchanged.
func classify(err error) error {
	switch {
	case errors.Is(err, model.ErrCarNotFound):
		return cerr.NotFound(err)
	case errors.Is(err, model.ErrCarNotAvailable),
		errors.Is(err, model.ErrNotEligible):
		return cerr.Conflict(err)
	case errors.Is(err, context.DeadlineExceeded):
		return cerr.Unavailable(err)
	default:
		return err
	}
}
