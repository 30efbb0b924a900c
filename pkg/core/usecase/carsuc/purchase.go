// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/cardealer/pkg/core/cerr"
	"github.com/momeni/cardealer/pkg/core/log"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/momeni/cardealer/pkg/core/repo"
	"github.com/shopspring/decimal"
)

// Processor is the variable step of a purchase. It takes the car which
// is located for a purchase request and returns its sold version and
// the final price which must be reported to the buyer, or an error if
// the purchase must be refused. A Processor may not have side effects
// because its result is discarded if the purchase can not be committed.
type Processor interface {
	ProcessPurchase(car model.Car) (sold model.Car, price decimal.Decimal, err error)
}

// ClientPurchase is the standard purchase processor. It sells available
// cars and computes their final price using its Pricing strategy.
type ClientPurchase struct {
	Pricing model.PricingStrategy
}

// ProcessPurchase implements the Processor interface.
func (cp ClientPurchase) ProcessPurchase(
	car model.Car,
) (model.Car, decimal.Decimal, error) {
	return sell(car, cp.Pricing)
}

// PremiumPurchase is a purchase processor which only accepts cars with
// a base price of at least MinPrice and computes their final price
// using its Pricing strategy.
type PremiumPurchase struct {
	Pricing  model.PricingStrategy
	MinPrice decimal.Decimal
}

// ProcessPurchase implements the Processor interface.
// Ineligible cars are refused with model.ErrNotEligible, unless they
// are sold already, which takes precedence.
func (pp PremiumPurchase) ProcessPurchase(
	car model.Car,
) (model.Car, decimal.Decimal, error) {
	if car.Status == model.StatusAvailable && car.Price.LessThan(pp.MinPrice) {
		return car, decimal.Zero, fmt.Errorf(
			"car #%d with price %s (minimum %s): %w",
			car.ID, car.Price, pp.MinPrice, model.ErrNotEligible,
		)
	}
	return sell(car, pp.Pricing)
}

func sell(
	car model.Car, ps model.PricingStrategy,
) (model.Car, decimal.Decimal, error) {
	sold, err := car.Sell()
	if err != nil {
		return car, decimal.Zero, fmt.Errorf(
			"car #%d: %w: %w", car.ID, model.ErrCarNotAvailable, err,
		)
	}
	if ps == nil {
		ps = model.StandardPricing{}
	}
	return sold, ps.FinalPrice(car.Price), nil
}

// Purchase use case sells one available car which matches with the cr
// criteria using the current standard pricing strategy and returns
// its final price. See PurchaseWith for details.
func (cars *UseCase) Purchase(
	ctx context.Context, cr model.Criteria,
) (decimal.Decimal, error) {
	return cars.PurchaseWith(ctx, cr, ClientPurchase{
		Pricing: cars.Pricing(),
	})
}

// PurchasePremium use case sells one available car which matches with
// the cr criteria using the premium pricing strategy. Cars which are
// cheaper than the configured premium minimum price are not eligible.
func (cars *UseCase) PurchasePremium(
	ctx context.Context, cr model.Criteria,
) (decimal.Decimal, error) {
	return cars.PurchaseWith(ctx, cr, PremiumPurchase{
		Pricing:  cars.premiumPricing,
		MinPrice: cars.premiumMinPrice,
	})
}

// PurchaseWith use case locates a car which matches with the cr
// criteria, lets the proc processor to check and price it, and marks
// it as sold. All steps are performed in one transaction and the sold
// status is written with a compare-and-set operation, so among many
// concurrent purchases of the same car, at most one may succeed and
// others fail with an error wrapping model.ErrCarNotAvailable.
// The price is only returned after the transaction is committed, so a
// failed or cancelled purchase leaves the car available.
//
// Returned errors are classified by the cerr package, as follows:
//   - invalid criteria, cerr.BadRequest wrapping *model.ValidationError,
//   - no matching car, cerr.NotFound wrapping model.ErrCarNotFound,
//   - sold car or a lost race, cerr.Conflict wrapping
//     model.ErrCarNotAvailable,
//   - ineligible car, cerr.Conflict wrapping model.ErrNotEligible.
func (cars *UseCase) PurchaseWith(
	ctx context.Context, cr model.Criteria, proc Processor,
) (decimal.Decimal, error) {
	if err := cr.Validate(); err != nil {
		return decimal.Zero, cerr.BadRequest(err)
	}
	if cars.purchaseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cars.purchaseTimeout)
		defer cancel()
	}
	var sold model.Car
	var price decimal.Decimal
	err := cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := cars.carsrp.Tx(tx)
			car, err := q.FindOne(ctx, cr)
			if err != nil {
				return err
			}
			sold, price, err = proc.ProcessPurchase(car)
			if err != nil {
				return err
			}
			return q.CompareAndSetStatus(
				ctx, car.ID, car.Status, sold.Status,
			)
		})
	})
	if err != nil {
		log.Warn(
			ctx, "purchase is refused",
			log.Valuer("criteria", cr),
			log.Err("err", err),
		)
		return decimal.Zero, classify(err)
	}
	log.Info(
		ctx, "car is sold",
		slog.Int64("id", sold.ID),
		log.Decimal("price", price),
	)
	return price, nil
}
