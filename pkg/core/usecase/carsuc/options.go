// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"errors"
	"fmt"
	"time"

	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/shopspring/decimal"
)

// Option is a functional option for the cars use case.
type Option func(uc *UseCase) error

// WithPricing option configures a cars UseCase instance in order to
// compute the final price of standard purchases using the ps pricing
// strategy. The StandardPricing is used if this option is not passed.
// The strategy may be swapped later using the SetPricing method.
func WithPricing(ps model.PricingStrategy) Option {
	return func(uc *UseCase) error {
		if ps == nil {
			return errors.New("pricing strategy is nil")
		}
		if uc.pricing != nil {
			return errors.New("pricing strategy is already configured")
		}
		uc.pricing = ps
		return nil
	}
}

// WithPremiumPricing option configures the pricing strategy of premium
// purchases. A discount of DefaultPremiumDiscount is used otherwise.
func WithPremiumPricing(ps model.PricingStrategy) Option {
	return func(uc *UseCase) error {
		if ps == nil {
			return errors.New("premium pricing strategy is nil")
		}
		if uc.premiumPricing != nil {
			return errors.New("premium pricing strategy is already configured")
		}
		uc.premiumPricing = ps
		return nil
	}
}

// WithPremiumMinPrice option configures the minimum base price of cars
// which may be purchased with the premium pricing strategy.
// Cars with a lower base price are not eligible for premium purchases.
// All cars are eligible if this option is not passed.
func WithPremiumMinPrice(minPrice decimal.Decimal) Option {
	return func(uc *UseCase) error {
		if minPrice.IsNegative() {
			return fmt.Errorf(
				"premium minimum price (%s) is negative", minPrice,
			)
		}
		if !uc.premiumMinPrice.IsZero() {
			return errors.New("premium minimum price is already configured")
		}
		uc.premiumMinPrice = minPrice
		return nil
	}
}

// WithPurchaseTimeout option configures a cars UseCase instance in
// order to abort those purchases which can not be committed in the
// given timeout. An aborted purchase has no side effects, so the car
// remains available. Purchases only obey their caller context if this
// option is not passed.
func WithPurchaseTimeout(timeout time.Duration) Option {
	return func(uc *UseCase) error {
		if d := int64(timeout); d <= 0 {
			return fmt.Errorf("timeout (%d) is not positive", d)
		}
		if uc.purchaseTimeout != 0 {
			return errors.New("timeout is already configured")
		}
		uc.purchaseTimeout = timeout
		return nil
	}
}
