// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PricingStrategy computes the final price of a sold car from its base
// price. Implementations must be pure and may never produce a negative
// price for a non-negative base price. Those conditions which could
// violate this rule must be rejected while constructing the strategy.
type PricingStrategy interface {
	FinalPrice(base decimal.Decimal) decimal.Decimal

	// Name returns a short name of the strategy for reporting.
	Name() string
}

// StandardPricing is the identity pricing strategy.
type StandardPricing struct{}

// FinalPrice returns base unchanged.
func (StandardPricing) FinalPrice(base decimal.Decimal) decimal.Decimal {
	return base
}

// Name returns "standard".
func (StandardPricing) Name() string {
	return "standard"
}

// DiscountPricing reduces the base price by a fixed proportion.
// Use NewDiscountPricing in order to create a validated instance.
type DiscountPricing struct {
	rate decimal.Decimal
}

// NewDiscountPricing creates a DiscountPricing which reduces prices by
// the given rate, e.g., 0.1 for a 10% discount. The rate must be in
// the [0, 1) range, otherwise ErrInvalidPricingConfig is returned.
// A rate of 1 is rejected too, because giving cars away is certainly
// a configuration mistake.
func NewDiscountPricing(rate decimal.Decimal) (DiscountPricing, error) {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return DiscountPricing{}, fmt.Errorf(
			"discount rate %s is not in [0, 1): %w",
			rate.String(), ErrInvalidPricingConfig,
		)
	}
	return DiscountPricing{rate: rate}, nil
}

// FinalPrice returns base * (1 - rate).
func (dp DiscountPricing) FinalPrice(base decimal.Decimal) decimal.Decimal {
	return base.Mul(decimal.NewFromInt(1).Sub(dp.rate))
}

// Rate returns the discount rate of dp.
func (dp DiscountPricing) Rate() decimal.Decimal {
	return dp.rate
}

// Name returns a name like "discount-10%".
func (dp DiscountPricing) Name() string {
	pct := dp.rate.Mul(decimal.NewFromInt(100))
	return "discount-" + pct.String() + "%"
}
