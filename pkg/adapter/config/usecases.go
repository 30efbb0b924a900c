// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"

	"github.com/momeni/cardealer/pkg/adapter/config/settings"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/momeni/cardealer/pkg/core/repo"
	"github.com/momeni/cardealer/pkg/core/usecase/carsuc"
)

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Cars Cars // cars use cases related settings
}

// Cars contains the configuration settings for the cars use cases.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized. Missing settings are left nil, so the
// use cases layer may select a default value.
type Cars struct {
	// Discount is the discount rate of standard purchases, e.g., 0.1
	// for a 10% discount. The standard pricing is used if it is nil.
	Discount *settings.Decimal `yaml:"discount"`
	// PremiumDiscount is the discount rate of premium purchases.
	PremiumDiscount *settings.Decimal `yaml:"premium-discount"`
	// PremiumMinimumPrice is the minimum base price of cars which are
	// eligible for premium purchases.
	PremiumMinimumPrice *settings.Decimal `yaml:"premium-minimum-price"`
	// PurchaseTimeout bounds the duration of each purchase.
	PurchaseTimeout *settings.Duration `yaml:"purchase-timeout"`
	// MinPurchaseTimeout is the inclusive minimum acceptable value
	// for the PurchaseTimeout setting.
	// A missing value indicates that there is no lower bound.
	MinPurchaseTimeout *settings.Duration `yaml:"purchase-timeout-minimum"`
	// MaxPurchaseTimeout is the inclusive maximum acceptable value
	// for the PurchaseTimeout setting.
	// A missing value indicates that there is no upper bound.
	MaxPurchaseTimeout *settings.Duration `yaml:"purchase-timeout-maximum"`
}

// ValidateAndNormalize checks the discount rates, the premium minimum
// price, and the purchase timeout boundaries.
func (c *Cars) ValidateAndNormalize() error {
	if _, err := c.pricing(c.Discount); err != nil {
		return fmt.Errorf("discount: %w", err)
	}
	if _, err := c.pricing(c.PremiumDiscount); err != nil {
		return fmt.Errorf("premium-discount: %w", err)
	}
	zero := settings.Decimal{}
	if err := settings.VerifyDecimalRange(
		&c.PremiumMinimumPrice, &zero, nil,
	); err != nil {
		return fmt.Errorf("premium-minimum-price: %w", err)
	}
	if t := c.PurchaseTimeout; t != nil && *t <= 0 {
		return fmt.Errorf("purchase-timeout (%s) is not positive", *t.Marshal())
	}
	if err := settings.VerifyRange(
		&c.PurchaseTimeout, c.MinPurchaseTimeout, c.MaxPurchaseTimeout,
	); err != nil {
		return fmt.Errorf(
			"VerifyRange(purchase timeout, minb=%v, maxb=%v): %w",
			c.MinPurchaseTimeout.LogValue(),
			c.MaxPurchaseTimeout.LogValue(),
			err,
		)
	}
	return nil
}

// pricing converts the rate discount setting to a pricing strategy.
// A nil rate results in a nil strategy.
func (c *Cars) pricing(rate *settings.Decimal) (model.PricingStrategy, error) {
	if rate == nil {
		return nil, nil
	}
	return model.NewDiscountPricing(rate.Std())
}

// NewUseCase instantiates a new cars use case based on the settings
// in the `c` struct.
func (c Cars) NewUseCase(
	p repo.Pool, r repo.Cars,
) (*carsuc.UseCase, error) {
	opts := make([]carsuc.Option, 0, 4)
	ps, err := c.pricing(c.Discount)
	if err != nil {
		return nil, fmt.Errorf("discount: %w", err)
	}
	if ps != nil {
		opts = append(opts, carsuc.WithPricing(ps))
	}
	ps, err = c.pricing(c.PremiumDiscount)
	if err != nil {
		return nil, fmt.Errorf("premium-discount: %w", err)
	}
	if ps != nil {
		opts = append(opts, carsuc.WithPremiumPricing(ps))
	}
	if m := c.PremiumMinimumPrice; m != nil && !m.Std().IsZero() {
		opts = append(opts, carsuc.WithPremiumMinPrice(m.Std()))
	}
	if t := c.PurchaseTimeout; t != nil {
		opts = append(opts, carsuc.WithPurchaseTimeout(t.Std()))
	}
	return carsuc.New(p, r, opts...)
}

// MarshalledCars is the serializable version of the Cars settings.
type MarshalledCars struct {
	Discount        *string `yaml:"discount,omitempty"`
	PremiumDiscount *string `yaml:"premium-discount,omitempty"`
	PremiumMinPrice *string `yaml:"premium-minimum-price,omitempty"`
	Timeout         *string `yaml:"purchase-timeout,omitempty"`
	MinTimeout      *string `yaml:"purchase-timeout-minimum,omitempty"`
	MaxTimeout      *string `yaml:"purchase-timeout-maximum,omitempty"`
}

// Marshal creates a MarshalledCars instance from the `c` settings.
func (c Cars) Marshal() MarshalledCars {
	return MarshalledCars{
		Discount:        c.Discount.Marshal(),
		PremiumDiscount: c.PremiumDiscount.Marshal(),
		PremiumMinPrice: c.PremiumMinimumPrice.Marshal(),
		Timeout:         c.PurchaseTimeout.Marshal(),
		MinTimeout:      c.MinPurchaseTimeout.Marshal(),
		MaxTimeout:      c.MaxPurchaseTimeout.Marshal(),
	}
}
