// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// The Car model is a status-tagged record. Its Status field selects the
// transitions which are permitted on it (see Car.Sell and Car.Reset),
// so there is no need for a separate type per status. Cars are treated
// as values; transitions return new instances and never mutate the
// receiver, so a car which is shared between go routines can not be
// observed in an intermediate state.
package model

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
)

// Car models a car record of the inventory.
// The ID is assigned by the record store and is zero for cars which
// are not persisted yet (see BuildNew). The Body, EngineType,
// DriveType, and Colour fields form a configuration key which is not
// unique, so several identically configured cars may coexist.
type Car struct {
	ID         int64           `json:"id"`
	Body       string          `json:"body"`
	EngineType string          `json:"engine"`
	DriveType  string          `json:"drive"`
	Colour     string          `json:"colour"`
	Price      decimal.Decimal `json:"price"`
	Status     Status          `json:"status"`
}

// Criteria returns the configuration key of the c car, so it may be
// compared with a purchase request.
func (c Car) Criteria() Criteria {
	return Criteria{
		Body:       c.Body,
		EngineType: c.EngineType,
		DriveType:  c.DriveType,
		Colour:     c.Colour,
	}
}

// Sell performs the Available to Sold transition. The c receiver is not
// modified and the sold car is returned instead. Calling Sell on a car
// which is already sold fails with ErrAlreadySold.
func (c Car) Sell() (Car, error) {
	switch c.Status {
	case StatusAvailable:
		c.Status = StatusSold
		return c, nil
	case StatusSold:
		return c, ErrAlreadySold
	default:
		return c, c.Status.Validate()
	}
}

// Reset returns a copy of the c car which is available again.
// It represents a refund of a sold car or an administrative override,
// and is idempotent for available cars.
func (c Car) Reset() Car {
	c.Status = StatusAvailable
	return c
}

// Persisted reports if c car has an ID, as assigned by a record store.
func (c Car) Persisted() bool {
	return c.ID != 0
}

// String returns a human-readable description of the c car, like
// "sedan v6 awd black - 20000 - available".
func (c Car) String() string {
	return fmt.Sprintf(
		"%s %s %s %s - %s - %s",
		c.Body, c.EngineType, c.DriveType, c.Colour,
		c.Price.String(), c.Status.String(),
	)
}

// LogValue implements slog.LogValuer, so a car may be logged as a
// group of its identifying attributes.
func (c Car) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("id", c.ID),
		slog.String("body", c.Body),
		slog.String("engine", c.EngineType),
		slog.String("drive", c.DriveType),
		slog.String("colour", c.Colour),
		slog.String("price", c.Price.String()),
		slog.String("status", c.Status.String()),
	)
}

// Criteria is the (body, engine, drive, colour) tuple which is used in
// order to locate a purchasable car. Since configurations are not
// unique, a Criteria may match several cars.
type Criteria struct {
	Body       string `json:"body"`
	EngineType string `json:"engine"`
	DriveType  string `json:"drive"`
	Colour     string `json:"colour"`
}

// Trimmed returns a copy of cr with its fields trimmed, the same way
// that BuildNew trims the configuration of new cars.
func (cr Criteria) Trimmed() Criteria {
	return Criteria{
		Body:       strings.TrimSpace(cr.Body),
		EngineType: strings.TrimSpace(cr.EngineType),
		DriveType:  strings.TrimSpace(cr.DriveType),
		Colour:     strings.TrimSpace(cr.Colour),
	}
}

// Validate returns a *ValidationError if any of the criteria fields
// is empty. Otherwise, it returns nil.
func (cr Criteria) Validate() error {
	var verr *ValidationError
	verr = verr.require("body", cr.Body)
	verr = verr.require("engine", cr.EngineType)
	verr = verr.require("drive", cr.DriveType)
	verr = verr.require("colour", cr.Colour)
	if verr != nil {
		return verr
	}
	return nil
}

// LogValue implements slog.LogValuer.
func (cr Criteria) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("body", cr.Body),
		slog.String("engine", cr.EngineType),
		slog.String("drive", cr.DriveType),
		slog.String("colour", cr.Colour),
	)
}
