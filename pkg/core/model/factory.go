// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// StoredCar contains the fields of a car record exactly as they are
// kept by a record store. The Sold field is the storage boundary
// marker of the car status (see Status.Marker).
type StoredCar struct {
	ID         int64
	Body       string
	EngineType string
	DriveType  string
	Colour     string
	Price      decimal.Decimal
	Sold       *string
}

// Reconstruct converts a stored record to a Car. It is a pure function
// of its argument and fails with a *MalformedRecordError if a required
// field is missing, price is negative, or the status marker is neither
// nil nor SoldMarker.
func Reconstruct(sc StoredCar) (Car, error) {
	var verr *ValidationError
	verr = verr.require("body", sc.Body)
	verr = verr.require("engine", sc.EngineType)
	verr = verr.require("drive", sc.DriveType)
	verr = verr.require("colour", sc.Colour)
	if sc.Price.IsNegative() {
		verr = verr.add("price", "is negative")
	}
	if verr != nil {
		return Car{}, &MalformedRecordError{ID: sc.ID, Err: verr}
	}
	st, err := StatusFromMarker(sc.Sold)
	if err != nil {
		return Car{}, &MalformedRecordError{ID: sc.ID, Err: err}
	}
	return Car{
		ID:         sc.ID,
		Body:       sc.Body,
		EngineType: sc.EngineType,
		DriveType:  sc.DriveType,
		Colour:     sc.Colour,
		Price:      sc.Price,
		Status:     st,
	}, nil
}

// Stored is the inverse of Reconstruct, converting c to its storage
// boundary representation. The c status must be valid.
func (c Car) Stored() StoredCar {
	return StoredCar{
		ID:         c.ID,
		Body:       c.Body,
		EngineType: c.EngineType,
		DriveType:  c.DriveType,
		Colour:     c.Colour,
		Price:      c.Price,
		Sold:       c.Status.Marker(),
	}
}

// PriceScale is the maximum number of decimal places of car prices.
// Together with MaxPrice, it ensures that prices fit in the numeric(12,2)
// columns of the record stores.
const PriceScale = 2

// MaxPrice is the exclusive upper bound of car prices.
var MaxPrice = decimal.New(1, 12-PriceScale)

// CarForm contains the raw input fields for a new catalog entry, as
// they may be received from a web form or CLI flags.
type CarForm struct {
	Body       string
	EngineType string
	DriveType  string
	Colour     string
	Price      string
}

// BuildNew validates the f form fields and builds a new unpersisted
// car which is available and has no ID. All fields are trimmed and
// required. The price must be a non-negative decimal number, less than
// MaxPrice, and may not have more than PriceScale decimal places.
// Invalid fields are reported by a *ValidationError.
func BuildNew(f CarForm) (Car, error) {
	c := Car{
		Body:       strings.TrimSpace(f.Body),
		EngineType: strings.TrimSpace(f.EngineType),
		DriveType:  strings.TrimSpace(f.DriveType),
		Colour:     strings.TrimSpace(f.Colour),
		Status:     StatusAvailable,
	}
	var verr *ValidationError
	verr = verr.require("body", c.Body)
	verr = verr.require("engine", c.EngineType)
	verr = verr.require("drive", c.DriveType)
	verr = verr.require("colour", c.Colour)
	p := strings.TrimSpace(f.Price)
	switch price, err := decimal.NewFromString(p); {
	case p == "":
		verr = verr.add("price", "is required")
	case err != nil:
		verr = verr.add("price", "is not a decimal number")
	case price.IsNegative():
		verr = verr.add("price", "is negative")
	case price.GreaterThanOrEqual(MaxPrice):
		verr = verr.add("price", "is too large")
	case !price.Equal(price.Truncate(PriceScale)):
		verr = verr.add("price", "has more than two decimal places")
	default:
		c.Price = price
	}
	if verr != nil {
		return Car{}, verr
	}
	return c, nil
}

// IsMalformed reports if err chain contains a *MalformedRecordError.
func IsMalformed(err error) bool {
	var mre *MalformedRecordError
	return errors.As(err, &mre)
}
