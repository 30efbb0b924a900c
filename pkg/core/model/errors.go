// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// These sentinel errors describe the inventory failure conditions.
// Similar to ErrUnknownStatus, they do not carry the arguments of the
// failed operation, so callers should wrap them with their context.
var (
	// ErrCarNotFound indicates that no car matches with the purchase
	// criteria or that a car with the given ID does not exist.
	ErrCarNotFound = errors.New("car not found")

	// ErrCarNotAvailable indicates that a car exists, but it is sold
	// already or another buyer won the race to buy it.
	ErrCarNotAvailable = errors.New("car is not available")

	// ErrAlreadySold is returned by the Car.Sell transition when the
	// car is in the StatusSold status.
	ErrAlreadySold = errors.New("car is already sold")

	// ErrNotEligible indicates that a car is available, but the
	// purchase variant may not be applied to it.
	ErrNotEligible = errors.New("car is not eligible for this purchase")

	// ErrInvalidPricingConfig indicates a pricing strategy which could
	// produce a negative price. It is reported at construction time.
	ErrInvalidPricingConfig = errors.New("invalid pricing configuration")
)

// ValidationError reports invalid input fields. Each field name is
// mapped to one or more messages describing its problems. The Fields
// map is never empty for a returned ValidationError.
type ValidationError struct {
	Fields map[string][]string
}

// Error implements the error interface, listing the invalid fields in
// a deterministic (sorted) order.
func (ve *ValidationError) Error() string {
	names := make([]string, 0, len(ve.Fields))
	for name := range ve.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf(
			"%s: %s", name, strings.Join(ve.Fields[name], ", "),
		))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// add records msg for the name field, allocating ve if it is nil.
// It returns the possibly allocated ValidationError.
func (ve *ValidationError) add(name, msg string) *ValidationError {
	if ve == nil {
		ve = &ValidationError{Fields: make(map[string][]string)}
	}
	ve.Fields[name] = append(ve.Fields[name], msg)
	return ve
}

func (ve *ValidationError) require(name, value string) *ValidationError {
	if value != "" {
		return ve
	}
	return ve.add(name, "is required")
}

// MalformedRecordError indicates that a stored car record could not be
// reconstructed, because a required field is missing or its status
// marker is unknown. It usually reveals a corrupted record store.
type MalformedRecordError struct {
	ID  int64 // the ID of the malformed record
	Err error // the wrapped reason
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed car record #%d: %v", e.ID, e.Err)
}

// Unwrap returns the wrapped reason, so errors.Is may find sentinel
// errors such as ErrUnknownStatus.
func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
