// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// Status specifies the selling status of a car. Exactly two values are
// valid, StatusAvailable and StatusSold. Although this enum is numeric,
// it is (de)serialized as a string for readability in the adapter layer
// and it is stored as a nullable marker in the database (see Marker).
type Status int

// Valid values for the Status enum.
const (
	StatusInvalid Status = iota // zero value is invalid

	StatusAvailable // car may be sold
	StatusSold      // car is sold and may only be reset
)

// SoldMarker is the fixed value which represents StatusSold in the
// record store. StatusAvailable is represented by a NULL marker.
const SoldMarker = "s"

// ErrUnknownStatus indicates that a given string may not be parsed as
// a valid/known status. Similar to the other sentinel errors, it does
// not carry the invalid string because the caller of ParseStatus knows
// about it already and can wrap this error with the relevant context.
var ErrUnknownStatus = errors.New("unknown status")

// StatusError indicates an invalid numeric status value.
type StatusError int

// Error implements the error interface, returning a string
// representation of the StatusError.
func (e StatusError) Error() string {
	return fmt.Sprintf("invalid status: %d", e)
}

// Validate returns nil if Status value is valid. For invalid values,
// an instance of the StatusError will be returned.
func (s Status) Validate() error {
	switch s {
	case StatusAvailable, StatusSold:
		return nil
	default:
		return StatusError(s)
	}
}

// String converts the Status enum to a string. Invalid statuses are
// reported as "invalid" instead of panicking because String is used
// while logging possibly corrupted records.
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusSold:
		return "sold"
	default:
		return "invalid"
	}
}

// ParseStatus parses the given string and returns a Status.
// For invalid strings, StatusInvalid and ErrUnknownStatus will be
// returned.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "available":
		return StatusAvailable, nil
	case "sold":
		return StatusSold, nil
	default:
		return StatusInvalid, ErrUnknownStatus
	}
}

// MarshalText implements encoding.TextMarshaler, so statuses are
// serialized by their String representation.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseStatus.
func (s *Status) UnmarshalText(text []byte) error {
	st, err := ParseStatus(string(text))
	if err != nil {
		return fmt.Errorf("parsing %q: %w", text, err)
	}
	*s = st
	return nil
}

// Marker converts s to its storage boundary representation. A nil
// pointer stands for StatusAvailable and a pointer to SoldMarker
// stands for StatusSold. Invalid statuses cause a panic because they
// must be rejected before reaching the storage (see Validate).
func (s Status) Marker() *string {
	switch s {
	case StatusAvailable:
		return nil
	case StatusSold:
		m := SoldMarker
		return &m
	default:
		panic(StatusError(s))
	}
}

// StatusFromMarker converts a storage boundary marker to a Status.
// It is the inverse of the Status.Marker method, so an available car
// may never be read back as a sold car, and vice versa.
// Markers other than nil and SoldMarker are rejected with an
// ErrUnknownStatus error.
func StatusFromMarker(m *string) (Status, error) {
	switch {
	case m == nil:
		return StatusAvailable, nil
	case *m == SoldMarker:
		return StatusSold, nil
	default:
		return StatusInvalid, fmt.Errorf(
			"marker %q: %w", *m, ErrUnknownStatus,
		)
	}
}
