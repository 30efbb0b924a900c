// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Decimal is an arbitrary precision decimal number setting, such as
// a price or a discount rate. It is decoded from its textual form, so
// a YAML value like 0.1 is not rounded as a binary float would be.
type Decimal decimal.Decimal

// UnmarshalText implements encoding.TextUnmarshaler. The `d` receiver
// is only updated if data holds a valid decimal number.
func (d *Decimal) UnmarshalText(data []byte) error {
	dd, err := decimal.NewFromString(string(data))
	if err != nil {
		return err
	}
	*d = Decimal(dd)
	return nil
}

// Marshal returns the string representation of d, or nil if d is nil.
func (d *Decimal) Marshal() *string {
	if d == nil {
		return nil
	}
	s := d.Std().String()
	return &s
}

// MarshalText implements encoding.TextMarshaler.
func (d *Decimal) MarshalText() ([]byte, error) {
	if s := d.Marshal(); s != nil {
		return []byte(*s), nil
	}
	return nil, errors.New("nil decimal")
}

// Std returns d as a decimal.Decimal.
func (d Decimal) Std() decimal.Decimal {
	return decimal.Decimal(d)
}

// LogValue implements slog.LogValuer.
func (d *Decimal) LogValue() slog.Value {
	if d == nil {
		return slog.StringValue("nil-decimal")
	}
	return slog.StringValue(d.Std().String())
}

// VerifyDecimalRange is the counterpart of VerifyRange for decimal
// settings which can not satisfy the cmp.Ordered constraint.
func VerifyDecimalRange(value **Decimal, minb, maxb *Decimal) error {
	switch {
	case minb != nil && maxb != nil && minb.Std().GreaterThan(maxb.Std()):
		return &OutOfRangeError[string]{InvalidRange: true}
	case (*value) == nil:
		return nil
	}
	v := (*value).Std().String()
	switch {
	case minb != nil && (*value).Std().LessThan(minb.Std()):
		**value = *minb
		return &OutOfRangeError[string]{Value: &v, LessThanMin: true}
	case maxb != nil && (*value).Std().GreaterThan(maxb.Std()):
		**value = *maxb
		return &OutOfRangeError[string]{Value: &v}
	}
	return nil
}
