// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler runs a series of statements in the given Tx. Returning a
// non-nil error (or panicking) rolls back the transaction.
type TxHandler func(context.Context, Tx) error

// Conn is one connection which is acquired from a Pool.
// Statements which are executed directly on a Conn are committed
// individually. The Tx method groups them, so a purchase may read a
// car and mark it as sold atomically.
type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a Tx to be passed as a Conn mistakenly.
	IsConn()
}
