// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Schema is the schema management repository. It is not versioned
// because a fresh schema is always created for the latest tables
// format. Its queryers may only be created from transactions, so a
// failed initialization leaves no partially created tables behind.
type Schema interface {
	Tx(Tx) SchemaInitializer
}

// SchemaInitializer creates the inventory tables and fills them with
// the development or production suitable data.
type SchemaInitializer interface {
	// DropIfExists drops the inventory tables, so they may be created
	// again from scratch.
	DropIfExists(ctx context.Context) error

	// InitDevSchema creates the inventory tables and fills them with a
	// sample catalog of cars, suitable for development and demos.
	InitDevSchema(ctx context.Context) error

	// InitProdSchema creates the inventory tables, leaving them empty
	// because a production catalog is entered by the dealer.
	InitProdSchema(ctx context.Context) error
}
