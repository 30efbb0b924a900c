// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"github.com/momeni/cardealer/pkg/adapter/config/settings"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin"
)

// DefaultAddress is the listening address of the REST API server when
// the gin.address setting is missing.
const DefaultAddress = ":8080"

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their default values.
type Gin struct {
	Logger   *bool   // Whether to register the gin.Logger() middleware
	Recovery *bool   // Whether to register the gin.Recovery() middleware
	Address  *string `yaml:",omitempty"` // host:port to listen on
}

// Normalize fills the missing settings by their default values.
// Logger and Recovery middlewares are disabled by default.
func (g *Gin) Normalize() {
	settings.Nil2Zero(&g.Logger)
	settings.Nil2Zero(&g.Recovery)
	settings.Default(&g.Address, DefaultAddress)
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. The request ID middleware is always registered.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	middlewares = append(middlewares, gin.RequestID())
	if g.Logger != nil && *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if g.Recovery != nil && *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}
