// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine construction and middlewares,
// so other packages may instantiate an engine without depending on the
// gin-gonic package directly.
package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/cardealer/pkg/core/log"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// RequestIDHeader is the HTTP header which carries the request ID.
const RequestIDHeader = "X-Request-ID"

// New instantiates a gin-gonic engine and registers the middlewares.
// Handlers may pass their *gin.Context as a context.Context to the use
// cases, and the values of the request context (like the request ID)
// will be visible through it.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

func Logger() HandlerFunc {
	return gin.Logger()
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// RequestID returns a middleware which keeps the X-Request-ID header
// of a request if it is a valid UUID, or generates a new random UUID
// otherwise. The ID is echoed in the response headers and is attached
// to the request context, so logs of the use cases can be correlated.
func RequestID() HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(
			log.WithRequestID(c.Request.Context(), id),
		)
		c.Next()
	}
}
