// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/momeni/cardealer/pkg/adapter/config"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin/carsrs"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin/pricingrs"
	"github.com/momeni/cardealer/pkg/core/log"
	"github.com/momeni/cardealer/pkg/core/repo"
)

// Prefix is the common path prefix of all REST APIs.
const Prefix = "/api/cdweb/v1"

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like carsuc and each repository package is named like carsrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like carsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// Possible errors will be returned after possible wrapping.
func Register(
	ctx context.Context, e *gin.Engine, p repo.Pool, c *config.Config,
) error {
	carsUseCase, err := c.Usecases.Cars.NewUseCase(
		p, c.Database.NewCarsRepo(),
	)
	if err != nil {
		return fmt.Errorf("creating cars use case: %w", err)
	}
	r := e.Group(Prefix)
	carsrs.Register(r, carsUseCase)
	pricingrs.Register(r, carsUseCase)
	log.Info(
		ctx, "REST APIs are registered",
		slog.String("prefix", Prefix),
		slog.String("pricing", carsUseCase.Pricing().Name()),
	)
	return nil
}
