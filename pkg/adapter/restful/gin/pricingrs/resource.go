// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pricingrs realizes the pricing resource, allowing the
// standard pricing strategy to be fetched and replaced at runtime
// through the REST APIs and delegated to the cars use case properly.
package pricingrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/cardealer/pkg/core/usecase/carsuc"
)

type resource struct {
	cars *carsuc.UseCase
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs including:
//  1. PUT request to /api/cdweb/v1/pricing
//     in order to replace the standard pricing strategy,
//  2. GET request to /api/cdweb/v1/pricing
//     in order to fetch the current standard pricing strategy.
func Register(r *gin.RouterGroup, cars *carsuc.UseCase) {
	rs := &resource{cars: cars}
	r.PUT("pricing", rs.UpdatePricing)
	r.GET("pricing", rs.FetchPricing)
}

func (rs *resource) UpdatePricing(c *gin.Context) {
	ps, ok := rs.DserUpdatePricingReq(c)
	if !ok {
		return
	}
	if err := rs.cars.SetPricing(c, ps); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, PricingResp{Name: ps.Name()})
}

func (rs *resource) FetchPricing(c *gin.Context) {
	c.JSON(http.StatusOK, PricingResp{Name: rs.cars.Pricing().Name()})
}
