// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the cars resource, allowing the cars listing,
// catalog entry, purchase, and reset REST APIs to be accepted and
// delegated to the cars use cases respectively.
package carsrs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/momeni/cardealer/pkg/core/usecase/carsuc"
)

type resource struct {
	cars *carsuc.UseCase
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs including:
//  1. GET request to /api/cdweb/v1/cars
//     in order to list all cars and their statuses,
//  2. POST request to /api/cdweb/v1/cars
//     in order to add a new available car to the catalog,
//  3. GET request to /api/cdweb/v1/cars/:id
//     in order to fetch one car,
//  4. POST request to /api/cdweb/v1/purchases
//     in order to buy a car which matches with the form criteria,
//  5. POST request to /api/cdweb/v1/cars/:id/reset
//     in order to make a sold car available again,
//  6. POST request to /api/cdweb/v1/cars/reset
//     in order to make all cars available again.
func Register(r *gin.RouterGroup, cars *carsuc.UseCase) {
	rs := &resource{cars: cars}
	r.GET("cars", rs.ListCars)
	r.POST("cars", rs.AddCar)
	r.GET("cars/:id", rs.GetCar)
	r.POST("purchases", rs.Purchase)
	r.POST("cars/:id/reset", rs.ResetCar)
	r.POST("cars/reset", rs.ResetAllCars)
}

func (rs *resource) ListCars(c *gin.Context) {
	cs, err := rs.cars.List(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	if cs == nil {
		cs = []model.Car{}
	}
	c.JSON(http.StatusOK, cs)
}

func (rs *resource) AddCar(c *gin.Context) {
	f, ok := rs.DserCarForm(c)
	if !ok {
		return
	}
	car, err := rs.cars.Add(c, f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (rs *resource) GetCar(c *gin.Context) {
	id, ok := rs.DserCarID(c)
	if !ok {
		return
	}
	car, err := rs.cars.Get(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

// Purchase sells a car and reports its final price. Buyers may not
// tell a missing car from a sold one, so both cases are reported as
// "car is not available" with the 409 status code.
func (rs *resource) Purchase(c *gin.Context) {
	req, ok := rs.DserPurchaseReq(c)
	if !ok {
		return
	}
	buy := rs.cars.Purchase
	if req.Premium {
		buy = rs.cars.PurchasePremium
	}
	price, err := buy(c, req.Criteria)
	switch {
	case errors.Is(err, model.ErrCarNotFound),
		errors.Is(err, model.ErrCarNotAvailable):
		serdser.Detail(
			c, http.StatusConflict, model.ErrCarNotAvailable.Error(),
		)
	case err != nil:
		serdser.SerErr(c, err)
	default:
		c.JSON(http.StatusOK, PurchaseResp{Price: price})
	}
}

func (rs *resource) ResetCar(c *gin.Context) {
	id, ok := rs.DserCarID(c)
	if !ok {
		return
	}
	if err := rs.cars.ResetOne(c, id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) ResetAllCars(c *gin.Context) {
	if err := rs.cars.ResetAll(c); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
