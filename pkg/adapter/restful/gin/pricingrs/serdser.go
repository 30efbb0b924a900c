// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pricingrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/shopspring/decimal"
)

type rawUpdatePricingReq struct {
	Discount string `form:"discount" binding:"required,numeric"`
}

// DserUpdatePricingReq deserializes the discount rate form field as a
// pricing strategy. A zero rate selects the standard pricing.
func (rs *resource) DserUpdatePricingReq(
	c *gin.Context,
) (model.PricingStrategy, bool) {
	req := &rawUpdatePricingReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return nil, false
	}
	var errs map[string][]string
	rate, err := decimal.NewFromString(req.Discount)
	if err != nil {
		serdser.AddErr(&errs, "discount", err.Error())
		c.JSON(http.StatusBadRequest, errs)
		return nil, false
	}
	if rate.IsZero() {
		return model.StandardPricing{}, true
	}
	ps, err := model.NewDiscountPricing(rate)
	if err != nil {
		serdser.AddErr(&errs, "discount", err.Error())
		c.JSON(http.StatusBadRequest, errs)
		return nil, false
	}
	return ps, true
}

// PricingResp reports the name of a pricing strategy, like
// {"name": "discount-10%"}.
type PricingResp struct {
	Name string `json:"name"`
}
