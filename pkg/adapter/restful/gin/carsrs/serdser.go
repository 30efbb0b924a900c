// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/shopspring/decimal"
)

type rawPurchaseReq struct {
	Body   string `form:"body" binding:"required"`
	Engine string `form:"engine" binding:"required"`
	Drive  string `form:"drive" binding:"required"`
	Colour string `form:"colour" binding:"required"`
	Tier   string `form:"tier" binding:"omitempty,oneof=standard premium"`
}

type purchaseReq struct {
	Criteria model.Criteria
	Premium  bool
}

// PurchaseResp is the JSON body of a successful purchase. The price is
// serialized as a decimal string, e.g., {"price": "18000"}.
type PurchaseResp struct {
	Price decimal.Decimal `json:"price"`
}

// rawCarForm fields are validated by the model.BuildNew function, so
// they may report all invalid fields at once.
type rawCarForm struct {
	Body   string `form:"body"`
	Engine string `form:"engine"`
	Drive  string `form:"drive"`
	Colour string `form:"colour"`
	Price  string `form:"price"`
}

type carURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

func (rs *resource) DserPurchaseReq(c *gin.Context) (*purchaseReq, bool) {
	req := &rawPurchaseReq{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return nil, false
	}
	return &purchaseReq{
		Criteria: model.Criteria{
			Body:       req.Body,
			EngineType: req.Engine,
			DriveType:  req.Drive,
			Colour:     req.Colour,
		}.Trimmed(),
		Premium: req.Tier == "premium",
	}, true
}

func (rs *resource) DserCarForm(c *gin.Context) (model.CarForm, bool) {
	req := &rawCarForm{}
	if ok := serdser.Bind(c, req, binding.Form); !ok {
		return model.CarForm{}, false
	}
	return model.CarForm{
		Body:       req.Body,
		EngineType: req.Engine,
		DriveType:  req.Drive,
		Colour:     req.Colour,
		Price:      req.Price,
	}, true
}

func (rs *resource) DserCarID(c *gin.Context) (int64, bool) {
	req := &carURI{}
	if ok := serdser.BindURI(c, req); !ok {
		return 0, false
	}
	return req.ID, true
}
