// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by the resource packages.
package serdser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/cardealer/pkg/core/cerr"
	"github.com/momeni/cardealer/pkg/core/model"
)

// Bind deserializes the request into req using the b binding and
// validates it. Validation errors are reported as a JSON object which
// maps each field name to its error messages. Bind returns true only
// if req is ready to be used, otherwise, the response is written.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	return report(c, c.ShouldBindWith(req, b))
}

// BindURI is similar to Bind, but deserializes the path parameters.
func BindURI(c *gin.Context, req any) bool {
	return report(c, c.ShouldBindUri(req))
}

func report(c *gin.Context, err error) bool {
	switch err := err.(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	(*errs)[name] = append((*errs)[name], msgs...)
}

// SerErr writes err as a {"detail": "..."} JSON object. The status code
// is taken from the wrapped cerr.Error (or 500 if there is none).
// Field validation errors of the model package are reported like the
// Bind function validation errors, mapping field names to messages.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if !errors.As(err, &ce) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
		return
	}
	var ve *model.ValidationError
	if errors.As(ce.Err, &ve) {
		c.JSON(ce.HTTPStatusCode, ve.Fields)
		return
	}
	c.JSON(ce.HTTPStatusCode, gin.H{
		"detail": ce.Err.Error(),
	})
}

// Detail writes a {"detail": detail} JSON object with the code status.
func Detail(c *gin.Context, code int, detail string) {
	c.JSON(code, gin.H{"detail": detail})
}
