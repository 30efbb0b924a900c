// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/cardealer/internal/test/dbcontainer"
	"github.com/momeni/cardealer/internal/test/sqlitedb"
	"github.com/momeni/cardealer/pkg/adapter/config"
	"github.com/momeni/cardealer/pkg/adapter/db/rdbms/schemarp"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin/routes"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/momeni/cardealer/pkg/core/repo"
	"github.com/momeni/cardealer/pkg/core/usecase/schemauc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

const testConfig = `
usecases:
  cars:
    discount: 0.1
    premium-discount: 0.15
    premium-minimum-price: 15000
    purchase-timeout: 10s
`

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx context.Context
	// NewPool returns a pool of a database which is filled with
	// the development catalog of cars.
	NewPool func(t *testing.T) repo.Pool
	Gin     *gin.Engine
}

func TestIntegrationGinOnSQLite(t *testing.T) {
	ctx := context.Background()
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx: ctx,
		NewPool: func(t *testing.T) repo.Pool {
			return sqlitedb.NewDev(ctx, t)
		},
	})
}

func TestIntegrationGinOnPostgres(t *testing.T) {
	ctx := context.Background()
	_, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx: ctx,
		NewPool: func(t *testing.T) repo.Pool {
			iduc := schemauc.NewInitDB(pool, schemarp.New())
			require.NoError(t, iduc.InitDev(ctx), "recreating tables")
			return pool
		},
	})
}

func (igts *IntegrationGinTestSuite) SetupTest() {
	c, err := config.Parse([]byte(testConfig))
	igts.Require().NoError(err, "failed to parse the test config")
	igts.Require().NoError(c.ValidateAndNormalize(), "invalid test config")

	pool := igts.NewPool(igts.T())
	igts.Gin = gin.New(gin.RequestID(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	err = routes.Register(igts.Ctx, igts.Gin, pool, c)
	igts.Require().NoError(err, "failed to register Gin routes")
}

func stringAddr(s string) *string {
	return &s
}

func urlEncoded(m map[string]string) io.Reader {
	u := url.Values{}
	for k, v := range m {
		u.Set(k, v)
	}
	return strings.NewReader(u.Encode())
}

type purchaseResp struct {
	Price  string
	Detail string
	Body   []string
	Tier   []string
}

func blackSedan(tier string) map[string]string {
	return map[string]string{
		"body":   "sedan",
		"engine": "v6",
		"drive":  "awd",
		"colour": "black",
		"tier":   tier,
	}
}

func (igts *IntegrationGinTestSuite) do(
	method, path string, body io.Reader, res any,
) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, routes.Prefix+path, body)
	igts.Require().NoError(err, "cannot create %s %s request", method, path)
	igts.sendReqRecvResp(w, req, res)
	return w
}

func (igts *IntegrationGinTestSuite) sendReqRecvResp(
	w *httptest.ResponseRecorder, req *http.Request, res any,
) {
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	igts.Gin.ServeHTTP(w, req)
	if res == nil {
		return
	}
	b := w.Body.Bytes()
	igts.NoError(json.Unmarshal(b, res), "body is not json")
}

func (igts *IntegrationGinTestSuite) purchase(
	form map[string]string,
) (int, *purchaseResp) {
	res := &purchaseResp{}
	w := igts.do(http.MethodPost, "/purchases", urlEncoded(form), res)
	return w.Code, res
}

func (igts *IntegrationGinTestSuite) TestPurchase() {
	code, res := igts.purchase(blackSedan(""))
	igts.Equal(http.StatusOK, code)
	igts.Equal("18000", res.Price, "lowest id must be sold first")

	code, res = igts.purchase(blackSedan("standard"))
	igts.Equal(http.StatusOK, code)
	igts.Equal("19350", res.Price)

	code, res = igts.purchase(blackSedan(""))
	igts.Equal(http.StatusConflict, code)
	igts.Equal("car is not available", res.Detail)
	igts.Empty(res.Price)
}

func (igts *IntegrationGinTestSuite) TestPurchaseTrimsCriteria() {
	form := blackSedan("")
	form["body"] = " sedan "
	form["colour"] = "black\t"
	code, res := igts.purchase(form)
	igts.Equal(http.StatusOK, code)
	igts.Equal("18000", res.Price)
}

func (igts *IntegrationGinTestSuite) TestPurchaseMissingCar() {
	form := blackSedan("")
	form["colour"] = "pink"
	code, res := igts.purchase(form)
	igts.Equal(http.StatusConflict, code)
	igts.Equal(
		"car is not available", res.Detail,
		"missing cars are reported like sold cars",
	)
}

func (igts *IntegrationGinTestSuite) TestPremiumPurchase() {
	code, res := igts.purchase(map[string]string{
		"body":   "suv",
		"engine": "v8",
		"drive":  "awd",
		"colour": "silver",
		"tier":   "premium",
	})
	igts.Equal(http.StatusOK, code)
	igts.Equal("34850", res.Price)

	code, res = igts.purchase(map[string]string{
		"body":   "hatchback",
		"engine": "i4",
		"drive":  "fwd",
		"colour": "red",
		"tier":   "premium",
	})
	igts.Equal(http.StatusConflict, code)
	igts.Contains(res.Detail, model.ErrNotEligible.Error())
}

func (igts *IntegrationGinTestSuite) TestConcurrentPurchases() {
	form := map[string]string{
		"body":   "hatchback",
		"engine": "electric",
		"drive":  "rwd",
		"colour": "blue",
	}
	var sold, refused atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			w := httptest.NewRecorder()
			req, err := http.NewRequest(
				http.MethodPost, routes.Prefix+"/purchases",
				urlEncoded(form),
			)
			if err != nil {
				return err
			}
			req.Header.Add(
				"Content-Type", "application/x-www-form-urlencoded",
			)
			igts.Gin.ServeHTTP(w, req)
			switch w.Code {
			case http.StatusOK:
				sold.Add(1)
			case http.StatusConflict:
				refused.Add(1)
			}
			return nil
		})
	}
	igts.Require().NoError(g.Wait())
	igts.Equal(int32(1), sold.Load(), "exactly one buyer must win")
	igts.Equal(int32(7), refused.Load())
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	for _, tc := range []struct {
		name          string
		body          io.Reader
		detail        *string
		bodyErr, tier *string
	}{
		{
			name:   "no body",
			body:   nil,
			detail: stringAddr("missing form body"),
		},
		{
			name:    "empty body",
			body:    urlEncoded(nil),
			bodyErr: stringAddr("failed on the 'required' tag"),
		},
		{
			name: "invalid tier",
			body: urlEncoded(map[string]string{
				"body":   "sedan",
				"engine": "v6",
				"drive":  "awd",
				"colour": "black",
				"tier":   "gold",
			}),
			tier: stringAddr("failed on the 'oneof' tag"),
		},
	} {
		igts.Run(tc.name, func() {
			res := &purchaseResp{}
			w := igts.do(http.MethodPost, "/purchases", tc.body, res)

			igts.Equal(http.StatusBadRequest, w.Code)
			if tc.detail != nil {
				igts.Equal(*tc.detail, res.Detail, "wrong detail")
			}
			igts.assertOptContains(tc.bodyErr, res.Body, "wrong body")
			igts.assertOptContains(tc.tier, res.Tier, "wrong tier")
		})
	}
}

func (igts *IntegrationGinTestSuite) assertOptContains(
	expectedPart *string, seen []string, msgAndArgs ...any,
) bool {
	if expectedPart == nil {
		return true
	}
	if !igts.Equal(1, len(seen), msgAndArgs...) {
		return false
	}
	return igts.Contains(seen[0], *expectedPart, msgAndArgs...)
}

func (igts *IntegrationGinTestSuite) TestAddAndList() {
	car := &model.Car{}
	w := igts.do(http.MethodPost, "/cars", urlEncoded(map[string]string{
		"body":   "coupe",
		"engine": "v8",
		"drive":  "rwd",
		"colour": "yellow",
		"price":  "55000.75",
	}), car)
	igts.Equal(http.StatusCreated, w.Code)
	igts.NotZero(car.ID)
	igts.Equal(model.StatusAvailable, car.Status)
	igts.True(car.Price.Equal(decimal.RequireFromString("55000.75")))

	fetched := &model.Car{}
	w = igts.do(
		http.MethodGet, "/cars/"+strconv.FormatInt(car.ID, 10), nil, fetched,
	)
	igts.Equal(http.StatusOK, w.Code)
	igts.Equal(car.ID, fetched.ID)
	igts.Equal("coupe", fetched.Body)

	var cars []model.Car
	w = igts.do(http.MethodGet, "/cars", nil, &cars)
	igts.Equal(http.StatusOK, w.Code)
	igts.Len(cars, len(schemarp.DevCatalog)+1)
	for i := 1; i < len(cars); i++ {
		igts.Less(cars[i-1].ID, cars[i].ID, "cars must be ordered by ID")
	}

	invalid := &struct {
		Price  []string
		Colour []string
	}{}
	w = igts.do(http.MethodPost, "/cars", urlEncoded(map[string]string{
		"body":   "coupe",
		"engine": "v8",
		"drive":  "rwd",
	}), invalid)
	igts.Equal(http.StatusBadRequest, w.Code)
	igts.Equal([]string{"is required"}, invalid.Price)
	igts.Equal([]string{"is required"}, invalid.Colour)

	w = igts.do(http.MethodPost, "/cars", urlEncoded(map[string]string{
		"body":   "coupe",
		"engine": "v8",
		"drive":  "rwd",
		"colour": "yellow",
		"price":  "1234567890.123456789",
	}), invalid)
	igts.Equal(http.StatusBadRequest, w.Code)
	igts.Equal([]string{"has more than two decimal places"}, invalid.Price)

	res := &purchaseResp{}
	w = igts.do(http.MethodGet, "/cars/999999", nil, res)
	igts.Equal(http.StatusNotFound, w.Code)
	igts.Contains(res.Detail, model.ErrCarNotFound.Error())

	w = igts.do(http.MethodGet, "/cars/abc", nil, res)
	igts.Equal(http.StatusBadRequest, w.Code)
}

func (igts *IntegrationGinTestSuite) soldIDs() []int64 {
	var cars []model.Car
	w := igts.do(http.MethodGet, "/cars", nil, &cars)
	igts.Require().Equal(http.StatusOK, w.Code)
	var ids []int64
	for _, car := range cars {
		if car.Status == model.StatusSold {
			ids = append(ids, car.ID)
		}
	}
	return ids
}

func (igts *IntegrationGinTestSuite) TestReset() {
	code, res := igts.purchase(blackSedan(""))
	igts.Require().Equal(http.StatusOK, code)
	igts.Equal("18000", res.Price)
	ids := igts.soldIDs()
	igts.Require().Len(ids, 1)

	path := "/cars/" + strconv.FormatInt(ids[0], 10) + "/reset"
	w := igts.do(http.MethodPost, path, nil, nil)
	igts.Equal(http.StatusNoContent, w.Code)
	igts.Empty(igts.soldIDs())

	code, res = igts.purchase(blackSedan(""))
	igts.Equal(http.StatusOK, code)
	igts.Equal("18000", res.Price, "reset car must be sold again")

	code, _ = igts.purchase(blackSedan(""))
	igts.Equal(http.StatusOK, code)
	igts.Len(igts.soldIDs(), 2)

	w = igts.do(http.MethodPost, "/cars/reset", nil, nil)
	igts.Equal(http.StatusNoContent, w.Code)
	igts.Empty(igts.soldIDs())

	res = &purchaseResp{}
	w = igts.do(http.MethodPost, "/cars/999999/reset", nil, res)
	igts.Equal(http.StatusNotFound, w.Code)
	igts.Contains(res.Detail, model.ErrCarNotFound.Error())
}

func (igts *IntegrationGinTestSuite) TestPricing() {
	name := &struct{ Name string }{}
	w := igts.do(http.MethodGet, "/pricing", nil, name)
	igts.Equal(http.StatusOK, w.Code)
	igts.Equal("discount-10%", name.Name)

	w = igts.do(http.MethodPut, "/pricing", urlEncoded(map[string]string{
		"discount": "0.2",
	}), name)
	igts.Equal(http.StatusOK, w.Code)
	igts.Equal("discount-20%", name.Name)

	code, res := igts.purchase(blackSedan(""))
	igts.Equal(http.StatusOK, code)
	igts.Equal("16000", res.Price)

	invalid := &struct{ Discount []string }{}
	w = igts.do(http.MethodPut, "/pricing", urlEncoded(map[string]string{
		"discount": "1",
	}), invalid)
	igts.Equal(http.StatusBadRequest, w.Code)
	igts.Require().Len(invalid.Discount, 1)
	igts.Contains(invalid.Discount[0], model.ErrInvalidPricingConfig.Error())

	w = igts.do(http.MethodPut, "/pricing", urlEncoded(map[string]string{
		"discount": "0",
	}), name)
	igts.Equal(http.StatusOK, w.Code)
	igts.Equal("standard", name.Name)

	code, res = igts.purchase(blackSedan(""))
	igts.Equal(http.StatusOK, code)
	igts.Equal("21500", res.Price)
}

func (igts *IntegrationGinTestSuite) TestRequestID() {
	w := igts.do(http.MethodGet, "/pricing", nil, nil)
	id := w.Header().Get(gin.RequestIDHeader)
	_, err := uuid.Parse(id)
	igts.NoError(err, "a request ID must be generated")

	given := uuid.NewString()
	w = httptest.NewRecorder()
	req, err := http.NewRequest(
		http.MethodGet, routes.Prefix+"/pricing", nil,
	)
	igts.Require().NoError(err)
	req.Header.Set(gin.RequestIDHeader, given)
	igts.Gin.ServeHTTP(w, req)
	igts.Equal(given, w.Header().Get(gin.RequestIDHeader))

	w = httptest.NewRecorder()
	req.Header.Set(gin.RequestIDHeader, "not-a-uuid")
	igts.Gin.ServeHTTP(w, req)
	igts.NotEqual("not-a-uuid", w.Header().Get(gin.RequestIDHeader))
}
