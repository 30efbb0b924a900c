// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momeni/cardealer/internal/test/dbcontainer"
	"github.com/momeni/cardealer/internal/test/sqlitedb"
	"github.com/momeni/cardealer/pkg/adapter/db/rdbms/carsrp"
	"github.com/momeni/cardealer/pkg/adapter/db/rdbms/schemarp"
	"github.com/momeni/cardealer/pkg/core/cerr"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/momeni/cardealer/pkg/core/repo"
	"github.com/momeni/cardealer/pkg/core/usecase/carsuc"
	"github.com/momeni/cardealer/pkg/core/usecase/schemauc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type CarsUseCaseTestSuite struct {
	Ctx     context.Context
	NewPool func(t *testing.T) repo.Pool
}

func TestCarsUseCaseOnSQLite(t *testing.T) {
	ctx := context.Background()
	cucts := &CarsUseCaseTestSuite{
		Ctx: ctx,
		NewPool: func(t *testing.T) repo.Pool {
			return sqlitedb.New(ctx, t)
		},
	}
	cucts.Run(t)
}

func TestCarsUseCaseOnPostgres(t *testing.T) {
	ctx := context.Background()
	_, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	cucts := &CarsUseCaseTestSuite{
		Ctx: ctx,
		NewPool: func(t *testing.T) repo.Pool {
			// subtests run sequentially and share the container
			iduc := schemauc.NewInitDB(pool, schemarp.New())
			require.NoError(t, iduc.InitProd(ctx), "recreating tables")
			return pool
		},
	}
	cucts.Run(t)
}

func (cucts *CarsUseCaseTestSuite) Run(t *testing.T) {
	t.Run("purchase scenario", cucts.TestPurchaseScenario)
	t.Run("concurrent purchases", cucts.TestConcurrentPurchases)
	t.Run("missing car", cucts.TestPurchaseMissingCar)
	t.Run("invalid criteria", cucts.TestPurchaseInvalidCriteria)
	t.Run("premium purchase", cucts.TestPremiumPurchase)
	t.Run("cancelled purchase", cucts.TestCancelledPurchase)
	t.Run("reset commands", cucts.TestResetCommands)
	t.Run("add and get", cucts.TestAddAndGet)
	t.Run("swap pricing", cucts.TestSwapPricing)
}

func (cucts *CarsUseCaseTestSuite) newUseCase(
	t *testing.T, opts ...carsuc.Option,
) *carsuc.UseCase {
	uc, err := carsuc.New(cucts.NewPool(t), carsrp.New(), opts...)
	require.NoError(t, err, "creating cars use case")
	return uc
}

func (cucts *CarsUseCaseTestSuite) add(
	t *testing.T, uc *carsuc.UseCase, price string,
) model.Car {
	c, err := uc.Add(cucts.Ctx, model.CarForm{
		Body:       "sedan",
		EngineType: "v6",
		DriveType:  "awd",
		Colour:     "black",
		Price:      price,
	})
	require.NoError(t, err, "adding a car with price %s", price)
	return c
}

var sedan = model.Criteria{
	Body:       "sedan",
	EngineType: "v6",
	DriveType:  "awd",
	Colour:     "black",
}

func discount(t *testing.T, rate string) model.PricingStrategy {
	dp, err := model.NewDiscountPricing(decimal.RequireFromString(rate))
	require.NoError(t, err)
	return dp
}

func httpStatus(err error) int {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		return ce.HTTPStatusCode
	}
	return 0
}

func (cucts *CarsUseCaseTestSuite) TestPurchaseScenario(t *testing.T) {
	uc := cucts.newUseCase(t, carsuc.WithPricing(discount(t, "0.1")))
	car := cucts.add(t, uc, "20000")

	price, err := uc.Purchase(cucts.Ctx, sedan)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(18000)), "got %s", price)

	got, err := uc.Get(cucts.Ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, got.Status)

	_, err = uc.Purchase(cucts.Ctx, sedan)
	assert.ErrorIs(t, err, model.ErrCarNotAvailable)
	assert.Equal(t, http.StatusConflict, httpStatus(err))
}

func (cucts *CarsUseCaseTestSuite) TestConcurrentPurchases(t *testing.T) {
	uc := cucts.newUseCase(t)
	car := cucts.add(t, uc, "20000")

	const n = 16
	var won, lost atomic.Int32
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			price, err := uc.Purchase(cucts.Ctx, sedan)
			switch {
			case err == nil:
				if !price.Equal(decimal.NewFromInt(20000)) {
					return errors.New("unexpected price " + price.String())
				}
				won.Add(1)
			case errors.Is(err, model.ErrCarNotAvailable):
				lost.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), won.Load(), "exactly one buyer must win")
	assert.Equal(t, int32(n-1), lost.Load())

	got, err := uc.Get(cucts.Ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, got.Status)
}

func (cucts *CarsUseCaseTestSuite) TestPurchaseMissingCar(t *testing.T) {
	uc := cucts.newUseCase(t)
	cucts.add(t, uc, "20000")
	before, err := uc.List(cucts.Ctx)
	require.NoError(t, err)

	_, err = uc.Purchase(cucts.Ctx, model.Criteria{
		Body:       "coupe",
		EngineType: "v8",
		DriveType:  "rwd",
		Colour:     "yellow",
	})
	assert.ErrorIs(t, err, model.ErrCarNotFound)
	assert.Equal(t, http.StatusNotFound, httpStatus(err))

	after, err := uc.List(cucts.Ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Status, after[i].Status)
	}
}

func (cucts *CarsUseCaseTestSuite) TestPurchaseInvalidCriteria(t *testing.T) {
	uc := cucts.newUseCase(t)
	_, err := uc.Purchase(cucts.Ctx, model.Criteria{Body: "sedan"})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err))
}

func (cucts *CarsUseCaseTestSuite) TestPremiumPurchase(t *testing.T) {
	uc := cucts.newUseCase(t,
		carsuc.WithPremiumPricing(discount(t, "0.15")),
		carsuc.WithPremiumMinPrice(decimal.NewFromInt(15000)),
	)
	cheap := cucts.add(t, uc, "12000")

	_, err := uc.PurchasePremium(cucts.Ctx, sedan)
	assert.ErrorIs(t, err, model.ErrNotEligible)
	assert.Equal(t, http.StatusConflict, httpStatus(err))
	got, err := uc.Get(cucts.Ctx, cheap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, got.Status)

	price, err := uc.Purchase(cucts.Ctx, sedan)
	require.NoError(t, err, "standard purchase ignores the minimum")
	assert.True(t, price.Equal(decimal.NewFromInt(12000)))

	cucts.add(t, uc, "20000")
	price, err = uc.PurchasePremium(cucts.Ctx, sedan)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(17000)), "got %s", price)
}

func (cucts *CarsUseCaseTestSuite) TestCancelledPurchase(t *testing.T) {
	uc := cucts.newUseCase(t)
	car := cucts.add(t, uc, "20000")

	ctx, cancel := context.WithCancel(cucts.Ctx)
	cancel()
	_, err := uc.Purchase(ctx, sedan)
	require.Error(t, err)

	got, err := uc.Get(cucts.Ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, got.Status)
}

func (cucts *CarsUseCaseTestSuite) TestResetCommands(t *testing.T) {
	uc := cucts.newUseCase(t)
	first := cucts.add(t, uc, "20000")
	second := cucts.add(t, uc, "21000")
	for range []int{0, 1} {
		_, err := uc.Purchase(cucts.Ctx, sedan)
		require.NoError(t, err)
	}

	require.NoError(t, uc.ResetOne(cucts.Ctx, first.ID))
	require.NoError(t, uc.ResetOne(cucts.Ctx, first.ID), "idempotent")
	got, err := uc.Get(cucts.Ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, got.Status)
	got, err = uc.Get(cucts.Ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, got.Status)

	err = uc.ResetOne(cucts.Ctx, second.ID+100)
	assert.ErrorIs(t, err, model.ErrCarNotFound)
	assert.Equal(t, http.StatusNotFound, httpStatus(err))

	require.NoError(t, uc.ResetAll(cucts.Ctx))
	cs, err := uc.List(cucts.Ctx)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	for _, c := range cs {
		assert.Equal(t, model.StatusAvailable, c.Status, c.String())
	}

	_, err = uc.Purchase(cucts.Ctx, sedan)
	require.NoError(t, err)
	err = uc.Run(cucts.Ctx,
		uc.NewResetAll(),
		uc.NewResetOne(second.ID+100),
		uc.NewResetOne(first.ID),
	)
	assert.ErrorIs(t, err, model.ErrCarNotFound, "second command fails")
}

func (cucts *CarsUseCaseTestSuite) TestAddAndGet(t *testing.T) {
	uc := cucts.newUseCase(t)
	added, err := uc.Add(cucts.Ctx, model.CarForm{
		Body:       "hatchback",
		EngineType: "electric",
		DriveType:  "rwd",
		Colour:     "blue",
		Price:      "27990.50",
	})
	require.NoError(t, err)
	require.True(t, added.Persisted())

	got, err := uc.Get(cucts.Ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added.Criteria(), got.Criteria())
	assert.Equal(t, model.StatusAvailable, got.Status)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("27990.5")),
		"got %s", got.Price)

	_, err = uc.Add(cucts.Ctx, model.CarForm{Body: "sedan", Price: "x"})
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, http.StatusBadRequest, httpStatus(err))

	_, err = uc.Get(cucts.Ctx, added.ID+100)
	assert.ErrorIs(t, err, model.ErrCarNotFound)
}

func (cucts *CarsUseCaseTestSuite) TestSwapPricing(t *testing.T) {
	uc := cucts.newUseCase(t)
	assert.Equal(t, "standard", uc.Pricing().Name())
	require.NoError(t, uc.SetPricing(cucts.Ctx, discount(t, "0.15")))
	assert.Equal(t, "discount-15%", uc.Pricing().Name())
	assert.Error(t, uc.SetPricing(cucts.Ctx, nil))

	cucts.add(t, uc, "20000")
	price, err := uc.Purchase(cucts.Ctx, sedan)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(17000)), "got %s", price)
}

func TestOptionsValidation(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []carsuc.Option
	}{
		{"nil pricing", []carsuc.Option{carsuc.WithPricing(nil)}},
		{"duplicate pricing", []carsuc.Option{
			carsuc.WithPricing(model.StandardPricing{}),
			carsuc.WithPricing(model.StandardPricing{}),
		}},
		{"negative min price", []carsuc.Option{
			carsuc.WithPremiumMinPrice(decimal.NewFromInt(-1)),
		}},
		{"zero timeout", []carsuc.Option{carsuc.WithPurchaseTimeout(0)}},
		{"duplicate timeout", []carsuc.Option{
			carsuc.WithPurchaseTimeout(time.Second),
			carsuc.WithPurchaseTimeout(time.Second),
		}},
	} {
		_, err := carsuc.New(nil, nil, tc.opts...)
		assert.Error(t, err, tc.name)
	}
}
