// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/cardealer/pkg/adapter/db/rdbms"
	"github.com/momeni/cardealer/pkg/core/cerr"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// carID is the type of the cars primary key. On SQLite, it is declared
// as a plain integer column, so it aliases the rowid and its values are
// assigned by the store. Other dialects use their default GORM types.
type carID int64

// GormDBDataType implements the migrator.GormDataTypeInterface.
func (carID) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == rdbms.DialectSQLite {
		return "integer"
	}
	return ""
}

// gCar is the GORM model of the cars table. The sold column is NULL
// for available cars and holds model.SoldMarker for sold cars.
type gCar struct {
	ID         carID           `gorm:"primaryKey"`
	Body       string          `gorm:"not null;index:idx_cars_criteria,priority:1"`
	EngineType string          `gorm:"column:engine;not null;index:idx_cars_criteria,priority:2"`
	DriveType  string          `gorm:"column:drive;not null;index:idx_cars_criteria,priority:3"`
	Colour     string          `gorm:"not null;index:idx_cars_criteria,priority:4"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Sold       *string         `gorm:"type:char(1);column:sold"`
}

func (gc *gCar) TableName() string {
	return "cars"
}

func (gc *gCar) Model() (model.Car, error) {
	return model.Reconstruct(model.StoredCar{
		ID:         int64(gc.ID),
		Body:       gc.Body,
		EngineType: gc.EngineType,
		DriveType:  gc.DriveType,
		Colour:     gc.Colour,
		Price:      gc.Price,
		Sold:       gc.Sold,
	})
}

func fromModel(c model.Car) gCar {
	sc := c.Stored()
	return gCar{
		ID:         carID(sc.ID),
		Body:       sc.Body,
		EngineType: sc.EngineType,
		DriveType:  sc.DriveType,
		Colour:     sc.Colour,
		Price:      sc.Price,
		Sold:       sc.Sold,
	}
}

// dbErr wraps err which is returned by the op database operation.
// Temporary failures, such as busy locks, are classified as
// cerr.Unavailable.
func dbErr(op string, err error) error {
	err = fmt.Errorf("%s: %w", op, err)
	if rdbms.IsTransient(err) {
		return cerr.Unavailable(err)
	}
	return err
}

// markerValue returns the sold column value of the st status.
// The untyped nil is returned for available cars, so GORM writes NULL.
func markerValue(st model.Status) any {
	if m := st.Marker(); m != nil {
		return *m
	}
	return nil
}

func toModels(gcs []gCar) ([]model.Car, error) {
	cs := make([]model.Car, 0, len(gcs))
	for i := range gcs {
		c, err := gcs[i].Model()
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, nil
}

// Migrate creates the cars table and its indices if they are missing.
func Migrate[Q rdbms.Queryer](ctx context.Context, q Q) error {
	if err := q.GORM(ctx).AutoMigrate(&gCar{}); err != nil {
		return dbErr("auto-migrate cars", err)
	}
	return nil
}

// Drop drops the cars table if it exists.
func Drop[Q rdbms.Queryer](ctx context.Context, q Q) error {
	if err := q.GORM(ctx).Migrator().DropTable(&gCar{}); err != nil {
		return dbErr("drop cars", err)
	}
	return nil
}

// List returns all cars, ordered by their IDs.
func List[Q rdbms.Queryer](ctx context.Context, q Q) ([]model.Car, error) {
	var gcs []gCar
	if err := q.GORM(ctx).Order("id").Find(&gcs).Error; err != nil {
		return nil, dbErr("list cars", err)
	}
	return toModels(gcs)
}

// Get returns the id car or an error wrapping model.ErrCarNotFound.
func Get[Q rdbms.Queryer](ctx context.Context, q Q, id int64) (model.Car, error) {
	var gcs []gCar
	err := q.GORM(ctx).Where("id = ?", id).Limit(1).Find(&gcs).Error
	if err != nil {
		return model.Car{}, dbErr("get car", err)
	}
	if len(gcs) == 0 {
		return model.Car{}, fmt.Errorf("car #%d: %w", id, model.ErrCarNotFound)
	}
	return gcs[0].Model()
}

// FindOne returns one car which matches with cr criteria. Available
// cars take precedence over sold cars, and among them, the car with
// the lowest ID is chosen. If no car matches with cr, an error wrapping
// model.ErrCarNotFound is returned.
func FindOne[Q rdbms.Queryer](
	ctx context.Context, q Q, cr model.Criteria,
) (model.Car, error) {
	var gcs []gCar
	err := q.GORM(ctx).Where(
		"body = ? AND engine = ? AND drive = ? AND colour = ?",
		cr.Body, cr.EngineType, cr.DriveType, cr.Colour,
	).Order("sold IS NOT NULL").Order("id").Limit(1).Find(&gcs).Error
	if err != nil {
		return model.Car{}, dbErr("find car", err)
	}
	if len(gcs) == 0 {
		return model.Car{}, fmt.Errorf(
			"%s %s %s %s: %w",
			cr.Body, cr.EngineType, cr.DriveType, cr.Colour,
			model.ErrCarNotFound,
		)
	}
	return gcs[0].Model()
}

// Create inserts the c car, which may not be persisted beforehand, and
// returns it as it is read back from the store, having its assigned ID.
func Create[Q rdbms.Queryer](
	ctx context.Context, q Q, c model.Car,
) (model.Car, error) {
	if c.Persisted() {
		return model.Car{}, fmt.Errorf("car #%d is persisted already", c.ID)
	}
	if err := c.Status.Validate(); err != nil {
		return model.Car{}, err
	}
	gc := fromModel(c)
	if err := q.GORM(ctx).Create(&gc).Error; err != nil {
		return model.Car{}, dbErr("create car", err)
	}
	return Get(ctx, q, int64(gc.ID))
}

// CompareAndSetStatus updates the status of the id car from the `from`
// status to the `to` status in one conditional statement. Since the
// condition is evaluated while the row is locked for the update, among
// concurrent callers with the same `from` status, only one may succeed.
func CompareAndSetStatus[Q rdbms.Queryer](
	ctx context.Context, q Q, id int64, from, to model.Status,
) error {
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return err
	}
	gdb := q.GORM(ctx).Model(&gCar{}).Where("id = ?", id)
	if m := from.Marker(); m == nil {
		gdb = gdb.Where("sold IS NULL")
	} else {
		gdb = gdb.Where("sold = ?", *m)
	}
	gdb = gdb.Update("sold", markerValue(to))
	if err := gdb.Error; err != nil {
		return dbErr("compare and set status", err)
	}
	if gdb.RowsAffected == 1 {
		return nil
	}
	exists, err := exists(ctx, q, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("car #%d: %w", id, model.ErrCarNotFound)
	}
	return fmt.Errorf(
		"car #%d is not %s: %w", id, from, model.ErrCarNotAvailable,
	)
}

// SetStatus updates the status of the id car unconditionally.
func SetStatus[Q rdbms.Queryer](
	ctx context.Context, q Q, id int64, st model.Status,
) error {
	if err := st.Validate(); err != nil {
		return err
	}
	gdb := q.GORM(ctx).Model(&gCar{}).Where(
		"id = ?", id,
	).Update("sold", markerValue(st))
	if err := gdb.Error; err != nil {
		return dbErr("set status", err)
	}
	if gdb.RowsAffected == 0 {
		return fmt.Errorf("car #%d: %w", id, model.ErrCarNotFound)
	}
	return nil
}

// ResetAll makes all sold cars available in one statement and returns
// the number of reset cars.
func ResetAll[Q rdbms.Queryer](ctx context.Context, q Q) (int64, error) {
	gdb := q.GORM(ctx).Model(&gCar{}).Where(
		"sold IS NOT NULL",
	).Update("sold", nil)
	if err := gdb.Error; err != nil {
		return 0, dbErr("reset all", err)
	}
	return gdb.RowsAffected, nil
}

func exists[Q rdbms.Queryer](ctx context.Context, q Q, id int64) (bool, error) {
	var n int64
	err := q.GORM(ctx).Model(&gCar{}).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, dbErr("count cars", err)
	}
	return n > 0, nil
}
