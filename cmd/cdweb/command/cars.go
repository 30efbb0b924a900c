// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/momeni/cardealer/pkg/core/model"
	"github.com/momeni/cardealer/pkg/core/usecase/carsuc"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	premium    bool
	resetAll   bool
	carForm    model.CarForm
)

var carsCmd = &cobra.Command{
	Use:   "cars",
	Short: "Inventory management actions",
	Long: `Inventory management actions run the cars use cases directly
on the configured database, without going through the REST APIs.
They may be used while the web server is running too.`,
}

var listCarsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cars and their statuses",
	RunE:  listCars,
	Args:  cobra.NoArgs,
}

var addCarCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an available car to the inventory",
	RunE:  addCar,
	Args:  cobra.NoArgs,
}

var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Buy a car matching the given criteria",
	Long: `Buy one available car which matches with the body, engine,
drive, and colour criteria and print its final price. The standard
pricing strategy is used unless the --premium flag is given.`,
	RunE: purchase,
	Args: cobra.NoArgs,
}

var resetCmd = &cobra.Command{
	Use:   "reset {<id>... | --all}",
	Short: "Make sold cars available again",
	RunE:  reset,
}

// withCars loads the configuration, connects to its database, and
// calls fn with a cars use case instance.
func withCars(
	ctx context.Context, fn func(cars *carsuc.UseCase) error,
) error {
	c, p, err := connect(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	cars, err := c.Usecases.Cars.NewUseCase(p, c.Database.NewCarsRepo())
	if err != nil {
		return fmt.Errorf("creating cars use case: %w", err)
	}
	return fn(cars)
}

func listCars(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	return withCars(ctx, func(cars *carsuc.UseCase) error {
		cs, err := cars.List(ctx)
		if err != nil {
			return fmt.Errorf("listing cars: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), cs)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tBODY\tENGINE\tDRIVE\tCOLOUR\tPRICE\tSTATUS")
		for _, car := range cs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				car.ID, car.Body, car.EngineType, car.DriveType,
				car.Colour, car.Price.StringFixed(2), car.Status,
			)
		}
		return w.Flush()
	})
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func addCar(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	return withCars(ctx, func(cars *carsuc.UseCase) error {
		car, err := cars.Add(ctx, carForm)
		if err != nil {
			return fmt.Errorf("adding car: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), car)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "car #%d is added: %s\n", car.ID, car)
		return nil
	})
}

func purchase(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cr := model.Criteria{
		Body:       carForm.Body,
		EngineType: carForm.EngineType,
		DriveType:  carForm.DriveType,
		Colour:     carForm.Colour,
	}.Trimmed()
	return withCars(ctx, func(cars *carsuc.UseCase) error {
		buy := cars.Purchase
		if premium {
			buy = cars.PurchasePremium
		}
		price, err := buy(ctx, cr)
		if err != nil {
			return fmt.Errorf("purchasing car: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sold for %s\n", price)
		return nil
	})
}

func reset(cmd *cobra.Command, args []string) error {
	switch {
	case resetAll && len(args) > 0:
		return errors.New("car IDs may not be used with --all")
	case !resetAll && len(args) == 0:
		return errors.New("car IDs or --all must be given")
	}
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing car ID %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	ctx := context.Background()
	return withCars(ctx, func(cars *carsuc.UseCase) error {
		cmds := []carsuc.Command{cars.NewResetAll()}
		if !resetAll {
			cmds = cmds[:0]
			for _, id := range ids {
				cmds = append(cmds, cars.NewResetOne(id))
			}
		}
		if err := cars.Run(ctx, cmds...); err != nil {
			return fmt.Errorf("resetting cars: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cars are available")
		return nil
	})
}

func init() {
	rootCmd.AddCommand(carsCmd)
	carsCmd.AddCommand(listCarsCmd, addCarCmd, purchaseCmd, resetCmd)

	carsCmd.PersistentFlags().BoolVar(
		&jsonOutput, "json", false, "print results as JSON",
	)
	for _, cmd := range []*cobra.Command{addCarCmd, purchaseCmd} {
		fs := cmd.Flags()
		fs.StringVar(&carForm.Body, "body", "", "body type, e.g., sedan")
		fs.StringVar(&carForm.EngineType, "engine", "", "engine type, e.g., v6")
		fs.StringVar(&carForm.DriveType, "drive", "", "drive type, e.g., awd")
		fs.StringVar(&carForm.Colour, "colour", "", "colour, e.g., black")
	}
	addCarCmd.Flags().StringVar(
		&carForm.Price, "price", "", "base price, e.g., 20000.50",
	)
	purchaseCmd.Flags().BoolVar(
		&premium, "premium", false, "use the premium pricing strategy",
	)
	resetCmd.Flags().BoolVar(
		&resetAll, "all", false, "reset all sold cars",
	)
}
