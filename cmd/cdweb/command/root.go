// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the cdweb
// car dealer project. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command initializes the database and the "cars" sub-command
// runs the inventory use cases directly from the command line.
//
//	./cdweb [-c /path/of/main/config.yaml]           # start web server
//	./cdweb db init-dev [-c /path/of/main/config.yaml]
//	./cdweb db init-prod [-c /path/of/main/config.yaml]
//	./cdweb cars list [--json]
//	./cdweb cars add --body suv --engine v8 --drive awd \
//	    --colour silver --price 41000
//	./cdweb cars purchase --body suv --engine v8 --drive awd \
//	    --colour silver [--premium]
//	./cdweb cars reset <id> | --all
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/momeni/cardealer/pkg/adapter/config"
	"github.com/momeni/cardealer/pkg/adapter/db/rdbms"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin"
	"github.com/momeni/cardealer/pkg/adapter/restful/gin/routes"
	"github.com/momeni/cardealer/pkg/core/log"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "cdweb",
	Short: "A car dealer inventory and reservation service",
	Long: `A car dealer inventory and reservation service which keeps
a catalog of cars, each one being available or sold, and lets buyers
purchase a car matching their body, engine, drive, and colour criteria.
A car may be sold at most once, even when many buyers race for it,
until an administrator resets it to the available status again.
The final price is computed by the configured pricing strategy.
Cars are stored in a SQLite file or a PostgreSQL database, as selected
by the configuration file or the DATABASE_URL and CARDEALER_SQLITE_PATH
environment variables.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, p, err := connect(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	var e *gin.Engine = c.Gin.NewEngine()
	if err = routes.Register(ctx, e, p, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	if err = e.Run(*c.Gin.Address); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// connect loads the configuration file and opens a connection pool
// to its database. The caller must close the returned pool.
func connect(ctx context.Context) (*config.Config, *rdbms.Pool, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	log.Debug(
		ctx, "configuration is loaded",
		slog.String("path", cfgPath),
		slog.String("driver", c.Database.Driver),
	)
	p, err := c.Database.ConnectionPool(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("creating DB pool: %w", err)
	}
	return c, p, nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code is
// zero for success and one for any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
