// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"

	"github.com/momeni/cardealer/pkg/core/usecase/schemauc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For fresh installation in a development or production environment,
the init-dev or init-prod may be used. Both of them drop the existing
cars table, so all previous records will be lost.`,
}

// initDB loads the configuration, connects to its database, and runs
// the run function of the schema initialization use case.
func initDB(
	ctx context.Context,
	run func(iduc *schemauc.InitDBUseCase, ctx context.Context) error,
) error {
	c, p, err := connect(ctx)
	if err != nil {
		return err
	}
	defer p.Close()
	iduc := schemauc.NewInitDB(p, c.Database.NewSchemaRepo())
	return run(iduc, ctx)
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
