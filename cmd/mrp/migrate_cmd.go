package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			app, err := buildApp(pool)
			if err != nil {
				return err
			}

			start := time.Now()
			if err := app.Migrations().Run(cmd.Context()); err != nil {
				return err
			}
			return writeResult("migrate", start, "ok")
		},
	}
}
