package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/steiner385/MachShop-sub013/modules/mrp/services"
)

func newExceptionsCmd() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "exceptions",
		Short: "List the planning exceptions of one run",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(runID)
			if err != nil {
				return fmt.Errorf("invalid --run: %w", err)
			}

			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			app, err := buildApp(pool)
			if err != nil {
				return err
			}

			ctx := opContext(cmd.Context(), app)
			svc := app.Service(services.MRPRunService{}).(*services.MRPRunService)

			start := time.Now()
			exceptions, err := svc.ListExceptions(ctx, id)
			if err != nil {
				return err
			}
			return writeResult("exceptions", start, exceptions)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "MRP run UUID (required)")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}
