package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/steiner385/MachShop-sub013/modules/mrp/services"
)

func newConvertCmd() *cobra.Command {
	var (
		orderID      string
		workOrderRef string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a planned order into a work order",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(orderID)
			if err != nil {
				return fmt.Errorf("invalid --id: %w", err)
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
			svc := app.Service(services.PlannedOrderService{}).(*services.PlannedOrderService)

			start := time.Now()
			order, err := svc.ConvertToWorkOrder(ctx, id, services.ConvertToWorkOrderInput{
				WorkOrderRef: workOrderRef,
			})
			if err != nil {
				return err
			}
			return writeResult("convert", start, order)
		},
	}

	cmd.Flags().StringVar(&orderID, "id", "", "Planned order UUID (required)")
	cmd.Flags().StringVar(&workOrderRef, "work-order-ref", "", "Work order reference to record (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("work-order-ref")
	return cmd
}
