package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/steiner385/MachShop-sub013/modules/mrp/services"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect planned orders",
	}
	cmd.AddCommand(newOrdersListCmd())
	cmd.AddCommand(newOrdersGetCmd())
	return cmd
}

func newOrdersListCmd() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the planned orders of one run in date order",
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
			svc := app.Service(services.PlannedOrderService{}).(*services.PlannedOrderService)

			start := time.Now()
			orders, err := svc.ListByRun(ctx, id)
			if err != nil {
				return err
			}
			return writeResult("orders list", start, orders)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "MRP run UUID (required)")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func newOrdersGetCmd() *cobra.Command {
	var orderID string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch one planned order",
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
			order, err := svc.GetOrder(ctx, id)
			if err != nil {
				return err
			}
			return writeResult("orders get", start, order)
		},
	}

	cmd.Flags().StringVar(&orderID, "id", "", "Planned order UUID (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
