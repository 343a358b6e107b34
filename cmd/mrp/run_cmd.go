package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
	"github.com/steiner385/MachShop-sub013/modules/mrp/services"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute and inspect MRP runs",
	}
	cmd.AddCommand(newRunExecuteCmd())
	cmd.AddCommand(newRunGetCmd())
	cmd.AddCommand(newRunListCmd())
	cmd.AddCommand(newRunPeggingCmd())
	return cmd
}

func newRunExecuteCmd() *cobra.Command {
	var (
		siteID      string
		scheduleID  string
		horizonDays int
		safetyStock string
	)

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Run the full MRP pipeline for one production schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := uuid.Parse(siteID)
			if err != nil {
				return fmt.Errorf("invalid --site: %w", err)
			}
			schedID, err := uuid.Parse(scheduleID)
			if err != nil {
				return fmt.Errorf("invalid --schedule: %w", err)
			}
			safety, err := decimal.NewFromString(safetyStock)
			if err != nil {
				return fmt.Errorf("invalid --safety-stock: %w", err)
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
			run, err := svc.Execute(ctx, services.CreateRunInput{
				SiteID:           sid,
				ScheduleID:       schedID,
				HorizonDays:      horizonDays,
				SafetyStockLevel: safety,
			})
			if err != nil {
				return err
			}
			return writeResult("run execute", start, run)
		},
	}

	cmd.Flags().StringVar(&siteID, "site", "", "Site UUID (required)")
	cmd.Flags().StringVar(&scheduleID, "schedule", "", "Production schedule UUID (required)")
	cmd.Flags().IntVar(&horizonDays, "horizon", 0, "Planning horizon in days (0 = MRP_DEFAULT_HORIZON_DAYS)")
	cmd.Flags().StringVar(&safetyStock, "safety-stock", "0", "Safety stock level in percent (0-100)")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("schedule")
	return cmd
}

func newRunGetCmd() *cobra.Command {
	var (
		runID     string
		runNumber string
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch one MRP run by id or run number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (runID == "") == (runNumber == "") {
				return fmt.Errorf("exactly one of --id or --number is required")
			}
			var id uuid.UUID
			if runID != "" {
				parsed, err := uuid.Parse(runID)
				if err != nil {
					return fmt.Errorf("invalid --id: %w", err)
				}
				id = parsed
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
			var run *plan.MRPRun
			if runID != "" {
				run, err = svc.GetRun(ctx, id)
			} else {
				run, err = svc.GetRunByNumber(ctx, runNumber)
			}
			if err != nil {
				return err
			}
			return writeResult("run get", start, run)
		},
	}

	cmd.Flags().StringVar(&runID, "id", "", "MRP run UUID")
	cmd.Flags().StringVar(&runNumber, "number", "", "MRP run number, e.g. MRP-20250501-0A1B2C3D")
	return cmd
}

func newRunListCmd() *cobra.Command {
	var (
		siteID     string
		scheduleID string
		status     string
		limit      int
		offset     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List MRP runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var f plan.RunFilter
			if siteID != "" {
				id, err := uuid.Parse(siteID)
				if err != nil {
					return fmt.Errorf("invalid --site: %w", err)
				}
				f.SiteID = &id
			}
			if scheduleID != "" {
				id, err := uuid.Parse(scheduleID)
				if err != nil {
					return fmt.Errorf("invalid --schedule: %w", err)
				}
				f.ScheduleID = &id
			}
			if status != "" {
				f.Status = &status
			}
			f.Limit = limit
			f.Offset = offset

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
			runs, err := svc.ListRuns(ctx, f)
			if err != nil {
				return err
			}
			return writeResult("run list", start, runs)
		},
	}

	cmd.Flags().StringVar(&siteID, "site", "", "Filter by site UUID")
	cmd.Flags().StringVar(&scheduleID, "schedule", "", "Filter by production schedule UUID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (CREATED, RUNNING, COMPLETED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (0 = server default)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	return cmd
}

func newRunPeggingCmd() *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "pegging",
		Short: "List the demand-to-supply pegging records of one run",
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
			pegging, err := svc.ListPegging(ctx, id)
			if err != nil {
				return err
			}
			return writeResult("run pegging", start, pegging)
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "MRP run UUID (required)")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}
