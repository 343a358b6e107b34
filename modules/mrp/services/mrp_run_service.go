package services

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/events"
	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
	"github.com/steiner385/MachShop-sub013/modules/mrp/planning"
	"github.com/steiner385/MachShop-sub013/pkg/composables"
	"github.com/steiner385/MachShop-sub013/pkg/constants"
	"github.com/steiner385/MachShop-sub013/pkg/outbox"
)

// OutboxTable is where MRP integration events wait for the relay.
var OutboxTable = pgx.Identifier{"mrp_outbox_events"}

// eventIDNamespace makes outbox event IDs deterministic per run and
// topic, so retried final writes stay idempotent.
var eventIDNamespace = uuid.MustParse("7c9e04b1-52a8-4de1-9f64-3d52b8c7e0a2")

var oneHundred = decimal.NewFromInt(100)

// SnapshotRepository loads the full planning input in one consistent
// read: site-scoped part master and BOM edges, aggregated on-hand, and
// the schedule entries whose start date falls inside the horizon.
type SnapshotRepository interface {
	Load(ctx context.Context, siteID, scheduleID uuid.UUID, runDate time.Time, horizonDays int) (*planning.Snapshot, error)
}

// RunServiceOptions carry the site-independent planning defaults.
type RunServiceOptions struct {
	MaxBOMDepth        int
	DefaultHorizonDays int
}

type MRPRunService struct {
	snapshots SnapshotRepository
	runs      plan.RunRepository
	publisher outbox.Publisher
	opts      RunServiceOptions
	now       func() time.Time
}

func NewMRPRunService(snapshots SnapshotRepository, runs plan.RunRepository, publisher outbox.Publisher, opts RunServiceOptions) *MRPRunService {
	if opts.MaxBOMDepth <= 0 {
		opts.MaxBOMDepth = planning.DefaultMaxDepth
	}
	if opts.DefaultHorizonDays <= 0 {
		opts.DefaultHorizonDays = 30
	}
	return &MRPRunService{
		snapshots: snapshots,
		runs:      runs,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
	}
}

type CreateRunInput struct {
	SiteID           uuid.UUID       `validate:"required"`
	ScheduleID       uuid.UUID       `validate:"required"`
	HorizonDays      int             `validate:"omitempty,gt=0,lte=3650"`
	SafetyStockLevel decimal.Decimal `validate:"-"`
}

// Execute runs the whole MRP pipeline for one schedule: persist the
// run, load the snapshot, plan, and commit the results in one final
// transaction. Any failure after the run row exists marks it FAILED
// and discards in-memory results; nothing partial is ever written.
func (s *MRPRunService) Execute(ctx context.Context, input CreateRunInput) (*plan.MRPRun, error) {
	if err := constants.Validate.Struct(input); err != nil {
		return nil, newServiceError(http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), err)
	}
	if input.SafetyStockLevel.Sign() < 0 || input.SafetyStockLevel.GreaterThan(oneHundred) {
		return nil, newServiceError(http.StatusBadRequest, "VALIDATION_FAILED", "safety stock level must be between 0 and 100", nil)
	}
	horizon := input.HorizonDays
	if horizon == 0 {
		horizon = s.opts.DefaultHorizonDays
	}

	startedAt := s.now().UTC()
	runDate := planning.DateOnly(startedAt)
	run := &plan.MRPRun{
		ID:               uuid.New(),
		SiteID:           input.SiteID,
		ScheduleID:       input.ScheduleID,
		Status:           plan.RunStatusCreated,
		RunDate:          runDate,
		HorizonDays:      horizon,
		SafetyStockLevel: input.SafetyStockLevel,
		CreatedAt:        startedAt,
	}
	run.RunNumber = runNumber(runDate, run.ID)

	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"run_id":     run.ID,
		"run_number": run.RunNumber,
		"site_id":    input.SiteID,
	})
	logger.WithField("horizon_days", horizon).Info("mrp run accepted")

	if _, err := inTx(ctx, func(txCtx context.Context) (struct{}, error) {
		return struct{}{}, s.runs.Create(txCtx, run)
	}); err != nil {
		return nil, mapPgError(err)
	}

	if _, err := inTx(ctx, func(txCtx context.Context) (struct{}, error) {
		return struct{}{}, s.runs.MarkRunning(txCtx, run.ID)
	}); err != nil {
		return nil, s.fail(ctx, run, startedAt, "could not start run", mapPgError(err))
	}
	running := s.now().UTC()
	run.Status = plan.RunStatusRunning
	run.StartedAt = &running

	snap, err := inTx(ctx, func(txCtx context.Context) (*planning.Snapshot, error) {
		return s.snapshots.Load(txCtx, input.SiteID, input.ScheduleID, runDate, horizon)
	})
	if err != nil {
		return nil, s.fail(ctx, run, startedAt, "snapshot load failed", mapPgError(err))
	}

	result, err := planning.Run(snap, planning.Params{
		RunID:            run.ID,
		RunDate:          runDate,
		SafetyStockLevel: input.SafetyStockLevel,
		MaxDepth:         s.opts.MaxBOMDepth,
		Now:              s.now().UTC(),
	})
	if err != nil {
		return nil, s.fail(ctx, run, startedAt, "planning failed", planningError(err))
	}

	completedAt := s.now().UTC()
	run.Status = plan.RunStatusCompleted
	run.CompletedAt = &completedAt
	run.PlannedOrdersCount = len(result.PlannedOrders)
	run.PeggingCount = len(result.Pegging)
	run.ExceptionsCount = len(result.Exceptions)

	if _, err := inTx(ctx, func(txCtx context.Context) (struct{}, error) {
		if err := s.runs.Complete(txCtx, run, result.PlannedOrders, result.Pegging, result.Exceptions); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.enqueueCompleted(txCtx, run, completedAt)
	}); err != nil {
		return nil, s.fail(ctx, run, startedAt, "final write failed", mapPgError(err))
	}

	recordRunFinished(plan.RunStatusCompleted, time.Since(startedAt).Seconds())
	recordPlanningOutput(len(result.PlannedOrders), countExceptionTypes(result.Exceptions))
	logger.WithFields(logrus.Fields{
		"planned_orders": run.PlannedOrdersCount,
		"pegging":        run.PeggingCount,
		"exceptions":     run.ExceptionsCount,
	}).Info("mrp run completed")
	return run, nil
}

func (s *MRPRunService) GetRun(ctx context.Context, runID uuid.UUID) (*plan.MRPRun, error) {
	if runID == uuid.Nil {
		return nil, newServiceError(http.StatusBadRequest, "VALIDATION_FAILED", "run id is required", nil)
	}
	run, err := inTx(ctx, func(txCtx context.Context) (*plan.MRPRun, error) {
		return s.runs.GetByID(txCtx, runID)
	})
	if err != nil {
		return nil, mapPgError(err)
	}
	return run, nil
}

func (s *MRPRunService) GetRunByNumber(ctx context.Context, runNumber string) (*plan.MRPRun, error) {
	if strings.TrimSpace(runNumber) == "" {
		return nil, newServiceError(http.StatusBadRequest, "VALIDATION_FAILED", "run number is required", nil)
	}
	run, err := inTx(ctx, func(txCtx context.Context) (*plan.MRPRun, error) {
		return s.runs.GetByRunNumber(txCtx, runNumber)
	})
	if err != nil {
		return nil, mapPgError(err)
	}
	return run, nil
}

func (s *MRPRunService) ListRuns(ctx context.Context, f plan.RunFilter) ([]plan.MRPRun, error) {
	runs, err := inTx(ctx, func(txCtx context.Context) ([]plan.MRPRun, error) {
		return s.runs.List(txCtx, f)
	})
	if err != nil {
		return nil, mapPgError(err)
	}
	return runs, nil
}

func (s *MRPRunService) ListPegging(ctx context.Context, runID uuid.UUID) ([]plan.Pegging, error) {
	records, err := inTx(ctx, func(txCtx context.Context) ([]plan.Pegging, error) {
		return s.runs.ListPegging(txCtx, runID)
	})
	if err != nil {
		return nil, mapPgError(err)
	}
	return records, nil
}

func (s *MRPRunService) ListExceptions(ctx context.Context, runID uuid.UUID) ([]plan.Exception, error) {
	exceptions, err := inTx(ctx, func(txCtx context.Context) ([]plan.Exception, error) {
		return s.runs.ListExceptions(txCtx, runID)
	})
	if err != nil {
		return nil, mapPgError(err)
	}
	return exceptions, nil
}

// fail transitions the run to FAILED best-effort and hands back the
// causing error as a ServiceError. Marking failure must not mask the
// original cause, so persistence errors here are only logged.
func (s *MRPRunService) fail(ctx context.Context, run *plan.MRPRun, startedAt time.Time, detail string, cause error) error {
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"run_id":     run.ID,
		"run_number": run.RunNumber,
	})
	failedAt := s.now().UTC()
	errorDetail := detail
	if cause != nil {
		errorDetail = detail + ": " + cause.Error()
	}

	if _, err := inTx(ctx, func(txCtx context.Context) (struct{}, error) {
		if err := s.runs.Fail(txCtx, run.ID, errorDetail); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.enqueueFailed(txCtx, run, errorDetail, failedAt)
	}); err != nil {
		logger.WithError(err).Error("could not mark mrp run failed")
	}
	run.Status = plan.RunStatusFailed
	run.ErrorDetail = &errorDetail

	recordRunFinished(plan.RunStatusFailed, time.Since(startedAt).Seconds())
	logger.WithField("detail", errorDetail).Warn("mrp run failed")

	var svcErr *ServiceError
	if errors.As(cause, &svcErr) {
		return svcErr
	}
	return newServiceError(http.StatusInternalServerError, "MRP_INTERNAL", detail, cause)
}

func (s *MRPRunService) enqueueCompleted(txCtx context.Context, run *plan.MRPRun, completedAt time.Time) error {
	tx, err := composables.UseTx(txCtx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(events.MRPRunCompletedV1{
		EventID:            eventID(events.TopicMRPRunCompletedV1, run.ID),
		EventVersion:       events.EventVersionV1,
		RunID:              run.ID,
		RunNumber:          run.RunNumber,
		SiteID:             run.SiteID,
		ScheduleID:         run.ScheduleID,
		PlannedOrdersCount: run.PlannedOrdersCount,
		PeggingCount:       run.PeggingCount,
		ExceptionsCount:    run.ExceptionsCount,
		CompletedAt:        completedAt,
	})
	if err != nil {
		return err
	}
	_, err = s.publisher.Enqueue(txCtx, tx, OutboxTable, outbox.Message{
		Topic:   events.TopicMRPRunCompletedV1,
		EventID: eventID(events.TopicMRPRunCompletedV1, run.ID),
		Payload: payload,
	})
	return err
}

func (s *MRPRunService) enqueueFailed(txCtx context.Context, run *plan.MRPRun, detail string, failedAt time.Time) error {
	tx, err := composables.UseTx(txCtx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(events.MRPRunFailedV1{
		EventID:      eventID(events.TopicMRPRunFailedV1, run.ID),
		EventVersion: events.EventVersionV1,
		RunID:        run.ID,
		RunNumber:    run.RunNumber,
		SiteID:       run.SiteID,
		ScheduleID:   run.ScheduleID,
		ErrorDetail:  detail,
		FailedAt:     failedAt,
	})
	if err != nil {
		return err
	}
	_, err = s.publisher.Enqueue(txCtx, tx, OutboxTable, outbox.Message{
		Topic:   events.TopicMRPRunFailedV1,
		EventID: eventID(events.TopicMRPRunFailedV1, run.ID),
		Payload: payload,
	})
	return err
}

// planningError classifies a fatal engine error for the caller.
func planningError(err error) error {
	var cycleErr *planning.CircularBOMReferenceError
	if errors.As(err, &cycleErr) {
		return newServiceError(http.StatusUnprocessableEntity, "CIRCULAR_BOM_REFERENCE", cycleErr.Error(), err)
	}
	var depthErr *planning.MaxDepthExceededError
	if errors.As(err, &depthErr) {
		return newServiceError(http.StatusUnprocessableEntity, "BOM_DEPTH_EXCEEDED", depthErr.Error(), err)
	}
	return newServiceError(http.StatusInternalServerError, "MRP_INTERNAL", "planning failed", err)
}

func countExceptionTypes(exceptions []plan.Exception) map[string]int {
	if len(exceptions) == 0 {
		return nil
	}
	out := make(map[string]int, 4)
	for _, ex := range exceptions {
		out[ex.ExceptionType]++
	}
	return out
}

func eventID(topic string, runID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(eventIDNamespace, []byte(topic+":"+runID.String()))
}

func runNumber(runDate time.Time, runID uuid.UUID) string {
	return "MRP-" + runDate.Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(runID[:4]))
}
