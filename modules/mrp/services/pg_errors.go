package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func mapPgErrorToServiceError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return newServiceError(http.StatusNotFound, "MRP_NOT_FOUND", "not found", err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		recordWriteConflict("unique")
		switch pgErr.ConstraintName {
		case "mrp_runs_run_number_key":
			return newServiceError(http.StatusConflict, "MRP_RUN_NUMBER_CONFLICT", "run number already exists", err)
		case "mrp_outbox_events_event_id_key":
			return newServiceError(http.StatusConflict, "MRP_EVENT_CONFLICT", "event already enqueued", err)
		case "parts_site_id_part_number_key":
			return newServiceError(http.StatusConflict, "MRP_PART_NUMBER_CONFLICT", "part number already exists", err)
		default:
			return newServiceError(http.StatusConflict, "MRP_CONFLICT", "unique constraint violated", err)
		}
	case "23503": // foreign_key_violation
		recordWriteConflict("foreign_key")
		return newServiceError(http.StatusUnprocessableEntity, "MRP_REFERENCE_NOT_FOUND", "foreign key violation", err)
	case "23514": // check_violation (status transitions, quantity signs)
		recordWriteConflict("check")
		return newServiceError(http.StatusUnprocessableEntity, "MRP_INTEGRITY", "check constraint violated", err)
	case "23000": // integrity_constraint_violation
		recordWriteConflict("integrity")
		return newServiceError(http.StatusUnprocessableEntity, "MRP_INTEGRITY", "integrity constraint violated", err)
	default:
		return newServiceError(http.StatusInternalServerError, "MRP_INTERNAL", fmt.Sprintf("database error (%s)", pgErr.Code), err)
	}
}
