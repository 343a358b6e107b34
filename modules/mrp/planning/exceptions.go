package planning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/steiner385/MachShop-sub013/modules/mrp/domain/plan"
)

func newException(runID uuid.UUID, partID *uuid.UUID, exType, severity, message string, at time.Time) plan.Exception {
	return plan.Exception{
		ID:            uuid.New(),
		MRPRunID:      runID,
		PartID:        partID,
		ExceptionType: exType,
		Severity:      severity,
		Message:       message,
		CreatedAt:     at,
	}
}

// NewLateOrderException flags an order whose lead time reaches into the
// past: the order was clipped to the run date and is short daysLate
// days of lead time.
func NewLateOrderException(runID, partID uuid.UUID, partNumber string, daysLate int, dueDate time.Time, at time.Time) plan.Exception {
	msg := fmt.Sprintf("planned order for part %s due %s is %d day(s) late; order date clipped to the run date",
		partNumber, dueDate.Format("2006-01-02"), daysLate)
	return newException(runID, &partID, plan.ExceptionLateOrder, plan.SeverityWarning, msg, at)
}

// NewOrphanedDemandException flags demand generated for a part missing
// from the part master.
func NewOrphanedDemandException(runID uuid.UUID, partID uuid.UUID, at time.Time) plan.Exception {
	msg := fmt.Sprintf("demand generated for part %s which is missing from the part master; branch skipped", partID)
	return newException(runID, &partID, plan.ExceptionOrphanedDemand, plan.SeverityWarning, msg, at)
}

// NewDataIntegrityException records a skipped branch from explosion.
func NewDataIntegrityException(runID uuid.UUID, issue IntegrityIssue, at time.Time) plan.Exception {
	return newException(runID, issue.PartID, plan.ExceptionDataIntegrity, plan.SeverityWarning, issue.Message, at)
}

// DetectExcessOnHand emits an advisory INFO exception for every part in
// this run's requirements whose starting on-hand balance exceeds twice
// its total gross demand across the horizon. Parts the run never
// touched are not judged.
func DetectExcessOnHand(s *Snapshot, runID uuid.UUID, totalGross map[uuid.UUID]decimal.Decimal, order []uuid.UUID, at time.Time) []plan.Exception {
	two := decimal.NewFromInt(2)
	var out []plan.Exception
	for _, partID := range order {
		gross := totalGross[partID]
		if gross.Sign() <= 0 {
			continue
		}
		onHand := s.OnHandQuantity(partID)
		if onHand.GreaterThan(gross.Mul(two)) {
			pid := partID
			msg := fmt.Sprintf("on-hand %s for part %s exceeds twice the total gross requirement %s in this run",
				onHand, s.PartNumber(partID), gross)
			out = append(out, newException(runID, &pid, plan.ExceptionExcessOnHand, plan.SeverityInfo, msg, at))
		}
	}
	return out
}
