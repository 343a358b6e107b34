package planning

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CircularBOMReferenceError is fatal: the active BOM edges reachable
// from a schedule entry's part form a cycle. Cycle holds the part IDs
// along the offending path in traversal order, with the repeated part
// appearing first and last. PartNumbers is the parallel human-readable
// form used in the message.
type CircularBOMReferenceError struct {
	Cycle       []uuid.UUID
	PartNumbers []string
}

func (e *CircularBOMReferenceError) Error() string {
	return fmt.Sprintf("circular BOM reference detected: %s", strings.Join(e.PartNumbers, " -> "))
}

// MaxDepthExceededError is the circuit breaker for BOM graphs deeper
// than the configured limit. It fails the run the same way a detected
// cycle does.
type MaxDepthExceededError struct {
	PartID     uuid.UUID
	PartNumber string
	MaxDepth   int
}

func (e *MaxDepthExceededError) Error() string {
	return fmt.Sprintf("BOM explosion exceeded maximum depth %d at part %s", e.MaxDepth, e.PartNumber)
}
