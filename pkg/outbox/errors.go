package outbox

import (
	"fmt"

	"github.com/steiner385/MachShop-sub013/pkg/serrors"
)

// ErrInvalidConfig wraps every construction-time validation failure in
// this package, so callers can match one sentinel with errors.Is.
var ErrInvalidConfig = serrors.NewError("OUTBOX_INVALID_CONFIG", "invalid outbox configuration")

func invalidConfig(field string) error {
	return fmt.Errorf("%w: %s is required", ErrInvalidConfig, field)
}
