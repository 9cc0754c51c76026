package repositories

import (
	"fmt"

	"github.com/desertthunder/songbook/internal/shared"
)

// persistenceError wraps a driver error in [shared.ErrPersistence] with context.
func persistenceError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", shared.ErrPersistence, msg, err)
}
