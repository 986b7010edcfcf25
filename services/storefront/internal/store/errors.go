package store

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/beauty_shop/pkg/backendclient"
)

var (
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not found")
	ErrBackend      = errors.New("backend request failed")
	ErrUnconfigured = errors.New("backend is not configured")
	ErrBusy         = errors.New("another change to this product is in progress")
	ErrUnauthorized = errors.New("unauthorized")
)

// BackendError classifies a backend client failure into one of the store's
// sentinel errors, keeping the original error in the chain.
func BackendError(op string, err error) error {
	var kind error
	switch {
	case errors.Is(err, backendclient.ErrUnconfigured):
		kind = ErrUnconfigured
	case errors.Is(err, backendclient.ErrUnauthorized), errors.Is(err, backendclient.ErrForbidden):
		kind = ErrUnauthorized
	case errors.Is(err, backendclient.ErrNotFound):
		kind = ErrNotFound
	case errors.Is(err, backendclient.ErrRejected):
		kind = ErrValidation
	default:
		kind = ErrBackend
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
