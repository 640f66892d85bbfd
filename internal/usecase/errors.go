package usecase

import (
	"errors"
	"fmt"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/transfer"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/turn"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/resilience"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// classify wraps domain errors with the use case error they map to. The
// domain error stays in the chain.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrDependencyUnavailable):
		return err
	case errors.Is(err, turn.ErrInvalidOrder),
		errors.Is(err, turn.ErrInvalidInput):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, turn.ErrTeamNotInOrder),
		errors.Is(err, turn.ErrNotYourTurn),
		errors.Is(err, roster.ErrConflict),
		errors.Is(err, transfer.ErrWindowNotActive),
		errors.Is(err, transfer.ErrWindowActive),
		errors.Is(err, transfer.ErrWrongStep),
		errors.Is(err, transfer.ErrTeamFinished),
		errors.Is(err, draft.ErrDraftNotActive),
		errors.Is(err, draft.ErrDraftStarted),
		errors.Is(err, draft.ErrVersionConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, resilience.ErrCircuitOpen):
		return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
	return err
}
