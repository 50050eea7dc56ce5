package interfaces

import (
	"errors"

	"github.com/mockpay/sessionkit/internal/models"
)

// ErrNoPresentationContext means the environment has no active surface to
// present into. Sessions fail immediately on it, without retrying.
var ErrNoPresentationContext = errors.New("no presentation context")

// ErrPresentationBusy means another modal currently occupies the surface.
// The coordinator treats it as transient contention and backs off.
var ErrPresentationBusy = errors.New("presentation surface busy")

// PresentationSurface shows lifecycle stages and reports user intent back on
// the signals channel handed to Present. Present returns immediately; a
// surface may refuse with ErrNoPresentationContext or ErrPresentationBusy.
// Signals it emits belong to the stage it most recently accepted.
type PresentationSurface interface {
	Present(stage models.Stage, req models.TransactionRequest, signals chan<- models.Signal) error
}
