// Package scripted provides a presentation surface whose user is a script:
// it reacts to each presented stage after a fixed delay with a configured
// decision. The demo server and tests use it to drive complete sessions
// without a real UI.
package scripted

import (
	"sync"
	"time"

	"github.com/mockpay/sessionkit/internal/interfaces"
	"github.com/mockpay/sessionkit/internal/models"
)

// Surface is a single-slot presentation surface, like a phone screen: at
// most one modal flow holds it at a time. Present fails with
// ErrPresentationBusy while another transaction holds the slot and with
// ErrNoPresentationContext while the surface is detached.
type Surface struct {
	decision models.Signal // reaction at the summary stage: confirmed or cancelled
	reaction time.Duration // how long the scripted user takes to react

	mu       sync.Mutex
	attached bool
	holder   string // transaction ID currently holding the modal slot
}

// New creates an attached surface whose scripted user answers the summary
// stage with decision after each reaction delay.
func New(decision models.Signal, reaction time.Duration) *Surface {
	return &Surface{
		decision: decision,
		reaction: reaction,
		attached: true,
	}
}

// Detach removes the presentation context; Present fails until Attach.
func (s *Surface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = false
}

// Attach restores the presentation context.
func (s *Surface) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = true
}

// Holder reports which transaction currently holds the modal slot.
func (s *Surface) Holder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holder
}

// Present claims the modal slot for req (or re-enters it for the holder)
// and schedules the scripted reaction for the stage.
func (s *Surface) Present(stage models.Stage, req models.TransactionRequest, signals chan<- models.Signal) error {
	s.mu.Lock()
	if !s.attached {
		s.mu.Unlock()
		return interfaces.ErrNoPresentationContext
	}
	if s.holder != "" && s.holder != req.ID {
		s.mu.Unlock()
		return interfaces.ErrPresentationBusy
	}
	s.holder = req.ID
	s.mu.Unlock()

	switch stage {
	case models.StageSummary:
		go s.react(req.ID, signals, s.decision)
	case models.StageSuccess:
		go s.react(req.ID, signals, models.SignalAcknowledged)
	case models.StageProcessing:
		// Nothing to script; the coordinator owns the processing timer.
	}
	return nil
}

// react emits the scripted signal after the reaction delay. Signals that
// close the modal release the slot first, so the next session can claim it
// as soon as this one completes.
func (s *Surface) react(id string, signals chan<- models.Signal, sig models.Signal) {
	time.Sleep(s.reaction)
	if sig == models.SignalCancelled || sig == models.SignalAcknowledged {
		s.release(id)
	}
	signals <- sig
}

func (s *Surface) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holder == id {
		s.holder = ""
	}
}

var _ interfaces.PresentationSurface = (*Surface)(nil)
