package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mockpay/sessionkit/internal/interfaces"
	"github.com/mockpay/sessionkit/internal/metrics"
	"github.com/mockpay/sessionkit/internal/models"
	"github.com/mockpay/sessionkit/internal/registry"
)

// signalBuffer sizes the per-session signal channel. Surfaces deliver at
// most one signal per presented stage, so a small buffer keeps them from
// ever blocking.
const signalBuffer = 4

// Coordinator drives a single payment session through its stage sequence.
// All transitions run on one goroutine, so no two transitions for the same
// transaction ever execute concurrently. It produces exactly one outcome
// and fires the completion callback exactly once, whichever path the
// session takes.
type Coordinator struct {
	req      models.TransactionRequest
	surface  interfaces.PresentationSurface
	notifier interfaces.OverlayNotifier
	registry *registry.Registry
	cfg      Config
	onResult func(models.TransactionOutcome)

	signals chan models.Signal

	mu    sync.Mutex // protects stage, read by registry diagnostics
	stage models.Stage

	settled atomic.Bool
}

func newCoordinator(req models.TransactionRequest, surface interfaces.PresentationSurface, notifier interfaces.OverlayNotifier, reg *registry.Registry, cfg Config, onResult func(models.TransactionOutcome)) *Coordinator {
	return &Coordinator{
		req:      req,
		surface:  surface,
		notifier: notifier,
		registry: reg,
		cfg:      cfg,
		onResult: onResult,
		signals:  make(chan models.Signal, signalBuffer),
		stage:    models.StageAwaiting,
	}
}

// Request returns the immutable request this session was started for.
func (c *Coordinator) Request() models.TransactionRequest {
	return c.req
}

// Stage reports the stage the session is currently in.
func (c *Coordinator) Stage() models.Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

func (c *Coordinator) setStage(stage models.Stage) {
	c.mu.Lock()
	c.stage = stage
	c.mu.Unlock()
}

// run executes the session to completion. It is launched on its own
// goroutine by Service.Start and owns every state transition.
func (c *Coordinator) run(ctx context.Context) {
	if !c.presentSummary(ctx) {
		return
	}

	sig, err := c.await(ctx, models.SignalConfirmed, models.SignalCancelled)
	if err != nil {
		c.finish(models.StatusFailed, "session aborted: "+err.Error())
		return
	}
	if sig == models.SignalCancelled {
		c.finish(models.StatusCancelled, "cancelled by user")
		return
	}

	// Confirmed: simulated processing runs for a fixed duration and cannot
	// be aborted by the user.
	c.setStage(models.StageProcessing)
	if err := c.surface.Present(models.StageProcessing, c.req, c.signals); err != nil {
		c.finish(models.StatusFailed, "no presentation context")
		return
	}
	<-time.After(c.cfg.ProcessingDuration)

	// The outcome is decided the instant processing elapses and is never
	// revised, even if the acknowledgement wait is interrupted.
	outcome := models.TransactionOutcome{
		TransactionID: c.req.ID,
		Status:        models.StatusSuccess,
		Amount:        c.req.Amount,
		Timestamp:     time.Now(),
		Message:       "payment completed",
	}

	c.setStage(models.StageSuccess)
	if err := c.surface.Present(models.StageSuccess, c.req, c.signals); err != nil {
		log.Printf("session %s: success stage not presentable: %v", c.req.ID, err)
	} else if _, err := c.await(ctx, models.SignalAcknowledged); err != nil {
		log.Printf("session %s: acknowledgement wait interrupted: %v", c.req.ID, err)
	}

	c.announce(outcome)
	c.complete(outcome)
}

// presentSummary attempts to show the summary stage, backing off for a
// bounded number of attempts while the surface is busy. It reports whether
// the session may proceed; on false the session has already been finalized.
func (c *Coordinator) presentSummary(ctx context.Context) bool {
	for attempt := 1; ; attempt++ {
		err := c.surface.Present(models.StageSummary, c.req, c.signals)
		if err == nil {
			c.setStage(models.StageSummary)
			return true
		}
		if !errors.Is(err, interfaces.ErrPresentationBusy) {
			c.finish(models.StatusFailed, "no presentation context")
			return false
		}
		if attempt >= c.cfg.MaxPresentAttempts {
			c.finish(models.StatusFailed, fmt.Sprintf("presentation timed out after %d attempts", attempt))
			return false
		}

		c.setStage(models.StageRetrying)
		metrics.PresentationRetries.Inc()
		select {
		case <-time.After(c.cfg.RetryInterval):
			c.setStage(models.StageAwaiting)
		case <-ctx.Done():
			c.finish(models.StatusFailed, "session aborted: "+ctx.Err().Error())
			return false
		}
	}
}

// await blocks until the surface delivers one of the accepted signals.
// Signals that do not belong to the current stage are discarded.
func (c *Coordinator) await(ctx context.Context, accepted ...models.Signal) (models.Signal, error) {
	for {
		select {
		case sig := <-c.signals:
			for _, want := range accepted {
				if sig == want {
					return sig, nil
				}
			}
			log.Printf("session %s: ignoring signal %q in stage %s", c.req.ID, sig, c.Stage())
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// announce delivers the success overlay off the session goroutine, after a
// fixed delay. Announcement failures are logged and never influence the
// outcome or the completion callback.
func (c *Coordinator) announce(outcome models.TransactionOutcome) {
	if c.notifier == nil {
		return
	}
	go func() {
		time.Sleep(c.cfg.AnnounceDelay)
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.AnnounceTimeout)
		defer cancel()
		if err := c.notifier.AnnounceSuccess(ctx, outcome); err != nil {
			log.Printf("session %s: overlay announcement failed: %v", outcome.TransactionID, err)
		}
	}()
}

// finish builds the terminal outcome for a non-success path and settles the
// session with it.
func (c *Coordinator) finish(status models.Status, message string) {
	c.complete(models.TransactionOutcome{
		TransactionID: c.req.ID,
		Status:        status,
		Amount:        c.req.Amount,
		Timestamp:     time.Now(),
		Message:       message,
	})
}

// complete settles the session exactly once: it records metrics, fires the
// completion callback, and releases the registry entry as the final act. A
// second settle attempt is a coordinator bug and panics.
func (c *Coordinator) complete(outcome models.TransactionOutcome) {
	if !c.settled.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("session %s: outcome settled twice", c.req.ID))
	}
	c.setStage(models.StageCompleted)

	metrics.SessionsCompleted.WithLabelValues(string(outcome.Status)).Inc()
	metrics.SessionDuration.Observe(time.Since(c.req.CreatedAt).Seconds())

	if c.onResult != nil {
		c.onResult(outcome)
	}
	c.registry.End(c.req.ID)
}

// Compile-time check: the coordinator satisfies the registry's session view.
var _ registry.Session = (*Coordinator)(nil)
