package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mockpay/sessionkit/internal/interfaces"
	"github.com/mockpay/sessionkit/internal/models"
	"github.com/mockpay/sessionkit/internal/registry"
)

// fakeSurface scripts both user intent and presentation failures. Each
// element of summaryErrs is consumed by one summary Present call; a nil
// element means the stage is accepted.
type fakeSurface struct {
	decision models.Signal

	mu          sync.Mutex
	summaryErrs []error
	stages      []models.Stage
}

func (f *fakeSurface) Present(stage models.Stage, req models.TransactionRequest, signals chan<- models.Signal) error {
	f.mu.Lock()
	f.stages = append(f.stages, stage)
	if stage == models.StageSummary && len(f.summaryErrs) > 0 {
		err := f.summaryErrs[0]
		f.summaryErrs = f.summaryErrs[1:]
		f.mu.Unlock()
		if err != nil {
			return err
		}
	} else {
		f.mu.Unlock()
	}

	switch stage {
	case models.StageSummary:
		go func() { signals <- f.decision }()
	case models.StageSuccess:
		go func() { signals <- models.SignalAcknowledged }()
	}
	return nil
}

func (f *fakeSurface) presented(stage models.Stage) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.stages {
		if s == stage {
			return true
		}
	}
	return false
}

// countingNotifier records every announcement it receives.
type countingNotifier struct {
	calls chan models.TransactionOutcome
}

func newCountingNotifier() *countingNotifier {
	return &countingNotifier{calls: make(chan models.TransactionOutcome, 8)}
}

func (n *countingNotifier) AnnounceSuccess(_ context.Context, outcome models.TransactionOutcome) error {
	n.calls <- outcome
	return nil
}

func testConfig() Config {
	return Config{
		ProcessingDuration: 10 * time.Millisecond,
		RetryInterval:      5 * time.Millisecond,
		MaxPresentAttempts: 3,
		AnnounceDelay:      time.Millisecond,
	}
}

// collector counts completion callbacks and hands outcomes to the test.
type collector struct {
	count    atomic.Int32
	outcomes chan models.TransactionOutcome
}

func newCollector() *collector {
	return &collector{outcomes: make(chan models.TransactionOutcome, 8)}
}

func (c *collector) onResult(outcome models.TransactionOutcome) {
	c.count.Add(1)
	c.outcomes <- outcome
}

func (c *collector) wait(t *testing.T) models.TransactionOutcome {
	t.Helper()
	select {
	case outcome := <-c.outcomes:
		return outcome
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for completion callback")
		return models.TransactionOutcome{}
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSessionConfirmSucceeds(t *testing.T) {
	reg := registry.New()
	surface := &fakeSurface{decision: models.SignalConfirmed}
	notifier := newCountingNotifier()
	svc := NewService(reg, surface, notifier, testConfig())
	results := newCollector()

	id, err := svc.Start(context.Background(), decimal.RequireFromString("9.99"), "Coffee", "Roasters Inc", results.onResult)
	if err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	outcome := results.wait(t)
	if outcome.Status != models.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", outcome.Status, outcome.Message)
	}
	if outcome.TransactionID != id {
		t.Errorf("outcome id %s does not match request id %s", outcome.TransactionID, id)
	}
	if !outcome.Amount.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("expected amount 9.99, got %s", outcome.Amount)
	}

	select {
	case announced := <-notifier.calls:
		if announced.TransactionID != id {
			t.Errorf("announcement for %s, want %s", announced.TransactionID, id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for overlay announcement")
	}

	waitFor(t, "registry cleanup", func() bool { _, ok := reg.Lookup(id); return !ok })

	// Exactly once: settle and announce must not fire again.
	time.Sleep(20 * time.Millisecond)
	if got := results.count.Load(); got != 1 {
		t.Errorf("completion callback fired %d times, want 1", got)
	}
	if len(notifier.calls) != 0 {
		t.Errorf("expected exactly one announcement, found %d extra", len(notifier.calls))
	}
}

func TestSessionCancelAtSummary(t *testing.T) {
	reg := registry.New()
	surface := &fakeSurface{decision: models.SignalCancelled}
	notifier := newCountingNotifier()
	svc := NewService(reg, surface, notifier, testConfig())
	results := newCollector()

	id, err := svc.Start(context.Background(), decimal.RequireFromString("9.99"), "Coffee", "Roasters Inc", results.onResult)
	if err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	outcome := results.wait(t)
	if outcome.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", outcome.Status)
	}
	if outcome.TransactionID != id {
		t.Errorf("outcome id %s does not match request id %s", outcome.TransactionID, id)
	}
	if surface.presented(models.StageProcessing) || surface.presented(models.StageSuccess) {
		t.Error("processing or success stage presented after cancellation")
	}

	waitFor(t, "registry cleanup", func() bool { _, ok := reg.Lookup(id); return !ok })

	time.Sleep(20 * time.Millisecond)
	if got := results.count.Load(); got != 1 {
		t.Errorf("completion callback fired %d times, want 1", got)
	}
	if len(notifier.calls) != 0 {
		t.Error("overlay notifier invoked for a cancelled session")
	}
}

func TestSessionFailsWithoutPresentationContext(t *testing.T) {
	reg := registry.New()
	surface := &fakeSurface{
		decision:    models.SignalConfirmed,
		summaryErrs: []error{interfaces.ErrNoPresentationContext},
	}
	notifier := newCountingNotifier()
	svc := NewService(reg, surface, notifier, testConfig())
	results := newCollector()

	id, err := svc.Start(context.Background(), decimal.NewFromInt(5), "Tea", "Leaves Ltd", results.onResult)
	if err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	outcome := results.wait(t)
	if outcome.Status != models.StatusFailed {
		t.Fatalf("expected failed, got %s", outcome.Status)
	}
	if outcome.Message != "no presentation context" {
		t.Errorf("unexpected message %q", outcome.Message)
	}
	if surface.presented(models.StageProcessing) || surface.presented(models.StageSuccess) {
		t.Error("later stages presented despite missing context")
	}
	if len(notifier.calls) != 0 {
		t.Error("overlay notifier invoked for a failed session")
	}

	waitFor(t, "registry cleanup", func() bool { _, ok := reg.Lookup(id); return !ok })
}

func TestSessionRetriesWhileSurfaceBusy(t *testing.T) {
	reg := registry.New()
	surface := &fakeSurface{
		decision:    models.SignalConfirmed,
		summaryErrs: []error{interfaces.ErrPresentationBusy, interfaces.ErrPresentationBusy, nil},
	}
	svc := NewService(reg, surface, nil, testConfig())
	results := newCollector()

	if _, err := svc.Start(context.Background(), decimal.NewFromInt(12), "Lunch", "Deli Co", results.onResult); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	outcome := results.wait(t)
	if outcome.Status != models.StatusSuccess {
		t.Fatalf("expected success after retries, got %s (%s)", outcome.Status, outcome.Message)
	}
}

func TestSessionFailsAfterRetryBudget(t *testing.T) {
	reg := registry.New()
	surface := &fakeSurface{
		decision: models.SignalConfirmed,
		summaryErrs: []error{
			interfaces.ErrPresentationBusy,
			interfaces.ErrPresentationBusy,
			interfaces.ErrPresentationBusy,
		},
	}
	svc := NewService(reg, surface, nil, testConfig())
	results := newCollector()

	if _, err := svc.Start(context.Background(), decimal.NewFromInt(12), "Lunch", "Deli Co", results.onResult); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}

	outcome := results.wait(t)
	if outcome.Status != models.StatusFailed {
		t.Fatalf("expected failure after exhausting attempts, got %s", outcome.Status)
	}
	if surface.presented(models.StageProcessing) {
		t.Error("processing stage presented after retry exhaustion")
	}
}

func TestConcurrentSessionsStayIndependent(t *testing.T) {
	reg := registry.New()
	surface := &fakeSurface{decision: models.SignalConfirmed}
	svc := NewService(reg, surface, nil, testConfig())

	amounts := []string{"9.99", "42.50"}
	done := make(chan models.TransactionOutcome, len(amounts))
	started := make(map[string]decimal.Decimal)

	for _, a := range amounts {
		amount := decimal.RequireFromString(a)
		id, err := svc.Start(context.Background(), amount, "Order "+a, "Roasters Inc", func(outcome models.TransactionOutcome) {
			done <- outcome
		})
		if err != nil {
			t.Fatalf("unexpected start error: %v", err)
		}
		started[id] = amount
	}

	seen := make(map[string]models.TransactionOutcome)
	for range amounts {
		select {
		case outcome := <-done:
			seen[outcome.TransactionID] = outcome
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for outcomes")
		}
	}

	if len(seen) != 2 {
		t.Fatalf("expected 2 distinct outcomes, got %d", len(seen))
	}
	for id, outcome := range seen {
		want, ok := started[id]
		if !ok {
			t.Errorf("outcome for unknown transaction %s", id)
			continue
		}
		if !outcome.Amount.Equal(want) {
			t.Errorf("session %s: expected amount %s, got %s", id, want, outcome.Amount)
		}
		if outcome.Status != models.StatusSuccess {
			t.Errorf("session %s: expected success, got %s", id, outcome.Status)
		}
	}

	waitFor(t, "registry cleanup", func() bool { return reg.Len() == 0 })
}

func TestStartRejectsNegativeAmount(t *testing.T) {
	svc := NewService(registry.New(), &fakeSurface{decision: models.SignalConfirmed}, nil, testConfig())

	_, err := svc.Start(context.Background(), decimal.NewFromInt(-1), "Refund?", "Nope", func(models.TransactionOutcome) {
		t.Error("completion callback fired for a rejected request")
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestAbortedContextFailsSessionDuringRetry(t *testing.T) {
	reg := registry.New()
	surface := &fakeSurface{
		decision: models.SignalConfirmed,
		summaryErrs: []error{
			interfaces.ErrPresentationBusy,
			interfaces.ErrPresentationBusy,
		},
	}
	cfg := testConfig()
	cfg.RetryInterval = time.Hour // force the abort to land inside the backoff wait
	svc := NewService(reg, surface, nil, cfg)
	results := newCollector()

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := svc.Start(ctx, decimal.NewFromInt(3), "Snack", "Kiosk", results.onResult); err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	cancel()

	outcome := results.wait(t)
	if outcome.Status != models.StatusFailed {
		t.Fatalf("expected failed, got %s", outcome.Status)
	}
}
