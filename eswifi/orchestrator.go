package eswifi

import (
	"context"

	"github.com/arloliu/go-eswifi/logger"
)

// Signaler receives the outcome of each lifecycle stage as it completes,
// and carries the terminal heartbeat once the run is over. Implementations
// decide how an outcome is presented; the status package renders them as
// LED blink patterns.
type Signaler interface {
	// Signal reports the outcome of one completed stage. It may block for
	// the full duration of whatever indication it drives; the orchestrator
	// does not proceed to the next stage until it returns.
	Signal(stage Stage, outcome Outcome)

	// Heartbeat blocks until ctx is done, emitting a steady liveness
	// indication.
	Heartbeat(ctx context.Context)
}

// Orchestrator drives a Driver through the full lifecycle exactly once and
// reports each stage's outcome to the Signaler. The run is strictly
// sequential: a fatal stage outcome stops the progression, and the
// heartbeat always follows regardless of where the run stopped.
type Orchestrator struct {
	driver   *Driver
	signaler Signaler
	logger   logger.Logger
}

// NewOrchestrator creates an Orchestrator over the given driver and
// signaler. The logger defaults to the driver's.
func NewOrchestrator(driver *Driver, signaler Signaler) *Orchestrator {
	return &Orchestrator{
		driver:   driver,
		signaler: signaler,
		logger:   driver.logger,
	}
}

// Run executes init, join, open, request and close in order, signaling
// after each stage, and returns the outcome of the last stage executed.
// The first fatal outcome ends the progression; the socket close is
// best-effort and never overrides a successful request outcome. Run then
// blocks in the heartbeat until ctx is done.
func (o *Orchestrator) Run(ctx context.Context) Outcome {
	outcome := o.step(StageInit, o.driver.Init)
	if outcome.Ok() {
		outcome = o.step(StageJoin, o.driver.Join)
	}
	if outcome.Ok() {
		outcome = o.step(StageOpen, o.driver.Open)
	}
	if outcome.Ok() {
		outcome = o.step(StageRequest, o.driver.Request)
	}

	if outcome.Ok() {
		if closed := o.driver.CloseSocket(); !closed.Ok() {
			o.logger.Warn("eswifi: socket close degraded", "error", closed.Reason)
		}
	}

	o.logger.Info("eswifi: run finished", "state", o.driver.State(), "class", outcome.Class)

	o.signaler.Heartbeat(ctx)

	return outcome
}

func (o *Orchestrator) step(stage Stage, fn func() Outcome) Outcome {
	outcome := fn()
	o.signaler.Signal(stage, outcome)

	return outcome
}
