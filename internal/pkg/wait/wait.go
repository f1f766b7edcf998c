// Package wait blocks on a long-running remote operation until the entity it
// acts on reaches a requested state.
//
// A Wait call drives a Prober on a fixed interval. Probes are strictly
// sequential and the loop stops as soon as the target state, or any other
// terminal state, is observed. A state that cannot be determined is never
// treated as a failure; the loop keeps polling until the request timeout.
package wait

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the polling cadence used by the CLI commands.
const DefaultInterval = 1 * time.Second

// State is a single value of an entity status enumeration.
type State string

func (s State) String() string { return string(s) }

// Prober reports the current state of the entity identified by id. The bool
// return is false when the state could not be determined, for example on a
// transient API failure. Implementations must not panic or block beyond the
// lifetime of ctx.
type Prober interface {
	Probe(ctx context.Context, id string) (State, bool)
}

// ProberFunc adapts a plain function to the Prober interface.
type ProberFunc func(ctx context.Context, id string) (State, bool)

func (f ProberFunc) Probe(ctx context.Context, id string) (State, bool) { return f(ctx, id) }

// Narrator returns human-readable progress text, or an empty string when
// there is nothing new to report since the last call.
type Narrator interface {
	Narrate(ctx context.Context) string
}

// NarratorFunc adapts a plain function to the Narrator interface.
type NarratorFunc func(ctx context.Context) string

func (f NarratorFunc) Narrate(ctx context.Context) string { return f(ctx) }

var (
	ErrNoProber        = errors.New("a status prober is required")
	ErrNoTimeout       = errors.New("a maximum wait duration is required")
	ErrInvalidInterval = errors.New("polling interval must be greater than zero")
	ErrUnknownTarget   = errors.New("target state is not a member of the state enumeration")
	ErrUnknownTerminal = errors.New("terminal state is not a member of the state enumeration")
)

// Request holds the parameters of a single wait. It is not modified by Wait.
type Request struct {

	// ID identifies the entity being watched and is passed to the Prober.
	ID string

	// Target is the state the caller is waiting for. States is the full
	// enumeration of the entity status and Terminal is the subset from which
	// the entity is not expected to move.
	Target   State
	States   []State
	Terminal []State

	Interval time.Duration
	Timeout  time.Duration

	Prober   Prober
	Narrator Narrator

	// Progress receives state transitions and narrator output. A nil writer
	// suppresses all progress output.
	Progress io.Writer

	// SubmissionFailed is set when the operation that triggered the wait
	// already reported it was not started. No probes are made and the prior
	// exit code is preserved.
	SubmissionFailed bool
	PriorExitCode    int

	Logger *zap.Logger
}

func (r *Request) Validate() error {
	if r.Prober == nil {
		return ErrNoProber
	}
	if r.Timeout <= 0 {
		return ErrNoTimeout
	}
	if r.Interval <= 0 {
		return ErrInvalidInterval
	}
	if !slices.Contains(r.States, r.Target) {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, r.Target)
	}
	for _, t := range r.Terminal {
		if !slices.Contains(r.States, t) {
			return fmt.Errorf("%w: %q", ErrUnknownTerminal, t)
		}
	}
	return nil
}

type Outcome int

const (
	// OutcomeReached is returned when the target state was observed.
	OutcomeReached Outcome = iota

	// OutcomeFailed is returned when a terminal state other than the target
	// was observed.
	OutcomeFailed

	// OutcomeTimedOut is returned when the maximum wait duration elapsed.
	OutcomeTimedOut

	// OutcomeCancelled is returned when the context was cancelled.
	OutcomeCancelled

	// OutcomeSkipped is returned when the triggering operation was never
	// submitted and no probes were made.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReached:
		return "reached"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

type Result struct {
	Outcome Outcome `json:"outcome"`

	// State is the last state observed; Observed is false when every probe
	// came back absent.
	State    State `json:"state,omitempty"`
	Observed bool  `json:"observed"`

	Polls   int           `json:"polls"`
	Elapsed time.Duration `json:"elapsedNs"`

	priorExitCode int
}

// ExitCode maps the outcome to a process exit code. Cancelled and skipped
// waits keep the exit code the caller had before the wait started.
func (r *Result) ExitCode() int {
	switch r.Outcome {
	case OutcomeReached:
		return 0
	case OutcomeCancelled, OutcomeSkipped:
		return r.priorExitCode
	default:
		return 1
	}
}

// Err describes an unsuccessful outcome, or returns nil when the target was
// reached.
func (r *Result) Err() error {
	switch r.Outcome {
	case OutcomeReached:
		return nil
	case OutcomeFailed:
		return fmt.Errorf("reached terminal state %q", r.State)
	case OutcomeTimedOut:
		if r.Observed {
			return fmt.Errorf("timed out after %s, last state %q", r.Elapsed.Round(time.Second), r.State)
		}
		return fmt.Errorf("timed out after %s, state never observed", r.Elapsed.Round(time.Second))
	case OutcomeCancelled:
		return errors.New("wait cancelled")
	case OutcomeSkipped:
		return errors.New("operation was not submitted")
	default:
		return errors.New("unknown wait outcome")
	}
}

// Wait polls until the request target or another terminal state is observed,
// the request timeout elapses, or ctx is cancelled. The returned error is
// non-nil only for an invalid request or a cancelled context; in the latter
// case the Result is still returned with OutcomeCancelled.
func Wait(ctx context.Context, req *Request) (*Result, error) {

	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &Result{priorExitCode: req.PriorExitCode}

	if req.SubmissionFailed {
		res.Outcome = OutcomeSkipped
		return res, nil
	}

	logger := req.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("entity_id", req.ID), zap.Stringer("target", req.Target))

	startTime := time.Now()

	deadline := time.NewTimer(req.Timeout)
	defer deadline.Stop()

	finish := func(o Outcome) *Result {
		res.Outcome = o
		res.Elapsed = time.Since(startTime)
		logger.Debug("finished waiting",
			zap.Stringer("outcome", o), zap.Int("polls", res.Polls), zap.Duration("elapsed", res.Elapsed))
		return res
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(OutcomeCancelled), err
		}

		state, ok := req.Prober.Probe(ctx, req.ID)
		res.Polls++

		if err := ctx.Err(); err != nil {
			return finish(OutcomeCancelled), err
		}

		if ok {
			if !res.Observed || state != res.State {
				logger.Debug("observed state change", zap.Stringer("state", state))
				req.printf("%s: %s\n", req.ID, state)
			}
			res.State, res.Observed = state, true
		} else {
			logger.Debug("state not available")
		}

		if req.Narrator != nil && req.Progress != nil {
			if msg := req.Narrator.Narrate(ctx); msg != "" {
				req.printf("%s\n", msg)
			}
		}

		if ok && state == req.Target {
			return finish(OutcomeReached), nil
		}
		if ok && slices.Contains(req.Terminal, state) {
			return finish(OutcomeFailed), nil
		}
		if time.Since(startTime) >= req.Timeout {
			return finish(OutcomeTimedOut), nil
		}

		sleep := time.NewTimer(req.Interval)

		select {
		case <-ctx.Done():
			sleep.Stop()
			return finish(OutcomeCancelled), ctx.Err()
		case <-deadline.C:
			sleep.Stop()
			return finish(OutcomeTimedOut), nil
		case <-sleep.C:
		}
	}
}

func (r *Request) printf(format string, args ...any) {
	if r.Progress == nil {
		return
	}
	_, _ = fmt.Fprintf(r.Progress, format, args...)
}
