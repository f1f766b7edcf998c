package wait

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	studioStates   = []State{"starting", "running", "stopping", "stopped", "errored", "building", "buildFailed"}
	workflowStates = []State{"SUBMITTED", "RUNNING", "SUCCEEDED", "FAILED", "CANCELLED", "UNKNOWN"}
)

// absent marks a scripted tick on which the state cannot be determined.
const absent State = "\x00"

type scriptedProber struct {
	mu       sync.Mutex
	sequence []State
	calls    int
	onProbe  func(call int)
}

func (p *scriptedProber) Probe(_ context.Context, _ string) (State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	if p.onProbe != nil {
		p.onProbe(p.calls)
	}

	if len(p.sequence) == 0 {
		return "", false
	}

	idx := min(p.calls-1, len(p.sequence)-1)
	if s := p.sequence[idx]; s != absent {
		return s, true
	}
	return "", false
}

func (p *scriptedProber) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestRequest_Validate(t *testing.T) {

	prober := &scriptedProber{}

	testCases := []struct {
		name        string
		inputReq    *Request
		expectedErr error
	}{
		{
			name: "valid",
			inputReq: &Request{
				Target: "running", States: studioStates, Terminal: []State{"running", "stopped"},
				Interval: time.Second, Timeout: time.Minute, Prober: prober,
			},
			expectedErr: nil,
		},
		{
			name: "no prober",
			inputReq: &Request{
				Target: "running", States: studioStates, Interval: time.Second, Timeout: time.Minute,
			},
			expectedErr: ErrNoProber,
		},
		{
			name: "no timeout",
			inputReq: &Request{
				Target: "running", States: studioStates, Interval: time.Second, Prober: prober,
			},
			expectedErr: ErrNoTimeout,
		},
		{
			name: "zero interval",
			inputReq: &Request{
				Target: "running", States: studioStates, Timeout: time.Minute, Prober: prober,
			},
			expectedErr: ErrInvalidInterval,
		},
		{
			name: "unknown target",
			inputReq: &Request{
				Target: "RUNNING", States: studioStates, Interval: time.Second, Timeout: time.Minute, Prober: prober,
			},
			expectedErr: ErrUnknownTarget,
		},
		{
			name: "unknown terminal",
			inputReq: &Request{
				Target: "running", States: studioStates, Terminal: []State{"deleted"},
				Interval: time.Second, Timeout: time.Minute, Prober: prober,
			},
			expectedErr: ErrUnknownTerminal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.inputReq.Validate()
			if tc.expectedErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.expectedErr)
			}
		})
	}
}

func TestWait_InvalidRequest(t *testing.T) {
	prober := &scriptedProber{}

	res, err := Wait(context.Background(), &Request{
		Target: "deleted", States: studioStates, Interval: time.Millisecond, Timeout: time.Second, Prober: prober,
	})
	require.ErrorIs(t, err, ErrUnknownTarget)
	require.Nil(t, res)
	require.Zero(t, prober.Calls())
}

func TestWait_Outcomes(t *testing.T) {

	testCases := []struct {
		name             string
		inputStates      []State
		inputTarget      State
		inputTerminal    []State
		inputSequence    []State
		inputTimeout     time.Duration
		expectedOutcome  Outcome
		expectedPolls    int
		expectedState    State
		expectedExitCode int
	}{
		{
			name:             "studio reaches running after absent tick",
			inputStates:      studioStates,
			inputTarget:      "running",
			inputTerminal:    []State{"stopped", "errored", "running"},
			inputSequence:    []State{absent, "starting", "starting", "running"},
			inputTimeout:     time.Minute,
			expectedOutcome:  OutcomeReached,
			expectedPolls:    4,
			expectedState:    "running",
			expectedExitCode: 0,
		},
		{
			name:             "workflow fails before success",
			inputStates:      workflowStates,
			inputTarget:      "SUCCEEDED",
			inputTerminal:    []State{"CANCELLED", "FAILED", "SUCCEEDED"},
			inputSequence:    []State{"SUBMITTED", "RUNNING", "FAILED", "SUCCEEDED"},
			inputTimeout:     time.Minute,
			expectedOutcome:  OutcomeFailed,
			expectedPolls:    3,
			expectedState:    "FAILED",
			expectedExitCode: 1,
		},
		{
			name:             "target not in terminal set",
			inputStates:      workflowStates,
			inputTarget:      "RUNNING",
			inputTerminal:    []State{"CANCELLED", "FAILED", "SUCCEEDED"},
			inputSequence:    []State{"SUBMITTED", "RUNNING"},
			inputTimeout:     time.Minute,
			expectedOutcome:  OutcomeReached,
			expectedPolls:    2,
			expectedState:    "RUNNING",
			expectedExitCode: 0,
		},
		{
			name:             "terminal passed before intermediate target",
			inputStates:      workflowStates,
			inputTarget:      "RUNNING",
			inputTerminal:    []State{"CANCELLED", "FAILED", "SUCCEEDED"},
			inputSequence:    []State{"SUBMITTED", "SUCCEEDED"},
			inputTimeout:     time.Minute,
			expectedOutcome:  OutcomeFailed,
			expectedPolls:    2,
			expectedState:    "SUCCEEDED",
			expectedExitCode: 1,
		},
		{
			name:            "absent on every tick",
			inputStates:     studioStates,
			inputTarget:     "running",
			inputTerminal:   []State{"stopped", "errored"},
			inputSequence:   nil,
			inputTimeout:    30 * time.Millisecond,
			expectedOutcome: OutcomeTimedOut,
			expectedState:   "",
			// Polls depend on scheduling; checked separately below.
			expectedPolls:    -1,
			expectedExitCode: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {

			prober := &scriptedProber{sequence: tc.inputSequence}

			res, err := Wait(context.Background(), &Request{
				ID:       "abc",
				Target:   tc.inputTarget,
				States:   tc.inputStates,
				Terminal: tc.inputTerminal,
				Interval: time.Millisecond,
				Timeout:  tc.inputTimeout,
				Prober:   prober,
			})
			require.NoError(t, err)
			require.NotNil(t, res)

			assert.Equal(t, tc.expectedOutcome, res.Outcome)
			assert.Equal(t, tc.expectedState, res.State)
			assert.Equal(t, tc.expectedExitCode, res.ExitCode())
			assert.Equal(t, res.Polls, prober.Calls())

			if tc.expectedPolls >= 0 {
				assert.Equal(t, tc.expectedPolls, res.Polls)
			} else {
				assert.GreaterOrEqual(t, res.Polls, 1)
				assert.False(t, res.Observed)
			}
		})
	}
}

func TestWait_SubmissionFailed(t *testing.T) {
	prober := &scriptedProber{sequence: []State{"running"}}

	res, err := Wait(context.Background(), &Request{
		ID:               "abc",
		Target:           "running",
		States:           studioStates,
		Terminal:         []State{"running", "stopped"},
		Interval:         time.Millisecond,
		Timeout:          time.Second,
		Prober:           prober,
		SubmissionFailed: true,
		PriorExitCode:    1,
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeSkipped, res.Outcome)
	require.Equal(t, 1, res.ExitCode())
	require.Zero(t, res.Polls)
	require.Zero(t, prober.Calls())
}

func TestWait_CancelMidSleep(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prober := &scriptedProber{
		sequence: []State{"SUBMITTED"},
		onProbe: func(call int) {
			if call == 2 {
				// Cancel after the probe returns so the loop is sleeping when
				// cancellation lands.
				go func() {
					time.Sleep(5 * time.Millisecond)
					cancel()
				}()
			}
		},
	}

	res, err := Wait(ctx, &Request{
		ID:            "abc",
		Target:        "SUCCEEDED",
		States:        workflowStates,
		Terminal:      []State{"SUCCEEDED", "FAILED", "CANCELLED"},
		Interval:      50 * time.Millisecond,
		Timeout:       time.Minute,
		Prober:        prober,
		PriorExitCode: 0,
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	require.Equal(t, OutcomeCancelled, res.Outcome)
	require.Equal(t, 0, res.ExitCode())
	require.Equal(t, 2, res.Polls)

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, 2, prober.Calls())
}

func TestWait_CancelDuringProbe(t *testing.T) {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prober := &scriptedProber{
		sequence: []State{"SUCCEEDED"},
		onProbe:  func(int) { cancel() },
	}

	res, err := Wait(ctx, &Request{
		Target:        "SUCCEEDED",
		States:        workflowStates,
		Terminal:      []State{"SUCCEEDED"},
		Interval:      time.Millisecond,
		Timeout:       time.Minute,
		Prober:        prober,
		PriorExitCode: 3,
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, OutcomeCancelled, res.Outcome)
	require.Equal(t, 3, res.ExitCode())
	require.Equal(t, 1, prober.Calls())
}

func TestWait_Progress(t *testing.T) {

	var buf bytes.Buffer

	prober := &scriptedProber{sequence: []State{absent, "starting", "starting", "running"}}

	var narrations int
	narrator := NarratorFunc(func(context.Context) string {
		narrations++
		if narrations == 2 {
			return "Provisioning compute resources"
		}
		return ""
	})

	res, err := Wait(context.Background(), &Request{
		ID:       "s1",
		Target:   "running",
		States:   studioStates,
		Terminal: []State{"running", "stopped", "errored"},
		Interval: time.Millisecond,
		Timeout:  time.Minute,
		Prober:   prober,
		Narrator: narrator,
		Progress: &buf,
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeReached, res.Outcome)
	require.Equal(t, 4, narrations)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, []string{
		"s1: starting",
		"Provisioning compute resources",
		"s1: running",
	}, lines)
}

func TestWait_NoProgressWriter(t *testing.T) {

	var narrations int
	narrator := NarratorFunc(func(context.Context) string {
		narrations++
		return "message"
	})

	res, err := Wait(context.Background(), &Request{
		Target:   "running",
		States:   studioStates,
		Terminal: []State{"running"},
		Interval: time.Millisecond,
		Timeout:  time.Minute,
		Prober:   &scriptedProber{sequence: []State{"running"}},
		Narrator: narrator,
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeReached, res.Outcome)
	require.Zero(t, narrations)
}

func TestResult_Err(t *testing.T) {
	require.NoError(t, (&Result{Outcome: OutcomeReached}).Err())
	require.EqualError(t, (&Result{Outcome: OutcomeFailed, State: "FAILED"}).Err(), `reached terminal state "FAILED"`)
	require.EqualError(t, (&Result{Outcome: OutcomeSkipped}).Err(), "operation was not submitted")
	require.ErrorContains(t, (&Result{Outcome: OutcomeTimedOut}).Err(), "state never observed")
}

func TestOutcome_String(t *testing.T) {
	require.Equal(t, "reached", OutcomeReached.String())
	require.Equal(t, "timed_out", OutcomeTimedOut.String())
	require.Equal(t, "unknown", Outcome(42).String())
}
