package helper

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/nf-forge/towerctl/internal/pkg/logger"
	"github.com/nf-forge/towerctl/internal/pkg/wait"
)

// Wait fills the polling parameters of req from the wait flags and the
// session output mode, then blocks until the wait finishes. An interrupted
// wait returns both a Result with wait.OutcomeCancelled and the context
// error; callers treat a nil Result as the only failure of the wait itself.
func (s *Session) Wait(ctx context.Context, cmd *cli.Command, req *wait.Request) (*wait.Result, error) {

	req.Interval = cmd.Duration(waitIntervalCLIFlag)
	req.Timeout = cmd.Duration(waitTimeoutCLIFlag)
	req.Progress = s.Progress()
	req.Logger = s.Logger.Named(logger.ComponentNameWait)

	res, err := wait.Wait(ctx, req)
	if err != nil && res != nil {
		s.Logger.Debug("wait interrupted", zap.String("entity_id", req.ID), zap.Error(err))
	}
	return res, err
}

// WaitExit converts the wait result into the command exit status. A wait
// that was interrupted keeps the exit status the command had before it
// started waiting.
func (s *Session) WaitExit(cliMsg string, res *wait.Result) error {

	code := res.ExitCode()

	if code == 0 {
		if res.Outcome == wait.OutcomeCancelled && !s.json {
			_, _ = fmt.Fprintln(s.out, "Stopped waiting, the operation continues in the background")
		}
		return nil
	}

	return cli.Exit(FormatError(cliMsg, res.Err()), code)
}
