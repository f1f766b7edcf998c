package status

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nf-forge/towerctl/internal/pkg/wait"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

type WorkflowProber struct {
	Client      *api.Client
	WorkspaceID int64
	Logger      *zap.Logger
}

func (w *WorkflowProber) Probe(ctx context.Context, id string) (wait.State, bool) {

	resp, _, err := w.Client.Workflows().Get(ctx, &api.WorkflowGetReq{ID: id, WorkspaceID: w.WorkspaceID})
	if err != nil {
		logOrNop(w.Logger).Debug("failed to read workflow status",
			zap.String("workflow_id", id), zap.Error(err))
		return "", false
	}
	if resp.Workflow == nil || resp.Workflow.Status == "" {
		return "", false
	}

	return wait.State(resp.Workflow.Status), true
}

// WorkflowNarrator reports the task counters of a run whenever they change.
type WorkflowNarrator struct {
	Client      *api.Client
	WorkspaceID int64
	ID          string
	Logger      *zap.Logger

	last string
}

func (w *WorkflowNarrator) Narrate(ctx context.Context) string {

	resp, _, err := w.Client.Workflows().Progress(ctx, &api.WorkflowProgressReq{ID: w.ID, WorkspaceID: w.WorkspaceID})
	if err != nil {
		logOrNop(w.Logger).Debug("failed to read workflow progress",
			zap.String("workflow_id", w.ID), zap.Error(err))
		return ""
	}
	if resp.Progress == nil || resp.Progress.WorkflowProgress == nil {
		return ""
	}

	summary := FormatWorkflowProgress(resp.Progress.WorkflowProgress)
	if summary == w.last {
		return ""
	}

	w.last = summary
	return summary
}

// FormatWorkflowProgress renders the task counters as a single line.
func FormatWorkflowProgress(p *api.WorkflowProgress) string {
	return fmt.Sprintf("tasks: pending=%d submitted=%d running=%d succeeded=%d failed=%d cached=%d",
		p.Pending, p.Submitted, p.Running, p.Succeeded, p.Failed, p.Cached)
}

func logOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
