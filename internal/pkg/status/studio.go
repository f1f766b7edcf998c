package status

import (
	"context"

	"go.uber.org/zap"

	"github.com/nf-forge/towerctl/internal/pkg/wait"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

type StudioProber struct {
	Client      *api.Client
	WorkspaceID int64
	Logger      *zap.Logger
}

func (s *StudioProber) Probe(ctx context.Context, id string) (wait.State, bool) {

	resp, _, err := s.Client.Studios().Get(ctx, &api.StudioGetReq{SessionID: id, WorkspaceID: s.WorkspaceID})
	if err != nil {
		logOrNop(s.Logger).Debug("failed to read studio status",
			zap.String("session_id", id), zap.Error(err))
		return "", false
	}
	if resp.StatusInfo == nil || resp.StatusInfo.Status == "" {
		return "", false
	}

	return wait.State(resp.StatusInfo.Status), true
}

// StudioNarrator surfaces the platform's provisioning message, for example
// "Provisioning compute resources", each time it changes.
type StudioNarrator struct {
	Client      *api.Client
	WorkspaceID int64
	SessionID   string
	Logger      *zap.Logger

	last string
}

func (s *StudioNarrator) Narrate(ctx context.Context) string {

	resp, _, err := s.Client.Studios().Get(ctx, &api.StudioGetReq{SessionID: s.SessionID, WorkspaceID: s.WorkspaceID})
	if err != nil {
		logOrNop(s.Logger).Debug("failed to read studio status message",
			zap.String("session_id", s.SessionID), zap.Error(err))
		return ""
	}
	if resp.StatusInfo == nil || resp.StatusInfo.Message == "" || resp.StatusInfo.Message == s.last {
		return ""
	}

	s.last = resp.StatusInfo.Message
	return s.last
}
