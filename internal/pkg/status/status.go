// Package status implements the wait.Prober and wait.Narrator interfaces for
// the entities a command can block on.
package status

import (
	api "github.com/nf-forge/towerctl/pkg/api/v1"

	"github.com/nf-forge/towerctl/internal/pkg/wait"
)

var (
	WorkflowStates = []wait.State{
		api.WorkflowStatusSubmitted,
		api.WorkflowStatusRunning,
		api.WorkflowStatusSucceeded,
		api.WorkflowStatusFailed,
		api.WorkflowStatusCancelled,
		api.WorkflowStatusUnknown,
	}

	// WorkflowTerminal are the run states a workflow never leaves.
	WorkflowTerminal = []wait.State{
		api.WorkflowStatusSucceeded,
		api.WorkflowStatusFailed,
		api.WorkflowStatusCancelled,
	}

	StudioStates = []wait.State{
		api.StudioStatusStarting,
		api.StudioStatusRunning,
		api.StudioStatusStopping,
		api.StudioStatusStopped,
		api.StudioStatusErrored,
		api.StudioStatusBuilding,
		api.StudioStatusBuildFailed,
	}

	// StudioStartTerminal ends a wait on a studio start. Stopped is included
	// so a session that dies during provisioning is reported as failed.
	StudioStartTerminal = []wait.State{
		api.StudioStatusRunning,
		api.StudioStatusStopped,
		api.StudioStatusErrored,
		api.StudioStatusBuildFailed,
	}

	StudioStopTerminal = []wait.State{
		api.StudioStatusStopped,
		api.StudioStatusErrored,
	}
)
