// Package launch builds workflow launch requests from a stored launch
// configuration and the overrides given on the command line.
package launch

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/nf-forge/towerctl/internal/pkg/params"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

var (
	ErrMissingPipeline   = errors.New("no pipeline repository to launch")
	ErrMissingComputeEnv = errors.New("no compute environment to launch on")
	ErrMissingWorkDir    = errors.New("no work directory, set one or use a compute environment that defines it")
)

// Overrides holds the launch fields supplied by the user. A nil pointer or
// nil slice means the field was not supplied and the stored value is kept;
// an empty, non-nil slice clears the stored value.
type Overrides struct {
	Pipeline   *string
	ComputeEnv *api.ComputeEnv

	RunName  *string
	WorkDir  *string
	Revision *string

	ConfigProfiles []string
	ConfigText     *string

	// Params are deep merged over the stored parameters.
	Params map[string]any

	PreRunScript  *string
	PostRunScript *string
	MainScript    *string
	EntryName     *string
	SchemaName    *string

	PullLatest *bool
	StubRun    *bool
	Resume     *bool

	LabelIDs        []int64
	HeadJobCpus     *int
	HeadJobMemoryMb *int

	UserSecrets      []string
	WorkspaceSecrets []string

	OptimizationID  *string
	LaunchContainer *string
}

// IsPipelineURL reports whether the pipeline argument points at a
// repository rather than naming a saved pipeline.
func IsPipelineURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Merge builds the launch request by taking each override when supplied
// and the stored value otherwise. A nil base produces a request from the
// overrides alone.
func Merge(base *api.Launch, o *Overrides) (*api.WorkflowLaunchRequest, error) {

	if base == nil {
		base = &api.Launch{}
	}
	if o == nil {
		o = &Overrides{}
	}

	computeEnv := base.ComputeEnv
	if o.ComputeEnv != nil {
		computeEnv = o.ComputeEnv
	}

	req := api.WorkflowLaunchRequest{
		Pipeline:         coalesce(o.Pipeline, base.Pipeline),
		RunName:          coalesce(o.RunName, ""),
		WorkDir:          coalesce(o.WorkDir, base.WorkDir),
		Revision:         coalesce(o.Revision, base.Revision),
		SessionID:        base.SessionID,
		ConfigProfiles:   coalesceSlice(o.ConfigProfiles, base.ConfigProfiles),
		UserSecrets:      coalesceSlice(o.UserSecrets, base.UserSecrets),
		WorkspaceSecrets: coalesceSlice(o.WorkspaceSecrets, base.WorkspaceSecrets),
		ConfigText:       coalesce(o.ConfigText, base.ConfigText),
		TowerConfig:      base.TowerConfig,
		PreRunScript:     coalesce(o.PreRunScript, base.PreRunScript),
		PostRunScript:    coalesce(o.PostRunScript, base.PostRunScript),
		MainScript:       coalesce(o.MainScript, base.MainScript),
		EntryName:        coalesce(o.EntryName, base.EntryName),
		SchemaName:       coalesce(o.SchemaName, base.SchemaName),
		Resume:           coalesce(o.Resume, base.Resume),
		PullLatest:       coalescePtr(o.PullLatest, base.PullLatest),
		StubRun:          coalescePtr(o.StubRun, base.StubRun),
		LabelIDs:         coalesceSlice(o.LabelIDs, base.LabelIDs),
		HeadJobCpus:      coalescePtr(o.HeadJobCpus, base.HeadJobCpus),
		HeadJobMemoryMb:  coalescePtr(o.HeadJobMemoryMb, base.HeadJobMemoryMb),
		OptimizationID:   coalesce(o.OptimizationID, base.OptimizationID),
		LaunchContainer:  coalesce(o.LaunchContainer, base.LaunchContainer),
	}

	if computeEnv != nil {
		req.ComputeEnvID = computeEnv.ID

		if req.WorkDir == "" && computeEnv.Config != nil {
			req.WorkDir = computeEnv.Config.WorkDir
		}
	}

	paramsText, err := mergeParams(base.ParamsText, o.Params)
	if err != nil {
		return nil, err
	}
	req.ParamsText = paramsText

	switch {
	case req.Pipeline == "":
		return nil, ErrMissingPipeline
	case req.ComputeEnvID == "":
		return nil, ErrMissingComputeEnv
	case req.WorkDir == "":
		return nil, ErrMissingWorkDir
	}

	return &req, nil
}

// mergeParams keeps the stored text verbatim unless there is something to
// merge into it.
func mergeParams(baseText string, override map[string]any) (string, error) {

	if override == nil {
		return baseText, nil
	}

	base, err := params.Parse(baseText)
	if err != nil {
		return "", fmt.Errorf("failed to parse stored pipeline parameters: %w", err)
	}

	return params.Encode(params.Merge(base, override))
}

func coalesce[T any](override *T, base T) T {
	if override != nil {
		return *override
	}
	return base
}

func coalescePtr[T any](override, base *T) *T {
	if override != nil {
		return override
	}
	return base
}

func coalesceSlice[T any](override, base []T) []T {
	if override != nil {
		return override
	}
	return base
}
