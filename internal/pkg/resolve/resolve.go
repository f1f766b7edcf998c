// Package resolve turns the workspace, organization and entity references a
// user types on the command line into API identifiers.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

var (
	ErrInvalidWorkspaceRef = errors.New("workspace reference must be a numeric ID or in the form organization/workspace")
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrOrgNotFound         = errors.New("organization not found")
	ErrComputeEnvNotFound  = errors.New("compute environment not found")
	ErrNoPrimaryComputeEnv = errors.New("workspace has no primary compute environment")
	ErrPipelineNotFound    = errors.New("pipeline not found")
	ErrStudioNotFound      = errors.New("studio not found")
)

// Workspace is a resolved workspace. The zero value is the caller's personal
// workspace.
type Workspace struct {
	ID      int64  `json:"workspaceId"`
	OrgID   int64  `json:"orgId,omitempty"`
	OrgName string `json:"orgName,omitempty"`
	Name    string `json:"workspaceName,omitempty"`
}

// Ref renders the workspace the way a user would type it.
func (w *Workspace) Ref() string {
	switch {
	case w.ID == 0:
		return "personal"
	case w.OrgName != "" && w.Name != "":
		return w.OrgName + "/" + w.Name
	default:
		return strconv.FormatInt(w.ID, 10)
	}
}

type Resolver struct {
	client *api.Client
	logger *zap.Logger
}

func New(client *api.Client, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{client: client, logger: logger}
}

// WorkspaceID is a convenience wrapper around Workspace for callers that
// only need the identifier.
func (r *Resolver) WorkspaceID(ctx context.Context, ref string) (int64, error) {
	ws, err := r.Workspace(ctx, ref)
	if err != nil {
		return 0, err
	}
	return ws.ID, nil
}

// Workspace resolves ref, which is empty for the personal workspace, a
// numeric workspace ID, or "organization/workspace". Names are matched
// exactly against the memberships of the authenticated user.
func (r *Resolver) Workspace(ctx context.Context, ref string) (*Workspace, error) {

	ref = strings.TrimSpace(ref)

	if ref == "" {
		return &Workspace{}, nil
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if id < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWorkspaceRef, ref)
		}
		return &Workspace{ID: id}, nil
	}

	orgName, wsName, ok := strings.Cut(ref, "/")
	if !ok || orgName == "" || wsName == "" || strings.Contains(wsName, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWorkspaceRef, ref)
	}

	userResp, _, err := r.client.Users().Info(ctx, &api.UserInfoReq{})
	if err != nil {
		return nil, fmt.Errorf("failed to read user info: %w", err)
	}
	if userResp.User == nil {
		return nil, errors.New("failed to read user info: empty response")
	}

	wsResp, _, err := r.client.Users().Workspaces(ctx, &api.UserWorkspacesReq{UserID: userResp.User.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list user workspaces: %w", err)
	}

	for _, entry := range wsResp.OrgsAndWorkspaces {
		if entry.WorkspaceID == 0 {
			continue
		}
		if entry.OrgName == orgName && entry.WorkspaceName == wsName {
			r.logger.Debug("resolved workspace reference",
				zap.String("reference", ref), zap.Int64("workspace_id", entry.WorkspaceID))
			return &Workspace{
				ID:      entry.WorkspaceID,
				OrgID:   entry.OrgID,
				OrgName: entry.OrgName,
				Name:    entry.WorkspaceName,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrWorkspaceNotFound, ref)
}

// Organization resolves a numeric organization ID or an exact organization
// name.
func (r *Resolver) Organization(ctx context.Context, ref string) (*api.Organization, error) {

	ref = strings.TrimSpace(ref)

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		resp, _, err := r.client.Orgs().Get(ctx, &api.OrgGetReq{OrgID: id})
		if err != nil {
			if api.IsNotFound(err) {
				return nil, fmt.Errorf("%w: %q", ErrOrgNotFound, ref)
			}
			return nil, err
		}
		return resp.Organization, nil
	}

	resp, _, err := r.client.Orgs().List(ctx, &api.OrgListReq{})
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	for _, org := range resp.Organizations {
		if org.Name == ref {
			return org, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrOrgNotFound, ref)
}

// ComputeEnv resolves a compute environment by ID or exact name within the
// workspace. An empty ref selects the workspace's primary compute
// environment.
func (r *Resolver) ComputeEnv(ctx context.Context, workspaceID int64, ref string) (*api.ComputeEnv, error) {

	ref = strings.TrimSpace(ref)

	if ref == "" {
		resp, _, err := r.client.ComputeEnvs().Primary(ctx, &api.ComputeEnvPrimaryReq{WorkspaceID: workspaceID})
		if err != nil {
			return nil, fmt.Errorf("failed to read primary compute environment: %w", err)
		}
		if resp.ComputeEnv == nil {
			return nil, ErrNoPrimaryComputeEnv
		}
		return resp.ComputeEnv, nil
	}

	resp, _, err := r.client.ComputeEnvs().List(ctx, &api.ComputeEnvListReq{WorkspaceID: workspaceID})
	if err != nil {
		return nil, fmt.Errorf("failed to list compute environments: %w", err)
	}

	// An ID match wins over a name match, since names are not unique.
	var byName *api.ComputeEnv

	for _, ce := range resp.ComputeEnvs {
		if ce.ID == ref {
			return r.computeEnvDetail(ctx, workspaceID, ce)
		}
		if ce.Name == ref && byName == nil {
			byName = ce
		}
	}

	if byName != nil {
		return r.computeEnvDetail(ctx, workspaceID, byName)
	}

	return nil, fmt.Errorf("%w: %q", ErrComputeEnvNotFound, ref)
}

// computeEnvDetail fetches the full object, as list entries do not always
// carry the configuration.
func (r *Resolver) computeEnvDetail(ctx context.Context, workspaceID int64, ce *api.ComputeEnv) (*api.ComputeEnv, error) {
	if ce.Config != nil {
		return ce, nil
	}
	resp, _, err := r.client.ComputeEnvs().Get(ctx, &api.ComputeEnvGetReq{ID: ce.ID, WorkspaceID: workspaceID})
	if err != nil {
		return nil, fmt.Errorf("failed to read compute environment: %w", err)
	}
	return resp.ComputeEnv, nil
}

// Pipeline resolves a saved pipeline by exact name or numeric ID within the
// workspace.
func (r *Resolver) Pipeline(ctx context.Context, workspaceID int64, ref string) (*api.Pipeline, error) {

	ref = strings.TrimSpace(ref)

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		resp, _, err := r.client.Pipelines().Get(ctx, &api.PipelineGetReq{ID: id, WorkspaceID: workspaceID})
		if err != nil {
			if api.IsNotFound(err) {
				return nil, fmt.Errorf("%w: %q", ErrPipelineNotFound, ref)
			}
			return nil, err
		}
		return resp.Pipeline, nil
	}

	resp, _, err := r.client.Pipelines().List(ctx, &api.PipelineListReq{WorkspaceID: workspaceID, Search: ref})
	if err != nil {
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}

	for _, p := range resp.Pipelines {
		if p.Name == ref {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrPipelineNotFound, ref)
}

// Studio resolves a studio by session ID or exact name within the
// workspace.
func (r *Resolver) Studio(ctx context.Context, workspaceID int64, ref string) (*api.Studio, error) {

	ref = strings.TrimSpace(ref)

	resp, _, err := r.client.Studios().Get(ctx, &api.StudioGetReq{SessionID: ref, WorkspaceID: workspaceID})
	if err == nil {
		return &resp.Studio, nil
	}
	if !api.IsNotFound(err) {
		return nil, err
	}

	listResp, _, err := r.client.Studios().List(ctx, &api.StudioListReq{WorkspaceID: workspaceID, Search: ref})
	if err != nil {
		return nil, fmt.Errorf("failed to list studios: %w", err)
	}

	for _, st := range listResp.Studios {
		if st.Name == ref {
			return st, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrStudioNotFound, ref)
}
