package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const (
	ComputeEnvStatusCreating  = "CREATING"
	ComputeEnvStatusAvailable = "AVAILABLE"
	ComputeEnvStatusErrored   = "ERRORED"
	ComputeEnvStatusInvalid   = "INVALID"
)

type ComputeEnv struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Platform string            `json:"platform"`
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	Primary  bool              `json:"primary"`
	LastUsed time.Time         `json:"lastUsed"`
	Config   *ComputeEnvConfig `json:"config,omitempty"`
}

type ComputeEnvConfig struct {
	WorkDir       string `json:"workDir"`
	PreRunScript  string `json:"preRunScript"`
	PostRunScript string `json:"postRunScript"`
}

type ComputeEnvs struct {
	client *Client
}

func (c *Client) ComputeEnvs() *ComputeEnvs {
	return &ComputeEnvs{client: c}
}

type ComputeEnvListReq struct {
	WorkspaceID int64  `json:"workspace_id"`
	Status      string `json:"status"`
}

type ComputeEnvListResp struct {
	ComputeEnvs []*ComputeEnv `json:"computeEnvs"`
}

func (ce *ComputeEnvs) List(ctx context.Context, req *ComputeEnvListReq) (*ComputeEnvListResp, *Response, error) {

	var resp ComputeEnvListResp

	httpReq, err := ce.client.NewRequest(
		http.MethodGet,
		"/compute-envs",
		nil,
		WithWorkspace(req.WorkspaceID),
		WithQuery("status", req.Status),
	)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := ce.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type ComputeEnvGetReq struct {
	ID          string `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
}

type ComputeEnvGetResp struct {
	ComputeEnv *ComputeEnv `json:"computeEnv"`
}

func (ce *ComputeEnvs) Get(ctx context.Context, req *ComputeEnvGetReq) (*ComputeEnvGetResp, *Response, error) {

	var resp ComputeEnvGetResp

	httpReq, err := ce.client.NewRequest(
		http.MethodGet,
		"/compute-envs/"+url.PathEscape(req.ID),
		nil,
		WithWorkspace(req.WorkspaceID),
	)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := ce.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type ComputeEnvPrimaryReq struct {
	WorkspaceID int64 `json:"workspace_id"`
}

// Primary returns the compute environment used when a launch does not name
// one. The response carries a nil ComputeEnv when the workspace has none.
func (ce *ComputeEnvs) Primary(ctx context.Context, req *ComputeEnvPrimaryReq) (*ComputeEnvGetResp, *Response, error) {

	var resp ComputeEnvGetResp

	httpReq, err := ce.client.NewRequest(
		http.MethodGet,
		"/compute-envs/primary",
		nil,
		WithWorkspace(req.WorkspaceID),
	)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := ce.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}
