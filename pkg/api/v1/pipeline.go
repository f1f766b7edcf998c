package api

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

type Pipeline struct {
	PipelineID    int64     `json:"pipelineId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Repository    string    `json:"repository"`
	UserName      string    `json:"userName"`
	OrgName       string    `json:"orgName"`
	WorkspaceID   int64     `json:"workspaceId"`
	WorkspaceName string    `json:"workspaceName"`
	Visibility    string    `json:"visibility"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// Launch is the launch configuration stored alongside a saved pipeline. It is
// the base that launch overrides are merged onto.
type Launch struct {
	ID               string      `json:"id"`
	ComputeEnv       *ComputeEnv `json:"computeEnv"`
	Pipeline         string      `json:"pipeline"`
	WorkDir          string      `json:"workDir"`
	Revision         string      `json:"revision"`
	SessionID        string      `json:"sessionId"`
	ConfigProfiles   []string    `json:"configProfiles"`
	UserSecrets      []string    `json:"userSecrets"`
	WorkspaceSecrets []string    `json:"workspaceSecrets"`
	ConfigText       string      `json:"configText"`
	TowerConfig      string      `json:"towerConfig"`
	ParamsText       string      `json:"paramsText"`
	PreRunScript     string      `json:"preRunScript"`
	PostRunScript    string      `json:"postRunScript"`
	MainScript       string      `json:"mainScript"`
	EntryName        string      `json:"entryName"`
	SchemaName       string      `json:"schemaName"`
	Resume           bool        `json:"resume"`
	PullLatest       *bool       `json:"pullLatest"`
	StubRun          *bool       `json:"stubRun"`
	LabelIDs         []int64     `json:"labelIds"`
	HeadJobCpus      *int        `json:"headJobCpus"`
	HeadJobMemoryMb  *int        `json:"headJobMemoryMb"`
	OptimizationID   string      `json:"optimizationId"`
	LaunchContainer  string      `json:"launchContainer"`
	DateCreated      time.Time   `json:"dateCreated"`
}

type Pipelines struct {
	client *Client
}

func (c *Client) Pipelines() *Pipelines {
	return &Pipelines{client: c}
}

type PipelineListReq struct {
	WorkspaceID int64  `json:"workspace_id"`
	Search      string `json:"search"`
	Max         int    `json:"max"`
	Offset      int    `json:"offset"`
}

type PipelineListResp struct {
	Pipelines []*Pipeline `json:"pipelines"`
	TotalSize int         `json:"totalSize"`
}

func (p *Pipelines) List(ctx context.Context, req *PipelineListReq) (*PipelineListResp, *Response, error) {

	var resp PipelineListResp

	httpReq, err := p.client.NewRequest(
		http.MethodGet,
		"/pipelines",
		nil,
		WithWorkspace(req.WorkspaceID),
		WithQuery("search", req.Search),
		WithPagination(req.Max, req.Offset),
	)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := p.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type PipelineGetReq struct {
	ID          int64 `json:"id"`
	WorkspaceID int64 `json:"workspace_id"`
}

type PipelineGetResp struct {
	Pipeline *Pipeline `json:"pipeline"`
}

func (p *Pipelines) Get(ctx context.Context, req *PipelineGetReq) (*PipelineGetResp, *Response, error) {

	var resp PipelineGetResp

	httpReq, err := p.client.NewRequest(
		http.MethodGet,
		"/pipelines/"+strconv.FormatInt(req.ID, 10),
		nil,
		WithWorkspace(req.WorkspaceID),
	)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := p.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type PipelineLaunchReq struct {
	ID          int64 `json:"id"`
	WorkspaceID int64 `json:"workspace_id"`
}

type PipelineLaunchResp struct {
	Launch *Launch `json:"launch"`
}

// Launch returns the stored launch configuration for the pipeline.
func (p *Pipelines) Launch(ctx context.Context, req *PipelineLaunchReq) (*PipelineLaunchResp, *Response, error) {

	var resp PipelineLaunchResp

	httpReq, err := p.client.NewRequest(
		http.MethodGet,
		"/pipelines/"+strconv.FormatInt(req.ID, 10)+"/launch",
		nil,
		WithWorkspace(req.WorkspaceID),
	)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := p.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}
