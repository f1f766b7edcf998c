package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const (
	WorkflowStatusSubmitted = "SUBMITTED"
	WorkflowStatusRunning   = "RUNNING"
	WorkflowStatusSucceeded = "SUCCEEDED"
	WorkflowStatusFailed    = "FAILED"
	WorkflowStatusCancelled = "CANCELLED"
	WorkflowStatusUnknown   = "UNKNOWN"
)

type Workflow struct {
	ID           string    `json:"id"`
	RunName      string    `json:"runName"`
	SessionID    string    `json:"sessionId"`
	Status       string    `json:"status"`
	ProjectName  string    `json:"projectName"`
	Repository   string    `json:"repository"`
	Revision     string    `json:"revision"`
	WorkDir      string    `json:"workDir"`
	CommandLine  string    `json:"commandLine"`
	UserName     string    `json:"userName"`
	ConfigFiles  []string  `json:"configFiles"`
	Resume       bool      `json:"resume"`
	ExitStatus   *int      `json:"exitStatus"`
	ErrorMessage string    `json:"errorMessage"`
	Duration     int64     `json:"duration"`
	Submit       time.Time `json:"submit"`
	Start        time.Time `json:"start"`
	Complete     time.Time `json:"complete"`
}

type Progress struct {
	WorkflowProgress  *WorkflowProgress  `json:"workflowProgress"`
	ProcessesProgress []*ProcessProgress `json:"processesProgress"`
}

type WorkflowProgress struct {
	Pending   int `json:"pending"`
	Submitted int `json:"submitted"`
	Running   int `json:"running"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Cached    int `json:"cached"`
	Aborted   int `json:"aborted"`
}

type ProcessProgress struct {
	Process   string `json:"process"`
	Pending   int    `json:"pending"`
	Submitted int    `json:"submitted"`
	Running   int    `json:"running"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Cached    int    `json:"cached"`
}

type WorkflowListElement struct {
	Workflow *Workflow `json:"workflow"`
	Progress *Progress `json:"progress,omitempty"`
}

// WorkflowLaunchRequest is the body submitted to start a workflow run.
type WorkflowLaunchRequest struct {
	ComputeEnvID     string   `json:"computeEnvId"`
	RunName          string   `json:"runName,omitempty"`
	Pipeline         string   `json:"pipeline"`
	WorkDir          string   `json:"workDir"`
	Revision         string   `json:"revision,omitempty"`
	SessionID        string   `json:"sessionId,omitempty"`
	ConfigProfiles   []string `json:"configProfiles,omitempty"`
	UserSecrets      []string `json:"userSecrets,omitempty"`
	WorkspaceSecrets []string `json:"workspaceSecrets,omitempty"`
	ConfigText       string   `json:"configText,omitempty"`
	TowerConfig      string   `json:"towerConfig,omitempty"`
	ParamsText       string   `json:"paramsText,omitempty"`
	PreRunScript     string   `json:"preRunScript,omitempty"`
	PostRunScript    string   `json:"postRunScript,omitempty"`
	MainScript       string   `json:"mainScript,omitempty"`
	EntryName        string   `json:"entryName,omitempty"`
	SchemaName       string   `json:"schemaName,omitempty"`
	Resume           bool     `json:"resume"`
	PullLatest       *bool    `json:"pullLatest,omitempty"`
	StubRun          *bool    `json:"stubRun,omitempty"`
	LabelIDs         []int64  `json:"labelIds,omitempty"`
	HeadJobCpus      *int     `json:"headJobCpus,omitempty"`
	HeadJobMemoryMb  *int     `json:"headJobMemoryMb,omitempty"`
	OptimizationID   string   `json:"optimizationId,omitempty"`
	LaunchContainer  string   `json:"launchContainer,omitempty"`
}

type Workflows struct {
	client *Client
}

func (c *Client) Workflows() *Workflows {
	return &Workflows{client: c}
}

type WorkflowLaunchReq struct {
	WorkspaceID int64                  `json:"-"`
	Launch      *WorkflowLaunchRequest `json:"launch"`
}

type WorkflowLaunchResp struct {
	WorkflowID string `json:"workflowId"`
}

func (w *Workflows) Launch(ctx context.Context, req *WorkflowLaunchReq) (*WorkflowLaunchResp, *Response, error) {

	var resp WorkflowLaunchResp

	httpReq, err := w.client.NewRequest(http.MethodPost, "/workflow/launch", req, WithWorkspace(req.WorkspaceID))
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := w.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type WorkflowGetReq struct {
	ID          string `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
}

type WorkflowGetResp struct {
	Workflow *Workflow `json:"workflow"`
	Progress *Progress `json:"progress,omitempty"`
}

func (w *Workflows) Get(ctx context.Context, req *WorkflowGetReq) (*WorkflowGetResp, *Response, error) {

	var resp WorkflowGetResp

	httpReq, err := w.client.NewRequest(
		http.MethodGet, "/workflow/"+url.PathEscape(req.ID), nil, WithWorkspace(req.WorkspaceID))
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := w.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type WorkflowListReq struct {
	WorkspaceID int64  `json:"workspace_id"`
	Search      string `json:"search"`
	Max         int    `json:"max"`
	Offset      int    `json:"offset"`
}

type WorkflowListResp struct {
	Workflows []*WorkflowListElement `json:"workflows"`
	TotalSize int                    `json:"totalSize"`
}

func (w *Workflows) List(ctx context.Context, req *WorkflowListReq) (*WorkflowListResp, *Response, error) {

	var resp WorkflowListResp

	httpReq, err := w.client.NewRequest(
		http.MethodGet,
		"/workflow",
		nil,
		WithWorkspace(req.WorkspaceID),
		WithQuery("search", req.Search),
		WithPagination(req.Max, req.Offset),
	)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := w.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type WorkflowProgressReq struct {
	ID          string `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
}

type WorkflowProgressResp struct {
	Progress *Progress `json:"progress"`
}

func (w *Workflows) Progress(ctx context.Context, req *WorkflowProgressReq) (*WorkflowProgressResp, *Response, error) {

	var resp WorkflowProgressResp

	httpReq, err := w.client.NewRequest(
		http.MethodGet, "/workflow/"+url.PathEscape(req.ID)+"/progress", nil, WithWorkspace(req.WorkspaceID))
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := w.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type WorkflowCancelReq struct {
	ID          string `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
}

func (w *Workflows) Cancel(ctx context.Context, req *WorkflowCancelReq) (*Response, error) {

	httpReq, err := w.client.NewRequest(
		http.MethodPost, "/workflow/"+url.PathEscape(req.ID)+"/cancel", nil, WithWorkspace(req.WorkspaceID))
	if err != nil {
		return nil, err
	}

	return w.client.Do(ctx, httpReq, nil)
}

type WorkflowDeleteReq struct {
	ID          string `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
}

func (w *Workflows) Delete(ctx context.Context, req *WorkflowDeleteReq) (*Response, error) {

	httpReq, err := w.client.NewRequest(
		http.MethodDelete, "/workflow/"+url.PathEscape(req.ID), nil, WithWorkspace(req.WorkspaceID))
	if err != nil {
		return nil, err
	}

	return w.client.Do(ctx, httpReq, nil)
}
