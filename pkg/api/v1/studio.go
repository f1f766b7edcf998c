package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const (
	StudioStatusStarting    = "starting"
	StudioStatusRunning     = "running"
	StudioStatusStopping    = "stopping"
	StudioStatusStopped     = "stopped"
	StudioStatusErrored     = "errored"
	StudioStatusBuilding    = "building"
	StudioStatusBuildFailed = "buildFailed"
)

type Studio struct {
	SessionID   string            `json:"sessionId"`
	WorkspaceID int64             `json:"workspaceId"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	StudioURL   string            `json:"studioUrl"`
	User        *StudioUser       `json:"user,omitempty"`
	ComputeEnv  *StudioComputeEnv `json:"computeEnv,omitempty"`
	Template    *StudioTemplate   `json:"template,omitempty"`
	StatusInfo  *StudioStatusInfo `json:"statusInfo,omitempty"`
	DateCreated time.Time         `json:"dateCreated"`
	LastStarted time.Time         `json:"lastStarted"`
}

type StudioUser struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

type StudioComputeEnv struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Platform string `json:"platform"`
}

type StudioTemplate struct {
	Repository string `json:"repository"`
}

type StudioStatusInfo struct {
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	LastUpdate time.Time `json:"lastUpdate"`
}

type Studios struct {
	client *Client
}

func (c *Client) Studios() *Studios {
	return &Studios{client: c}
}

type StudioListReq struct {
	WorkspaceID int64  `json:"workspace_id"`
	Search      string `json:"search"`
	Max         int    `json:"max"`
	Offset      int    `json:"offset"`
}

type StudioListResp struct {
	Studios   []*Studio `json:"studios"`
	TotalSize int       `json:"totalSize"`
}

func (s *Studios) List(ctx context.Context, req *StudioListReq) (*StudioListResp, *Response, error) {

	var resp StudioListResp

	httpReq, err := s.client.NewRequest(
		http.MethodGet,
		"/studios",
		nil,
		WithWorkspace(req.WorkspaceID),
		WithQuery("search", req.Search),
		WithPagination(req.Max, req.Offset),
	)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type StudioGetReq struct {
	SessionID   string `json:"session_id"`
	WorkspaceID int64  `json:"workspace_id"`
}

// StudioGetResp is the studio object itself; the endpoint does not wrap it.
type StudioGetResp struct {
	Studio
}

func (s *Studios) Get(ctx context.Context, req *StudioGetReq) (*StudioGetResp, *Response, error) {

	var resp StudioGetResp

	httpReq, err := s.client.NewRequest(
		http.MethodGet, "/studios/"+url.PathEscape(req.SessionID), nil, WithWorkspace(req.WorkspaceID))
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type StudioStartReq struct {
	SessionID   string `json:"-"`
	WorkspaceID int64  `json:"-"`
	Description string `json:"description,omitempty"`
}

// StudioStateChangeResp is returned by the start and stop endpoints. A false
// JobSubmitted means the platform did not accept the state change.
type StudioStateChangeResp struct {
	JobSubmitted bool              `json:"jobSubmitted"`
	SessionID    string            `json:"sessionId"`
	StatusInfo   *StudioStatusInfo `json:"statusInfo,omitempty"`
}

func (s *Studios) Start(ctx context.Context, req *StudioStartReq) (*StudioStateChangeResp, *Response, error) {

	var resp StudioStateChangeResp

	httpReq, err := s.client.NewRequest(
		http.MethodPut, "/studios/"+url.PathEscape(req.SessionID)+"/start", req, WithWorkspace(req.WorkspaceID))
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type StudioStopReq struct {
	SessionID   string `json:"session_id"`
	WorkspaceID int64  `json:"workspace_id"`
}

func (s *Studios) Stop(ctx context.Context, req *StudioStopReq) (*StudioStateChangeResp, *Response, error) {

	var resp StudioStateChangeResp

	httpReq, err := s.client.NewRequest(
		http.MethodPut, "/studios/"+url.PathEscape(req.SessionID)+"/stop", nil, WithWorkspace(req.WorkspaceID))
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}
