package api

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

type Organization struct {
	OrgID       int64  `json:"orgId"`
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Website     string `json:"website"`
}

type Workspace struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	Description string    `json:"description"`
	Visibility  string    `json:"visibility"`
	DateCreated time.Time `json:"dateCreated"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type Orgs struct {
	client *Client
}

func (c *Client) Orgs() *Orgs {
	return &Orgs{client: c}
}

type OrgListReq struct{}

type OrgListResp struct {
	Organizations []*Organization `json:"organizations"`
	TotalSize     int             `json:"totalSize"`
}

func (o *Orgs) List(ctx context.Context, _ *OrgListReq) (*OrgListResp, *Response, error) {

	var resp OrgListResp

	httpReq, err := o.client.NewRequest(http.MethodGet, "/orgs", nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := o.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type OrgGetReq struct {
	OrgID int64 `json:"org_id"`
}

type OrgGetResp struct {
	Organization *Organization `json:"organization"`
}

func (o *Orgs) Get(ctx context.Context, req *OrgGetReq) (*OrgGetResp, *Response, error) {

	var resp OrgGetResp

	httpReq, err := o.client.NewRequest(http.MethodGet, "/orgs/"+strconv.FormatInt(req.OrgID, 10), nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := o.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type OrgWorkspacesReq struct {
	OrgID int64 `json:"org_id"`
}

type OrgWorkspacesResp struct {
	Workspaces []*Workspace `json:"workspaces"`
}

func (o *Orgs) Workspaces(ctx context.Context, req *OrgWorkspacesReq) (*OrgWorkspacesResp, *Response, error) {

	var resp OrgWorkspacesResp

	httpReq, err := o.client.NewRequest(
		http.MethodGet, "/orgs/"+strconv.FormatInt(req.OrgID, 10)+"/workspaces", nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := o.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type WorkspaceGetReq struct {
	OrgID       int64 `json:"org_id"`
	WorkspaceID int64 `json:"workspace_id"`
}

type WorkspaceGetResp struct {
	Workspace *Workspace `json:"workspace"`
}

func (o *Orgs) Workspace(ctx context.Context, req *WorkspaceGetReq) (*WorkspaceGetResp, *Response, error) {

	var resp WorkspaceGetResp

	httpReq, err := o.client.NewRequest(
		http.MethodGet,
		"/orgs/"+strconv.FormatInt(req.OrgID, 10)+"/workspaces/"+strconv.FormatInt(req.WorkspaceID, 10),
		nil,
	)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := o.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}
