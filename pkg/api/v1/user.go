package api

import (
	"context"
	"net/http"
	"strconv"
)

type User struct {
	ID           int64  `json:"id"`
	UserName     string `json:"userName"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Organization string `json:"organization"`
}

// OrgAndWorkspace is a membership entry of the calling user. Entries that
// only describe an organization membership have a zero WorkspaceID.
type OrgAndWorkspace struct {
	OrgID             int64    `json:"orgId"`
	OrgName           string   `json:"orgName"`
	OrgLogoURL        string   `json:"orgLogoUrl"`
	WorkspaceID       int64    `json:"workspaceId"`
	WorkspaceName     string   `json:"workspaceName"`
	WorkspaceFullName string   `json:"workspaceFullName"`
	Visibility        string   `json:"visibility"`
	Roles             []string `json:"roles"`
}

type Users struct {
	client *Client
}

func (c *Client) Users() *Users {
	return &Users{client: c}
}

type UserInfoReq struct{}

type UserInfoResp struct {
	User               *User `json:"user"`
	NeedConsent        bool  `json:"needConsent"`
	DefaultWorkspaceID int64 `json:"defaultWorkspaceId"`
}

func (u *Users) Info(ctx context.Context, _ *UserInfoReq) (*UserInfoResp, *Response, error) {

	var resp UserInfoResp

	httpReq, err := u.client.NewRequest(http.MethodGet, "/user-info", nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := u.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type UserWorkspacesReq struct {
	UserID int64 `json:"user_id"`
}

type UserWorkspacesResp struct {
	OrgsAndWorkspaces []*OrgAndWorkspace `json:"orgsAndWorkspaces"`
}

func (u *Users) Workspaces(ctx context.Context, req *UserWorkspacesReq) (*UserWorkspacesResp, *Response, error) {

	var resp UserWorkspacesResp

	httpReq, err := u.client.NewRequest(
		http.MethodGet, "/user/"+strconv.FormatInt(req.UserID, 10)+"/workspaces", nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := u.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}
