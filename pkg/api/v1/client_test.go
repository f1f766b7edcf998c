package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nf-forge/towerctl/internal/pkg/apitest"
	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func TestClient_NewRequest(t *testing.T) {

	client := api.NewClient(&api.Config{Address: "https://tower.example.com/api/", Token: "secret"})

	req, err := client.NewRequest(http.MethodGet, "/pipelines", nil,
		api.WithWorkspace(100),
		api.WithQuery("search", "rna"),
		api.WithQuery("empty", ""),
		api.WithPagination(10, 0),
	)
	require.NoError(t, err)
	require.Equal(t, "https://tower.example.com/api/pipelines", req.URL.Scheme+"://"+req.URL.Host+req.URL.Path)
	require.Equal(t, "100", req.URL.Query().Get("workspaceId"))
	require.Equal(t, "rna", req.URL.Query().Get("search"))
	require.Equal(t, "10", req.URL.Query().Get("max"))
	require.False(t, req.URL.Query().Has("offset"))
	require.False(t, req.URL.Query().Has("empty"))
	require.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
	require.NotEmpty(t, req.Header.Get("X-Request-Id"))
	require.Empty(t, req.Header.Get("Content-Type"))

	personal, err := client.NewRequest(http.MethodPost, "/workflow/launch", map[string]string{"a": "b"}, api.WithWorkspace(0))
	require.NoError(t, err)
	require.False(t, personal.URL.Query().Has("workspaceId"))
	require.Equal(t, "application/json", personal.Header.Get("Content-Type"))
}

func TestClient_ResponseError(t *testing.T) {

	testCases := []struct {
		name         string
		inputStatus  int
		inputBody    string
		expectedMsg  string
		expectedCode int
	}{
		{
			name:         "json message",
			inputStatus:  http.StatusForbidden,
			inputBody:    `{"message":"Access denied"}`,
			expectedMsg:  "Access denied",
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "plain body",
			inputStatus:  http.StatusBadGateway,
			inputBody:    "upstream unavailable\n",
			expectedMsg:  "upstream unavailable",
			expectedCode: http.StatusBadGateway,
		},
		{
			name:         "empty body",
			inputStatus:  http.StatusNotFound,
			inputBody:    "",
			expectedMsg:  "Not Found",
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.inputStatus)
				_, _ = w.Write([]byte(tc.inputBody))
			}))
			defer srv.Close()

			client := api.NewClient(&api.Config{Address: srv.URL})

			_, resp, err := client.Users().Info(context.Background(), &api.UserInfoReq{})
			require.Error(t, err)
			require.NotNil(t, resp)

			var respErr *api.ResponseError
			require.ErrorAs(t, err, &respErr)
			require.Equal(t, tc.expectedMsg, respErr.Msg)
			require.Equal(t, tc.expectedCode, respErr.StatusCode())
			require.Equal(t, tc.expectedCode == http.StatusNotFound, api.IsNotFound(err))
			require.Equal(t, tc.expectedCode == http.StatusForbidden, api.IsForbidden(err))
		})
	}
}

func TestClient_Unauthorized(t *testing.T) {
	srv := apitest.NewServer(t, nil)

	client := api.NewClient(&api.Config{Address: srv.URL, Token: "wrong"})

	_, _, err := client.Users().Info(context.Background(), &api.UserInfoReq{})
	require.EqualError(t, err, "Unauthorized")
}

func TestClient_Resources(t *testing.T) {

	srv := apitest.NewServer(t, nil)
	client := srv.Client()
	ctx := context.Background()

	userResp, _, err := client.Users().Info(ctx, &api.UserInfoReq{})
	require.NoError(t, err)
	require.Equal(t, "jdoe", userResp.User.UserName)

	wsResp, _, err := client.Users().Workspaces(ctx, &api.UserWorkspacesReq{UserID: userResp.User.ID})
	require.NoError(t, err)
	require.Len(t, wsResp.OrgsAndWorkspaces, 4)

	orgsResp, _, err := client.Orgs().List(ctx, &api.OrgListReq{})
	require.NoError(t, err)
	require.Equal(t, 2, orgsResp.TotalSize)
	require.Equal(t, "acme", orgsResp.Organizations[0].Name)

	workspaceResp, _, err := client.Orgs().Workspace(ctx, &api.WorkspaceGetReq{
		OrgID: apitest.OrgAcme, WorkspaceID: apitest.WorkspaceProd,
	})
	require.NoError(t, err)
	require.Equal(t, "prod", workspaceResp.Workspace.Name)

	pipelinesResp, _, err := client.Pipelines().List(ctx, &api.PipelineListReq{WorkspaceID: apitest.WorkspaceResearch})
	require.NoError(t, err)
	require.Len(t, pipelinesResp.Pipelines, 1)

	launchResp, _, err := client.Pipelines().Launch(ctx, &api.PipelineLaunchReq{
		ID: apitest.PipelineRNASeq, WorkspaceID: apitest.WorkspaceResearch,
	})
	require.NoError(t, err)
	require.Equal(t, "3.14.0", launchResp.Launch.Revision)
	require.Equal(t, "ce-batch", launchResp.Launch.ComputeEnv.ID)

	_, _, err = client.Pipelines().Launch(ctx, &api.PipelineLaunchReq{ID: apitest.PipelineRNASeq})
	require.True(t, api.IsNotFound(err))

	primaryResp, _, err := client.ComputeEnvs().Primary(ctx, &api.ComputeEnvPrimaryReq{WorkspaceID: apitest.WorkspaceResearch})
	require.NoError(t, err)
	require.Equal(t, "aws-batch", primaryResp.ComputeEnv.Name)

	serviceResp, _, err := client.Service().Info(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.9.0", serviceResp.ServiceInfo.APIVersion)
}

func TestClient_WorkflowLifecycle(t *testing.T) {

	srv := apitest.NewServer(t, nil)
	client := srv.Client()
	ctx := context.Background()

	launched, _, err := client.Workflows().Launch(ctx, &api.WorkflowLaunchReq{
		WorkspaceID: apitest.WorkspaceResearch,
		Launch: &api.WorkflowLaunchRequest{
			ComputeEnvID: "ce-batch",
			Pipeline:     "https://github.com/nf-core/rnaseq",
			WorkDir:      "s3://acme-work/rnaseq",
			RunName:      "first",
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, launched.WorkflowID)

	records := srv.State.Launches()
	require.Len(t, records, 1)
	require.Equal(t, apitest.WorkspaceResearch, records[0].WorkspaceID)
	require.Equal(t, "first", records[0].Request.RunName)

	getResp, _, err := client.Workflows().Get(ctx, &api.WorkflowGetReq{ID: launched.WorkflowID, WorkspaceID: apitest.WorkspaceResearch})
	require.NoError(t, err)
	require.Equal(t, api.WorkflowStatusSubmitted, getResp.Workflow.Status)

	listResp, _, err := client.Workflows().List(ctx, &api.WorkflowListReq{WorkspaceID: apitest.WorkspaceResearch})
	require.NoError(t, err)
	require.Equal(t, 1, listResp.TotalSize)

	_, err = client.Workflows().Cancel(ctx, &api.WorkflowCancelReq{ID: launched.WorkflowID, WorkspaceID: apitest.WorkspaceResearch})
	require.NoError(t, err)

	wf, ok := srv.State.Workflow(apitest.WorkspaceResearch, launched.WorkflowID)
	require.True(t, ok)
	require.Equal(t, api.WorkflowStatusCancelled, wf.Status)

	_, err = client.Workflows().Delete(ctx, &api.WorkflowDeleteReq{ID: launched.WorkflowID, WorkspaceID: apitest.WorkspaceResearch})
	require.NoError(t, err)

	_, _, err = client.Workflows().Get(ctx, &api.WorkflowGetReq{ID: launched.WorkflowID, WorkspaceID: apitest.WorkspaceResearch})
	require.True(t, api.IsNotFound(err))

	require.Equal(t, 2, srv.Calls("GET /workflow/{workflowId}"))
}
