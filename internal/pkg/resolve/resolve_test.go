package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nf-forge/towerctl/internal/pkg/apitest"
)

func TestResolver_Workspace(t *testing.T) {

	srv := apitest.NewServer(t, nil)
	resolver := New(srv.Client(), nil)

	testCases := []struct {
		name        string
		inputRef    string
		expectedWS  *Workspace
		expectedErr error
	}{
		{
			name:       "personal",
			inputRef:   "",
			expectedWS: &Workspace{},
		},
		{
			name:       "numeric",
			inputRef:   "102",
			expectedWS: &Workspace{ID: apitest.WorkspaceOtherResearch},
		},
		{
			name:     "org and workspace",
			inputRef: "acme/research",
			expectedWS: &Workspace{
				ID: apitest.WorkspaceResearch, OrgID: apitest.OrgAcme, OrgName: "acme", Name: "research",
			},
		},
		{
			name:     "same workspace name in another org",
			inputRef: "other/research",
			expectedWS: &Workspace{
				ID: apitest.WorkspaceOtherResearch, OrgID: apitest.OrgOther, OrgName: "other", Name: "research",
			},
		},
		{
			name:        "name match is exact",
			inputRef:    "acme/Research",
			expectedErr: ErrWorkspaceNotFound,
		},
		{
			name:        "unknown org",
			inputRef:    "nope/research",
			expectedErr: ErrWorkspaceNotFound,
		},
		{
			name:        "bare name",
			inputRef:    "research",
			expectedErr: ErrInvalidWorkspaceRef,
		},
		{
			name:        "too many segments",
			inputRef:    "acme/research/extra",
			expectedErr: ErrInvalidWorkspaceRef,
		},
		{
			name:        "negative id",
			inputRef:    "-4",
			expectedErr: ErrInvalidWorkspaceRef,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ws, err := resolver.Workspace(context.Background(), tc.inputRef)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.ErrorContains(t, err, tc.inputRef)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedWS, ws)
		})
	}

	// Numeric and empty references never reach the API.
	require.Equal(t, 4, srv.Calls("GET /user-info"))
	require.Equal(t, 4, srv.Calls("GET /user/{userId}/workspaces"))
}

func TestWorkspace_Ref(t *testing.T) {
	require.Equal(t, "personal", (&Workspace{}).Ref())
	require.Equal(t, "100", (&Workspace{ID: 100}).Ref())
	require.Equal(t, "acme/research", (&Workspace{ID: 100, OrgName: "acme", Name: "research"}).Ref())
}

func TestResolver_Organization(t *testing.T) {

	srv := apitest.NewServer(t, nil)
	resolver := New(srv.Client(), nil)
	ctx := context.Background()

	org, err := resolver.Organization(ctx, "other")
	require.NoError(t, err)
	require.Equal(t, apitest.OrgOther, org.OrgID)

	org, err = resolver.Organization(ctx, "10")
	require.NoError(t, err)
	require.Equal(t, "acme", org.Name)

	_, err = resolver.Organization(ctx, "99")
	require.ErrorIs(t, err, ErrOrgNotFound)

	_, err = resolver.Organization(ctx, "ACME")
	require.ErrorIs(t, err, ErrOrgNotFound)
}

func TestResolver_ComputeEnv(t *testing.T) {

	srv := apitest.NewServer(t, nil)
	resolver := New(srv.Client(), nil)
	ctx := context.Background()

	ce, err := resolver.ComputeEnv(ctx, apitest.WorkspaceResearch, "")
	require.NoError(t, err)
	require.Equal(t, "ce-batch", ce.ID)

	ce, err = resolver.ComputeEnv(ctx, apitest.WorkspaceResearch, "slurm")
	require.NoError(t, err)
	require.Equal(t, "ce-slurm", ce.ID)

	ce, err = resolver.ComputeEnv(ctx, apitest.WorkspaceResearch, "ce-slurm")
	require.NoError(t, err)
	require.Equal(t, "/scratch/nf", ce.Config.WorkDir)

	_, err = resolver.ComputeEnv(ctx, apitest.WorkspaceResearch, "k8s")
	require.ErrorIs(t, err, ErrComputeEnvNotFound)

	_, err = resolver.ComputeEnv(ctx, apitest.WorkspaceProd, "")
	require.ErrorIs(t, err, ErrNoPrimaryComputeEnv)
}

func TestResolver_Pipeline(t *testing.T) {

	srv := apitest.NewServer(t, nil)
	resolver := New(srv.Client(), nil)
	ctx := context.Background()

	p, err := resolver.Pipeline(ctx, apitest.WorkspaceResearch, "rnaseq")
	require.NoError(t, err)
	require.Equal(t, apitest.PipelineRNASeq, p.PipelineID)

	p, err = resolver.Pipeline(ctx, 0, "2")
	require.NoError(t, err)
	require.Equal(t, "hello", p.Name)

	_, err = resolver.Pipeline(ctx, apitest.WorkspaceResearch, "rna")
	require.ErrorIs(t, err, ErrPipelineNotFound)

	_, err = resolver.Pipeline(ctx, 0, "rnaseq")
	require.ErrorIs(t, err, ErrPipelineNotFound)
}

func TestResolver_Studio(t *testing.T) {

	srv := apitest.NewServer(t, nil)
	resolver := New(srv.Client(), nil)
	ctx := context.Background()

	st, err := resolver.Studio(ctx, apitest.WorkspaceResearch, "st-1")
	require.NoError(t, err)
	require.Equal(t, "notebook", st.Name)

	st, err = resolver.Studio(ctx, apitest.WorkspaceResearch, "notebook")
	require.NoError(t, err)
	require.Equal(t, "st-1", st.SessionID)

	_, err = resolver.Studio(ctx, apitest.WorkspaceResearch, "missing")
	require.ErrorIs(t, err, ErrStudioNotFound)
}
