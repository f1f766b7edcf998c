package launch

import (
	"testing"

	"github.com/hashicorp/nomad/helper/pointer"
	"github.com/stretchr/testify/require"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func storedLaunch() *api.Launch {
	return &api.Launch{
		ComputeEnv: &api.ComputeEnv{
			ID:     "ce-batch",
			Config: &api.ComputeEnvConfig{WorkDir: "s3://acme-work/scratch"},
		},
		Pipeline:       "https://github.com/nf-core/rnaseq",
		WorkDir:        "s3://acme-work/rnaseq",
		Revision:       "3.14.0",
		SessionID:      "sess-1",
		ConfigProfiles: []string{"docker"},
		ParamsText:     `{"genome":"GRCh38","aligner":{"name":"star","threads":8}}`,
		PreRunScript:   "module load java",
		PullLatest:     pointer.Of(false),
		HeadJobCpus:    pointer.Of(2),
		LabelIDs:       []int64{7},
	}
}

func TestMerge_NoOverrides(t *testing.T) {

	req, err := Merge(storedLaunch(), &Overrides{})
	require.NoError(t, err)

	require.Equal(t, &api.WorkflowLaunchRequest{
		ComputeEnvID:   "ce-batch",
		Pipeline:       "https://github.com/nf-core/rnaseq",
		WorkDir:        "s3://acme-work/rnaseq",
		Revision:       "3.14.0",
		SessionID:      "sess-1",
		ConfigProfiles: []string{"docker"},
		ParamsText:     `{"genome":"GRCh38","aligner":{"name":"star","threads":8}}`,
		PreRunScript:   "module load java",
		PullLatest:     pointer.Of(false),
		HeadJobCpus:    pointer.Of(2),
		LabelIDs:       []int64{7},
	}, req)

	nilReq, err := Merge(storedLaunch(), nil)
	require.NoError(t, err)
	require.Equal(t, req, nilReq)
}

func TestMerge_Overrides(t *testing.T) {

	req, err := Merge(storedLaunch(), &Overrides{
		ComputeEnv:     &api.ComputeEnv{ID: "ce-slurm", Config: &api.ComputeEnvConfig{WorkDir: "/scratch"}},
		RunName:        pointer.Of("nightly"),
		Revision:       pointer.Of("dev"),
		ConfigProfiles: []string{"test", "singularity"},
		Params:         map[string]any{"genome": "GRCm39", "aligner": map[string]any{"threads": 16}},
		PreRunScript:   pointer.Of(""),
		PullLatest:     pointer.Of(true),
		StubRun:        pointer.Of(true),
		Resume:         pointer.Of(true),
		HeadJobCpus:    pointer.Of(4),
		LabelIDs:       []int64{},
	})
	require.NoError(t, err)

	require.Equal(t, "ce-slurm", req.ComputeEnvID)
	require.Equal(t, "nightly", req.RunName)
	require.Equal(t, "dev", req.Revision)

	// The stored work directory wins over the compute environment default.
	require.Equal(t, "s3://acme-work/rnaseq", req.WorkDir)

	require.Equal(t, []string{"test", "singularity"}, req.ConfigProfiles)
	require.JSONEq(t, `{"genome":"GRCm39","aligner":{"name":"star","threads":16}}`, req.ParamsText)
	require.Empty(t, req.PreRunScript)
	require.Equal(t, pointer.Of(true), req.PullLatest)
	require.Equal(t, pointer.Of(true), req.StubRun)
	require.True(t, req.Resume)
	require.Equal(t, pointer.Of(4), req.HeadJobCpus)
	require.Empty(t, req.LabelIDs)
}

func TestMerge_AdHoc(t *testing.T) {

	req, err := Merge(nil, &Overrides{
		Pipeline:   pointer.Of("https://github.com/nextflow-io/hello"),
		ComputeEnv: &api.ComputeEnv{ID: "ce-local", Config: &api.ComputeEnvConfig{WorkDir: "/tmp/work"}},
		Params:     map[string]any{"greeting": "hi"},
	})
	require.NoError(t, err)
	require.Equal(t, &api.WorkflowLaunchRequest{
		ComputeEnvID: "ce-local",
		Pipeline:     "https://github.com/nextflow-io/hello",
		WorkDir:      "/tmp/work",
		ParamsText:   `{"greeting":"hi"}`,
	}, req)
}

func TestMerge_Errors(t *testing.T) {

	testCases := []struct {
		name        string
		inputBase   *api.Launch
		inputOver   *Overrides
		expectedErr error
	}{
		{
			name:        "no pipeline",
			inputBase:   nil,
			inputOver:   &Overrides{ComputeEnv: &api.ComputeEnv{ID: "ce"}, WorkDir: pointer.Of("/w")},
			expectedErr: ErrMissingPipeline,
		},
		{
			name:        "no compute env",
			inputBase:   nil,
			inputOver:   &Overrides{Pipeline: pointer.Of("https://github.com/a/b"), WorkDir: pointer.Of("/w")},
			expectedErr: ErrMissingComputeEnv,
		},
		{
			name:        "no work dir",
			inputBase:   nil,
			inputOver:   &Overrides{Pipeline: pointer.Of("https://github.com/a/b"), ComputeEnv: &api.ComputeEnv{ID: "ce"}},
			expectedErr: ErrMissingWorkDir,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Merge(tc.inputBase, tc.inputOver)
			require.ErrorIs(t, err, tc.expectedErr)
		})
	}

	_, err := Merge(&api.Launch{ParamsText: "- not\n- a map\n"}, &Overrides{
		Pipeline:   pointer.Of("https://github.com/a/b"),
		ComputeEnv: &api.ComputeEnv{ID: "ce"},
		WorkDir:    pointer.Of("/w"),
		Params:     map[string]any{"a": 1},
	})
	require.ErrorContains(t, err, "failed to parse stored pipeline parameters")
}

func TestIsPipelineURL(t *testing.T) {
	require.True(t, IsPipelineURL("https://github.com/nf-core/rnaseq"))
	require.True(t, IsPipelineURL("http://git.example.com/x"))
	require.False(t, IsPipelineURL("rnaseq"))
	require.False(t, IsPipelineURL("nf-core/rnaseq"))
	require.False(t, IsPipelineURL("s3://bucket/pipeline"))
	require.False(t, IsPipelineURL("https://"))
}
