package launch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_workflowURL(t *testing.T) {
	testCases := []struct {
		name           string
		inputAddress   string
		inputWorkspace int64
		expectedOutput string
	}{
		{
			name:           "hosted",
			inputAddress:   "https://api.tower.nf",
			inputWorkspace: 0,
			expectedOutput: "https://tower.nf/user/watch/abc",
		},
		{
			name:           "hosted workspace",
			inputAddress:   "https://api.cloud.seqera.io/",
			inputWorkspace: 42,
			expectedOutput: "https://cloud.seqera.io/workspace/42/watch/abc",
		},
		{
			name:           "self hosted path",
			inputAddress:   "https://tower.example.com/api",
			inputWorkspace: 7,
			expectedOutput: "https://tower.example.com/workspace/7/watch/abc",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expectedOutput, workflowURL(tc.inputAddress, tc.inputWorkspace, "abc"))
		})
	}
}

func Test_nestedParam(t *testing.T) {
	require.Equal(t, map[string]any{"genome": "GRCh38"}, nestedParam([]string{"genome"}, "GRCh38"))
	require.Equal(t,
		map[string]any{"aligner": map[string]any{"opts": map[string]any{"threads": "8"}}},
		nestedParam([]string{"aligner", "opts", "threads"}, "8"),
	)
}

func Test_splitList(t *testing.T) {
	require.Equal(t, []string{"docker", "test", "aws"}, splitList([]string{"docker", "test, aws", " ,"}))
	require.Equal(t, []string{}, splitList(nil))
}
