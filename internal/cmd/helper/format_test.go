package helper

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func TestFormatError(t *testing.T) {
	testCases := []struct {
		name         string
		inputErr     error
		expectedCode string
	}{
		{
			name:         "api error",
			inputErr:     &api.ResponseError{ErrorBody: api.ErrorBody{Msg: "not found", Code: 404}},
			expectedCode: "Code        = 404",
		},
		{
			name:         "transport error",
			inputErr:     &url.Error{Op: "Get", URL: "https://api.tower.nf", Err: errors.New("refused")},
			expectedCode: "Code        = 500",
		},
		{
			name:         "local error",
			inputErr:     errors.New("bad input"),
			expectedCode: "Code        = 400",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := FormatError("failed to do it", tc.inputErr)
			require.Contains(t, out, "Description = failed to do it")
			require.Contains(t, out, tc.expectedCode)
		})
	}
}

func TestFormatTimeAndMillis(t *testing.T) {
	require.Equal(t, "N/A", FormatTime(time.Time{}))
	require.Equal(t, "2024-03-01T12:00:00Z", FormatTime(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))

	require.Equal(t, "N/A", FormatMillis(0))
	require.Equal(t, "1m30s", FormatMillis(90_400))
}
