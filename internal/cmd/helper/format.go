package helper

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ryanuber/columnize"

	api "github.com/nf-forge/towerctl/pkg/api/v1"
)

func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "
	return columnize.Format(in, columnConf)
}

func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(time.RFC3339)
}

// FormatMillis renders a duration reported by the API in milliseconds.
func FormatMillis(ms int64) string {
	if ms <= 0 {
		return "N/A"
	}
	return (time.Duration(ms) * time.Millisecond).Round(time.Second).String()
}

func FormatError(cliMsg string, err error) string {

	var (
		code    int
		respErr *api.ResponseError
		urlErr  *url.Error
	)

	switch {
	case errors.As(err, &respErr):
		code = respErr.ErrorBody.Code
	case errors.As(err, &urlErr):
		code = 500
	default:
		code = 400
	}

	return FormatKV([]string{
		fmt.Sprintf("Description|%s", cliMsg),
		fmt.Sprintf("Error|%s", err),
		fmt.Sprintf("Code|%v", code),
	})
}
