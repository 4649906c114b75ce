package iodownload

import (
	"errors"
	"fmt"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/occdl/pkg/errcode"
)

// NoStatusURLError is returned when the server accepts a download
// request but does not say where to check the job status.
func NoStatusURLError(url string, body []byte) error {
	msg := `Server did not return a status URL for the download job

<em>Response:</em> %s`
	vars := []any{snippet(body)}

	return &gn.Error{
		Code: errcode.DownloadNoStatusURLError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no statusUrl in response from %s: %s", url, snippet(body)),
	}
}

// JobStatusError is returned when a download job ends with a status
// other than 'finished'.
func JobStatusError(status, message string) error {
	msg := `Download job ended with status <em>%s</em>

<em>Server message:</em> %s`
	vars := []any{status, message}

	return &gn.Error{
		Code: errcode.DownloadJobStatusError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("job status %q: %s", status, message),
	}
}

// RecoveryFailedError is returned when the server reported an invalid
// job id and the archive was not found at the alternate URL either.
func RecoveryFailedError(url string, err error) error {
	msg := `Server lost track of the download job, and the archive could not
be found at <em>%s</em>

<em>How to fix:</em>
  1. Try the download again later`
	vars := []any{url}

	return &gn.Error{
		Code: errcode.DownloadRecoveryFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("recovery of invalid job id from %s failed: %w", url, err),
	}
}

// JobTimeoutError is returned when a job did not finish in the allowed
// time or number of status checks.
func JobTimeoutError(statusURL string, attempts int, elapsed time.Duration) error {
	dur := gnfmt.TimeString(elapsed.Seconds())
	msg := `Download job did not finish after %d status checks (%s)

<em>Status URL:</em> %s

<em>How to fix:</em>
  1. Increase <em>PollTimeout</em> or <em>MaxPollAttempts</em> in config.yaml
  2. Narrow the query down to fewer records`
	vars := []any{attempts, dur, statusURL}

	return &gn.Error{
		Code: errcode.DownloadJobTimeoutError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("job at %s timed out after %d attempts (%s)",
			statusURL, attempts, dur),
	}
}

// ArchiveError is returned when an archive cannot be saved.
func ArchiveError(url string, err error) error {
	msg := "Cannot save occurrence archive from <em>%s</em>"
	vars := []any{url}

	return &gn.Error{
		Code: errcode.DownloadArchiveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot save archive from %s: %w", url, err),
	}
}

// errEmptyArchive means the server sent zero bytes.
var errEmptyArchive = errors.New("archive is empty")

// CancelledError is returned when the caller cancels a download.
func CancelledError(err error) error {
	return &gn.Error{
		Code: errcode.DownloadCancelledError,
		Msg:  "Download was cancelled",
		Err:  fmt.Errorf("download cancelled: %w", err),
	}
}

func snippet(body []byte) string {
	const limit = 300
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
