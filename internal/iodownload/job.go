package iodownload

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/occdl/pkg/query"
)

// Job statuses reported by the offline download service.
const (
	statusInQueue   = "inQueue"
	statusRunning   = "running"
	statusFinished  = "finished"
	statusInvalidID = "invalidId"
	statusFailed    = "failed"
)

// jobStatus is the JSON returned by submission and status endpoints.
type jobStatus struct {
	Status      string `json:"status"`
	StatusURL   string `json:"statusUrl"`
	DownloadURL string `json:"downloadUrl"`
	Message     string `json:"message"`
	QueueSize   int    `json:"queueSize"`
	Records     int    `json:"records"`
}

// archiveURL is the location of a finished archive.
type archiveURL struct {
	url string
	// recovery is true when the url was derived from the job id because
	// the server lost the job.
	recovery bool
}

// submit starts an offline download job and returns its status URL.
func (d *downloader) submit(
	ctx context.Context,
	log *slog.Logger,
	q *query.Query,
) (string, error) {
	submitURL := d.cfg.API.BiocacheURL + query.DownloadPath + "?" + q.Encode()
	log.Info("Submitting download job", "url", submitURL)

	body, err := d.client.GetBytes(ctx, submitURL)
	if err != nil {
		if ctx.Err() != nil {
			return "", CancelledError(ctx.Err())
		}
		return "", err
	}

	var st jobStatus
	enc := gnfmt.GNjson{}
	if err = enc.Decode(body, &st); err != nil || st.StatusURL == "" {
		return "", NoStatusURLError(submitURL, body)
	}
	log.Debug("Download job accepted", "status_url", st.StatusURL)
	return st.StatusURL, nil
}

// wait polls the job status until the job reaches a terminal state. The
// wait is limited by PollTimeout and MaxPollAttempts.
func (d *downloader) wait(
	ctx context.Context,
	log *slog.Logger,
	statusURL string,
) (archiveURL, error) {
	var res archiveURL
	dl := d.cfg.Download
	start := time.Now()

	for attempt := 1; ; attempt++ {
		var st jobStatus
		if err := d.client.GetJSON(ctx, statusURL, &st); err != nil {
			if ctx.Err() != nil {
				return res, CancelledError(ctx.Err())
			}
			return res, err
		}
		log.Debug("Job status", "attempt", attempt, "status", st.Status,
			"queue_size", st.QueueSize)

		switch st.Status {
		case statusInQueue, statusRunning:
		case statusFinished:
			if st.DownloadURL == "" {
				return res, JobStatusError(st.Status, "no downloadUrl in response")
			}
			res.url = st.DownloadURL
			return res, nil
		case statusInvalidID:
			res.url = d.recoveryURL(statusURL)
			res.recovery = true
			log.Warn("Server reported invalid job id, trying direct archive URL",
				"status_url", statusURL, "url", res.url)
			return res, nil
		default:
			return res, JobStatusError(st.Status, st.Message)
		}

		elapsed := time.Since(start)
		if attempt >= dl.MaxPollAttempts || elapsed >= dl.PollTimeout {
			return res, JobTimeoutError(statusURL, attempt, elapsed)
		}

		select {
		case <-ctx.Done():
			return res, CancelledError(ctx.Err())
		case <-time.After(dl.PollInterval):
		}
	}
}

// recoveryURL builds the direct archive URL for a job that the status
// service does not recognize anymore. The job id is the last path
// element of the status URL.
func (d *downloader) recoveryURL(statusURL string) string {
	return strings.TrimRight(d.cfg.API.DownloadURL, "/") + "/" +
		jobID(statusURL) + "/data.zip"
}

func jobID(statusURL string) string {
	p := statusURL
	if u, err := url.Parse(statusURL); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	return url.PathEscape(path.Base(p))
}
