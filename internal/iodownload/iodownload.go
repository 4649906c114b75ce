// Package iodownload runs offline occurrence downloads. It submits a
// download job, polls its status, saves the resulting archive and
// materializes it into a table. This is an impure I/O package.
//
// Archives are cached under ~/.cache/occdl/archives with names derived
// from the normalized download URL. Concurrent downloads of the same
// query share the cache file, and callers should not run them at the
// same time.
package iodownload

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/gnames/occdl/internal/ioarchive"
	"github.com/gnames/occdl/internal/iohttp"
	"github.com/gnames/occdl/pkg/config"
	"github.com/gnames/occdl/pkg/occurrence"
	"github.com/gnames/occdl/pkg/query"
	"github.com/gnames/occdl/pkg/vocab"
	"github.com/google/uuid"
)

type downloader struct {
	cfg    *config.Config
	vocab  vocab.Source
	client *iohttp.Client
}

// New creates an occurrence.Downloader. Vocabularies from src are used
// to validate queries and to name columns.
func New(
	cfg *config.Config,
	src vocab.Source,
	client *iohttp.Client,
) occurrence.Downloader {
	return &downloader{cfg: cfg, vocab: src, client: client}
}

// Download implements occurrence.Downloader. Input without search
// criteria fails before any network request.
func (d *downloader) Download(
	ctx context.Context,
	in query.Input,
) (*occurrence.Occurrences, error) {
	if err := in.CheckCriteria(); err != nil {
		return nil, err
	}

	start := time.Now()
	log := slog.With("request_id", uuid.NewString())

	voc, err := d.vocab.Load(ctx)
	if err != nil {
		return nil, err
	}

	q, err := query.Build(d.cfg, in, voc)
	if err != nil {
		return nil, err
	}

	res := &occurrence.Occurrences{
		Query: q,
		URL:   q.NormalizedURL(d.cfg.API.BiocacheURL),
	}
	res.Warnings = append(res.Warnings, q.Warnings...)
	log.Info("Starting occurrence download", "url", res.URL,
		"cache", d.cfg.Cache.Mode)

	path, cleanup, err := d.archivePath(res.URL)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if d.cfg.Cache.Mode == config.CacheOn && cachedArchive(path) {
		log.Info("Using cached archive", "path", path)
	} else if err = d.download(ctx, log, q, path); err != nil {
		log.Error("Download failed", "error", err)
		return nil, err
	}
	if d.cfg.Cache.Mode != config.CacheOff {
		res.ArchivePath = path
	}

	arc, err := ioarchive.Read(path, voc)
	if err != nil {
		return nil, err
	}
	res.Table = arc.Table
	res.Citation = arc.Citation
	res.Warnings = append(res.Warnings, arc.Warnings...)

	if err = occurrence.CheckWKT(in.WKT); err != nil {
		res.Warnings = append(res.Warnings,
			"spatial filter does not look like a valid polygon: "+err.Error())
	}

	for _, w := range res.Warnings {
		log.Warn("Download warning", "warning", w)
		gn.Warn("%s", w)
	}

	dur := time.Since(start)
	log.Info("Occurrence download complete",
		"records", res.Table.Len(),
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	gn.Info("Downloaded <em>%s</em> records in %s",
		humanize.Comma(int64(res.Table.Len())), gnfmt.TimeString(dur.Seconds()))
	return res, nil
}

// download runs a job and saves its archive. If the server lost the job,
// exactly one attempt is made to get the archive from its direct URL.
func (d *downloader) download(
	ctx context.Context,
	log *slog.Logger,
	q *query.Query,
	path string,
) error {
	statusURL, err := d.submit(ctx, log, q)
	if err != nil {
		return err
	}

	au, err := d.wait(ctx, log, statusURL)
	if err != nil {
		return err
	}

	err = d.fetch(ctx, log, au.url, path)
	if err != nil && au.recovery && ctx.Err() == nil {
		return RecoveryFailedError(au.url, err)
	}
	return err
}

// archivePath returns where to keep the archive for a normalized URL.
// With cache off the archive goes to a temporary directory that is
// removed by the returned cleanup function.
func (d *downloader) archivePath(normURL string) (string, func(), error) {
	name := gnuuid.New(normURL).String() + ".zip"
	if d.cfg.Cache.Mode != config.CacheOff {
		dir := config.ArchiveDir(d.cfg.HomeDir)
		return filepath.Join(dir, name), func() {}, nil
	}

	dir, err := os.MkdirTemp("", config.AppName+"-")
	if err != nil {
		return "", nil, ArchiveError(normURL, err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("Cannot remove temporary archive", "dir", dir, "error", err)
		}
	}
	return filepath.Join(dir, name), cleanup, nil
}
