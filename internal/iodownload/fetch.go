package iodownload

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
)

// fetch saves the archive at url to path. Data goes to a temporary
// '.part' file first, so an interrupted download never looks like a
// cached archive.
func (d *downloader) fetch(
	ctx context.Context,
	log *slog.Logger,
	url, path string,
) error {
	start := time.Now()
	if err := gnsys.MakeDir(filepath.Dir(path)); err != nil {
		return ArchiveError(url, err)
	}

	resp, cancel, err := d.client.Stream(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return CancelledError(ctx.Err())
		}
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	part := path + ".part"
	f, err := os.Create(part)
	if err != nil {
		return ArchiveError(url, err)
	}

	var r io.Reader = resp.Body
	if d.cfg.Download.ShowProgress {
		bar := newProgressBar(resp.ContentLength, "Downloading: ")
		defer bar.Finish()
		r = bar.NewProxyReader(resp.Body)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n == 0 {
		err = errEmptyArchive
	}
	if err != nil {
		_ = os.Remove(part)
		if ctx.Err() != nil {
			return CancelledError(ctx.Err())
		}
		return ArchiveError(url, err)
	}

	if err = os.Rename(part, path); err != nil {
		_ = os.Remove(part)
		return ArchiveError(url, err)
	}

	log.Info("Archive downloaded",
		"path", path,
		"size", humanize.Bytes(uint64(n)),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return nil
}

// newProgressBar shows bytes read so far. Unknown size gives a counter
// without a bar.
func newProgressBar(total int64, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start64(max(total, 0))
	bar.Set("prefix", prefix)
	bar.Set(pb.Bytes, true)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}

// cachedArchive reports if a non-empty archive exists at path.
func cachedArchive(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular() && fi.Size() > 0
}
