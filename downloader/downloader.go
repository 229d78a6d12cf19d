// Package downloader persists resolved chapter pages to disk. Page order is
// preserved through zero-padded positional filenames; a failed page aborts
// the chapter.
package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/batoget/batodl/client"
	"github.com/batoget/batodl/errs"
	"github.com/batoget/batodl/internal/logger"
	"github.com/batoget/batodl/internal/mimeext"
	"github.com/batoget/batodl/internal/sanitize"
	"github.com/batoget/batodl/types"
)

const (
	temporaryFileSuffix = ".tmp"
	copyBufferSizeBytes = 32 * 1024 // 32KB
	minFilenameWidth    = 3
)

// Progress holds information about chapter download progress.
type Progress struct {
	TotalPages   int
	Completed    int
	Percent      float64
	BytesWritten int64
}

// Downloader writes resolved page images to a directory with optional rate
// limiting and progress reporting.
type Downloader struct {
	Client       *client.Client
	ProgressFunc func(Progress)

	rateLimitBps int64
	log          *logger.ComponentLogger
}

// New creates a new downloader instance. If c is nil, a default client is
// used. rateLimitBps=0 disables limiting.
func New(c *client.Client, progressFunc func(Progress), rateLimitBps int64) *Downloader {
	if c == nil {
		c = client.New()
	}
	if rateLimitBps < 0 {
		rateLimitBps = 0
	}
	return &Downloader{
		Client:       c,
		ProgressFunc: progressFunc,
		rateLimitBps: rateLimitBps,
		log:          logger.WithComponent(logger.ComponentDownloader),
	}
}

// DownloadChapter fetches every page image into dir, creating it if needed.
// Filenames are zero-padded positional numbers with an extension taken from
// the response Content-Type, the URL path as fallback. Returns the written
// file paths in page order. Already-written files are left on disk when a
// later page fails.
func (d *Downloader) DownloadChapter(ctx context.Context, pages []types.MangaPage, dir string) ([]string, error) {
	if len(pages) == 0 {
		return nil, nil
	}
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chapter dir: %w", err)
	}

	width := len(strconv.Itoa(len(pages)))
	if width < minFilenameWidth {
		width = minFilenameWidth
	}

	d.log.Info("chapter download started", map[string]interface{}{"pages": len(pages), "dir": dir})

	written := make([]string, 0, len(pages))
	var totalBytes int64
	for i, page := range pages {
		path, n, err := d.downloadPage(ctx, page.URL, dir, i+1, width)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		totalBytes += n
		written = append(written, path)

		if d.ProgressFunc != nil {
			d.ProgressFunc(Progress{
				TotalPages:   len(pages),
				Completed:    i + 1,
				Percent:      float64(i+1) / float64(len(pages)) * 100,
				BytesWritten: totalBytes,
			})
		}
	}

	d.log.Info("chapter download finished", map[string]interface{}{"pages": len(written), "bytes": totalBytes})
	return written, nil
}

// downloadPage fetches one image and writes it atomically: the body goes to
// a .tmp file that is renamed into place only after a complete copy.
func (d *Downloader) downloadPage(ctx context.Context, pageURL, dir string, num, width int) (string, int64, error) {
	resp, err := d.Client.Get(ctx, pageURL)
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, fmt.Errorf("%w: %d fetching %s", errs.ErrHTTPStatus, resp.StatusCode, pageURL)
	}

	ext := mimeext.ExtFromMime(resp.Header.Get("Content-Type"))
	if resp.Header.Get("Content-Type") == "" {
		ext = mimeext.ExtFromURL(pageURL)
	}
	name := sanitize.ToSafeFilename(fmt.Sprintf("%0*d", width, num), ext)
	finalPath := filepath.Join(dir, name)
	tmpPath := finalPath + temporaryFileSuffix

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}

	n, err := d.copyWithRateLimit(ctx, f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", 0, err
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", 0, fmt.Errorf("finalize page file: %w", err)
	}

	d.log.Debug("page written", map[string]interface{}{"file": name, "bytes": n})
	return finalPath, n, nil
}

// copyWithRateLimit copies src to dst, pausing per write to keep the byte
// rate under the configured limit.
func (d *Downloader) copyWithRateLimit(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, copyBufferSizeBytes)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, werr
			}
			d.sleepForRate(ctx, int64(wn))
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// sleepForRate enforces a simple rate limit based on bytes written in this step.
func (d *Downloader) sleepForRate(ctx context.Context, written int64) {
	if d.rateLimitBps <= 0 || written <= 0 {
		return
	}
	dur := time.Duration(int64(time.Second) * written / d.rateLimitBps)
	if dur <= 0 {
		return
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
