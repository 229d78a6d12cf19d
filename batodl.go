// Package batodl is a library and CLI for Batoto-style manga sites: browse
// and search listings, series details, and resolution of the encrypted page
// image URLs embedded in chapter markup.
package batodl

import (
	"context"
	"fmt"
	"time"

	"github.com/batoget/batodl/bato/catalog"
	"github.com/batoget/batodl/bato/cipher"
	"github.com/batoget/batodl/bato/site"
	"github.com/batoget/batodl/client"
	"github.com/batoget/batodl/downloader"
	"github.com/batoget/batodl/errs"
	"github.com/batoget/batodl/evaluator"
	"github.com/batoget/batodl/internal/logger"
	"github.com/batoget/batodl/internal/sanitize"
	"github.com/batoget/batodl/internal/uid"
	"github.com/batoget/batodl/types"
)

// Loader provides the high-level API. Configure it with the chainable With*
// setters, then call the operations; a zero-configured Loader targets
// bato.to with default client settings and the default evaluator chain.
type Loader struct {
	httpClient   *client.Client
	profile      *site.Profile
	ev           evaluator.Evaluator
	progressFunc func(downloader.Progress)
	rateLimitBps int64
	log          *logger.ComponentLogger
}

// New creates a new Loader with default options.
func New() *Loader {
	return &Loader{
		httpClient: client.New(),
		profile:    site.Default(),
		ev:         evaluator.Default(),
		log:        logger.WithComponent(logger.ComponentApp),
	}
}

// WithHTTPClient sets a custom HTTP client to be used for all network calls.
func (l *Loader) WithHTTPClient(c *client.Client) *Loader {
	if c != nil {
		l.httpClient = c
	}
	return l
}

// WithClientConfig rebuilds the HTTP client from cfg.
func (l *Loader) WithClientConfig(cfg client.Config) *Loader {
	l.httpClient = client.NewWith(cfg)
	return l
}

// WithSite sets the site profile (domain, mirrors, markers).
func (l *Loader) WithSite(p *site.Profile) *Loader {
	if p != nil {
		l.profile = p
	}
	return l
}

// WithEvaluator sets the password-expression evaluator backend.
func (l *Loader) WithEvaluator(ev evaluator.Evaluator) *Loader {
	if ev != nil {
		l.ev = ev
	}
	return l
}

// WithProgress registers a callback that receives download progress updates.
func (l *Loader) WithProgress(f func(downloader.Progress)) *Loader {
	l.progressFunc = f
	return l
}

// WithRateLimit sets a download rate limit in bytes per second. Zero disables limiting.
func (l *Loader) WithRateLimit(bytesPerSecond int64) *Loader {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	l.rateLimitBps = bytesPerSecond
	return l
}

// Site returns the active site profile.
func (l *Loader) Site() *site.Profile {
	return l.profile
}

// GetList fetches one browse page and returns its series entries.
func (l *Loader) GetList(ctx context.Context, page int, order string) ([]types.Manga, error) {
	url, err := catalog.BrowseURL(l.profile, page, order)
	if err != nil {
		return nil, err
	}
	l.log.Debug("fetching listing", map[string]interface{}{"url": url})
	pageHTML, err := l.httpClient.FetchText(ctx, url)
	if err != nil {
		return nil, err
	}
	return catalog.ParseList(pageHTML, l.profile)
}

// Search fetches one search results page for query.
func (l *Loader) Search(ctx context.Context, query string, page int) ([]types.Manga, error) {
	url, err := catalog.SearchURL(l.profile, query, page)
	if err != nil {
		return nil, err
	}
	l.log.Debug("searching", map[string]interface{}{"url": url})
	pageHTML, err := l.httpClient.FetchText(ctx, url)
	if err != nil {
		return nil, err
	}
	return catalog.ParseList(pageHTML, l.profile)
}

// GetDetails fetches the series page for manga and returns a copy with the
// detail fields and chapter list filled in.
func (l *Loader) GetDetails(ctx context.Context, manga types.Manga) (types.Manga, error) {
	url := l.profile.AbsURL(manga.URL)
	if err := l.profile.ValidateSeriesURL(url); err != nil {
		return manga, err
	}
	l.log.Debug("fetching series details", map[string]interface{}{"url": url})
	pageHTML, err := l.httpClient.FetchText(ctx, url)
	if err != nil {
		return manga, err
	}
	return catalog.ParseDetails(pageHTML, manga, l.profile, time.Now())
}

// GetPages fetches the chapter page and resolves the final image URLs hidden
// behind the encrypted payload.
func (l *Loader) GetPages(ctx context.Context, chapterURL string) ([]types.MangaPage, error) {
	url := l.profile.AbsURL(chapterURL)
	if err := l.profile.ValidateChapterURL(url); err != nil {
		return nil, err
	}
	l.log.Debug("fetching chapter", map[string]interface{}{"url": url})
	pageHTML, err := l.httpClient.FetchText(ctx, url)
	if err != nil {
		return nil, err
	}

	resolver := cipher.NewResolver(l.ev).WithMarkers(l.profile.Markers)
	urls, err := resolver.ResolvePageURLs(ctx, pageHTML)
	if err != nil {
		return nil, err
	}

	pages := make([]types.MangaPage, len(urls))
	for i, u := range urls {
		pages[i] = types.MangaPage{ID: uid.FromString(u), URL: u}
	}
	l.log.Info("chapter resolved", map[string]interface{}{"pages": len(pages)})
	return pages, nil
}

// DownloadChapter resolves a chapter's pages and writes the images under
// dir. When dir is empty a directory name is derived from the chapter URL.
// Returns the written file paths in page order.
func (l *Loader) DownloadChapter(ctx context.Context, chapterURL, dir string) ([]string, error) {
	pages, err := l.GetPages(ctx, chapterURL)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: chapter %s", errs.ErrNoPages, chapterURL)
	}
	if dir == "" {
		dir = sanitize.ToSafeDirName(chapterURL)
	}
	dl := downloader.New(l.httpClient, l.progressFunc, l.rateLimitBps)
	return dl.DownloadChapter(ctx, pages, dir)
}
