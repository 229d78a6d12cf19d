package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/batoget/batodl"
	"github.com/batoget/batodl/bato/site"
	"github.com/batoget/batodl/client"
	"github.com/batoget/batodl/downloader"
	"github.com/batoget/batodl/evaluator"
	"github.com/batoget/batodl/internal/logger"
	"github.com/batoget/batodl/internal/uid"
	"github.com/batoget/batodl/types"
)

func main() {
	var (
		flagDomain    string
		flagProfile   string
		flagTimeout   time.Duration
		flagRetries   int
		flagUA        string
		flagProxy     string
		flagEvaluator string
		flagCompact   bool
		flagVerbose   bool
		flagQuiet     bool
	)

	flag.StringVar(&flagDomain, "domain", "", "Site domain override (e.g., 'bato.si')")
	flag.StringVar(&flagProfile, "profile", "", "Path to a YAML site profile")
	flag.DurationVar(&flagTimeout, "timeout", 30*time.Second, "HTTP timeout (e.g., 30s, 1m)")
	flag.IntVar(&flagRetries, "retries", 3, "HTTP retries for transient errors")
	flag.StringVar(&flagUA, "ua", "", "Override User-Agent header")
	flag.StringVar(&flagProxy, "proxy", "", "Proxy URL (http/https/socks)")
	flag.StringVar(&flagEvaluator, "evaluator", "", "Password evaluator: goja, otto, node or pattern (default: pattern+goja chain)")
	flag.BoolVar(&flagCompact, "compact", false, "Compact JSON output instead of pretty")
	flag.BoolVar(&flagVerbose, "verbose", false, "Enable debug logging for all components")
	flag.BoolVar(&flagQuiet, "quiet", false, "Log errors only")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <command> [command flags]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nCommands:")
		fmt.Fprintln(os.Stderr, "  list      browse series (-page, -order)")
		fmt.Fprintln(os.Stderr, "  search    search series (-query, -page)")
		fmt.Fprintln(os.Stderr, "  details   series details (-url)")
		fmt.Fprintln(os.Stderr, "  pages     resolve chapter page urls (-url)")
		fmt.Fprintln(os.Stderr, "  download  download chapter images (-url, -out, -rate)")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	configureLogging(flagVerbose, flagQuiet)

	profile, err := loadProfile(flagProfile, flagDomain)
	if err != nil {
		fatal(err)
	}

	loader := batodl.New().
		WithSite(profile).
		WithClientConfig(client.Config{
			Timeout:   flagTimeout,
			Retries:   flagRetries,
			UserAgent: flagUA,
			ProxyURL:  flagProxy,
		})
	if ev, err := buildEvaluator(flagEvaluator); err != nil {
		fatal(err)
	} else if ev != nil {
		loader = loader.WithEvaluator(ev)
	}

	ctx := context.Background()
	switch args[0] {
	case "list":
		runList(ctx, loader, args[1:], flagCompact)
	case "search":
		runSearch(ctx, loader, args[1:], flagCompact)
	case "details":
		runDetails(ctx, loader, args[1:], flagCompact)
	case "pages":
		runPages(ctx, loader, args[1:], flagCompact)
	case "download":
		runDownload(ctx, loader, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
}

func configureLogging(verbose, quiet bool) {
	log := logger.GetGlobalLogger()
	switch {
	case verbose:
		log.SetLevel(logger.DEBUG)
		log.EnableAllComponents()
	case quiet:
		log.SetLevel(logger.ERROR)
	}
}

func loadProfile(path, domain string) (*site.Profile, error) {
	p := site.Default()
	if path != "" {
		loaded, err := site.Load(path)
		if err != nil {
			return nil, err
		}
		p = loaded
	}
	if domain != "" {
		p.Domain = domain
	}
	return p, nil
}

func buildEvaluator(name string) (evaluator.Evaluator, error) {
	switch name {
	case "":
		return nil, nil
	case "goja":
		return evaluator.NewGoja(), nil
	case "otto":
		return evaluator.NewOtto(), nil
	case "node":
		return evaluator.NewExec(), nil
	case "pattern":
		return evaluator.NewPattern(), nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q (valid: goja, otto, node, pattern)", name)
	}
}

func runList(ctx context.Context, loader *batodl.Loader, args []string, compact bool) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "Page number")
	order := fs.String("order", "update.za", "Sort order")
	_ = fs.Parse(args)

	mangas, err := loader.GetList(ctx, *page, *order)
	if err != nil {
		fatal(err)
	}
	printJSON(mangas, compact)
}

func runSearch(ctx context.Context, loader *batodl.Loader, args []string, compact bool) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("query", "", "Search query")
	page := fs.Int("page", 1, "Page number")
	_ = fs.Parse(args)

	mangas, err := loader.Search(ctx, *query, *page)
	if err != nil {
		fatal(err)
	}
	printJSON(mangas, compact)
}

func runDetails(ctx context.Context, loader *batodl.Loader, args []string, compact bool) {
	fs := flag.NewFlagSet("details", flag.ExitOnError)
	rawURL := fs.String("url", "", "Series URL")
	_ = fs.Parse(args)

	manga, err := loader.GetDetails(ctx, mangaFromURL(loader, *rawURL))
	if err != nil {
		fatal(err)
	}
	printJSON(manga, compact)
}

func runPages(ctx context.Context, loader *batodl.Loader, args []string, compact bool) {
	fs := flag.NewFlagSet("pages", flag.ExitOnError)
	rawURL := fs.String("url", "", "Chapter URL")
	_ = fs.Parse(args)

	pages, err := loader.GetPages(ctx, *rawURL)
	if err != nil {
		fatal(err)
	}
	printJSON(pages, compact)
}

func runDownload(ctx context.Context, loader *batodl.Loader, args []string) {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	rawURL := fs.String("url", "", "Chapter URL")
	out := fs.String("out", "", "Output directory (default derives from the chapter URL)")
	rate := fs.Int64("rate", 0, "Rate limit in bytes per second (0 disables)")
	_ = fs.Parse(args)

	loader.WithRateLimit(*rate).WithProgress(func(p downloader.Progress) {
		fmt.Fprintf(os.Stderr, "\rpage %d/%d (%.0f%%)", p.Completed, p.TotalPages, p.Percent)
	})

	written, err := loader.DownloadChapter(ctx, *rawURL, *out)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("downloaded %d pages\n", len(written))
}

// mangaFromURL builds the minimal series entry GetDetails needs.
func mangaFromURL(loader *batodl.Loader, rawURL string) types.Manga {
	return types.Manga{
		ID:        uid.FromString(rawURL),
		URL:       rawURL,
		PublicURL: loader.Site().AbsURL(rawURL),
	}
}

func printJSON(v interface{}, compact bool) {
	enc := json.NewEncoder(os.Stdout)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
