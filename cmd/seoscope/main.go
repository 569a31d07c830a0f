// Package main is the seoscope command: crawl a site, score its pages,
// and report an overall SEO health figure.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/seoscope/seoscope/internal/analyzer"
	"github.com/seoscope/seoscope/internal/architecture"
	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/crawler"
	"github.com/seoscope/seoscope/internal/fetcher"
	"github.com/seoscope/seoscope/internal/insights"
	"github.com/seoscope/seoscope/internal/keywords"
	"github.com/seoscope/seoscope/internal/page"
	"github.com/seoscope/seoscope/internal/renderer"
	"github.com/seoscope/seoscope/internal/report"
	"github.com/seoscope/seoscope/internal/urlutil"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to a JSON config file")
		baseURL      = flag.String("url", "", "site URL to audit")
		brand        = flag.String("brand", "", "brand name (default: derived from the host)")
		keywordsFlag = flag.String("keywords", "", "comma-separated keyword list: brand,primary,secondary...")
		maxPages     = flag.Int("max-pages", 0, "crawl budget")
		analyzeN     = flag.Int("analyze", 0, "number of top-priority pages to analyze")
		renderMode   = flag.String("render", "", "render mode: html or js")
		exportPath   = flag.String("export", "", "export path (.xlsx, .csv or .json)")
		withInsights = flag.Bool("insights", false, "query performance insights for the homepage")
		verbose      = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := buildConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	applyFlags(cfg, *baseURL, *brand, *keywordsFlag, *renderMode, *exportPath, *maxPages, *analyzeN, *withInsights)
	cfg.LoadEnv()
	if err := cfg.Validate(); err != nil {
		flag.Usage()
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("interrupt received, stopping")
		cancel()
	}()

	rep, err := run(ctx, cfg, log)
	if err != nil {
		log.Fatal(err)
	}

	printReport(rep)

	if cfg.ExportPath != "" {
		format, err := exportFormat(cfg.ExportPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := report.NewExporter(format, cfg.ExportPath).Export(rep); err != nil {
			log.WithError(err).Fatal("export failed")
		}
		log.WithField("path", cfg.ExportPath).Info("report exported")
	}
}

func buildConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

func applyFlags(cfg *config.Config, baseURL, brand, kws, render, export string, maxPages, analyzeN int, withInsights bool) {
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if brand != "" {
		cfg.BrandName = brand
	}
	if kws != "" {
		cfg.Keywords = nil
		for _, kw := range strings.Split(kws, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				cfg.Keywords = append(cfg.Keywords, kw)
			}
		}
	}
	if render != "" {
		cfg.RenderMode = config.RenderMode(render)
	}
	if export != "" {
		cfg.ExportPath = export
	}
	if maxPages > 0 {
		cfg.MaxPages = maxPages
	}
	if analyzeN > 0 {
		cfg.PagesToAnalyze = analyzeN
	}
	if withInsights {
		cfg.IncludeInsights = true
	}
}

func exportFormat(path string) (report.ExportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return report.FormatXLSX, nil
	case ".csv":
		return report.FormatCSV, nil
	case ".json":
		return report.FormatJSON, nil
	default:
		return "", fmt.Errorf("cannot infer export format from %q (use .xlsx, .csv or .json)", path)
	}
}

// run executes the full audit: crawl, keyword discovery, page scoring,
// architecture checks, aggregation.
func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*report.SiteReport, error) {
	lex := config.DefaultLexicon()

	httpFetch := fetcher.NewFetcher(cfg)
	var fetch crawler.Fetcher = httpFetch
	if cfg.RenderMode == config.RenderJS {
		r, err := renderer.NewRenderer(cfg)
		if err != nil {
			return nil, fmt.Errorf("starting renderer: %w", err)
		}
		defer r.Close()
		fetch = r
	}

	log.WithFields(logrus.Fields{
		"url":       cfg.BaseURL,
		"max_pages": cfg.MaxPages,
		"render":    cfg.RenderMode,
	}).Info("starting audit")

	crawlResult, err := crawler.New(cfg, lex, fetch, log).Crawl(ctx)
	if err != nil {
		return nil, fmt.Errorf("crawl failed: %w", err)
	}

	rep := report.NewSiteReport(crawlResult.BaseURL)
	rep.Inventory = crawlResult.Pages
	rep.CrawledCount = crawlResult.CrawledCount
	rep.FailedCount = crawlResult.FailedCount

	crawled := crawledPages(crawlResult)
	if len(crawled) == 0 {
		return nil, fmt.Errorf("no pages could be fetched from %s", cfg.BaseURL)
	}

	homeDoc, err := page.Parse(crawled[0].HTML, crawled[0].URL)
	if err != nil {
		return nil, fmt.Errorf("parsing homepage: %w", err)
	}

	kws, brand, err := resolveKeywords(ctx, cfg, lex, homeDoc, log)
	if err != nil {
		return nil, err
	}
	rep.Keywords = kws

	analyzePages(cfg, lex, rep, crawled, kws, brand, log)

	if cfg.IncludeInsights {
		addInsights(ctx, cfg, rep, log)
	}

	// robots.txt and sitemap.xml never need JavaScript.
	arch, err := architecture.New(cfg, lex, httpFetch, log).Analyze(ctx)
	if err != nil {
		log.WithError(err).Warn("architecture analysis failed")
	} else {
		rep.Architecture = arch
	}

	report.Aggregate(rep)
	return rep, nil
}

// crawledPages returns the successfully fetched pages in priority
// order.
func crawledPages(res *crawler.Result) []*crawler.Page {
	var out []*crawler.Page
	for _, p := range res.Pages {
		if p.Crawled {
			out = append(out, p)
		}
	}
	return out
}

// resolveKeywords uses the configured list when present, otherwise
// extracts keywords from the homepage.
func resolveKeywords(ctx context.Context, cfg *config.Config, lex *config.Lexicon, homeDoc *page.Document, log *logrus.Logger) (keywords.List, string, error) {
	brand := cfg.BrandName
	if len(cfg.Keywords) > 0 {
		list := keywords.List(cfg.Keywords)
		if brand == "" {
			brand = list.Brand()
		}
		return list, brand, nil
	}

	if brand == "" {
		brand = brandFromHost(cfg.BaseURL)
	}
	var source keywords.Source = keywords.NewFinder(lex, brand)
	list, err := source.Keywords(ctx, homeDoc)
	if err != nil {
		return nil, "", fmt.Errorf("keyword extraction: %w", err)
	}
	log.WithField("keywords", len(list)).Info("extracted keyword list from homepage")
	return list, brand, nil
}

// brandFromHost derives a brand name from the first host label.
func brandFromHost(rawURL string) string {
	host := urlutil.Host(rawURL)
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// analyzePages runs the six analyzers over the top-priority crawled
// pages.
func analyzePages(cfg *config.Config, lex *config.Lexicon, rep *report.SiteReport, crawled []*crawler.Page, kws keywords.List, brand string, log *logrus.Logger) {
	titleA := analyzer.NewTitleAnalyzer(lex)
	metaA := analyzer.NewMetaDescriptionAnalyzer(lex)
	headingsA := analyzer.NewHeadingsAnalyzer(lex)
	bodyA := analyzer.NewBodyContentAnalyzer()
	imagesA := analyzer.NewImagesAnalyzer()
	schemaA := analyzer.NewSchemaAnalyzer()

	n := cfg.PagesToAnalyze
	if n > len(crawled) {
		n = len(crawled)
	}

	for i := 0; i < n; i++ {
		p := crawled[i]
		doc, err := page.Parse(p.HTML, p.URL)
		if err != nil {
			log.WithError(err).WithField("url", p.URL).Warn("skipping unparseable page")
			continue
		}

		in := analyzer.Input{
			Doc:        doc,
			Keywords:   kws,
			BrandName:  brand,
			IsHomepage: p.Type == crawler.PageHomepage,
		}

		title := titleA.Analyze(in)
		meta := metaA.Analyze(in)
		headings := headingsA.Analyze(in)
		body := bodyA.Analyze(in)
		images := imagesA.Analyze(in)
		schema := schemaA.Analyze(in)

		rep.Pages = append(rep.Pages, &report.PageReport{
			URL:       p.URL,
			Type:      p.Type,
			Priority:  p.Priority,
			Backlinks: p.Backlinks,
			Title:     &title,
			Meta:      &meta,
			Headings:  &headings,
			Body:      &body,
			Images:    &images,
			Schema:    &schema,
		})
	}
}

// addInsights queries performance insights for the homepage.
func addInsights(ctx context.Context, cfg *config.Config, rep *report.SiteReport, log *logrus.Logger) {
	if len(rep.Pages) == 0 {
		return
	}
	client := insights.NewClient(cfg.InsightsAPIKey, "")
	ins, err := client.Analyze(ctx, rep.Pages[0].URL)
	if err != nil {
		log.WithError(err).Warn("performance insights unavailable")
		return
	}
	rep.Pages[0].Insights = ins
}

func printReport(rep *report.SiteReport) {
	fmt.Printf("\nSEO Audit: %s\n", rep.BaseURL)
	fmt.Printf("Session %s\n", rep.SessionID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Pages crawled: %d (failed: %d, discovered: %d)\n",
		rep.CrawledCount, rep.FailedCount, len(rep.Inventory))

	if rep.Architecture != nil {
		fmt.Printf("\nArchitecture: %d/100 [%s]\n", rep.Architecture.Score, rep.Architecture.Status)
		for _, issue := range rep.Architecture.Issues {
			fmt.Printf("  ! %s\n", issue)
		}
	}

	for _, p := range rep.Pages {
		fmt.Printf("\n%s (%s, priority %d)\n", p.URL, p.Type, p.Priority)
		printScore := func(name string, score int, status analyzer.Status) {
			fmt.Printf("  %-17s %3d/100 [%s]\n", name, score, status)
		}
		if p.Title != nil {
			printScore("Title", p.Title.Score, p.Title.Status)
		}
		if p.Meta != nil {
			printScore("Meta description", p.Meta.Score, p.Meta.Status)
		}
		if p.Headings != nil {
			printScore("Headings", p.Headings.Score, p.Headings.Status)
		}
		if p.Body != nil {
			printScore("Body content", p.Body.Score, p.Body.Status)
		}
		if p.Images != nil {
			printScore("Images", p.Images.Score, p.Images.Status)
		}
		if p.Schema != nil {
			printScore("Schema", p.Schema.Score, p.Schema.Status)
		}
		if p.Insights != nil {
			for _, dev := range []*insights.DeviceReport{p.Insights.Mobile, p.Insights.Desktop} {
				if dev != nil && dev.Err == nil {
					fmt.Printf("  %-17s %3d/100\n", "Perf "+strings.ToLower(dev.Strategy), dev.PerformanceScore)
				}
			}
		}
		fmt.Printf("  %-17s %.1f/100\n", "Composite", p.Composite)
		if p.CriticalFailed {
			fmt.Println("  ! critical on-page elements failing")
		}
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Overall SEO score: %.1f/100\n", rep.OverallScore)
	if rep.HomepageCapped {
		fmt.Println("Homepage critical issues detected - overall score capped")
	}
}
