package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sitecensus/internal/collect"
	"sitecensus/internal/config"
	"sitecensus/internal/crawler"
	"sitecensus/internal/database"
	"sitecensus/internal/fetch"
	"sitecensus/internal/filter"
	"sitecensus/internal/judge"
	"sitecensus/internal/log"
	"sitecensus/internal/model"
	"sitecensus/internal/report"
	"sitecensus/internal/translate"
)

// apiKeyEnvVar is the environment variable consulted when no --api-key
// flag is given.
const apiKeyEnvVar = "ANTHROPIC_API_KEY"

// NewCollectCmd creates the collect command.
func NewCollectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect [url...]",
		Short: "Collect and classify a website's content",
		Long: `Collect crawls one or more websites within a fixed page budget and
classifies the collected pages against a content taxonomy.

With an API key (--api-key or ` + apiKeyEnvVar + `), links are filtered for
relevance before fetching and pages are scored by the judge model.
Without one, every in-scope link is followed and classification falls
back to keyword matching against the taxonomy definitions.

Examples:
  # Collect a single site
  sitecensus collect https://example.edu

  # Collect multiple sites concurrently
  sitecensus collect https://example.edu https://example.org

  # Larger budget with a holistic summary
  sitecensus collect --budget 40 --summarize https://example.edu

  # Output JSON report to a file
  sitecensus collect --json -o report.json https://example.edu

  # Translate the report into Spanish
  sitecensus collect --lang es https://example.edu`,
		Args: cobra.ArbitraryArgs,
		RunE: runCollectCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("budget", "p", config.DefaultPageBudget,
		"Maximum number of pages to collect per site")
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Politeness delay between page fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().String("user-agent", "",
		"Override the User-Agent header")
	cmd.Flags().Bool("screenshots", false,
		"Capture page screenshots when the fetch layer supports it")

	// Judgment flags
	cmd.Flags().String("api-key", "",
		"Judge API key (default: "+apiKeyEnvVar+" environment variable)")
	cmd.Flags().String("model", "",
		"Override the judge model")
	cmd.Flags().Bool("no-link-filter", false,
		"Disable link-relevance filtering even when a judge is configured")

	// Classification flags
	cmd.Flags().String("taxonomy", "",
		"Taxonomy file path (default: taxonomy.yaml in current or config directory)")
	cmd.Flags().String("org", "",
		"Organization name (default: derived from the first page title)")
	cmd.Flags().BoolP("summarize", "s", false,
		"Generate a holistic summary of the site (requires a judge)")
	cmd.Flags().StringP("lang", "l", "",
		"Translate the report into the given BCP 47 language code")

	// Batch collection flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent collections")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --csv)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --csv)")
	cmd.Flags().Bool("csv", false,
		"Output per-page CSV summary (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-db", false,
		"Skip saving the run to the history database")

	return cmd
}

// runCollectCmd executes the collect command.
func runCollectCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildCollectConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCollect(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildCollectConfig creates a Config from cobra command flags.
func buildCollectConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.PageBudget, err = cmd.Flags().GetInt("budget")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.Screenshots, err = cmd.Flags().GetBool("screenshots")
	if err != nil {
		return nil, err
	}

	cfg.JudgeAPIKey, err = cmd.Flags().GetString("api-key")
	if err != nil {
		return nil, err
	}
	if cfg.JudgeAPIKey == "" {
		cfg.JudgeAPIKey = os.Getenv(apiKeyEnvVar)
	}

	cfg.JudgeModel, err = cmd.Flags().GetString("model")
	if err != nil {
		return nil, err
	}

	cfg.DisableLinkFilter, err = cmd.Flags().GetBool("no-link-filter")
	if err != nil {
		return nil, err
	}

	cfg.TaxonomyPath, err = cmd.Flags().GetString("taxonomy")
	if err != nil {
		return nil, err
	}

	cfg.OrganizationName, err = cmd.Flags().GetString("org")
	if err != nil {
		return nil, err
	}

	cfg.Summarize, err = cmd.Flags().GetBool("summarize")
	if err != nil {
		return nil, err
	}

	cfg.TargetLanguage, err = cmd.Flags().GetString("lang")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Get positional arguments (start URLs)
	cfg.StartURLs = args

	return cfg, nil
}

// runCollect executes the collection.
func runCollect(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.StartURLs) == 0 {
		return errors.New("no sites provided (specify one or more URLs as arguments)")
	}

	logger.Info("starting collection",
		"sites", cfg.StartURLs,
		"budget", cfg.PageBudget,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Normalize all start URLs so stored runs and history lookups agree
	for i, site := range cfg.StartURLs {
		cfg.StartURLs[i] = crawler.Normalize(site)
	}

	// Validate the target language before any crawling happens
	if cfg.TargetLanguage != "" {
		lang, err := translate.ValidateLanguage(cfg.TargetLanguage)
		if err != nil {
			return err
		}
		cfg.TargetLanguage = lang
	}

	// Open database connection if saving is enabled
	var db *database.CollectDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Load the taxonomy
	taxonomy, err := loadTaxonomy(cfg, logger)
	if err != nil {
		return err
	}

	// Create the judge client when an API key is available
	var j judge.Judge
	if cfg.JudgeAPIKey != "" {
		opts := []judge.ClientOption{}
		if cfg.JudgeModel != "" {
			opts = append(opts, judge.WithModel(cfg.JudgeModel))
		}
		client, err := judge.NewClient(cfg.JudgeAPIKey, opts...)
		if err != nil {
			return fmt.Errorf("failed to create judge client: %w", err)
		}
		j = client
	} else {
		logger.Info("no API key configured; link filtering disabled, keyword classification selected")
	}

	// Translation service, shared across sites so the cache carries over
	var translator *translate.Service
	if cfg.TargetLanguage != "" {
		var t translate.Translator
		if j != nil {
			t = translate.NewJudgeTranslator(j)
		} else {
			t = translate.NewTagTranslator()
		}
		translator = translate.NewService(t, translate.WithServiceLogger(logger))
	}

	// Use batch processor for parallel collection if multiple sites
	if len(cfg.StartURLs) > 1 && cfg.BatchSize > 1 {
		return runBatchCollect(ctx, cfg, j, taxonomy, db, translator, logger)
	}

	// Single site or sequential collection
	return runSequentialCollect(ctx, cfg, j, taxonomy, db, translator, logger)
}

// loadTaxonomy resolves and loads the taxonomy for this run.
// An explicitly configured path must exist; otherwise a found file is
// loaded and, failing that, the built-in default taxonomy is used.
func loadTaxonomy(cfg *config.Config, logger *slog.Logger) (*config.Taxonomy, error) {
	path := config.FindTaxonomyFile(cfg.TaxonomyPath)
	if path == "" {
		if cfg.TaxonomyPath != "" {
			return nil, fmt.Errorf("taxonomy file not found: %s", cfg.TaxonomyPath)
		}
		logger.Debug("no taxonomy file found, using built-in default")
		return config.DefaultTaxonomy(), nil
	}

	taxonomy, err := config.LoadTaxonomy(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy %s: %w", path, err)
	}

	logger.Info("taxonomy loaded",
		"path", path,
		"sections", len(taxonomy.Sections),
		"subsections", taxonomy.SubsectionCount(),
	)
	return taxonomy, nil
}

// newPipeline builds a collection pipeline for one site.
func newPipeline(cfg *config.Config, j judge.Judge, taxonomy *config.Taxonomy, logger *slog.Logger) *collect.Pipeline {
	fetchOpts := []fetch.HTTPFetcherOption{
		fetch.WithTimeout(cfg.Timeout),
	}
	if cfg.UserAgent != "" {
		fetchOpts = append(fetchOpts, fetch.WithUserAgent(cfg.UserAgent))
	}
	fetcher := fetch.NewHTTPFetcher(fetchOpts...)

	spiderOpts := []crawler.SpiderOption{
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithScreenshots(cfg.Screenshots),
		crawler.WithLogger(logger),
	}
	if j != nil && !cfg.DisableLinkFilter {
		spiderOpts = append(spiderOpts, crawler.WithLinkFilter(
			filter.New(j,
				filter.WithTaxonomy(taxonomy),
				filter.WithLogger(logger),
			),
		))
	}
	spider := crawler.NewSpider(fetcher, spiderOpts...)

	p := collect.New(
		collect.WithLogger(logger),
		collect.WithContinueOnError(true),
	)
	p.AddSteps(
		collect.NewCrawlStep(spider,
			collect.WithCrawlBudget(cfg.PageBudget),
			collect.WithCrawlLogger(logger),
		),
		collect.NewNameStep(
			collect.WithNameOverride(cfg.OrganizationName),
			collect.WithNameLogger(logger),
		),
		collect.NewClassifyStep(j, taxonomy,
			collect.WithClassifyLogger(logger),
		),
	)
	if cfg.Summarize {
		p.AddStep(collect.NewSummaryStep(j,
			collect.WithSummaryLogger(logger),
		))
	}

	return p
}

// runSequentialCollect collects sites one at a time.
func runSequentialCollect(ctx context.Context, cfg *config.Config, j judge.Judge, taxonomy *config.Taxonomy, db *database.CollectDB, translator *translate.Service, logger *slog.Logger) error {
	for _, site := range cfg.StartURLs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := newPipeline(cfg, j, taxonomy, logger)
		result := model.NewCollectionResult(site)

		fmt.Printf("Collecting %s...\n", site)
		startTime := time.Now()

		// Execute the pipeline
		if err := p.Execute(ctx, result); err != nil {
			logger.Error("collection failed", "source", site, "error", err)
			fmt.Fprintf(os.Stderr, "Collection error for %s: %v\n", site, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Collection completed in %s\n\n", elapsed.Round(time.Millisecond))

		handleResult(ctx, cfg, db, translator, result, logger)
	}

	return nil
}

// runBatchCollect collects multiple sites concurrently using BatchProcessor.
func runBatchCollect(ctx context.Context, cfg *config.Config, j judge.Judge, taxonomy *config.Taxonomy, db *database.CollectDB, translator *translate.Service, logger *slog.Logger) error {
	fmt.Printf("Starting batch collection of %d sites (concurrency: %d)...\n\n",
		len(cfg.StartURLs), cfg.BatchSize)

	startTime := time.Now()

	// Create batch processor with pipeline factory
	bp := collect.NewBatchProcessor(
		func() *collect.Pipeline {
			return newPipeline(cfg, j, taxonomy, logger)
		},
		collect.WithConcurrency(cfg.BatchSize),
		collect.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.StartURLs, func(result *model.CollectionResult, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Collection completed: %s\n", index+1, len(cfg.StartURLs), result.SourceURL)

		handleResult(ctx, cfg, db, translator, result, logger)
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch collection completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// handleResult translates, outputs, and persists one finished run.
func handleResult(ctx context.Context, cfg *config.Config, db *database.CollectDB, translator *translate.Service, result *model.CollectionResult, logger *slog.Logger) {
	if translator != nil {
		translated, err := translator.TranslateResult(ctx, result, cfg.TargetLanguage)
		if err != nil {
			logger.Error("translation failed", "source", result.SourceURL, "error", err)
		} else {
			result = translated
		}
	}

	if err := outputReport(cfg, result); err != nil {
		logger.Error("report failed", "source", result.SourceURL, "error", err)
	}

	if err := saveResult(ctx, db, result, logger); err != nil {
		logger.Error("failed to save result", "source", result.SourceURL, "error", err)
	}
}

// outputReport outputs the collection report in the requested format.
func outputReport(cfg *config.Config, result *model.CollectionResult) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	case cfg.CSVReport:
		writer = report.NewCSVWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(result)
	return err
}

// saveResult saves the collection result to the database if enabled.
// If db is nil, this function is a no-op.
func saveResult(ctx context.Context, db *database.CollectDB, result *model.CollectionResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveResult(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	logger.Info("collection result saved to database",
		"source", result.SourceURL,
		"id", id,
	)
	return nil
}
