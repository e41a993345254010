package crawler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sitecensus/internal/fetch"
	"sitecensus/internal/model"
)

// ErrEmptyStartURL is returned when a crawl job has no start URL.
var ErrEmptyStartURL = errors.New("crawl job has no start URL")

// LinkFilter decides whether one of a page's outbound links is admitted to
// the frontier. Implementations must not keep state across calls; repeated
// identical links are evaluated independently.
type LinkFilter interface {
	Admit(ctx context.Context, page *model.PageRecord, link, anchorText string) model.LinkJudgment
}

// Job is the per-run crawl state: the start URL, the page budget, the
// frontier of pending URLs and the set of visited normalized URLs.
// A Job is owned exclusively by the Spider that crawls it and is not safe
// for reuse across runs.
//
// Design decision: crawl state lives in a job value passed through Crawl
// rather than on the Spider, so one Spider can serve many jobs and no
// state leaks between concurrent jobs.
type Job struct {
	// StartURL is where the crawl begins.
	StartURL string

	// Budget is the maximum number of pages to visit.
	// The invariant |visited| <= Budget holds throughout the crawl.
	Budget int

	// frontier is the FIFO queue of pending normalized URLs.
	frontier []string

	// visited holds normalized URLs already dequeued and processed.
	visited map[string]struct{}

	// queued mirrors frontier membership for O(1) admission checks.
	queued map[string]struct{}
}

// NewJob creates a crawl job for the given start URL and page budget.
func NewJob(startURL string, budget int) *Job {
	return &Job{
		StartURL: startURL,
		Budget:   budget,
		visited:  make(map[string]struct{}),
		queued:   make(map[string]struct{}),
	}
}

// VisitedCount returns how many pages the job has visited.
func (j *Job) VisitedCount() int {
	return len(j.visited)
}

// FrontierLen returns how many URLs are pending.
func (j *Job) FrontierLen() int {
	return len(j.frontier)
}

// push appends a normalized URL to the frontier tail.
func (j *Job) push(normalized string) {
	j.frontier = append(j.frontier, normalized)
	j.queued[normalized] = struct{}{}
}

// pop removes and returns the frontier head.
func (j *Job) pop() string {
	head := j.frontier[0]
	j.frontier = j.frontier[1:]
	delete(j.queued, head)
	return head
}

// isVisited reports whether a normalized URL was already processed.
func (j *Job) isVisited(normalized string) bool {
	_, ok := j.visited[normalized]
	return ok
}

// isQueued reports whether a normalized URL is already pending.
func (j *Job) isQueued(normalized string) bool {
	_, ok := j.queued[normalized]
	return ok
}

// markVisited records a normalized URL as processed.
func (j *Job) markVisited(normalized string) {
	j.visited[normalized] = struct{}{}
}

// Spider drives the fetch → extract → filter → enqueue loop for crawl
// jobs. The loop is strictly sequential: one page is fully processed
// before the next is dequeued, so the frontier and visited set need no
// locking.
type Spider struct {
	// fetcher is the fetch layer that loads pages.
	fetcher fetch.Fetcher

	// extractor turns fetched documents into PageRecords.
	extractor *Extractor

	// filter decides frontier admission for outbound links.
	// Nil means every in-scope link is admitted with a neutral score.
	filter LinkFilter

	// delay is the politeness pause after every page iteration,
	// applied regardless of fetch success or failure.
	delay time.Duration

	// screenshots enables the optional screenshot side artifact when the
	// fetch layer supports capture.
	screenshots bool

	// logger for structured logging.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithDelay sets the politeness delay between page iterations.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithLinkFilter sets the link relevance filter consulted before links
// are enqueued.
func WithLinkFilter(f LinkFilter) SpiderOption {
	return func(s *Spider) {
		s.filter = f
	}
}

// WithScreenshots enables screenshot capture when the fetch layer
// supports it.
func WithScreenshots(enabled bool) SpiderOption {
	return func(s *Spider) {
		s.screenshots = enabled
	}
}

// WithLogger sets a custom logger for the spider.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider over the given fetch layer.
func NewSpider(fetcher fetch.Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:   fetcher,
		extractor: NewExtractor(),
		delay:     time.Second,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Crawl runs the job to completion and returns the page corpus in crawl
// order. The crawl terminates when the frontier is exhausted or the page
// budget is reached; both are normal completion. Per-page failures are
// recorded on their PageRecord and do not stop the crawl. The only fatal
// error is a fetch-layer startup failure.
func (s *Spider) Crawl(ctx context.Context, job *Job) ([]*model.PageRecord, error) {
	start := Normalize(job.StartURL)
	if start == "" {
		return nil, ErrEmptyStartURL
	}

	if err := s.fetcher.Start(ctx); err != nil {
		return nil, fmt.Errorf("fetch layer failed to start: %w", err)
	}
	defer func() {
		if err := s.fetcher.Close(); err != nil {
			s.logger.Warn("fetch layer close failed", "error", err)
		}
	}()

	job.push(start)

	corpus := make([]*model.PageRecord, 0, job.Budget)
	for job.FrontierLen() > 0 && job.VisitedCount() < job.Budget {
		select {
		case <-ctx.Done():
			return corpus, ctx.Err()
		default:
		}

		current := job.pop()
		normalized := Normalize(current)

		// Revisits are skipped without counting against the budget.
		if job.isVisited(normalized) {
			continue
		}
		job.markVisited(normalized)

		s.logger.Debug("fetching page",
			"url", normalized,
			"visited", job.VisitedCount(),
			"budget", job.Budget,
		)

		record := s.fetchPage(ctx, current, normalized)
		corpus = append(corpus, record)

		if record.Failed() {
			s.logger.Warn("page fetch failed", "url", normalized, "error", record.Error)
		} else {
			s.enqueueLinks(ctx, job, record)
		}

		// Politeness delay between iterations, success or not.
		if s.delay > 0 {
			select {
			case <-ctx.Done():
				return corpus, ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	s.logger.Info("crawl completed",
		"start_url", start,
		"pages", len(corpus),
		"frontier_remaining", job.FrontierLen(),
	)

	return corpus, nil
}

// fetchPage loads and extracts one page, folding any failure into the
// returned PageRecord.
func (s *Spider) fetchPage(ctx context.Context, requested, normalized string) *model.PageRecord {
	result, err := s.fetcher.Fetch(ctx, normalized)
	if err != nil {
		return FailedRecord(requested, err)
	}

	record, err := s.extractor.Extract(result.Document, requested, result.ResolvedURL)
	if err != nil {
		return FailedRecord(requested, err)
	}

	if s.screenshots {
		if capturer, ok := s.fetcher.(fetch.Screenshotter); ok {
			name := screenshotFilename(normalized)
			if err := capturer.Screenshot(ctx, normalized, name); err != nil {
				s.logger.Debug("screenshot capture failed", "url", normalized, "error", err)
			} else {
				record.Screenshot = name
			}
		}
	}

	return record
}

// enqueueLinks runs the link filter over a page's outbound links and
// appends every admitted, unseen link to the frontier tail.
func (s *Spider) enqueueLinks(ctx context.Context, job *Job, page *model.PageRecord) {
	for i, link := range page.Links {
		anchorText := ""
		if i < len(page.Anchors) {
			anchorText = page.Anchors[i].Text
		}

		judgment := s.admit(ctx, page, link, anchorText)
		if !judgment.WorthChecking {
			s.logger.Debug("link rejected by filter",
				"url", link,
				"score", judgment.RelevanceScore,
			)
			continue
		}

		normalized := Normalize(link)
		if job.isVisited(normalized) || job.isQueued(normalized) {
			continue
		}
		job.push(normalized)
	}
}

// admit consults the link filter, or admits with a neutral score when no
// filter is configured.
func (s *Spider) admit(ctx context.Context, page *model.PageRecord, link, anchorText string) model.LinkJudgment {
	if s.filter == nil {
		return model.LinkJudgment{
			URL:            link,
			RelevanceScore: model.NeutralScore,
			WorthChecking:  true,
			Reasoning:      "link filtering disabled",
		}
	}
	return s.filter.Admit(ctx, page, link, anchorText)
}

// screenshotFilename generates a stable artifact name for a URL.
func screenshotFilename(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "page_" + hex.EncodeToString(sum[:6]) + ".png"
}
