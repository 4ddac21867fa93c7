// Package scraper collects job postings from public listing pages.
package scraper

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/spigell/jobhunter/internal/jobs"
)

// DefaultInterval is the minimum delay between two requests to the same site.
const DefaultInterval = 2 * time.Second

// Query is one search on every site.
type Query struct {
	Keywords string `mapstructure:"keywords"`
	Location string `mapstructure:"location"`
}

type Scraper struct {
	fetcher  Fetcher
	sites    []*Site
	interval time.Duration
	limiters map[string]*rate.Limiter
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Scraper)

func WithSites(sites ...*Site) Option {
	return func(s *Scraper) { s.sites = sites }
}

// WithInterval changes the per-site request interval. Zero disables limiting.
func WithInterval(d time.Duration) Option {
	return func(s *Scraper) { s.interval = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

func New(fetcher Fetcher, logger *zap.Logger, opts ...Option) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scraper{
		fetcher:  fetcher,
		sites:    Sites,
		interval: DefaultInterval,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.limiters = make(map[string]*rate.Limiter, len(s.sites))
	for _, site := range s.sites {
		s.limiters[site.Name] = newLimiter(s.interval)
	}

	return s
}

func newLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// Scrape runs every query on every site. Sites are scraped concurrently, queries
// on one site run in order. A failing page is logged and skipped. The result
// keeps site order, then query order, and holds each URL once.
func (s *Scraper) Scrape(ctx context.Context, queries []Query) (*jobs.Jobs, error) {
	perSite := make([][]*jobs.Job, len(s.sites))

	g, gctx := errgroup.WithContext(ctx)
	for i, site := range s.sites {
		g.Go(func() error {
			found, err := s.scrapeSite(gctx, site, queries)
			perSite[i] = found
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &jobs.Jobs{}
	for _, found := range perSite {
		result.Items = append(result.Items, found...)
	}

	if dropped := result.Dedupe(); len(dropped) > 0 {
		s.logger.Debug("duplicate postings dropped", zap.Int("count", len(dropped)))
	}

	return result, nil
}

// scrapeSite only fails when ctx is done.
func (s *Scraper) scrapeSite(ctx context.Context, site *Site, queries []Query) ([]*jobs.Job, error) {
	logger := s.logger.With(zap.String("source", site.Name))
	limiter := s.limiters[site.Name]

	var found []*jobs.Job
	for _, q := range queries {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		url := site.SearchURL(q.Keywords, q.Location)
		logger.Info("scraping", zap.String("keywords", q.Keywords), zap.String("location", q.Location))

		page, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("failed to fetch listing page, skipping", zap.String("url", url), zap.Error(err))
			continue
		}

		parsed, err := site.Parse(page, q.Location, s.now())
		if err != nil {
			logger.Warn("failed to parse listing page, skipping", zap.String("url", url), zap.Error(err))
			continue
		}

		logger.Debug("listing page parsed", zap.String("url", url), zap.Int("jobs", len(parsed)))
		found = append(found, parsed...)
	}

	return found, nil
}
