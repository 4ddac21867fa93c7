package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/filtering"
	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/scraper"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape job boards for the configured searches and save the postings",
	Run: func(cmd *cobra.Command, _ []string) {
		scrape(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringP("keywords", "k", "", "search these keywords instead of the configured queries")
	scrapeCmd.Flags().StringP("location", "l", "Sydney", "location for --keywords")
	scrapeCmd.Flags().Bool("browser", false, "render listing pages in headless Chrome")
	scrapeCmd.Flags().Bool("append", false, "append to the existing jobs file instead of replacing it")
	scrapeCmd.Flags().BoolP("include-applied", "f", false, "do not exclude postings already applied for")
}

func scrape(cmd *cobra.Command) {
	e := setup()
	defer e.stop()

	queries := e.config.Search.Queries
	if kw, _ := cmd.Flags().GetString("keywords"); kw != "" {
		location, _ := cmd.Flags().GetString("location")
		queries = []scraper.Query{{Keywords: kw, Location: location}}
	}
	if len(queries) == 0 {
		e.logger.Fatal("nothing to search", zap.String("hint", "set search.queries in the config or pass --keywords"))
	}

	browser, _ := cmd.Flags().GetBool("browser")
	var fetcher scraper.Fetcher = scraper.NewHTTPFetcher(e.config.Search.UserAgent, e.logger)
	if browser || e.config.Search.Browser {
		fetcher = scraper.NewBrowserFetcher(e.config.Search.UserAgent, e.logger)
	}

	opts := []scraper.Option{}
	if len(e.config.Search.Sources) > 0 {
		var sites []*scraper.Site
		for _, name := range e.config.Search.Sources {
			site, ok := scraper.SiteByName(name)
			if !ok {
				e.logger.Fatal("unknown source", zap.String("source", name))
			}
			sites = append(sites, site)
		}
		opts = append(opts, scraper.WithSites(sites...))
	}

	e.logger.Info("starting the search", zap.Int("queries", len(queries)))

	found, err := scraper.New(fetcher, e.logger, opts...).Scrape(e.ctx, queries)
	if err != nil {
		e.logger.Fatal("scraping", zap.Error(err))
	}

	e.logger.Info("getting postings", zap.Int("count", found.Len()))

	if appendFlag, _ := cmd.Flags().GetBool("append"); appendFlag {
		existing, err := jobs.Load(e.config.JobsFile)
		if err != nil {
			e.logger.Fatal("loading existing jobs", zap.Error(err))
		}
		existing.Append(found)
		found = existing
	}

	includeApplied, _ := cmd.Flags().GetBool("include-applied")
	steps := []filtering.Filter{
		filtering.NewDedupe(),
		filtering.NewCompanies(),
		filtering.NewExcludeFile(),
		filtering.NewApplied(includeApplied),
	}
	deps := filtering.Deps{Logger: e.logger, Tracker: e.tracker(), Scorer: e.scorer()}

	found, err = filtering.Run(e.ctx, e.filterConfig(), deps, steps, found)
	if err != nil {
		e.logger.Fatal("filtering failed", zap.Error(err))
	}

	if err := found.Save(e.config.JobsFile); err != nil {
		e.logger.Fatal("saving jobs", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(found.ReportByCompany(), "", "  ")
	e.logger.Debug(string(pretty))

	e.logger.Info("postings saved", zap.String("path", e.config.JobsFile), zap.Int("count", found.Len()))
}
