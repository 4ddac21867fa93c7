package scraper

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spigell/jobhunter/internal/jobs"
)

var scrapedAt = time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)

const seekPage = `<html><body>
<article data-card-type="JobCard">
  <a data-automation="jobTitle" href="/job/1"> Graduate Data Scientist </a>
  <a data-automation="jobCompany">Canva</a>
  <a data-automation="jobLocation">Sydney NSW</a>
</article>
<article data-card-type="JobCard">
  <a data-automation="jobTitle" href="/job/2">Junior Data Analyst</a>
</article>
<article data-card-type="JobCard">
  <span>no title here</span>
</article>
</body></html>`

const indeedPage = `<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle">Java Developer</h2>
  <span class="companyName">Atlassian</span>
  <div class="companyLocation">Sydney NSW 2000</div>
  <a class="jcs-JobTitle" href="/rc/clk?jk=abc">link</a>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle">Data Intern</h2>
</div>
</body></html>`

const linkedInPage = `<html><body>
<div class="base-card relative">
  <h3 class="base-search-card__title">ML Engineer</h3>
  <h4 class="base-search-card__subtitle">Google</h4>
  <span class="job-search-card__location">Sydney, New South Wales</span>
  <a class="base-card__full-link" href="https://au.linkedin.com/jobs/view/42">view</a>
</div>
</body></html>`

func TestSearchURL(t *testing.T) {
	assert.Equal(t, "https://www.seek.com.au/data+scientist-jobs/in-Sydney", Seek.SearchURL("data scientist", "Sydney"))
	assert.Equal(t, "https://au.indeed.com/jobs?q=data+scientist&l=Sydney+NSW", Indeed.SearchURL("data scientist", "Sydney"))
	assert.Equal(t, "https://au.indeed.com/jobs?q=java&l=Melbourne+VIC", Indeed.SearchURL("java", "Melbourne VIC"))
	assert.Equal(t, "https://www.linkedin.com/jobs/search/?keywords=ai+engineer&location=Sydney", LinkedIn.SearchURL("ai engineer", "Sydney"))
}

func TestWithState(t *testing.T) {
	assert.Equal(t, "Sydney NSW", WithState("Sydney"))
	assert.Equal(t, "Sydney NSW", WithState(" Sydney NSW "))
	assert.Equal(t, "Brisbane, QLD", WithState("Brisbane, QLD"))
	assert.Equal(t, "", WithState(""))
}

func TestSiteByName(t *testing.T) {
	site, ok := SiteByName("linkedin")
	require.True(t, ok)
	assert.Same(t, LinkedIn, site)

	_, ok = SiteByName("monster")
	assert.False(t, ok)
}

func TestParseSeek(t *testing.T) {
	found, err := Seek.Parse([]byte(seekPage), "Sydney", scrapedAt)
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, &jobs.Job{
		Title:       "Graduate Data Scientist",
		Company:     "Canva",
		Location:    "Sydney NSW",
		URL:         "https://www.seek.com.au/job/1",
		Source:      jobs.SourceSeek,
		DateScraped: "2025-10-01 08:00:00",
	}, found[0])

	assert.Equal(t, jobs.NotAvailable, found[1].Company)
	assert.Equal(t, "Sydney", found[1].Location)
}

func TestParseIndeed(t *testing.T) {
	found, err := Indeed.Parse([]byte(indeedPage), "Sydney NSW", scrapedAt)
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, "https://au.indeed.com/rc/clk?jk=abc", found[0].URL)
	assert.Equal(t, "Atlassian", found[0].Company)
	assert.Empty(t, found[1].URL)
	assert.Equal(t, "Sydney NSW", found[1].Location)
}

func TestParseLinkedIn(t *testing.T) {
	found, err := LinkedIn.Parse([]byte(linkedInPage), "Sydney", scrapedAt)
	require.NoError(t, err)
	require.Len(t, found, 1)

	assert.Equal(t, "https://au.linkedin.com/jobs/view/42", found[0].URL)
	assert.Equal(t, jobs.SourceLinkedIn, found[0].Source)
}

func TestParseCardLimit(t *testing.T) {
	var page strings.Builder
	for range CardLimit + 5 {
		page.WriteString(`<div class="base-card"><h3 class="base-search-card__title">Role</h3></div>`)
	}

	found, err := LinkedIn.Parse([]byte(page.String()), "Sydney", scrapedAt)
	require.NoError(t, err)
	assert.Len(t, found, CardLimit)
}

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)

	page, ok := f.pages[url]
	if !ok {
		return nil, &FetchError{URL: url, Message: "bad status: 403 Forbidden"}
	}
	return []byte(page), nil
}

func TestScrape(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		Seek.SearchURL("data scientist", "Sydney"):     seekPage,
		Seek.SearchURL("data analyst", "Sydney"):       seekPage,
		LinkedIn.SearchURL("data scientist", "Sydney"): linkedInPage,
	}}

	s := New(fetcher, zaptest.NewLogger(t), WithInterval(0), WithClock(func() time.Time { return scrapedAt }))

	found, err := s.Scrape(context.Background(), []Query{
		{Keywords: "data scientist", Location: "Sydney"},
		{Keywords: "data analyst", Location: "Sydney"},
	})
	require.NoError(t, err)

	assert.Len(t, fetcher.calls, 6)

	var urls []string
	for _, job := range found.Items {
		urls = append(urls, job.URL)
	}
	assert.Equal(t, []string{
		"https://www.seek.com.au/job/1",
		"https://www.seek.com.au/job/2",
		"https://au.linkedin.com/jobs/view/42",
	}, urls)
}

func TestScrapeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(&fakeFetcher{}, nil, WithSites(Seek))

	_, err := s.Scrape(ctx, []Query{{Keywords: "x", Location: "y"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPFetcher(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/plain":
			_, _ = w.Write([]byte("plain page"))
		case "/gzip":
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, _ = zw.Write([]byte("zipped page"))
			_ = zw.Close()
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher("", nil)

	page, err := f.Fetch(context.Background(), srv.URL+"/plain")
	require.NoError(t, err)
	assert.Equal(t, "plain page", string(page))
	assert.Equal(t, DefaultUserAgent, gotAgent)

	page, err = f.Fetch(context.Background(), srv.URL+"/gzip")
	require.NoError(t, err)
	assert.Equal(t, "zipped page", string(page))

	_, err = f.Fetch(context.Background(), srv.URL+"/blocked")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, fetchErr.Message, "403")
}
