package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/spigell/jobhunter/internal/jobs"
)

// CardLimit is the number of cards read from one listing page.
const CardLimit = 20

var australianStates = []string{"nsw", "vic", "qld", "wa", "sa", "tas", "act", "nt"}

// Selectors locate the fields of a listing card.
type Selectors struct {
	Card     string
	Title    string
	Company  string
	Location string
	// Link is empty when the title element itself carries the href.
	Link string
}

// Site knows how to search one job board and read its cards.
type Site struct {
	Name      string
	Base      string
	Selectors Selectors
	searchURL func(keywords, location string) string
}

func (s *Site) SearchURL(keywords, location string) string {
	return s.searchURL(keywords, location)
}

var (
	Seek = &Site{
		Name: jobs.SourceSeek,
		Base: "https://www.seek.com.au",
		Selectors: Selectors{
			Card:     `article[data-card-type="JobCard"]`,
			Title:    `a[data-automation="jobTitle"]`,
			Company:  `a[data-automation="jobCompany"]`,
			Location: `a[data-automation="jobLocation"]`,
		},
		searchURL: func(keywords, location string) string {
			return fmt.Sprintf("https://www.seek.com.au/%s-jobs/in-%s", url.QueryEscape(keywords), url.QueryEscape(location))
		},
	}

	Indeed = &Site{
		Name: jobs.SourceIndeed,
		Base: "https://au.indeed.com",
		Selectors: Selectors{
			Card:     "div.job_seen_beacon",
			Title:    "h2.jobTitle",
			Company:  "span.companyName",
			Location: "div.companyLocation",
			Link:     "a.jcs-JobTitle",
		},
		searchURL: func(keywords, location string) string {
			return fmt.Sprintf("https://au.indeed.com/jobs?q=%s&l=%s", url.QueryEscape(keywords), url.QueryEscape(WithState(location)))
		},
	}

	LinkedIn = &Site{
		Name: jobs.SourceLinkedIn,
		Base: "https://www.linkedin.com",
		Selectors: Selectors{
			Card:     "div.base-card",
			Title:    "h3.base-search-card__title",
			Company:  "h4.base-search-card__subtitle",
			Location: "span.job-search-card__location",
			Link:     "a.base-card__full-link",
		},
		searchURL: func(keywords, location string) string {
			return fmt.Sprintf("https://www.linkedin.com/jobs/search/?keywords=%s&location=%s", url.QueryEscape(keywords), url.QueryEscape(location))
		},
	}
)

// Sites lists the supported boards in scrape order.
var Sites = []*Site{Seek, Indeed, LinkedIn}

// SiteByName finds a board by its source name, ignoring case.
func SiteByName(name string) (*Site, bool) {
	for _, site := range Sites {
		if strings.EqualFold(site.Name, strings.TrimSpace(name)) {
			return site, true
		}
	}
	return nil, false
}

// WithState appends " NSW" to a location without an Australian state suffix.
func WithState(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return location
	}

	fields := strings.Fields(strings.ToLower(location))
	last := strings.Trim(fields[len(fields)-1], ",")
	for _, state := range australianStates {
		if last == state {
			return location
		}
	}
	return location + " NSW"
}

// Parse reads up to CardLimit cards from a listing page. Cards without a title
// are skipped; a missing company becomes "N/A" and a missing location becomes
// the searched one.
func (s *Site) Parse(page []byte, searchedLocation string, scrapedAt time.Time) ([]*jobs.Job, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing %s page: %w", s.Name, err)
	}

	cards := doc.Find(s.Selectors.Card)
	if cards.Length() > CardLimit {
		cards = cards.Slice(0, CardLimit)
	}

	var found []*jobs.Job
	cards.Each(func(_ int, card *goquery.Selection) {
		titleElem := card.Find(s.Selectors.Title).First()
		if titleElem.Length() == 0 {
			return
		}

		company := text(card, s.Selectors.Company)
		if company == "" {
			company = jobs.NotAvailable
		}

		location := text(card, s.Selectors.Location)
		if location == "" {
			location = searchedLocation
		}

		found = append(found, jobs.New(
			strings.TrimSpace(titleElem.Text()),
			company,
			location,
			s.link(card, titleElem),
			s.Name,
			scrapedAt,
		))
	})

	return found, nil
}

func (s *Site) link(card, title *goquery.Selection) string {
	elem := title
	if s.Selectors.Link != "" {
		elem = card.Find(s.Selectors.Link).First()
	}

	href, ok := elem.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		if s.Selectors.Link == "" {
			return s.Base
		}
		return ""
	}

	return resolve(s.Base, strings.TrimSpace(href))
}

func resolve(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return base + href
	}
	return baseURL.ResolveReference(ref).String()
}

func text(card *goquery.Selection, selector string) string {
	return strings.TrimSpace(card.Find(selector).First().Text())
}
