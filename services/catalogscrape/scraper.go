package catalogscrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2/log"
)

// ErrCourseNotListed is returned when the catalog has no page for a code.
var ErrCourseNotListed = errors.New("course not listed in catalog")

// CourseDetails is what the scraper extracts from one course page.
type CourseDetails struct {
	Code        string
	Title       string
	Units       int
	Description string
	Level       string
	SourceURL   string
}

// Scraper reads course profile pages of the form
// {BaseURL}/course.html?course_code={code}.
type Scraper struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// Config holds configuration for the scraper
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RateLimiterConfig *RateLimiterConfig
}

// NewScraper creates a scraper.
func NewScraper(config Config) *Scraper {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	rlConfig := DefaultRateLimiterConfig()
	if config.RateLimiterConfig != nil {
		rlConfig = *config.RateLimiterConfig
	}

	return &Scraper{
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: NewRateLimiter(rlConfig),
	}
}

// CourseURL returns the profile page address for code.
func (s *Scraper) CourseURL(code string) string {
	return s.baseURL + "/course.html?course_code=" + url.QueryEscape(code)
}

// ScrapeCourse fetches and parses the page for code.
func (s *Scraper) ScrapeCourse(ctx context.Context, code string) (*CourseDetails, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	pageURL := s.CourseURL(code)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "text/html")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotListed, code)
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned %s for %s", response.Status, code)
	}

	document, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return nil, err
	}

	details, err := ParseCoursePage(document, code)
	if err != nil {
		return nil, err
	}
	details.SourceURL = pageURL
	return details, nil
}

// ScrapeCourses scrapes each code in turn. Codes that fail are logged and
// skipped; the returned map holds the failures by code.
func (s *Scraper) ScrapeCourses(ctx context.Context, codes []string) ([]CourseDetails, map[string]error) {
	var scraped []CourseDetails
	failures := make(map[string]error)

	for _, code := range codes {
		if ctx.Err() != nil {
			failures[code] = ctx.Err()
			continue
		}
		details, err := s.ScrapeCourse(ctx, code)
		if err != nil {
			log.Warnf("Unable to scrape course %s: %v", code, err)
			failures[code] = err
			continue
		}
		scraped = append(scraped, *details)
	}
	return scraped, failures
}

var titleCodeSuffix = regexp.MustCompile(`\s*\(([A-Za-z0-9]+)\)\s*$`)

// ParseCoursePage extracts course details from a profile page.
func ParseCoursePage(document *goquery.Document, code string) (*CourseDetails, error) {
	title := strings.TrimSpace(document.Find("#course-title").First().Text())
	if title == "" {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotListed, code)
	}

	pageCode := strings.ToUpper(strings.TrimSpace(code))
	if match := titleCodeSuffix.FindStringSubmatch(title); match != nil {
		pageCode = strings.ToUpper(match[1])
		title = strings.TrimSpace(strings.TrimSuffix(title, match[0]))
	}

	unitsText := strings.TrimSpace(document.Find("#course-units").First().Text())
	units, err := strconv.Atoi(unitsText)
	if err != nil {
		return nil, fmt.Errorf("course %s has unreadable units %q", code, unitsText)
	}

	level := strings.ToLower(strings.TrimSpace(document.Find("#course-level").First().Text()))

	return &CourseDetails{
		Code:        pageCode,
		Title:       title,
		Units:       units,
		Description: strings.Join(strings.Fields(document.Find("#course-summary").First().Text()), " "),
		Level:       level,
	}, nil
}
