package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JoshCrouch/uq-program-planner/services/catalogscrape"
	"github.com/gofiber/fiber/v2/log"
)

const refreshCatalogJob = "refresh_catalog"

// RefreshSummary reports what a catalog refresh did.
type RefreshSummary struct {
	Checked  int      `json:"checked"`
	Updated  int      `json:"updated"`
	Unlisted int      `json:"unlisted"`
	Failed   int      `json:"failed"`
	Codes    []string `json:"updated_codes,omitempty"`
}

// RefreshCatalog re-scrapes courses whose data is older than the stale age
// and writes the results back. Courses the catalog no longer lists keep their
// data and are only stamped as checked.
func (m *CronManager) RefreshCatalog(ctx context.Context) (RefreshSummary, error) {
	cronLog := m.logJobStart(refreshCatalogJob)
	summary := RefreshSummary{}

	cutoff := time.Now().Add(-m.config.StaleAge)
	stale, err := m.catalog.StaleCourses(ctx, cutoff, m.config.BatchSize)
	if err != nil {
		err = fmt.Errorf("failed to query stale courses: %w", err)
		m.logJobError(cronLog, err)
		return summary, err
	}

	if len(stale) == 0 {
		m.logJobComplete(cronLog, "No courses to refresh", summary)
		return summary, nil
	}

	for _, course := range stale {
		if err := ctx.Err(); err != nil {
			m.logJobError(cronLog, fmt.Errorf("refresh interrupted after %d courses: %w", summary.Checked, err))
			return summary, err
		}
		summary.Checked++

		now := time.Now()
		details, err := m.scraper.ScrapeCourse(ctx, course.Code)
		switch {
		case errors.Is(err, catalogscrape.ErrCourseNotListed):
			summary.Unlisted++
			if err := m.catalog.MarkScraped(ctx, course.Code, now); err != nil {
				log.Warnf("[CRON] Failed to stamp %s: %v", course.Code, err)
			}
			continue
		case err != nil:
			summary.Failed++
			log.Warnf("[CRON] Failed to scrape %s: %v", course.Code, err)
			continue
		}

		if err := m.catalog.RecordScrape(ctx, *details, now); err != nil {
			summary.Failed++
			log.Warnf("[CRON] Failed to store %s: %v", course.Code, err)
			continue
		}
		summary.Updated++
		summary.Codes = append(summary.Codes, details.Code)
	}

	if m.cache != nil && len(summary.Codes) > 0 {
		if err := m.cache.Invalidate(ctx, summary.Codes...); err != nil {
			log.Warnf("[CRON] Failed to invalidate lookup cache: %v", err)
		}
	}

	m.logJobComplete(cronLog, fmt.Sprintf("Checked %d courses, updated %d, unlisted %d, failed %d",
		summary.Checked, summary.Updated, summary.Unlisted, summary.Failed), summary)
	return summary, nil
}
