package cron

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JoshCrouch/uq-program-planner/model"
	"github.com/JoshCrouch/uq-program-planner/services/catalogscrape"
	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogStore is the part of the catalog service the refresh job needs.
type CatalogStore interface {
	StaleCourses(ctx context.Context, cutoff time.Time, limit int) ([]model.CatalogCourse, error)
	RecordScrape(ctx context.Context, details catalogscrape.CourseDetails, scrapedAt time.Time) error
	MarkScraped(ctx context.Context, code string, scrapedAt time.Time) error
}

// CourseScraper fetches one course from the catalog site.
type CourseScraper interface {
	ScrapeCourse(ctx context.Context, code string) (*catalogscrape.CourseDetails, error)
}

// CacheInvalidator drops cached lookups for refreshed courses.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, codes ...string) error
}

// Config holds the refresh job settings.
type Config struct {
	Schedule  string        // standard 5-field cron spec
	StaleAge  time.Duration // courses scraped longer ago than this are refreshed
	BatchSize int
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron    *cron.Cron
	db      *gorm.DB
	catalog CatalogStore
	scraper CourseScraper
	cache   CacheInvalidator
	config  Config
}

// NewCronManager creates a new cron manager. db is used for job logs and may
// be nil; cache may be nil.
func NewCronManager(db *gorm.DB, catalog CatalogStore, scraper CourseScraper, cache CacheInvalidator, config Config) *CronManager {
	if config.Schedule == "" {
		config.Schedule = "0 3 * * *"
	}
	if config.StaleAge == 0 {
		config.StaleAge = 7 * 24 * time.Hour
	}
	if config.BatchSize == 0 {
		config.BatchSize = 200
	}

	return &CronManager{
		cron:    cron.New(),
		db:      db,
		catalog: catalog,
		scraper: scraper,
		cache:   cache,
		config:  config,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Info("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Info("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs and waits for running ones to finish.
func (m *CronManager) Stop() {
	log.Info("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info("Cron jobs stopped")
}

// Entries returns the number of scheduled jobs.
func (m *CronManager) Entries() int {
	return len(m.cron.Entries())
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	_, err := m.cron.AddFunc(m.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		m.RefreshCatalog(ctx)
	})
	if err != nil {
		return err
	}

	log.Infof("Catalog refresh scheduled at %q", m.config.Schedule)
	return nil
}

// logJobStart records the start of a cron job
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	log.Infof("[CRON] Starting job: %s", jobName)

	cronLog := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronJobStarted,
		StartedAt: time.Now(),
	}
	if m.db != nil {
		if err := m.db.Create(cronLog).Error; err != nil {
			log.Warnf("[CRON] Failed to record start of %s: %v", jobName, err)
		}
	}
	return cronLog
}

// logJobComplete records successful completion of a cron job
func (m *CronManager) logJobComplete(cronLog *model.CronJobLog, message string, metadata interface{}) {
	log.Infof("[CRON] Completed job: %s - %s", cronLog.JobName, message)
	m.finishJob(cronLog, map[string]interface{}{
		"status":   model.CronJobCompleted,
		"message":  message,
		"metadata": encodeMetadata(metadata),
	})
}

// logJobError records a cron job failure
func (m *CronManager) logJobError(cronLog *model.CronJobLog, err error) {
	log.Errorf("[CRON] Error in job: %s - %v", cronLog.JobName, err)
	m.finishJob(cronLog, map[string]interface{}{
		"status":    model.CronJobFailed,
		"error_msg": err.Error(),
	})
}

func (m *CronManager) finishJob(cronLog *model.CronJobLog, updates map[string]interface{}) {
	now := time.Now()
	updates["completed_at"] = now
	updates["duration"] = int(now.Sub(cronLog.StartedAt).Milliseconds())

	if m.db == nil || cronLog.ID == 0 {
		return
	}
	if err := m.db.Model(cronLog).Updates(updates).Error; err != nil {
		log.Warnf("[CRON] Failed to record result of %s: %v", cronLog.JobName, err)
	}
}

func encodeMetadata(metadata interface{}) datatypes.JSON {
	data, err := json.Marshal(metadata)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}
