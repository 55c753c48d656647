package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JoshCrouch/uq-program-planner/model"
	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/JoshCrouch/uq-program-planner/services/catalogscrape"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCourseNotFound = errors.New("course not found")

// CatalogService manages the course catalog that backs the enrichment
// endpoint. It also satisfies program.CourseLookup for in-process use.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// CourseInput is the writable part of a catalog course.
type CourseInput struct {
	Code        string `json:"code" validate:"required,coursecode"`
	Title       string `json:"title" validate:"required,max=255"`
	Units       int    `json:"units" validate:"gte=0,lte=16"`
	Description string `json:"description" validate:"max=5000"`
	Level       string `json:"level" validate:"omitempty,oneof=undergraduate postgraduate"`
	SourceURL   string `json:"source_url" validate:"omitempty,url"`
}

// ListCoursesParams filters and paginates ListCourses.
type ListCoursesParams struct {
	Search string
	Page   int
	Limit  int
}

// NormalizeCode upper-cases and trims a course code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FindByCode returns the course with the given code, case-insensitively.
func (s *CatalogService) FindByCode(ctx context.Context, code string) (*model.CatalogCourse, error) {
	var course model.CatalogCourse
	err := s.db.WithContext(ctx).Where("code = ?", NormalizeCode(code)).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrCourseNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course: %w", err)
	}
	return &course, nil
}

// LookupCourse implements program.CourseLookup directly against the catalog.
func (s *CatalogService) LookupCourse(ctx context.Context, code string) (program.CourseInfo, error) {
	course, err := s.FindByCode(ctx, code)
	if err != nil {
		return program.CourseInfo{}, err
	}
	return program.CourseInfo{Code: course.Code, Title: course.Title, Units: course.Units}, nil
}

// ListCourses returns a page of courses ordered by code and the total match
// count. Search matches code or title.
func (s *CatalogService) ListCourses(ctx context.Context, params ListCoursesParams) ([]model.CatalogCourse, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&model.CatalogCourse{})
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(title) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	var courses []model.CatalogCourse
	err := query.Order("code ASC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, total, nil
}

// UpsertCourse creates the course or updates the existing one with the same
// code.
func (s *CatalogService) UpsertCourse(ctx context.Context, input CourseInput) (*model.CatalogCourse, error) {
	course := model.CatalogCourse{
		Code:        NormalizeCode(input.Code),
		Title:       strings.TrimSpace(input.Title),
		Units:       input.Units,
		Description: input.Description,
		Level:       input.Level,
		SourceURL:   input.SourceURL,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "units", "description", "level", "source_url", "updated_at"}),
	}).Create(&course).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save course: %w", err)
	}

	return s.FindByCode(ctx, course.Code)
}

// RecordScrape upserts a scraped course and stamps it with scrapedAt.
func (s *CatalogService) RecordScrape(ctx context.Context, details catalogscrape.CourseDetails, scrapedAt time.Time) error {
	course := model.CatalogCourse{
		Code:        NormalizeCode(details.Code),
		Title:       details.Title,
		Units:       details.Units,
		Description: details.Description,
		Level:       details.Level,
		SourceURL:   details.SourceURL,
		ScrapedAt:   &scrapedAt,
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "units", "description", "level", "source_url", "scraped_at", "updated_at"}),
	}).Create(&course).Error
}

// MarkScraped stamps a course as checked without changing its data.
func (s *CatalogService) MarkScraped(ctx context.Context, code string, scrapedAt time.Time) error {
	return s.db.WithContext(ctx).Model(&model.CatalogCourse{}).
		Where("code = ?", NormalizeCode(code)).
		Update("scraped_at", scrapedAt).Error
}

// UpdateCourse changes an existing course. The code in input is ignored.
func (s *CatalogService) UpdateCourse(ctx context.Context, code string, input CourseInput) (*model.CatalogCourse, error) {
	course, err := s.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       strings.TrimSpace(input.Title),
		"units":       input.Units,
		"description": input.Description,
		"level":       input.Level,
		"source_url":  input.SourceURL,
	}
	if err := s.db.WithContext(ctx).Model(course).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return s.FindByCode(ctx, code)
}

// DeleteCourse soft-deletes the course.
func (s *CatalogService) DeleteCourse(ctx context.Context, code string) error {
	result := s.db.WithContext(ctx).Where("code = ?", NormalizeCode(code)).Delete(&model.CatalogCourse{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrCourseNotFound, code)
	}
	return nil
}

// StaleCourses returns up to limit courses whose catalog data has not been
// refreshed since before cutoff, oldest first.
func (s *CatalogService) StaleCourses(ctx context.Context, cutoff time.Time, limit int) ([]model.CatalogCourse, error) {
	var courses []model.CatalogCourse
	err := s.db.WithContext(ctx).
		Where("scraped_at IS NULL OR scraped_at < ?", cutoff).
		Order("scraped_at ASC NULLS FIRST").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

var _ program.CourseLookup = (*CatalogService)(nil)
