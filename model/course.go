package model

import (
	"time"

	"gorm.io/gorm"
)

// CatalogCourse is a course the enrichment endpoint can answer for.
type CatalogCourse struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Code        string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"` // e.g., "CSSE1001"
	Title       string         `gorm:"not null" json:"title"`
	Units       int            `gorm:"not null;default:2" json:"units"`
	Description string         `gorm:"type:text" json:"description"`
	Level       string         `gorm:"type:varchar(30)" json:"level"` // undergraduate, postgraduate
	SourceURL   string         `gorm:"type:varchar(500)" json:"source_url,omitempty"`
	ScrapedAt   *time.Time     `json:"scraped_at,omitempty"`
}

// TableName specifies the table name for CatalogCourse
func (CatalogCourse) TableName() string {
	return "catalog_courses"
}
