package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SavedProgram stores a resolved program document. The document is kept as
// JSON exactly as serialized by the planner.
type SavedProgram struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	PublicID  uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Code      string         `gorm:"type:varchar(50);index" json:"code"`
	Year      int            `json:"year"`
	Units     int            `json:"units"`
	Document  datatypes.JSON `gorm:"type:jsonb;not null" json:"document"`
}

// TableName specifies the table name for SavedProgram
func (SavedProgram) TableName() string {
	return "saved_programs"
}

// BeforeCreate assigns a public id when none is set.
func (p *SavedProgram) BeforeCreate(tx *gorm.DB) error {
	if p.PublicID == uuid.Nil {
		p.PublicID = uuid.New()
	}
	return nil
}
