package database

import (
	"encoding/json"
	"fmt"

	"github.com/JoshCrouch/uq-program-planner/model"
	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// RunSeeds seeds the starter catalog and the sample program.
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db).SeedAll()
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Info("Starting database seeding...")

	if err := s.SeedCatalog(); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	if err := s.SeedSampleProgram(); err != nil {
		return fmt.Errorf("failed to seed sample program: %w", err)
	}

	log.Info("Database seeding completed successfully!")
	return nil
}

// StarterCatalog is the set of courses seeded into an empty catalog.
func StarterCatalog() []model.CatalogCourse {
	return []model.CatalogCourse{
		{Code: "CSSE1001", Title: "Introduction to Software Engineering", Units: 2, Level: "undergraduate"},
		{Code: "CSSE2002", Title: "Programming in the Large", Units: 2, Level: "undergraduate"},
		{Code: "CSSE2010", Title: "Introduction to Computer Systems", Units: 2, Level: "undergraduate"},
		{Code: "CSSE2310", Title: "Computer Systems Principles and Programming", Units: 2, Level: "undergraduate"},
		{Code: "CSSE3200", Title: "Software Engineering Studio: Design, Implement and Test", Units: 2, Level: "undergraduate"},
		{Code: "COMP2048", Title: "Theory of Computing", Units: 2, Level: "undergraduate"},
		{Code: "COMP3400", Title: "Functional and Logic Programming", Units: 2, Level: "undergraduate"},
		{Code: "COMP3506", Title: "Algorithms and Data Structures", Units: 2, Level: "undergraduate"},
		{Code: "DECO1400", Title: "Introduction to Web Design", Units: 2, Level: "undergraduate"},
		{Code: "DECO2500", Title: "Human-Computer Interaction", Units: 2, Level: "undergraduate"},
		{Code: "INFS1200", Title: "Introduction to Information Systems", Units: 2, Level: "undergraduate"},
		{Code: "MATH1051", Title: "Calculus and Linear Algebra I", Units: 2, Level: "undergraduate"},
		{Code: "MATH1061", Title: "Discrete Mathematics", Units: 2, Level: "undergraduate"},
		{Code: "STAT1201", Title: "Analysis of Scientific Data", Units: 2, Level: "undergraduate"},
	}
}

// SeedCatalog inserts the starter catalog. Existing codes are left untouched.
func (s *Seeder) SeedCatalog() error {
	courses := StarterCatalog()
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&courses)
	if result.Error != nil {
		return result.Error
	}

	log.Infof("Seeded %d catalog courses", result.RowsAffected)
	return nil
}

// SampleProgram is a small Bachelor of Computer Science plan built from the
// starter catalog.
func SampleProgram() program.ProgramDocument {
	return program.ProgramDocument{
		Name:  "Bachelor of Computer Science",
		Code:  "2451",
		Year:  2024,
		Units: 48,
		Components: []program.ComponentDocument{
			{
				ID: "core", Type: program.TypeCategory, Title: "Core courses", MinUnits: 16, MaxUnits: 16,
				Sections: []program.ComponentDocument{
					{
						ID: "foundations", Type: program.TypeSection, Title: "Foundations", MinUnits: 8, MaxUnits: 8,
						CourseEntries: []program.CourseEntryDocument{
							{Type: program.TypeCourse, Code: "CSSE1001"},
							{Type: program.TypeCourse, Code: "MATH1061"},
							{Type: program.TypeCourseOption, OptionOne: "MATH1051", OptionTwo: "STAT1201"},
							{Type: program.TypeCourse, Code: "CSSE2002"},
						},
					},
					{
						ID: "systems", Type: program.TypeSection, Title: "Systems", MinUnits: 8, MaxUnits: 8,
						CourseEntries: []program.CourseEntryDocument{
							{Type: program.TypeCourse, Code: "CSSE2010"},
							{Type: program.TypeCourse, Code: "CSSE2310"},
							{Type: program.TypeCourse, Code: "COMP3506"},
							{Type: program.TypeCourse, Code: "CSSE3200"},
						},
					},
				},
			},
			{ID: "program-electives", Type: program.TypeProgramElectives, Title: "Program electives", MinUnits: 16, MaxUnits: 24},
			{ID: "general-electives", Type: program.TypeGeneralElectives, Title: "General electives", MinUnits: 0, MaxUnits: 8},
		},
	}
}

// SeedSampleProgram stores SampleProgram unless a program with the same code
// already exists. The stored document is not enriched.
func (s *Seeder) SeedSampleProgram() error {
	doc := SampleProgram()

	var count int64
	if err := s.db.Model(&model.SavedProgram{}).Where("code = ?", doc.Code).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Sample program already exists, skipping...")
		return nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return s.db.Create(&model.SavedProgram{
		Name:     doc.Name,
		Code:     doc.Code,
		Year:     doc.Year,
		Units:    doc.Units,
		Document: datatypes.JSON(data),
	}).Error
}
