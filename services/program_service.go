package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JoshCrouch/uq-program-planner/model"
	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProgramNotFound = errors.New("program not found")
	ErrElectiveExists  = errors.New("program already has a component of this elective type")
)

// ProgramService resolves program documents against the course lookup and
// stores them.
type ProgramService struct {
	db      *gorm.DB
	factory *program.Factory
}

// NewProgramService creates a new program service
func NewProgramService(db *gorm.DB, factory *program.Factory) *ProgramService {
	return &ProgramService{db: db, factory: factory}
}

// Resolve loads doc, enriching every course, and returns the re-serialized
// document. Nothing is stored.
func (s *ProgramService) Resolve(ctx context.Context, doc program.ProgramDocument) (program.ProgramDocument, error) {
	p, err := s.factory.BuildProgram(ctx, doc)
	if err != nil {
		return program.ProgramDocument{}, err
	}
	return s.factory.BuildDocument(p)
}

// Save resolves doc and stores the result.
func (s *ProgramService) Save(ctx context.Context, doc program.ProgramDocument) (*model.SavedProgram, error) {
	resolved, err := s.Resolve(ctx, doc)
	if err != nil {
		return nil, err
	}

	saved, err := newSavedProgram(resolved)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(saved).Error; err != nil {
		return nil, fmt.Errorf("failed to save program: %w", err)
	}

	log.Infof("Saved program %s (%s) as %s", resolved.Name, resolved.Code, saved.PublicID)
	return saved, nil
}

// Get returns a stored program by public id.
func (s *ProgramService) Get(ctx context.Context, id uuid.UUID) (*model.SavedProgram, error) {
	var saved model.SavedProgram
	err := s.db.WithContext(ctx).Where("public_id = ?", id).First(&saved).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProgramNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch program: %w", err)
	}
	return &saved, nil
}

// List returns stored programs, newest first, without their documents.
func (s *ProgramService) List(ctx context.Context, page, limit int) ([]model.SavedProgram, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&model.SavedProgram{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count programs: %w", err)
	}

	var programs []model.SavedProgram
	err := query.Omit("document").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&programs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, total, nil
}

// Delete soft-deletes a stored program.
func (s *ProgramService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("public_id = ?", id).Delete(&model.SavedProgram{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete program: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrProgramNotFound, id)
	}
	return nil
}

// AddComponent appends component to a stored program, re-enriching the whole
// document. A second program electives or general electives component is
// rejected with ErrElectiveExists.
func (s *ProgramService) AddComponent(ctx context.Context, id uuid.UUID, component program.ComponentDocument) (*model.SavedProgram, error) {
	saved, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeDocument(saved)
	if err != nil {
		return nil, err
	}

	updated, err := s.appendComponent(ctx, doc, component)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return nil, err
	}
	saved.Document = datatypes.JSON(data)
	if err := s.db.WithContext(ctx).Model(saved).Update("document", saved.Document).Error; err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}
	return saved, nil
}

func (s *ProgramService) appendComponent(ctx context.Context, doc program.ProgramDocument, componentDoc program.ComponentDocument) (program.ProgramDocument, error) {
	p, err := s.factory.BuildProgram(ctx, doc)
	if err != nil {
		return program.ProgramDocument{}, err
	}

	if err := checkElectiveLimit(p, componentDoc.Type); err != nil {
		return program.ProgramDocument{}, err
	}

	component, err := s.factory.ComponentFromDocument(ctx, componentDoc)
	if err != nil {
		return program.ProgramDocument{}, err
	}
	p.AddComponent(component)

	return s.factory.BuildDocument(p)
}

// checkElectiveLimit allows at most one elective component of each kind.
func checkElectiveLimit(p *program.Program, componentType string) error {
	switch {
	case componentType == program.TypeProgramElectives && p.HasProgramElectiveComponent():
		return fmt.Errorf("%w: %s", ErrElectiveExists, componentType)
	case componentType == program.TypeGeneralElectives && p.HasGeneralElectiveComponent():
		return fmt.Errorf("%w: %s", ErrElectiveExists, componentType)
	}
	return nil
}

// DecodeDocument returns the program document stored in saved.
func DecodeDocument(saved *model.SavedProgram) (program.ProgramDocument, error) {
	var doc program.ProgramDocument
	if err := json.Unmarshal(saved.Document, &doc); err != nil {
		return program.ProgramDocument{}, fmt.Errorf("stored program %s is corrupt: %w", saved.PublicID, err)
	}
	return doc, nil
}

func newSavedProgram(doc program.ProgramDocument) (*model.SavedProgram, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return &model.SavedProgram{
		Name:     doc.Name,
		Code:     doc.Code,
		Year:     doc.Year,
		Units:    doc.Units,
		Document: datatypes.JSON(data),
	}, nil
}
