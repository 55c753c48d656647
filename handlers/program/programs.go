package program

import (
	"context"

	"github.com/JoshCrouch/uq-program-planner/model"
	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/JoshCrouch/uq-program-planner/services"
	"github.com/JoshCrouch/uq-program-planner/utils/response"
	"github.com/JoshCrouch/uq-program-planner/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Programs is the program service as seen by the handler.
type Programs interface {
	Resolve(ctx context.Context, doc program.ProgramDocument) (program.ProgramDocument, error)
	Save(ctx context.Context, doc program.ProgramDocument) (*model.SavedProgram, error)
	Get(ctx context.Context, id uuid.UUID) (*model.SavedProgram, error)
	List(ctx context.Context, page, limit int) ([]model.SavedProgram, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddComponent(ctx context.Context, id uuid.UUID, component program.ComponentDocument) (*model.SavedProgram, error)
}

// ProgramHandler serves program document endpoints.
type ProgramHandler struct {
	programs  Programs
	validator *validation.Validator
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(programs Programs) *ProgramHandler {
	return &ProgramHandler{
		programs:  programs,
		validator: validation.NewValidator(),
	}
}

// ResolveProgram handles POST /api/v1/programs/resolve. The document is
// loaded, every course enriched, and the result returned without storing it.
func (h *ProgramHandler) ResolveProgram(c *fiber.Ctx) error {
	doc, err := h.parseDocument(c)
	if doc == nil {
		return err
	}

	resolved, err := h.programs.Resolve(c.UserContext(), *doc)
	if err != nil {
		return writeProgramError(c, err)
	}
	return response.Success(c, resolved)
}

// CreateProgram handles POST /api/v1/programs
func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	doc, err := h.parseDocument(c)
	if doc == nil {
		return err
	}

	saved, err := h.programs.Save(c.UserContext(), *doc)
	if err != nil {
		return writeProgramError(c, err)
	}
	return response.Created(c, saved)
}

// ListPrograms handles GET /api/v1/programs
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	page, limit := response.PageParams(c, 20)

	programs, total, err := h.programs.List(c.UserContext(), page, limit)
	if err != nil {
		return writeProgramError(c, err)
	}
	return response.Paginated(c, programs, response.CalculatePagination(page, limit, total))
}

// GetProgram handles GET /api/v1/programs/:id
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid program id")
	}

	saved, err := h.programs.Get(c.UserContext(), id)
	if err != nil {
		return writeProgramError(c, err)
	}
	return response.Success(c, saved)
}

// DeleteProgram handles DELETE /api/v1/programs/:id
func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid program id")
	}

	if err := h.programs.Delete(c.UserContext(), id); err != nil {
		return writeProgramError(c, err)
	}
	return response.NoContent(c)
}

// AddComponent handles POST /api/v1/programs/:id/components
func (h *ProgramHandler) AddComponent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid program id")
	}

	var component program.ComponentDocument
	if err := c.BodyParser(&component); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(component); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	saved, err := h.programs.AddComponent(c.UserContext(), id, component)
	if err != nil {
		return writeProgramError(c, err)
	}
	return response.Success(c, saved)
}

// parseDocument decodes and validates the request body. A nil document means
// the error response has been written; the returned error is the write result.
func (h *ProgramHandler) parseDocument(c *fiber.Ctx) (*program.ProgramDocument, error) {
	var doc program.ProgramDocument
	if err := c.BodyParser(&doc); err != nil {
		return nil, response.BadRequest(c, "Invalid program document")
	}
	if err := h.validator.ValidateStruct(doc); err != nil {
		return nil, response.ValidationError(c, validation.FormatValidationErrors(err))
	}
	return &doc, nil
}

var programErrorRules = []response.ErrorRule{
	{Target: program.ErrUnregisteredType, Status: fiber.StatusBadRequest},
	{Target: program.ErrInvalidArgument, Status: fiber.StatusBadRequest},
	{Target: services.ErrProgramNotFound, Status: fiber.StatusNotFound, Message: "Program not found"},
	{Target: services.ErrElectiveExists, Status: fiber.StatusConflict},
	{Target: context.Canceled, Status: fiber.StatusServiceUnavailable, Message: "Program resolution timed out"},
	{Target: context.DeadlineExceeded, Status: fiber.StatusServiceUnavailable, Message: "Program resolution timed out"},
}

// writeProgramError maps service and pipeline errors to responses.
func writeProgramError(c *fiber.Ctx, err error) error {
	return response.FromError(c, err, "Failed to process program", programErrorRules...)
}
