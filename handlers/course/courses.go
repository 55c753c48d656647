package course

import (
	"context"

	"github.com/JoshCrouch/uq-program-planner/model"
	"github.com/JoshCrouch/uq-program-planner/program"
	"github.com/JoshCrouch/uq-program-planner/services"
	"github.com/JoshCrouch/uq-program-planner/utils/response"
	"github.com/JoshCrouch/uq-program-planner/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Catalog is the catalog service as seen by the handler.
type Catalog interface {
	FindByCode(ctx context.Context, code string) (*model.CatalogCourse, error)
	ListCourses(ctx context.Context, params services.ListCoursesParams) ([]model.CatalogCourse, int64, error)
	UpsertCourse(ctx context.Context, input services.CourseInput) (*model.CatalogCourse, error)
	UpdateCourse(ctx context.Context, code string, input services.CourseInput) (*model.CatalogCourse, error)
	DeleteCourse(ctx context.Context, code string) error
}

// CacheInvalidator drops cached lookups after catalog writes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, codes ...string) error
}

var courseNotFound = response.ErrorRule{
	Target:  services.ErrCourseNotFound,
	Status:  fiber.StatusNotFound,
	Message: "Course not found",
}

// CourseHandler serves the enrichment endpoint and catalog management.
type CourseHandler struct {
	catalog   Catalog
	cache     CacheInvalidator
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler. cache may be nil.
func NewCourseHandler(catalog Catalog, cache CacheInvalidator) *CourseHandler {
	return &CourseHandler{
		catalog:   catalog,
		cache:     cache,
		validator: validation.NewValidator(),
	}
}

// LookupCourse handles GET /api/course/:code. It answers with the bare
// {code, title, units} object consumed by course enrichment, or a 404.
func (h *CourseHandler) LookupCourse(c *fiber.Ctx) error {
	course, err := h.catalog.FindByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return response.FromError(c, err, "Failed to fetch course", courseNotFound)
	}

	return c.JSON(program.CourseInfo{Code: course.Code, Title: course.Title, Units: course.Units})
}

// ListCourses handles GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	page, limit := response.PageParams(c, 20)

	courses, total, err := h.catalog.ListCourses(c.UserContext(), services.ListCoursesParams{
		Search: c.Query("search", ""),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return response.FromError(c, err, "Failed to fetch courses")
	}

	return response.Paginated(c, courses, response.CalculatePagination(page, limit, total))
}

// GetCourse handles GET /api/v1/courses/:code
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	course, err := h.catalog.FindByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return response.FromError(c, err, "Failed to fetch course", courseNotFound)
	}

	return response.Success(c, course)
}

// CreateCourse handles POST /api/v1/courses. An existing code is updated.
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req services.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validate(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	course, err := h.catalog.UpsertCourse(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err, "Failed to save course")
	}
	h.invalidate(c, course.Code)

	return response.Created(c, course)
}

// UpdateCourse handles PUT /api/v1/courses/:code
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	code := c.Params("code")

	var req services.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Code = code
	if err := h.validate(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	course, err := h.catalog.UpdateCourse(c.UserContext(), code, req)
	if err != nil {
		return response.FromError(c, err, "Failed to update course", courseNotFound)
	}
	h.invalidate(c, course.Code)

	return response.Success(c, course)
}

// DeleteCourse handles DELETE /api/v1/courses/:code
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	code := c.Params("code")

	if err := h.catalog.DeleteCourse(c.UserContext(), code); err != nil {
		return response.FromError(c, err, "Failed to delete course", courseNotFound)
	}
	h.invalidate(c, code)

	return response.NoContent(c)
}

func (h *CourseHandler) validate(req *services.CourseInput) error {
	req.Code = validation.SanitizeString(req.Code)
	req.Title = validation.SanitizeString(req.Title)
	req.Description = validation.SanitizeString(req.Description)
	return h.validator.ValidateStruct(req)
}

func (h *CourseHandler) invalidate(c *fiber.Ctx, code string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(c.UserContext(), code); err != nil {
		log.Warnf("invalidating cached course %s failed: %v", code, err)
	}
}
