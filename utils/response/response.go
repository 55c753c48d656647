package response

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Response is the envelope every JSON endpoint except the enrichment lookup
// answers with.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request. RequestID echoes the id assigned by
// the requestid middleware so a client report can be matched to the log line.
type ErrorDetail struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Success    bool           `json:"success"`
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

type statusInfo struct {
	code           string
	defaultMessage string
}

var statuses = map[int]statusInfo{
	fiber.StatusBadRequest:          {"BAD_REQUEST", "Bad request"},
	fiber.StatusUnauthorized:        {"UNAUTHORIZED", "Unauthorized access"},
	fiber.StatusForbidden:           {"FORBIDDEN", "Access forbidden"},
	fiber.StatusNotFound:            {"NOT_FOUND", "Resource not found"},
	fiber.StatusConflict:            {"CONFLICT", "Resource already exists"},
	fiber.StatusUnprocessableEntity: {"VALIDATION_ERROR", "Validation failed"},
	fiber.StatusTooManyRequests:     {"TOO_MANY_REQUESTS", "Too many requests"},
	fiber.StatusInternalServerError: {"INTERNAL_ERROR", "Internal server error"},
	fiber.StatusServiceUnavailable:  {"SERVICE_UNAVAILABLE", "Service temporarily unavailable"},
}

// Success returns a 200 response wrapping data.
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{Success: true, Data: data})
}

// Created returns a 201 Created response
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: "Resource created successfully",
		Data:    data,
	})
}

// NoContent returns a 204 No Content response
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Fail writes an error envelope for status. An empty message uses the
// status default.
func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	info, ok := statuses[status]
	if !ok {
		info = statusInfo{code: "ERROR", defaultMessage: "Request failed"}
	}
	if message == "" {
		message = info.defaultMessage
	}
	requestID, _ := c.Locals("requestid").(string)

	return c.Status(status).JSON(Response{
		Success: false,
		Error: &ErrorDetail{
			Code:      info.code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, message, nil)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusUnauthorized, message, nil)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusForbidden, message, nil)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, message, nil)
}

func Conflict(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusConflict, message, nil)
}

func TooManyRequests(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusTooManyRequests, message, nil)
}

// ValidationError returns a 422 response listing the failing fields.
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return Fail(c, fiber.StatusUnprocessableEntity, "", fields)
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, message, nil)
}

func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusServiceUnavailable, message, nil)
}

// ErrorRule maps errors matching Target (errors.Is) to Status. An empty
// Message sends err.Error() to the client.
type ErrorRule struct {
	Target  error
	Status  int
	Message string
}

// FromError writes the response for the first rule err matches. Unmatched
// errors are logged and answered with a 500 carrying fallback.
func FromError(c *fiber.Ctx, err error, fallback string, rules ...ErrorRule) error {
	for _, rule := range rules {
		if !errors.Is(err, rule.Target) {
			continue
		}
		message := rule.Message
		if message == "" {
			message = err.Error()
		}
		return Fail(c, rule.Status, message, nil)
	}

	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return Fail(c, fiber.StatusInternalServerError, fallback, nil)
}

// Paginated returns a paginated response
func Paginated(c *fiber.Ctx, data interface{}, pagination PaginationMeta) error {
	return c.Status(fiber.StatusOK).JSON(PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// PageParams reads ?page= and ?limit= and clamps them like CalculatePagination.
func PageParams(c *fiber.Ctx, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	meta := CalculatePagination(page, limit, 0)
	return meta.CurrentPage, meta.PerPage
}

// CalculatePagination clamps page to >= 1 and limit to 1..100 (10 when
// unset) and derives the page count.
func CalculatePagination(page, limit int, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  totalPages,
	}
}
