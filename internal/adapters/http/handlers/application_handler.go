package handlers

import (
	"errors"
	"strings"

	"quickpaisa-backend/internal/core/services"
	"quickpaisa-backend/internal/pkg/pagination"
	"quickpaisa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles loan application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// Apply handles a loan application submission
// @Summary Submit loan application
// @Description Evaluate eligibility and risk for a loan request and return the decision
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body services.ApplyInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	var input services.ApplyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	if input.PhoneNumber == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	result, err := h.applicationService.Apply(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Requested amount must be positive")
		case errors.Is(err, services.ErrProductNotFound):
			return response.NotFound(c, "Loan product not found")
		case errors.Is(err, services.ErrProductInactive):
			return response.BadRequest(c, "Loan product is not active")
		case errors.Is(err, services.ErrAmountOutOfRange):
			return response.BadRequest(c, "Requested amount outside product limits")
		default:
			return response.InternalServerError(c, "Failed to process application")
		}
	}

	return response.Created(c, "Application processed", result)
}

// Get handles getting one application
// @Summary Get application
// @Description Get a loan application by ID with its decision record
// @Tags Applications
// @Produce json
// @Param id path int true "Application ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to get application")
	}

	return response.Success(c, "Application retrieved successfully", app)
}

// GetByAppNo handles application lookup by number
// @Summary Get application by number
// @Description Get a loan application by its application number
// @Tags Applications
// @Produce json
// @Param appNo path string true "Application number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/number/{appNo} [get]
func (h *ApplicationHandler) GetByAppNo(c *fiber.Ctx) error {
	appNo := c.Params("appNo")
	if appNo == "" {
		return response.BadRequest(c, "Application number is required")
	}

	app, err := h.applicationService.GetByAppNo(c.Context(), appNo)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to get application")
	}

	return response.Success(c, "Application retrieved successfully", app)
}

// List handles listing applications
// @Summary List applications
// @Description List loan applications, optionally filtered by status
// @Tags Applications
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	apps, total, err := h.applicationService.List(c.Context(), status, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, "Applications retrieved successfully",
		pagination.NewResponse(apps, params, total))
}

// ListByApplicant handles listing one applicant's applications
// @Summary List applications by applicant
// @Description List all loan applications of one applicant
// @Tags Applications
// @Produce json
// @Param id path int true "Applicant ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applicants/{id}/applications [get]
func (h *ApplicationHandler) ListByApplicant(c *fiber.Ctx) error {
	applicantID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	apps, err := h.applicationService.ListByApplicant(c.Context(), applicantID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, "Applications retrieved successfully", apps)
}

// Approve handles manual approval
// @Summary Approve application
// @Description Approve an application that is under review
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body services.ReviewInput true "Review remark"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/approve [post]
func (h *ApplicationHandler) Approve(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	reviewerID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ReviewInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Approve(c.Context(), id, reviewerID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrApplicationNotOpen):
			return response.Conflict(c, "Application is not under review")
		default:
			return response.InternalServerError(c, "Failed to approve application")
		}
	}

	return response.Success(c, "Application approved successfully", app)
}

// Reject handles manual rejection
// @Summary Reject application
// @Description Reject an application that is under review
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param body body services.ReviewInput true "Review remark"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/reject [post]
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	reviewerID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ReviewInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Reject(c.Context(), id, reviewerID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrApplicationNotOpen):
			return response.Conflict(c, "Application is not under review")
		default:
			return response.InternalServerError(c, "Failed to reject application")
		}
	}

	return response.Success(c, "Application rejected successfully", app)
}
